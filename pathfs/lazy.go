// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"sync"
)

// lazy memoizes the first result of fn, including errors. Concurrent first
// callers block until fn returned and all observe the same result.
type lazy[T any] struct {
	mu    sync.Mutex
	fn    func() (T, error)
	done  bool
	value T
	err   error
}

func newLazy[T any](fn func() (T, error)) *lazy[T] {
	return &lazy[T]{fn: fn}
}

func (l *lazy[T]) get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.done {
		l.value, l.err = l.fn()
		l.done = true
		l.fn = nil
	}

	return l.value, l.err
}

// close ends the cell. It returns the value if it has been computed
// successfully. Later calls of get return [ErrClosed] unless a result was
// computed before.
func (l *lazy[T]) close() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.done {
		l.done = true
		l.err = ErrClosed
		l.fn = nil
	}

	return l.value, l.err == nil
}

// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

// Registry maps keys to live filesystems. Keys are scoped by the scheme of
// the provider owning the filesystem, so there is at most one filesystem per
// scheme and key. A Registry is safe for concurrent use.
type Registry struct {
	mu          sync.Mutex
	filesystems map[registryKey]*FS
}

type registryKey struct {
	scheme string
	key    string
}

// NewRegistry creates a new empty [Registry].
func NewRegistry() *Registry {
	return &Registry{
		filesystems: make(map[registryKey]*FS),
	}
}

// Lookup returns the filesystem registered with the given scheme and key. It
// returns a [*LookupError] if there is none.
func (r *Registry) Lookup(scheme, key string) (*FS, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fsys, exists := r.filesystems[registryKey{scheme, key}]
	if !exists {
		return nil, &LookupError{
			Key:   key,
			Known: r.keys(scheme),
		}
	}

	return fsys, nil
}

// Keys returns all keys registered for the given scheme in sorted order.
func (r *Registry) Keys(scheme string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.keys(scheme)
}

func (r *Registry) keys(scheme string) []string {
	var keys []string

	for entry := range r.filesystems {
		if entry.scheme == scheme {
			keys = append(keys, entry.key)
		}
	}

	slices.Sort(keys)

	return keys
}

// Len returns the number of registered filesystems of all schemes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.filesystems)
}

// Close closes all registered filesystems.
func (r *Registry) Close() error {
	r.mu.Lock()
	filesystems := slices.Collect(maps.Values(r.filesystems))
	r.mu.Unlock()

	errs := make([]error, 0, len(filesystems))
	for _, fsys := range filesystems {
		errs = append(errs, fsys.Close())
	}

	return errors.Join(errs...)
}

// getOrCreate returns the filesystem registered with scheme and key. If
// there is none, it registers the one returned by create.
func (r *Registry) getOrCreate(scheme, key string, create func() *FS) *FS {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := registryKey{scheme, key}
	if fsys, exists := r.filesystems[entry]; exists {
		return fsys
	}

	fsys := create()
	r.filesystems[entry] = fsys

	return fsys
}

// register registers fsys if its key is not taken yet. It returns false if it
// is.
func (r *Registry) register(fsys *FS) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := fsys.registryKey()
	if _, exists := r.filesystems[entry]; exists {
		return false
	}

	r.filesystems[entry] = fsys

	return true
}

// remove unregisters fsys. Another filesystem registered with the same key is
// kept.
func (r *Registry) remove(fsys *FS) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := fsys.registryKey()
	if r.filesystems[entry] == fsys {
		delete(r.filesystems, entry)
	}
}

// lookup returns the filesystem registered with scheme and key, if any.
func (r *Registry) lookup(scheme, key string) (*FS, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fsys, exists := r.filesystems[registryKey{scheme, key}]

	return fsys, exists
}

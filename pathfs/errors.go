// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	// ErrNotApplicable is returned by providers that can not serve a request
	// and let the caller try another provider.
	ErrNotApplicable = errors.New("provider not applicable")

	// ErrMissingTarget is returned if the environment of a new filesystem
	// does not name a target.
	ErrMissingTarget = fmt.Errorf("%w: missing target option %q",
		ErrNotApplicable, TargetOption)

	// ErrInvalidTarget is returned for target values of unsupported types.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrMalformedURI is returned for URIs that can not be parsed by a
	// provider.
	ErrMalformedURI = errors.New("malformed uri")

	// ErrUnknownScheme is returned by [Router] if no provider serves the
	// scheme of an URI.
	ErrUnknownScheme = errors.New("unknown scheme")

	// ErrMultipleRoots is returned if a delegate archive has more or less
	// than one root directory.
	ErrMultipleRoots = errors.New("delegate must have exactly one root")

	// ErrUnsupported is returned by all mutating operations.
	ErrUnsupported = errors.ErrUnsupported

	// ErrReadOnly is returned if write access is requested.
	ErrReadOnly = errors.New("read-only file system")

	// ErrIndexOutOfRange is returned for invalid name indexes.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrWrongFileSystem is returned if a path of another filesystem is used.
	ErrWrongFileSystem = errors.New("path belongs to another filesystem")

	// ErrClosed is returned by operations on closed filesystems.
	ErrClosed = fs.ErrClosed
)

// PathError records an error and the operation and path that caused it.
type PathError = fs.PathError

// LookupError is returned if no filesystem is registered for a key.
type LookupError struct {
	URI   string
	Key   string
	Known []string
}

// Error implements the [error] interface.
func (e *LookupError) Error() string {
	var msg strings.Builder

	msg.WriteString("unknown filesystem")

	if e.URI != "" {
		msg.WriteString(" " + e.URI)
	}

	fmt.Fprintf(&msg, ": owner %q", e.Key)

	if len(e.Known) > 0 {
		msg.WriteString(", known: " + strings.Join(e.Known, ", "))
	}

	return msg.String()
}

// Is matches [fs.ErrNotExist] so callers can treat unknown filesystems like
// missing files.
func (*LookupError) Is(other error) bool {
	return other == fs.ErrNotExist
}

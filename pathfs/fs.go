// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aibor/jijfs/internal/archive"
)

const (
	basicView  = "basic"
	writeFlags = os.O_WRONLY | os.O_RDWR | os.O_APPEND | os.O_CREATE |
		os.O_TRUNC | os.O_EXCL
)

// Delegate is the read-only archive filesystem a [FS] delegates its I/O to.
// It must have exactly one root directory.
type Delegate interface {
	fs.ReadDirFS
	fs.StatFS
	io.Closer

	// Roots returns the root directories of the archive.
	Roots() []string
}

// Opener opens the [Delegate] of a [Target].
type Opener func(target Target) (Delegate, error)

// OpenArchive is the default [Opener]. It opens zip and cpio archives and
// directories on disk, and zip and cpio archives nested in other filesystems.
// Nested archives are read into memory.
func OpenArchive(target Target) (Delegate, error) {
	switch target := target.(type) {
	case DiskTarget:
		return archive.OpenFile(string(target)) //nolint:wrapcheck
	case Path:
		data, err := target.fsys.ReadFile(target)
		if err != nil {
			return nil, err
		}

		return archive.Open(target.String(), bytes.NewReader(data), //nolint:wrapcheck
			int64(len(data)))
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidTarget, target)
	}
}

// AccessMode is a bit set of access permissions checked by [FS.CheckAccess].
type AccessMode uint8

// Access modes.
const (
	AccessRead AccessMode = 1 << iota
	AccessWrite
	AccessExecute
)

// Attributes are the basic attributes of a file.
type Attributes struct {
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

// IsDir reports whether the file is a directory.
func (a Attributes) IsDir() bool { return a.Mode.IsDir() }

// IsRegular reports whether the file is a regular file.
func (a Attributes) IsRegular() bool { return a.Mode.IsRegular() }

// IsSymlink reports whether the file is a symbolic link.
func (a Attributes) IsSymlink() bool { return a.Mode&fs.ModeSymlink != 0 }

// DirFilter selects the entries returned by [FS.ReadDir].
type DirFilter func(entry Path) bool

// FS is a read-only virtual filesystem over the archive at its target.
//
// The archive is opened on first access of a path other than the root. The
// root path itself refers to the target, so reading the root returns the
// whole archive. An FS is safe for concurrent use.
type FS struct {
	provider  provider
	key       string
	target    Target
	root      Path
	delegate  *lazy[Delegate]
	innerRoot *lazy[string]

	mu     sync.Mutex
	closed bool
}

func newFS(owner provider, key string, target Target) *FS {
	fsys := &FS{
		provider: owner,
		key:      key,
		target:   target,
	}

	fsys.root = newPath(fsys, []element{rootMarker})

	opener := owner.settings().opener
	fsys.delegate = newLazy(func() (Delegate, error) {
		return opener(target)
	})
	fsys.innerRoot = newLazy(func() (string, error) {
		delegate, err := fsys.delegate.get()
		if err != nil {
			return "", err
		}

		roots := delegate.Roots()
		if len(roots) != 1 {
			return "", fmt.Errorf("%w: %s has %d roots", ErrMultipleRoots,
				target, len(roots))
		}

		return roots[0], nil
	})

	return fsys
}

// Root returns the root path.
func (fsys *FS) Root() Path {
	return fsys.root
}

// Key returns the key the filesystem is registered with.
func (fsys *FS) Key() string {
	return fsys.key
}

// Target returns the location of the archive.
func (fsys *FS) Target() Target {
	return fsys.target
}

// Provider returns the provider that created the filesystem.
func (fsys *FS) Provider() FileSystemProvider {
	return fsys.provider
}

// Separator returns the name separator.
func (*FS) Separator() string {
	return Separator
}

// IsReadOnly reports whether the filesystem is read-only, which it always
// is.
func (*FS) IsReadOnly() bool {
	return true
}

// SupportedAttributeViews returns the attribute views of
// [FS.ReadAttributes].
func (*FS) SupportedAttributeViews() []string {
	return []string{basicView}
}

// IsOpen reports whether the filesystem has not been closed yet.
func (fsys *FS) IsOpen() bool {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	return !fsys.closed
}

// Close closes the delegate, if it has been opened, and removes the
// filesystem from its registry. Subsequent calls do nothing.
func (fsys *FS) Close() error {
	fsys.mu.Lock()

	if fsys.closed {
		fsys.mu.Unlock()
		return nil
	}

	fsys.closed = true
	fsys.mu.Unlock()

	var err error

	if delegate, opened := fsys.delegate.close(); opened {
		err = delegate.Close()
	}

	fsys.provider.settings().registry.remove(fsys)

	if err != nil {
		return fmt.Errorf("close %s: %w", fsys.key, err)
	}

	return nil
}

func (fsys *FS) registryKey() registryKey {
	return registryKey{scheme: fsys.provider.Scheme(), key: fsys.key}
}

// Path parses the given names joined by [Separator] into a [Path].
func (fsys *FS) Path(first string, more ...string) Path {
	return fsys.parse(strings.Join(append([]string{first}, more...), Separator))
}

func (fsys *FS) parse(raw string) Path {
	return newPath(fsys, fsys.provider.adaptElems(raw, splitElements(raw)))
}

// rooted returns the absolute path with the names of p.
func (fsys *FS) rooted(p Path) Path {
	return newPath(fsys, append([]element{rootMarker}, p.names()...))
}

// Open opens the file at the given path for reading.
func (fsys *FS) Open(p Path) (fs.File, error) {
	openDelegate := func(d Delegate, name string) (fs.File, error) {
		return d.Open(name) //nolint:wrapcheck
	}

	return do(fsys, "open", p, openTarget, openDelegate)
}

// OpenFile opens the file at the given path. Any flag requesting write
// access results in [ErrReadOnly].
func (fsys *FS) OpenFile(p Path, flag int) (fs.File, error) {
	if flag&writeFlags != 0 {
		return nil, newPathError("open", p, ErrReadOnly)
	}

	return fsys.Open(p)
}

// ReadFile returns the content of the file at the given path.
func (fsys *FS) ReadFile(p Path) ([]byte, error) {
	readDelegate := func(d Delegate, name string) ([]byte, error) {
		return fs.ReadFile(d, name) //nolint:wrapcheck
	}

	return do(fsys, "read", p, readTarget, readDelegate)
}

// Stat returns the [fs.FileInfo] of the file at the given path.
func (fsys *FS) Stat(p Path) (fs.FileInfo, error) {
	statDelegate := func(d Delegate, name string) (fs.FileInfo, error) {
		return d.Stat(name) //nolint:wrapcheck
	}

	return do(fsys, "stat", p, statTarget, statDelegate)
}

// ReadAttributes returns the attributes of the given view of the file at the
// given path. Only the "basic" view is supported, which is also used for
// the empty view name.
func (fsys *FS) ReadAttributes(p Path, view string) (Attributes, error) {
	if view != "" && view != basicView {
		return Attributes{}, newPathError("readattributes", p,
			fmt.Errorf("%w: attribute view %q", ErrUnsupported, view))
	}

	info, err := fsys.Stat(p)
	if err != nil {
		return Attributes{}, err
	}

	return Attributes{
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
	}, nil
}

// CheckAccess checks that the file at the given path exists and can be
// accessed with all given modes. Write access is never granted.
func (fsys *FS) CheckAccess(p Path, modes ...AccessMode) error {
	var mode AccessMode
	for _, m := range modes {
		mode |= m
	}

	if mode&AccessWrite != 0 {
		return newPathError("access", p, ErrReadOnly)
	}

	checkTarget := func(target Target) (struct{}, error) {
		switch target := target.(type) {
		case DiskTarget:
			return struct{}{}, checkDiskAccess(string(target), mode)
		case Path:
			return struct{}{}, target.fsys.CheckAccess(target, mode)
		default:
			return struct{}{}, ErrInvalidTarget
		}
	}

	checkDelegate := func(d Delegate, name string) (struct{}, error) {
		info, err := d.Stat(name)
		if err != nil {
			return struct{}{}, err //nolint:wrapcheck
		}

		executable := info.IsDir() || info.Mode().Perm()&0o111 != 0
		if mode&AccessExecute != 0 && !executable {
			return struct{}{}, fs.ErrPermission
		}

		return struct{}{}, nil
	}

	_, err := do(fsys, "access", p, checkTarget, checkDelegate)

	return err
}

// ReadDir returns the entries of the directory at the given path as absolute
// paths for which filter returns true. A nil filter accepts all entries.
//
// Listing is best effort: if the directory can not be read, the error is
// logged and an empty list is returned. Reading the root lists the root
// directory of the archive.
func (fsys *FS) ReadDir(p Path, filter DirFilter) []Path {
	logger := fsys.provider.settings().logger

	delegate, name, err := fsys.resolve(p)
	if err != nil {
		logger.Debug("list directory", "path", p.String(), "error", err)
		return []Path{}
	}

	entries, err := delegate.ReadDir(name)
	if err != nil {
		logger.Debug("list directory", "path", p.String(), "error", err)
		return []Path{}
	}

	dir := fsys.rooted(p)
	paths := make([]Path, 0, len(entries))

	for _, entry := range entries {
		elems := append(slices.Clone(dir.elems), element{name: entry.Name()})

		child := newPath(fsys, elems)
		if filter == nil || filter(child) {
			paths = append(paths, child)
		}
	}

	return paths
}

// CreateDirectory is not supported.
func (*FS) CreateDirectory(p Path) error {
	return newPathError("mkdir", p, ErrUnsupported)
}

// Delete is not supported.
func (*FS) Delete(p Path) error {
	return newPathError("delete", p, ErrUnsupported)
}

// Copy is not supported.
func (*FS) Copy(src, _ Path) error {
	return newPathError("copy", src, ErrUnsupported)
}

// Move is not supported.
func (*FS) Move(src, _ Path) error {
	return newPathError("move", src, ErrUnsupported)
}

// NewWatchService is not supported.
func (fsys *FS) NewWatchService() error {
	return fmt.Errorf("watch %s: %w", fsys.key, ErrUnsupported)
}

// PathMatcher is not supported.
func (*FS) PathMatcher(pattern string) (func(Path) bool, error) {
	return nil, fmt.Errorf("path matcher %q: %w", pattern, ErrUnsupported)
}

func (fsys *FS) check(p Path) error {
	if !fsys.IsOpen() {
		return ErrClosed
	}

	if p.fsys != fsys {
		return ErrWrongFileSystem
	}

	return nil
}

// resolve opens the delegate and returns the name of p in it.
func (fsys *FS) resolve(p Path) (Delegate, string, error) {
	if err := fsys.check(p); err != nil {
		return nil, "", err
	}

	delegate, err := fsys.delegate.get()
	if err != nil {
		return nil, "", err
	}

	innerRoot, err := fsys.innerRoot.get()
	if err != nil {
		return nil, "", err
	}

	return delegate, path.Join(innerRoot, joinElements(p.names())), nil
}

// do runs onTarget for the root path and onDelegate for all other paths.
// Errors are returned as [PathError] with the path p.
func do[T any](
	fsys *FS,
	op string,
	p Path,
	onTarget func(Target) (T, error),
	onDelegate func(Delegate, string) (T, error),
) (T, error) {
	var (
		result T
		err    error
	)

	if p.isRoot() {
		err = fsys.check(p)
		if err == nil {
			result, err = onTarget(fsys.target)
		}
	} else {
		var (
			delegate Delegate
			name     string
		)

		delegate, name, err = fsys.resolve(p)
		if err == nil {
			result, err = onDelegate(delegate, name)

			// The delegate's name of the file is replaced by p.
			if pathErr, ok := err.(*PathError); ok { //nolint:errorlint
				err = pathErr.Err
			}
		}
	}

	if err != nil {
		var zero T
		return zero, newPathError(op, p, err)
	}

	return result, nil
}

func newPathError(op string, p Path, err error) error {
	return &PathError{
		Op:   op,
		Path: p.String(),
		Err:  err,
	}
}

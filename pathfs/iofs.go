// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"io/fs"
)

var (
	_ fs.FS         = (*IOFS)(nil)
	_ fs.ReadDirFS  = (*IOFS)(nil)
	_ fs.ReadFileFS = (*IOFS)(nil)
	_ fs.StatFS     = (*IOFS)(nil)
)

// IOFS is an [fs.FS] view of the archive of a [FS]. Names are relative to
// the root directory of the archive, so "." is the archive's root directory
// and not the target itself.
type IOFS struct {
	fsys *FS
}

// IOFS returns the [fs.FS] view of the filesystem.
func (fsys *FS) IOFS() *IOFS {
	return &IOFS{fsys: fsys}
}

// Open implements [fs.FS].
func (v *IOFS) Open(name string) (fs.File, error) {
	delegate, inner, err := v.resolve("open", name)
	if err != nil {
		return nil, err
	}

	return delegate.Open(inner) //nolint:wrapcheck
}

// ReadDir implements [fs.ReadDirFS].
func (v *IOFS) ReadDir(name string) ([]fs.DirEntry, error) {
	delegate, inner, err := v.resolve("readdir", name)
	if err != nil {
		return nil, err
	}

	return delegate.ReadDir(inner) //nolint:wrapcheck
}

// ReadFile implements [fs.ReadFileFS].
func (v *IOFS) ReadFile(name string) ([]byte, error) {
	delegate, inner, err := v.resolve("read", name)
	if err != nil {
		return nil, err
	}

	return fs.ReadFile(delegate, inner) //nolint:wrapcheck
}

// Stat implements [fs.StatFS].
func (v *IOFS) Stat(name string) (fs.FileInfo, error) {
	delegate, inner, err := v.resolve("stat", name)
	if err != nil {
		return nil, err
	}

	return delegate.Stat(inner) //nolint:wrapcheck
}

func (v *IOFS) resolve(op, name string) (Delegate, string, error) {
	if !fs.ValidPath(name) {
		return nil, "", &PathError{
			Op:   op,
			Path: name,
			Err:  fs.ErrInvalid,
		}
	}

	delegate, inner, err := v.fsys.resolve(v.fsys.rooted(v.fsys.Path(name)))
	if err != nil {
		return nil, "", &PathError{
			Op:   op,
			Path: name,
			Err:  err,
		}
	}

	return delegate, inner, nil
}

// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"io/fs"
	"os"
)

var _ FS = (*dirFS)(nil)

// dirFS is a plain directory on disk.
type dirFS struct {
	fs.FS
}

// OpenDir opens the directory dir as [FS]. Symbolic links pointing outside
// of dir are followed, as [os.DirFS] does.
func OpenDir(dir string) (FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if !info.IsDir() {
		return nil, &fs.PathError{
			Op:   "open dir",
			Path: dir,
			Err:  ErrNotDir,
		}
	}

	return &dirFS{os.DirFS(dir)}, nil
}

func (d *dirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(d.FS, name) //nolint:wrapcheck
}

func (d *dirFS) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(d.FS, name) //nolint:wrapcheck
}

func (*dirFS) Roots() []string {
	return []string{rootDir}
}

func (*dirFS) Close() error {
	return nil
}

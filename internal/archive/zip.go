// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
)

var _ FS = (*zipFS)(nil)

// zipFS is a zip archive. Directories not present as explicit entries are
// synthesized by [zip.Reader].
type zipFS struct {
	reader *zip.Reader
}

func openZip(r io.ReaderAt, size int64) (*zipFS, error) {
	reader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read zip: %w", err)
	}

	return &zipFS{reader: reader}, nil
}

func (z *zipFS) Open(name string) (fs.File, error) {
	return z.reader.Open(name) //nolint:wrapcheck
}

func (z *zipFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(z.reader, name) //nolint:wrapcheck
}

func (z *zipFS) Stat(name string) (fs.FileInfo, error) {
	return statFS(z.reader, name)
}

func (*zipFS) Roots() []string {
	return []string{rootDir}
}

func (*zipFS) Close() error {
	return nil
}

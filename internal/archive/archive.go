// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const rootDir = "."

var (
	zipMagic      = []byte("PK")
	cpioNewcMagic = []byte("070701")
	cpioCRCMagic  = []byte("070702")
)

// FS is a read-only archive filesystem.
type FS interface {
	fs.ReadDirFS
	fs.StatFS
	io.Closer

	// Roots returns the root directories of the archive.
	Roots() []string
}

// Format is the detected format of an archive.
type Format int

// Supported archive formats.
const (
	FormatUnknown Format = iota
	FormatZip
	FormatCPIO
)

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatCPIO:
		return "cpio"
	default:
		return "unknown"
	}
}

// Detect returns the [Format] of the archive read by r.
func Detect(r io.ReaderAt) Format {
	magic := make([]byte, len(cpioNewcMagic))

	n, _ := r.ReadAt(magic, 0)
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, zipMagic):
		return FormatZip
	case bytes.HasPrefix(magic, cpioNewcMagic),
		bytes.HasPrefix(magic, cpioCRCMagic):
		return FormatCPIO
	default:
		return FormatUnknown
	}
}

// Open opens the archive of the given size read by r. The name is used in
// error messages only.
//
// The caller remains responsible for r. It must stay readable until the
// returned [FS] is closed.
func Open(name string, r io.ReaderAt, size int64) (FS, error) {
	var (
		fsys FS
		err  error
	)

	switch Detect(r) {
	case FormatZip:
		fsys, err = openZip(r, size)
	case FormatCPIO:
		fsys, err = openCPIO(io.NewSectionReader(r, 0, size))
	default:
		err = ErrUnknownFormat
	}

	if err != nil {
		return nil, &fs.PathError{
			Op:   "open archive",
			Path: name,
			Err:  err,
		}
	}

	return fsys, nil
}

// OpenFile opens the archive file with the given name on disk. If name is a
// directory, it is opened with [OpenDir].
func OpenFile(name string) (FS, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err //nolint:wrapcheck
	}

	if info.IsDir() {
		_ = file.Close()
		return OpenDir(name)
	}

	fsys, err := Open(name, file, info.Size())
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	return &fileFS{FS: fsys, file: file}, nil
}

// fileFS owns the file an [FS] reads from.
type fileFS struct {
	FS

	file *os.File
}

func (f *fileFS) Close() error {
	return errors.Join(f.FS.Close(), f.file.Close())
}

func statFS(fsys fs.FS, name string) (fs.FileInfo, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}

	return info, nil
}

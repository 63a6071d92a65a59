// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"bytes"
	"io"
	"io/fs"
	"maps"
	"path"
	"slices"
	"time"
)

type file interface {
	open(entry dirEntry) fs.File
	mode() fs.FileMode
	size() int64
	modTime() time.Time
}

var (
	_ fs.FileInfo = (*fileInfo)(nil)
	_ fs.DirEntry = (*dirEntry)(nil)
)

type dirEntry struct {
	name string
	file file
}

func (e *dirEntry) Name() string      { return path.Base(e.name) }
func (e *dirEntry) Type() fs.FileMode { return e.file.mode().Type() }
func (e *dirEntry) IsDir() bool       { return e.file.mode().IsDir() }
func (e *dirEntry) String() string    { return fs.FormatDirEntry(e) }

func (e *dirEntry) Info() (fs.FileInfo, error) {
	return &fileInfo{dirEntry: *e}, nil
}

type fileInfo struct {
	dirEntry
}

func (i *fileInfo) Size() int64        { return i.file.size() }
func (i *fileInfo) Mode() fs.FileMode  { return i.file.mode() }
func (i *fileInfo) ModTime() time.Time { return i.file.modTime() }
func (i *fileInfo) Sys() any           { return nil }
func (i *fileInfo) String() string     { return fs.FormatFileInfo(i) }

var (
	_ fs.File        = (*openFile)(nil)
	_ fs.ReadDirFile = (*openFile)(nil)
	_ io.ReaderAt    = (*openFile)(nil)
	_ io.Seeker      = (*openFile)(nil)
)

type openFile struct {
	info    fileInfo
	reader  *bytes.Reader
	entries []fs.DirEntry
	offset  int
}

// Stat implements [fs.File].
func (f *openFile) Stat() (fs.FileInfo, error) {
	return &f.info, nil
}

// Read implements [fs.File].
func (f *openFile) Read(b []byte) (int, error) {
	if f.reader == nil {
		return 0, ErrFileInvalid
	}

	return f.reader.Read(b) //nolint:wrapcheck
}

// ReadAt implements [io.ReaderAt].
func (f *openFile) ReadAt(b []byte, off int64) (int, error) {
	if f.reader == nil {
		return 0, ErrFileInvalid
	}

	return f.reader.ReadAt(b, off) //nolint:wrapcheck
}

// Seek implements [io.Seeker].
func (f *openFile) Seek(offset int64, whence int) (int64, error) {
	if f.reader == nil {
		return 0, ErrFileInvalid
	}

	return f.reader.Seek(offset, whence) //nolint:wrapcheck
}

// Close implements [fs.File]. Content lives in memory, so there is nothing to
// release.
func (*openFile) Close() error {
	return nil
}

// ReadDir implements [fs.ReadDirFile].
func (f *openFile) ReadDir(count int) ([]fs.DirEntry, error) {
	if !f.info.IsDir() {
		return nil, ErrFileNotDir
	}

	start := f.offset
	end := len(f.entries)
	available := end - start

	if available == 0 && count > 0 {
		return nil, io.EOF
	}

	if count > 0 && available > count {
		end = start + count
	}

	f.offset = end

	return f.entries[start:end], nil
}

var _ file = (*regularFile)(nil)

type regularFile struct {
	data  []byte
	perm  fs.FileMode
	mtime time.Time
}

func (f *regularFile) mode() fs.FileMode  { return f.perm.Perm() }
func (f *regularFile) size() int64        { return int64(len(f.data)) }
func (f *regularFile) modTime() time.Time { return f.mtime }

func (f *regularFile) open(info dirEntry) fs.File {
	return &openFile{
		info:   fileInfo{dirEntry: info},
		reader: bytes.NewReader(f.data),
	}
}

var _ file = symbolicLink("")

type symbolicLink string

func (symbolicLink) mode() fs.FileMode  { return defaultFileMode | fs.ModeSymlink }
func (l symbolicLink) size() int64      { return int64(len(l)) }
func (symbolicLink) modTime() time.Time { return time.Time{} }

func (l symbolicLink) open(info dirEntry) fs.File {
	return &openFile{
		info:   fileInfo{dirEntry: info},
		reader: bytes.NewReader([]byte(l)),
	}
}

var _ file = (*directory)(nil)

type directory map[string]file

func (*directory) mode() fs.FileMode  { return defaultDirMode | fs.ModeDir }
func (*directory) size() int64        { return 0 }
func (*directory) modTime() time.Time { return time.Time{} }

func (d *directory) open(info dirEntry) fs.File {
	return &openFile{
		info:    fileInfo{dirEntry: info},
		entries: d.entries(),
	}
}

func (d *directory) entries() []fs.DirEntry {
	entries := make([]fs.DirEntry, 0, len(*d))

	for _, name := range slices.Sorted(maps.Keys(*d)) {
		entries = append(entries, &dirEntry{
			name: name,
			file: (*d)[name],
		})
	}

	return entries
}

func (d *directory) add(name string, file file) error {
	if name == "." || name == "" {
		return ErrFileExist
	}

	_, exists := (*d)[name]
	if exists {
		return ErrFileExist
	}

	(*d)[name] = file

	return nil
}

// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package virtfs

import (
	"io/fs"
	"path"
	"strings"
	"time"
)

const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
	symlinkDepth    = 10
)

// Attr holds the metadata a regular file is added with.
type Attr struct {
	Mode    fs.FileMode
	ModTime time.Time
}

var (
	_ fs.FS         = (*FS)(nil)
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.StatFS     = (*FS)(nil)
	_ fs.ReadLinkFS = (*FS)(nil)
)

// FS represents a simple [fs.FS] that supports directories, regular files and
// symbolic links.
//
// Regular files are added with [FS.Add]. Symbolic links are added with
// [FS.Symlink]. Use [FS.Mkdir] or [FS.MkdirAll] to create any required
// directories beforehand.
type FS struct {
	root directory
}

// New creates a new empty [FS].
func New() *FS {
	return &FS{
		root: make(directory),
	}
}

// Open opens the named file.
//
// It returns a [PathError] in case of errors. Symbolic links are followed.
func (fsys *FS) Open(name string) (fs.File, error) {
	file, err := fsys.open(name, true)
	if err != nil {
		return nil, &PathError{
			Op:   "open",
			Path: name,
			Err:  err,
		}
	}

	return file, nil
}

// ReadDir returns the sorted entries of the named directory.
func (fsys *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	dir, err := fsys.subDir(name)
	if err != nil {
		return nil, &PathError{
			Op:   "readdir",
			Path: name,
			Err:  err,
		}
	}

	return dir.entries(), nil
}

// Stat returns information about the named file. Symbolic links are
// followed.
func (fsys *FS) Stat(name string) (fs.FileInfo, error) {
	dEntry, err := fsys.find(name, symlinkDepth)
	if err != nil {
		return nil, &PathError{
			Op:   "stat",
			Path: name,
			Err:  err,
		}
	}

	return &fileInfo{dirEntry: dEntry}, nil
}

// ReadLink returns the target of the symbolic link with the given name.
//
// It returns a [PathError] in case of errors. It returns ErrFileInvalid in
// case the file is not a symbolic link.
func (fsys *FS) ReadLink(name string) (string, error) {
	dEntry, err := fsys.findNoFollow(name, symlinkDepth)
	if err != nil {
		return "", &PathError{
			Op:   "readlink",
			Path: name,
			Err:  err,
		}
	}

	symlink, isSymlink := dEntry.file.(symbolicLink)
	if !isSymlink {
		return "", &PathError{
			Op:   "readlink",
			Path: name,
			Err:  ErrFileInvalid,
		}
	}

	return string(symlink), nil
}

// Lstat returns information about the file with the given name without
// following symbolic links.
func (fsys *FS) Lstat(name string) (fs.FileInfo, error) {
	dEntry, err := fsys.findNoFollow(name, symlinkDepth)
	if err != nil {
		return nil, &PathError{
			Op:   "lstat",
			Path: name,
			Err:  err,
		}
	}

	return &fileInfo{dirEntry: dEntry}, nil
}

// Mkdir creates a new directory with the given name.
//
// It returns [PathError] in case of errors.
func (fsys *FS) Mkdir(name string) error {
	parentName, dirName := path.Split(clean(name))

	parent, err := fsys.subDir(clean(parentName))
	if err != nil {
		return &PathError{
			Op:   "mkdir",
			Path: name,
			Err:  err,
		}
	}

	err = parent.add(dirName, &directory{})
	if err != nil {
		return &PathError{
			Op:   "mkdir",
			Path: name,
			Err:  err,
		}
	}

	return nil
}

// MkdirAll creates a directory with the given name along with all necessary
// parents.
//
// If the directory exists already, it does nothing and returns nil.
func (fsys *FS) MkdirAll(name string) error {
	cleaned := clean(name)
	if cleaned == "." {
		return nil
	}

	dEntry, err := fsys.find(cleaned, symlinkDepth)
	if err == nil {
		if dEntry.IsDir() {
			return nil
		}

		return &PathError{
			Op:   "mkdir",
			Path: name,
			Err:  ErrFileNotDir,
		}
	}

	err = fsys.MkdirAll(path.Dir(cleaned))
	if err != nil {
		return err
	}

	return fsys.Mkdir(cleaned)
}

// Add creates a new regular file with the given name and content. Parent
// directories must exist.
func (fsys *FS) Add(name string, data []byte, attr Attr) error {
	err := fsys.add(name, &regularFile{
		data:  data,
		perm:  attr.Mode,
		mtime: attr.ModTime,
	})
	if err != nil {
		return &PathError{
			Op:   "add",
			Path: name,
			Err:  err,
		}
	}

	return nil
}

// Symlink adds a new symbolic link that links to oldname at newname.
func (fsys *FS) Symlink(oldname, newname string) error {
	err := fsys.add(newname, symbolicLink(oldname))
	if err != nil {
		return &PathError{
			Op:   "symlink",
			Path: newname,
			Err:  err,
		}
	}

	return nil
}

func (fsys *FS) subDir(name string) (*directory, error) {
	dEntry, err := fsys.find(clean(name), symlinkDepth)
	if err != nil {
		return nil, err
	}

	dir, isDir := dEntry.file.(*directory)
	if !isDir {
		return nil, ErrFileNotDir
	}

	return dir, nil
}

func (fsys *FS) add(name string, file file) error {
	dirName, fileName := path.Split(clean(name))

	parent, err := fsys.subDir(clean(dirName))
	if err != nil {
		return err
	}

	return parent.add(fileName, file)
}

func (fsys *FS) open(name string, follow bool) (fs.File, error) {
	findFn := fsys.findNoFollow
	if follow {
		findFn = fsys.find
	}

	dEntry, err := findFn(name, symlinkDepth)
	if err != nil {
		return nil, err
	}

	return dEntry.file.open(dEntry), nil
}

func (fsys *FS) find(name string, depth uint) (dirEntry, error) {
	dEntry, err := fsys.findNoFollow(name, depth)
	if err != nil {
		return dirEntry{}, err
	}

	target, err := fsys.follow(dEntry, depth)
	if err != nil {
		return dirEntry{}, err
	}

	target.name = dEntry.name

	return target, nil
}

func (fsys *FS) findNoFollow(name string, depth uint) (dirEntry, error) {
	dEntry := dirEntry{".", &fsys.root}

	if name == "" || name == "." {
		return dEntry, nil
	}

	if !fs.ValidPath(name) {
		return dirEntry{}, ErrFileInvalid
	}

	for elem := range strings.SplitSeq(name, "/") {
		var err error

		dEntry, err = fsys.follow(dEntry, depth)
		if err != nil {
			return dirEntry{}, err
		}

		dir, isDir := dEntry.file.(*directory)
		if !isDir {
			return dirEntry{}, ErrFileNotExist
		}

		next, exists := (*dir)[elem]
		if !exists {
			return dirEntry{}, ErrFileNotExist
		}

		dEntry = dirEntry{path.Join(dEntry.name, elem), next}
	}

	return dEntry, nil
}

func (fsys *FS) follow(dEntry dirEntry, depth uint) (dirEntry, error) {
	symlink, isSymlink := dEntry.file.(symbolicLink)
	if !isSymlink {
		return dEntry, nil
	}

	if depth == 0 {
		return dirEntry{}, ErrSymlinkTooDeep
	}

	depth--

	target := string(symlink)
	if !path.IsAbs(target) {
		target = path.Join(path.Dir(dEntry.name), target)
	}

	return fsys.find(clean(target), depth)
}

func clean(name string) string {
	name = path.Clean("/" + name)
	if name == "/" {
		return "."
	}

	return strings.TrimPrefix(name, "/")
}

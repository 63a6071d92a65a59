// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/cavaliergopher/cpio"

	"github.com/aibor/jijfs/internal/virtfs"
)

const cpioTrailer = "TRAILER!!!"

var _ FS = (*cpioFS)(nil)

// cpioFS is a decoded cpio archive. The whole archive is read into a
// [virtfs.FS] when opened.
type cpioFS struct {
	*virtfs.FS
}

func openCPIO(r io.Reader) (*cpioFS, error) {
	fsys := virtfs.New()
	reader := cpio.NewReader(r)

	for {
		hdr, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read cpio header: %w", err)
		}

		if err := addCPIOEntry(fsys, hdr, reader); err != nil {
			return nil, err
		}
	}

	return &cpioFS{fsys}, nil
}

func addCPIOEntry(fsys *virtfs.FS, hdr *cpio.Header, body io.Reader) error {
	name := cpioEntryName(hdr.Name)
	if name == "." || hdr.Name == cpioTrailer {
		return nil
	}

	mode := hdr.FileInfo().Mode()

	// Archives may omit parent directory entries.
	if err := fsys.MkdirAll(path.Dir(name)); err != nil {
		return fmt.Errorf("add parents of %s: %w", name, err)
	}

	switch mode.Type() {
	case fs.ModeDir:
		return fsys.MkdirAll(name)
	case fs.ModeSymlink:
		return fsys.Symlink(hdr.Linkname, name)
	case 0:
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("read body of %s: %w", name, err)
		}

		return fsys.Add(name, data, virtfs.Attr{
			Mode:    mode.Perm(),
			ModTime: hdr.ModTime,
		})
	default:
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedEntry, name, mode.Type())
	}
}

func cpioEntryName(name string) string {
	name = path.Clean("/" + name)
	if name == "/" {
		return "."
	}

	return strings.TrimPrefix(name, "/")
}

func (*cpioFS) Roots() []string {
	return []string{rootDir}
}

func (*cpioFS) Close() error {
	return nil
}

// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package archive

import (
	"errors"
)

var (
	// ErrUnknownFormat is returned if the content matches none of the
	// supported archive formats.
	ErrUnknownFormat = errors.New("unknown archive format")

	// ErrUnsupportedEntry is returned for cpio entries that are neither
	// directories, regular files nor symbolic links.
	ErrUnsupportedEntry = errors.New("unsupported archive entry")

	// ErrNotDir is returned by [OpenDir] for anything but directories.
	ErrNotDir = errors.New("not a directory")
)

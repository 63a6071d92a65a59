// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package archive opens the read-only delegate filesystems nested layers are
// backed by.
//
// Supported are zip archives (including jar files), newc cpio archives and
// plain directories. Each opened [FS] exposes exactly one root directory,
// which is "." for all formats of this package.
package archive

// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package virtfs provides a virtual in-memory file tree. It is intended to
// hold the decoded content of archives that do not support random access
// themselves, so they can be exposed through [io/fs.FS]. It supports
// directories, regular files and symbolic links and implements
// [io/fs.ReadDirFS], [io/fs.StatFS] and [io/fs.ReadLinkFS].
//
// The tree is built once with [FS.Add], [FS.Mkdir], [FS.MkdirAll] and
// [FS.Symlink] and is read-only afterwards. Concurrent reads of a fully built
// tree are safe.
package virtfs

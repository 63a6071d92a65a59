// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pathfs provides read-only virtual filesystems for files nested
// arbitrarily deep inside archives.
//
// Each [FS] is one layer: it has a target, which is either a file on disk or
// a [Path] inside another [FS], and lazily opens that target as archive on
// first access. Layers are registered by key in a [Registry].
//
// Two URI schemes address paths:
//
//	path:<key>~<leaf>
//	jij:<layer>~/<layer>~/.../<leaf>
//
// The "path" scheme is served by [Provider] and names an already registered
// layer by key. The "jij" scheme is served by [LayeredProvider] and describes
// a whole chain of nested archives, creating missing layers on the way. Every
// [Path] renders back to the URI it was parsed from with [Path.URI].
package pathfs

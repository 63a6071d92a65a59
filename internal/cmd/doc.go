// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for jijfs. It handles flag
// parsing, configuration, error handling, and output handling.
//
// Arguments are URIs of the "path:" or "jij:" scheme. Arguments without a
// known scheme are read as "jij:" URIs, so "outer.zip~/inner.zip~/a.txt"
// reads a.txt from inner.zip in outer.zip on disk.
package cmd

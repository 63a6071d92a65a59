// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !unix

package pathfs

import (
	"os"
)

// checkDiskAccess only checks for existence, permissions are not evaluated.
func checkDiskAccess(name string, _ AccessMode) error {
	_, err := os.Stat(name)
	return err //nolint:wrapcheck
}

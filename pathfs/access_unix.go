// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build unix

package pathfs

import (
	"golang.org/x/sys/unix"
)

func checkDiskAccess(name string, mode AccessMode) error {
	// No mode bit set checks for existence only.
	var how uint32

	if mode&AccessRead != 0 {
		how |= unix.R_OK
	}

	if mode&AccessExecute != 0 {
		how |= unix.X_OK
	}

	return unix.Access(name, how) //nolint:wrapcheck
}

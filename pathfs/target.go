// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Target is the location a [FS] opens as archive. It is either a
// [DiskTarget] or a [Path] in another [FS].
type Target interface {
	fmt.Stringer

	targetName() string
}

var (
	_ Target = DiskTarget("")
	_ Target = Path{}
)

// DiskTarget is an absolute, cleaned path of a file or directory on disk.
type DiskTarget string

// NewDiskTarget returns the [DiskTarget] for the given path, which is made
// absolute relative to the current working directory.
func NewDiskTarget(name string) (DiskTarget, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}

	return DiskTarget(abs), nil
}

func (t DiskTarget) String() string {
	return string(t)
}

func (t DiskTarget) targetName() string {
	return filepath.Base(string(t))
}

// targetFromOption converts the supported target option values into a
// normalized [Target].
func targetFromOption(value any) (Target, error) {
	switch target := value.(type) {
	case nil:
		return nil, ErrMissingTarget
	case string:
		return NewDiskTarget(target)
	case DiskTarget:
		return NewDiskTarget(string(target))
	case Path:
		if target.fsys == nil {
			return nil, fmt.Errorf("%w: path without filesystem", ErrInvalidTarget)
		}

		return target.ToAbsolute().Normalize(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidTarget, value)
	}
}

func statTarget(target Target) (fs.FileInfo, error) {
	switch target := target.(type) {
	case DiskTarget:
		return os.Stat(string(target)) //nolint:wrapcheck
	case Path:
		return target.fsys.Stat(target)
	default:
		return nil, ErrInvalidTarget
	}
}

func openTarget(target Target) (fs.File, error) {
	switch target := target.(type) {
	case DiskTarget:
		return os.Open(string(target)) //nolint:wrapcheck
	case Path:
		return target.fsys.Open(target)
	default:
		return nil, ErrInvalidTarget
	}
}

func readTarget(target Target) ([]byte, error) {
	switch target := target.(type) {
	case DiskTarget:
		return os.ReadFile(string(target)) //nolint:wrapcheck
	case Path:
		return target.fsys.ReadFile(target)
	default:
		return nil, ErrInvalidTarget
	}
}

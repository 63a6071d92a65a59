// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Path is an immutable path in a [FS].
//
// A path is a sequence of names. Absolute paths start with a root marker. The
// empty path is treated as root of its filesystem. Paths are values and safe
// for concurrent use.
type Path struct {
	fsys  *FS
	elems []element
}

// PathKey is a comparable representation of a [Path] usable as map key.
type PathKey struct {
	fsys *FS
	path string
}

func newPath(fsys *FS, elems []element) Path {
	return Path{
		fsys:  fsys,
		elems: elems,
	}
}

// FileSystem returns the filesystem the path belongs to.
func (p Path) FileSystem() *FS {
	return p.fsys
}

// IsAbsolute reports whether the path is absolute. The empty path is
// absolute.
func (p Path) IsAbsolute() bool {
	return len(p.elems) == 0 || p.hasMarker()
}

func (p Path) hasMarker() bool {
	return len(p.elems) > 0 && p.elems[0].isMarker()
}

// names returns all elements except the root marker.
func (p Path) names() []element {
	if p.hasMarker() {
		return p.elems[1:]
	}

	return p.elems
}

func (p Path) isRoot() bool {
	return p.IsAbsolute() && len(p.names()) == 0
}

// Root returns the root path of the filesystem.
func (p Path) Root() Path {
	return p.fsys.Root()
}

// FileName returns the last name of the path as relative path.
//
// For the root path, it returns the name of the filesystem's target, so the
// root of a nested archive is named like the archive file.
func (p Path) FileName() Path {
	if p.isRoot() {
		if p.fsys == nil {
			return Path{}
		}

		return newPath(p.fsys, []element{{name: p.fsys.target.targetName()}})
	}

	names := p.names()

	return newPath(p.fsys, []element{names[len(names)-1]})
}

// Parent returns the path without its last name. It returns false if there
// is no parent, which is the case for the root and for relative paths with a
// single name.
func (p Path) Parent() (Path, bool) {
	names := p.names()

	switch {
	case len(names) == 0:
		return Path{}, false
	case !p.IsAbsolute() && len(names) == 1:
		return Path{}, false
	}

	return newPath(p.fsys, slices.Clone(p.elems[:len(p.elems)-1])), true
}

// NameCount returns the number of names. The root marker is not counted.
func (p Path) NameCount() int {
	return len(p.names())
}

// Name returns the name at the given index as relative path.
func (p Path) Name(idx int) (Path, error) {
	names := p.names()
	if idx < 0 || idx >= len(names) {
		return Path{}, fmt.Errorf("%w: name %d of %d", ErrIndexOutOfRange,
			idx, len(names))
	}

	return newPath(p.fsys, []element{names[idx]}), nil
}

// Subpath returns the relative path of the names from index begin up to, but
// not including, end.
func (p Path) Subpath(begin, end int) (Path, error) {
	names := p.names()
	if begin < 0 || end > len(names) || begin >= end {
		return Path{}, fmt.Errorf("%w: range %d to %d of %d",
			ErrIndexOutOfRange, begin, end, len(names))
	}

	return newPath(p.fsys, slices.Clone(names[begin:end])), nil
}

// StartsWith reports whether the path starts with other. Paths of other
// filesystems never match.
func (p Path) StartsWith(other Path) bool {
	if p.fsys != other.fsys || len(other.elems) > len(p.elems) {
		return false
	}

	return slices.Equal(p.elems[:len(other.elems)], other.elems)
}

// EndsWith reports whether the path ends with other. Paths of other
// filesystems never match.
func (p Path) EndsWith(other Path) bool {
	if p.fsys != other.fsys || len(other.elems) > len(p.elems) {
		return false
	}

	return slices.Equal(p.elems[len(p.elems)-len(other.elems):], other.elems)
}

// Normalize returns the path with all "." names removed and all ".." names
// applied to their preceding name.
//
// A ".." without preceding name is dropped in absolute paths, since the
// parent of the root is the root. In relative paths it is kept as leading
// "..".
func (p Path) Normalize() Path {
	stack := make([]element, 0, len(p.elems))

	if p.hasMarker() {
		stack = append(stack, rootMarker)
	}

	base := len(stack)
	parent := element{name: parentName}

	for _, elem := range p.names() {
		switch elem {
		case element{name: currentName}:
		case parent:
			switch {
			case len(stack) > base && stack[len(stack)-1] != parent:
				stack = stack[:len(stack)-1]
			case p.hasMarker():
			default:
				stack = append(stack, elem)
			}
		default:
			stack = append(stack, elem)
		}
	}

	return newPath(p.fsys, stack)
}

// Resolve resolves other against the path.
//
// If other is absolute, it is returned. Otherwise, it is appended to the
// path. In both cases, layer boundaries in the result are entered, so the
// returned path may belong to another filesystem. The result is not
// normalized. Resolving the empty path returns the path itself.
func (p Path) Resolve(other Path) Path {
	if len(other.elems) == 0 {
		return p
	}

	if other.IsAbsolute() {
		return p.fsys.provider.adaptResolved(other)
	}

	joined := p.fsys.parse(p.String() + Separator + other.String())

	return p.fsys.provider.adaptResolved(joined)
}

// ResolveString parses other in the path's filesystem and resolves it
// against the path.
func (p Path) ResolveString(other string) Path {
	return p.Resolve(p.fsys.Path(other))
}

// Relativize returns the relative path from the path to other, so that
// p.Resolve(rel).Normalize() equals other.Normalize(). Both paths must
// belong to the same filesystem.
func (p Path) Relativize(other Path) (Path, error) {
	if p.fsys != other.fsys {
		return Path{}, ErrWrongFileSystem
	}

	if p.isRoot() && other.isRoot() {
		return newPath(p.fsys, nil), nil
	}

	from, to := p.names(), other.names()

	common := 0
	for common < min(len(from), len(to)) && from[common] == to[common] {
		common++
	}

	elems := make([]element, 0, len(from)+len(to)-2*common)
	for range len(from) - common {
		elems = append(elems, element{name: parentName})
	}

	elems = append(elems, to[common:]...)

	return newPath(p.fsys, elems), nil
}

// ToAbsolute returns the absolute form of the path by resolving it against
// the root.
func (p Path) ToAbsolute() Path {
	if p.IsAbsolute() {
		return p
	}

	return p.Root().Resolve(p)
}

// absoluteString returns the string of the absolute form of the path. The
// empty path is rendered as root.
func (p Path) absoluteString() string {
	if p.isRoot() {
		return Separator
	}

	return p.ToAbsolute().String()
}

// URI returns the URI addressing the path. Parsing the URI with the provider
// of the path's filesystem returns an equal path.
func (p Path) URI() string {
	return p.fsys.provider.renderURI(p)
}

// Equal reports whether both paths belong to the same filesystem and have
// equal names.
func (p Path) Equal(other Path) bool {
	return p.fsys == other.fsys && slices.Equal(p.elems, other.elems)
}

// Key returns a comparable representation of the path. Keys are equal if and
// only if the paths are equal.
func (p Path) Key() PathKey {
	var key strings.Builder

	// Names never contain a separator, so it terminates each element.
	for _, elem := range p.elems {
		key.WriteByte('0' + byte(elem.kind))
		key.WriteString(elem.name)
		key.WriteString(Separator)
	}

	return PathKey{
		fsys: p.fsys,
		path: key.String(),
	}
}

// Compare returns an integer comparing two paths by their string form. Equal
// strings of different filesystems are ordered by filesystem key. The order
// is stable but does not reflect the filesystem hierarchy.
func (p Path) Compare(other Path) int {
	return cmp.Or(
		strings.Compare(p.String(), other.String()),
		strings.Compare(p.fsys.Key(), other.fsys.Key()),
	)
}

// String returns the path with its names joined by [Separator]. Layer names
// are followed by [LayerMarker].
func (p Path) String() string {
	return joinElements(p.elems)
}

func (p Path) targetName() string {
	if p.isRoot() {
		if p.fsys == nil {
			return ""
		}

		return p.fsys.target.targetName()
	}

	names := p.names()

	return names[len(names)-1].name
}

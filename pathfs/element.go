// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"strings"
)

const (
	// Separator separates path elements.
	Separator = "/"

	// LayerMarker follows an element that names a nested archive.
	LayerMarker = "~"

	// LayerSeparator denotes the boundary of two layers: "enter the archive
	// named by the preceding element".
	LayerSeparator = LayerMarker + Separator

	parentName  = ".."
	currentName = "."
)

type elemKind uint8

const (
	elemName elemKind = iota
	elemLayer
)

// element is a single path component. The empty name is only valid as first
// element and marks an absolute path.
type element struct {
	name string
	kind elemKind
}

func (e element) isMarker() bool {
	return e.name == "" && e.kind == elemName
}

// String returns the element as it appears in a rendered path, without a
// trailing separator.
func (e element) String() string {
	if e.kind == elemLayer {
		return e.name + LayerMarker
	}

	return e.name
}

var rootMarker = element{}

// splitElements splits raw into elements. Backslashes are treated as
// separators, empty components are dropped. A leading separator results in
// the root marker as first element.
func splitElements(raw string) []element {
	if raw == "" {
		return nil
	}

	raw = strings.ReplaceAll(raw, `\`, Separator)

	var elems []element

	if strings.HasPrefix(raw, Separator) {
		elems = append(elems, rootMarker)
	}

	for part := range strings.SplitSeq(raw, Separator) {
		if part != "" {
			elems = append(elems, element{name: part})
		}
	}

	return elems
}

// markLayers turns every element of raw that is followed by
// [LayerSeparator] into a layer element.
func markLayers(raw string, elems []element) []element {
	raw = strings.ReplaceAll(raw, `\`, Separator)
	trailing := strings.HasSuffix(raw, LayerSeparator)

	marked := make([]element, len(elems))

	for idx, elem := range elems {
		isLast := idx == len(elems)-1
		if elem.kind == elemName &&
			len(elem.name) > len(LayerMarker) &&
			strings.HasSuffix(elem.name, LayerMarker) &&
			(!isLast || trailing) {
			elem = element{
				name: strings.TrimSuffix(elem.name, LayerMarker),
				kind: elemLayer,
			}
		}

		marked[idx] = elem
	}

	return marked
}

func joinElements(elems []element) string {
	var str strings.Builder

	for idx, elem := range elems {
		if elem.isMarker() {
			str.WriteString(Separator)
			continue
		}

		if idx > 0 && !elems[idx-1].isMarker() {
			str.WriteString(Separator)
		}

		str.WriteString(elem.String())
	}

	if len(elems) > 0 && elems[len(elems)-1].kind == elemLayer {
		str.WriteString(Separator)
	}

	return str.String()
}

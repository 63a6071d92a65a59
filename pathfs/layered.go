// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SchemeLayered is the URI scheme of [LayeredProvider].
const SchemeLayered = "jij"

// LayeredProvider serves multi layer URIs of the form
// "jij:<layer>~/<layer>~/.../<leaf>".
//
// The first layer is either the key of a registered filesystem or a path on
// disk. Each following layer is a path inside the filesystem of the previous
// layer. Filesystems for layers are created on demand and keyed by their
// parent's key, [LayerMarker] and their absolute path in the parent. Layers
// on disk are keyed by their absolute, slash separated path.
type LayeredProvider struct {
	cfg *settings
}

// NewLayeredProvider creates a new [LayeredProvider].
func NewLayeredProvider(opts ...Option) *LayeredProvider {
	return &LayeredProvider{
		cfg: newSettings(opts),
	}
}

// Scheme returns [SchemeLayered].
func (*LayeredProvider) Scheme() string {
	return SchemeLayered
}

// Registry returns the registry filesystems are kept in.
func (l *LayeredProvider) Registry() *Registry {
	return l.cfg.registry
}

// NewFileSystem returns the filesystem of the innermost layer of uri,
// creating all missing layers. A trailing [LayerSeparator] is optional.
//
// If env has a target, a single filesystem keyed by the scheme specific part
// of uri is created for it instead, like [Provider.NewFileSystem] does.
func (l *LayeredProvider) NewFileSystem(uri string, env Env) (*FS, error) {
	if _, hasTarget := env[TargetOption]; hasTarget {
		return newFileSystem(l, uri, env)
	}

	ssp, err := schemeSpecificPart(SchemeLayered, uri)
	if err != nil {
		return nil, err
	}

	layers := splitLayers(ssp)

	return l.walk(uri, layers)
}

// GetFileSystem returns the filesystem of the innermost layer of uri. If uri
// has a single layer only, it must be the key of a registered filesystem.
func (l *LayeredProvider) GetFileSystem(uri string) (*FS, error) {
	ssp, err := schemeSpecificPart(SchemeLayered, uri)
	if err != nil {
		return nil, err
	}

	if !strings.Contains(ssp, LayerSeparator) {
		owner, _, _ := splitLeaf(uriKey(ssp))
		return lookupFileSystem(l, uri, owner)
	}

	layers := splitLayers(ssp)

	return l.walk(uri, layers)
}

// GetPath returns the path addressed by uri. The last segment is the path
// inside the innermost layer. If uri ends with [LayerSeparator], the root
// path of the innermost layer is returned.
//
// If uri has a single layer only, it must be the key of a registered
// filesystem, optionally followed by [LayerMarker] and a path.
func (l *LayeredProvider) GetPath(uri string) (Path, error) {
	ssp, err := schemeSpecificPart(SchemeLayered, uri)
	if err != nil {
		return Path{}, err
	}

	if !strings.Contains(ssp, LayerSeparator) {
		return getKeyedPath(l, uri, uriKey(ssp))
	}

	segments := strings.Split(ssp, LayerSeparator)
	layers, leaf := segments[:len(segments)-1], segments[len(segments)-1]

	fsys, err := l.walk(uri, layers)
	if err != nil {
		return Path{}, err
	}

	return fsys.rooted(fsys.Path(leaf)), nil
}

// walk gets or creates the filesystems for all layers and returns the
// innermost one.
func (l *LayeredProvider) walk(uri string, layers []string) (*FS, error) {
	var fsys *FS

	for idx, layer := range layers {
		if layer == "" {
			return nil, fmt.Errorf("%w: %q: empty layer %d", ErrMalformedURI,
				uri, idx)
		}

		if idx > 0 {
			fsys = l.nestedLayer(fsys, fsys.rooted(fsys.Path(layer)))
			continue
		}

		// The first layer may be the key of a known filesystem of this
		// provider.
		known, exists := l.cfg.registry.lookup(SchemeLayered, layer)
		if exists {
			fsys = known
			continue
		}

		var err error

		fsys, err = l.diskLayer(layer)
		if err != nil {
			return nil, fmt.Errorf("layer %q of %s: %w", layer, uri, err)
		}
	}

	return fsys, nil
}

// diskLayer gets or creates the filesystem for the file on disk named by
// the slash separated path name.
func (l *LayeredProvider) diskLayer(name string) (*FS, error) {
	name = strings.TrimPrefix(name, "//")

	if l.cfg.volumeNames && hasVolumePrefix(name) {
		name = strings.TrimPrefix(name, Separator)
	}

	target, err := NewDiskTarget(filepath.FromSlash(name))
	if err != nil {
		return nil, err
	}

	key := diskKey(target)
	create := func() *FS {
		return newFS(l, key, target)
	}

	return l.cfg.registry.getOrCreate(SchemeLayered, key, create), nil
}

// nestedLayer gets or creates the filesystem for the archive at target in
// parent.
func (l *LayeredProvider) nestedLayer(parent *FS, target Path) *FS {
	target = target.Normalize()

	// The target is the archive file, not the layer it opens.
	if names := target.names(); len(names) > 0 {
		elems := append([]element{rootMarker}, names...)
		elems[len(elems)-1].kind = elemName
		target = newPath(parent, elems)
	}

	key := parent.key + LayerMarker + target.String()
	create := func() *FS {
		return newFS(l, key, target)
	}

	return l.cfg.registry.getOrCreate(SchemeLayered, key, create)
}

func (l *LayeredProvider) settings() *settings {
	return l.cfg
}

// renderURI renders the key of the path's filesystem and the absolute path.
// Keys of layers are built from the keys of their parents, so the key
// describes the whole chain of layers.
func (*LayeredProvider) renderURI(p Path) string {
	return SchemeLayered + schemeSeparator + p.fsys.key + LayerMarker +
		p.absoluteString()
}

// adaptResolved enters all layers named by layer elements of p and returns
// the remaining path in the innermost layer.
func (l *LayeredProvider) adaptResolved(p Path) Path {
	names := p.names()
	fsys := p.fsys
	start := 0

	for idx, elem := range names {
		if elem.kind != elemLayer {
			continue
		}

		target := append([]element{rootMarker}, names[start:idx+1]...)
		fsys = l.nestedLayer(fsys, newPath(fsys, target))
		start = idx + 1
	}

	if start == 0 {
		return p
	}

	return newPath(fsys, append([]element{rootMarker}, names[start:]...))
}

func (*LayeredProvider) adaptElems(raw string, elems []element) []element {
	return markLayers(raw, elems)
}

// splitLayers splits ssp into layers. A trailing [LayerSeparator] is
// ignored.
func splitLayers(ssp string) []string {
	layers := strings.Split(ssp, LayerSeparator)

	last := len(layers) - 1
	if last > 0 && layers[last] == "" {
		return layers[:last]
	}

	return layers
}

// diskKey returns the key of a layer on disk: the slash separated absolute
// path, always starting with [Separator].
func diskKey(target DiskTarget) string {
	key := filepath.ToSlash(string(target))
	if !strings.HasPrefix(key, Separator) {
		key = Separator + key
	}

	return key
}

// hasVolumePrefix reports whether name starts with a separator followed by
// a volume name like "C:".
func hasVolumePrefix(name string) bool {
	if len(name) < len("/C:") || name[0] != '/' || name[2] != ':' {
		return false
	}

	letter := name[1] | 0x20

	return letter >= 'a' && letter <= 'z'
}

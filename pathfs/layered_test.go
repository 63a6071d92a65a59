// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastrand"
	"golang.org/x/sync/errgroup"

	"github.com/aibor/jijfs/pathfs"
)

func TestLayeredRelativeLayers(t *testing.T) {
	files := newLayout(t)
	t.Chdir(files.dir)

	router := newRouter(t)

	leaf, err := router.NewFileSystem("jij:outer.zip~/inner.zip~/leaf.zip", nil)
	require.NoError(t, err)
	assert.Equal(t, "dir1", readString(t, leaf.Path("data.txt")))

	p, err := router.GetPath("jij:outer.zip~/inner.zip~/leaf.zip~/data.txt")
	require.NoError(t, err)
	assert.Same(t, leaf, p.FileSystem())
	assert.Equal(t, "dir1", readString(t, p))
}

func TestLayeredNewFileSystem(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)

	withSeparator, err := router.NewFileSystem("jij:"+files.outer+"~/inner.zip~/", nil)
	require.NoError(t, err)

	without, err := router.NewFileSystem("jij:"+files.outer+"~/inner.zip", nil)
	require.NoError(t, err)

	assert.Same(t, withSeparator, without)
	assert.Equal(t, files.outer+"~/inner.zip", without.Key())
	assert.Equal(t, "inner", readString(t, without.Path("notes.txt")))

	outer, err := router.GetFileSystem("jij:" + files.outer)
	require.NoError(t, err)
	assert.Equal(t, files.outer, outer.Key())
	assert.Equal(t, pathfs.DiskTarget(files.outer), outer.Target())
}

func TestLayeredNewFileSystemWithTarget(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)

	fsys, err := router.NewFileSystem("jij:lib", pathfs.Env{
		pathfs.TargetOption: files.outer,
	})
	require.NoError(t, err)
	assert.Equal(t, "lib", fsys.Key())
	assert.Equal(t, pathfs.SchemeLayered, fsys.Provider().Scheme())

	p, err := router.GetPath("jij:lib~/inner.zip~/leaf.zip~/data.txt")
	require.NoError(t, err)
	assert.Equal(t, "dir1", readString(t, p))
	assert.Equal(t, "jij:lib~/inner.zip~/leaf.zip~/data.txt", p.URI())
}

func TestLayeredReverseLookup(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)

	short, err := router.NewFileSystem("jij:short", pathfs.Env{
		pathfs.TargetOption: files.outer,
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "leaf",
			uri:      "jij:short~/META-INF/MANIFEST.MF",
			expected: "outer",
		},
		{
			name:     "nested layer",
			uri:      "jij:short~/inner.zip~/notes.txt",
			expected: "inner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := router.GetPath(tt.uri)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, readString(t, p))
			assert.Equal(t, tt.uri, p.URI())
		})
	}

	t.Run("nested target", func(t *testing.T) {
		p, err := router.GetPath("jij:short~/inner.zip~/notes.txt")
		require.NoError(t, err)

		target, ok := p.FileSystem().Target().(pathfs.Path)
		require.True(t, ok)
		assert.Same(t, short, target.FileSystem())
	})

	t.Run("key only", func(t *testing.T) {
		root, err := router.GetPath("jij:short")
		require.NoError(t, err)
		assert.True(t, root.Equal(short.Root()))
		assert.Equal(t, "jij:short~/", root.URI())
	})
}

func TestLayeredDistinctLayers(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)
	base := "jij:" + files.outer

	inOuter, err := router.GetPath(base + "~/inner.zip/")
	require.NoError(t, err)

	inInner, err := router.GetPath(base + "~/inner.zip~/leaf.zip/")
	require.NoError(t, err)

	inLeaf, err := router.GetPath(base + "~/inner.zip~/leaf.zip~/")
	require.NoError(t, err)

	assert.NotSame(t, inOuter.FileSystem(), inInner.FileSystem())
	assert.NotSame(t, inInner.FileSystem(), inLeaf.FileSystem())
	assert.NotSame(t, inOuter.FileSystem(), inLeaf.FileSystem())

	assert.Equal(t, "/inner.zip", inOuter.String())
	assert.Equal(t, "/leaf.zip", inInner.String())
	assert.True(t, inLeaf.Equal(inLeaf.Root()))
	assert.Equal(t, "leaf.zip", inLeaf.FileName().String())
}

func TestLayeredResolveAcrossLayers(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)

	outer, err := router.GetFileSystem("jij:" + files.outer + "~/")
	require.NoError(t, err)

	innerRoot := outer.Root().ResolveString("/inner.zip~/")
	assert.NotSame(t, outer, innerRoot.FileSystem())
	assert.True(t, innerRoot.Equal(innerRoot.Root()))

	inner, err := router.GetFileSystem("jij:" + files.outer + "~/inner.zip~/")
	require.NoError(t, err)
	assert.Same(t, inner, innerRoot.FileSystem())

	data := outer.Path("/lib").ResolveString("../inner.zip~/leaf.zip~/data.txt")
	assert.Equal(t, "dir1", readString(t, data))
	assert.Equal(t, "/data.txt", data.String())

	// Resolving against a layer root stays in that layer.
	notes := innerRoot.ResolveString("notes.txt")
	assert.Same(t, inner, notes.FileSystem())
	assert.Equal(t, "inner", readString(t, notes))
}

func TestLayeredURIRoundTrip(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)
	base := "jij:" + files.outer

	uris := []string{
		base + "~/",
		base + "~/META-INF/MANIFEST.MF",
		base + "~/inner.zip~/",
		base + "~/inner.zip~/notes.txt",
		base + "~/inner.zip~/leaf.zip~/data.txt",
		base + "~/lib/other.zip~/x.txt",
	}

	for _, uri := range uris {
		t.Run(strings.TrimPrefix(uri, base), func(t *testing.T) {
			p, err := router.GetPath(uri)
			require.NoError(t, err)
			assert.Equal(t, uri, p.URI())

			again, err := router.GetPath(p.URI())
			require.NoError(t, err)
			assert.True(t, p.Equal(again))
		})
	}
}

func TestLayeredURIRoundTripRandom(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)

	leaf, err := router.NewFileSystem("jij:"+files.outer+"~/inner.zip~/leaf.zip", nil)
	require.NoError(t, err)

	names := []string{"a", "b", "data.txt", "META-INF"}

	for range 200 {
		elems := make([]string, fastrand.Uint32n(5))
		for idx := range elems {
			elems[idx] = names[fastrand.Uint32n(uint32(len(names)))]
		}

		p := leaf.Path(pathfs.Separator + strings.Join(elems, pathfs.Separator))

		parsed, err := router.GetPath(p.URI())
		require.NoError(t, err)
		require.True(t, p.Equal(parsed), "uri %q parsed to %q", p.URI(), parsed)
	}
}

func TestLayeredCacheIdentity(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)
	uri := "jij:" + files.outer + "~/inner.zip~/leaf.zip~/data.txt"

	var (
		group errgroup.Group
		paths = make([]pathfs.Path, 16)
	)

	for idx := range paths {
		group.Go(func() error {
			p, err := router.GetPath(uri)
			if err != nil {
				return err
			}

			_, err = p.FileSystem().ReadFile(p)
			paths[idx] = p

			return err
		})
	}

	require.NoError(t, group.Wait())

	for _, p := range paths[1:] {
		assert.Same(t, paths[0].FileSystem(), p.FileSystem())
		assert.True(t, paths[0].Equal(p))
	}

	// Disk layer, inner and leaf.
	layered, err := router.Provider(pathfs.SchemeLayered)
	require.NoError(t, err)
	assert.Equal(t, 3, layered.Registry().Len())
}

func TestLayeredErrors(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)

	tests := []struct {
		name string
		uri  string
		err  error
	}{
		{
			name: "empty layer",
			uri:  "jij:" + files.outer + "~/~/data.txt",
			err:  pathfs.ErrMalformedURI,
		},
		{
			name: "empty first layer",
			uri:  "jij:~/data.txt",
			err:  pathfs.ErrMalformedURI,
		},
		{
			name: "wrong scheme",
			uri:  "path:" + files.outer + "~/data.txt",
			err:  pathfs.ErrMalformedURI,
		},
		{
			name: "unknown key",
			uri:  "jij:unknown.zip",
			err:  fs.ErrNotExist,
		},
	}

	layered := pathfs.NewLayeredProvider()

	t.Cleanup(func() {
		require.NoError(t, layered.Registry().Close())
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := layered.GetPath(tt.uri)
			require.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("missing nested archive", func(t *testing.T) {
		p, err := router.GetPath("jij:" + files.outer + "~/missing.zip~/data.txt")
		require.NoError(t, err)

		_, err = p.FileSystem().ReadFile(p)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestLayeredPathKey(t *testing.T) {
	files := newLayout(t)
	router := newRouter(t)

	root, err := router.GetPath("jij:" + files.outer + "~/")
	require.NoError(t, err)

	fsys := root.FileSystem()
	name := fsys.Path("/inner.zip~")
	layer := fsys.Path("/inner.zip~/")

	require.Equal(t, name.String(), layer.String())
	require.False(t, name.Equal(layer))

	keys := map[pathfs.PathKey]bool{
		name.Key(): true,
	}

	assert.True(t, keys[fsys.Path("/inner.zip~").Key()])
	assert.False(t, keys[layer.Key()])
	assert.Equal(t, layer.Key(), fsys.Path("/inner.zip~/").Key())
}

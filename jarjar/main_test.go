// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package jarjar_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aibor/jijfs/jarjar"
	"github.com/aibor/jijfs/pathfs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func jarData(t *testing.T, files map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	writer := zip.NewWriter(&buf)

	for _, name := range slices.Sorted(maps.Keys(files)) {
		w, err := writer.Create(name)
		require.NoError(t, err)

		_, err = w.Write(files[name])
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buf.Bytes()
}

func metadataJSON(t *testing.T, jars ...jarjar.ContainedJar) []byte {
	t.Helper()

	data, err := json.Marshal(jarjar.Metadata{Jars: jars})
	require.NoError(t, err)

	return data
}

func containedJar(group, artifact, path string) jarjar.ContainedJar {
	return jarjar.ContainedJar{
		Identifier: jarjar.Identifier{
			Group:    group,
			Artifact: artifact,
		},
		Version: jarjar.Version{
			Range:           "[1.0,)",
			ArtifactVersion: "1.0",
		},
		Path: path,
	}
}

// writeModJar writes a jar with the following bundled jars:
//
//	mod.jar
//	├── META-INF/jarjar/a.jar (org.example:a)
//	│   ├── META-INF/jarjar/c.jar (org.example:c)
//	│   └── META-INF/jarjar/b.jar (org.example:b, collision)
//	└── META-INF/jarjar/b.jar (org.example:b)
func writeModJar(t *testing.T) string {
	t.Helper()

	cJar := jarData(t, map[string][]byte{"c.txt": []byte("c")})
	bJar := jarData(t, map[string][]byte{"b.txt": []byte("b")})
	otherBJar := jarData(t, map[string][]byte{"b.txt": []byte("other b")})

	aJar := jarData(t, map[string][]byte{
		jarjar.MetadataPath: metadataJSON(t,
			containedJar("org.example", "c", "META-INF/jarjar/c.jar"),
			containedJar("org.example", "b", "META-INF/jarjar/b.jar"),
		),
		"META-INF/jarjar/c.jar": cJar,
		"META-INF/jarjar/b.jar": otherBJar,
	})

	modJar := jarData(t, map[string][]byte{
		jarjar.MetadataPath: metadataJSON(t,
			containedJar("org.example", "a", "META-INF/jarjar/a.jar"),
			containedJar("org.example", "b", "META-INF/jarjar/b.jar"),
		),
		"META-INF/jarjar/a.jar": aJar,
		"META-INF/jarjar/b.jar": bJar,
	})

	name := filepath.Join(t.TempDir(), "mod.jar")
	require.NoError(t, os.WriteFile(name, modJar, 0o644))

	return name
}

func newRouter(t *testing.T) *pathfs.Router {
	t.Helper()

	router := pathfs.New()

	t.Cleanup(func() {
		require.NoError(t, router.Close())
	})

	return router
}

func jarRoot(t *testing.T, router *pathfs.Router, name string) pathfs.Path {
	t.Helper()

	root, err := router.GetPath("jij:" + name + "~/")
	require.NoError(t, err)

	return root
}

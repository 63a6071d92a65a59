// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package jarjar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aibor/jijfs/pathfs"
)

// MetadataPath is the path of the metadata file inside a jar.
const MetadataPath = "META-INF/jarjar/metadata.json"

var (
	// ErrInvalidMetadata is returned for metadata with missing mandatory
	// fields.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrNotLayered is returned if a nested jar can not be entered because
	// the filesystem of the outer jar does not support layers.
	ErrNotLayered = errors.New("filesystem does not support layers")
)

// Metadata lists the jars bundled in a jar.
type Metadata struct {
	Jars []ContainedJar `json:"jars"`
}

// ContainedJar describes a bundled jar.
type ContainedJar struct {
	Identifier   Identifier `json:"identifier"`
	Version      Version    `json:"version"`
	Path         string     `json:"path"`
	IsObfuscated bool       `json:"isObfuscated"`
}

// Identifier identifies an artifact independent of its version.
type Identifier struct {
	Group    string `json:"group"`
	Artifact string `json:"artifact"`
}

// String returns the identifier in the form "group:artifact".
func (i Identifier) String() string {
	return i.Group + ":" + i.Artifact
}

// Version holds the accepted version range and the bundled version of an
// artifact. Both are kept in their maven notation.
type Version struct {
	Range           string `json:"range"`
	ArtifactVersion string `json:"artifactVersion"`
}

// Validate checks that all mandatory fields are set. A version needs a range
// or an artifact version.
func (m *Metadata) Validate() error {
	var errs []error

	for idx, jar := range m.Jars {
		var missing []string

		if jar.Identifier.Group == "" {
			missing = append(missing, "identifier.group")
		}

		if jar.Identifier.Artifact == "" {
			missing = append(missing, "identifier.artifact")
		}

		if jar.Version.Range == "" && jar.Version.ArtifactVersion == "" {
			missing = append(missing, "version")
		}

		if jar.Path == "" {
			missing = append(missing, "path")
		}

		if len(missing) > 0 {
			errs = append(errs, fmt.Errorf("%w: jar %d: missing %s",
				ErrInvalidMetadata, idx, strings.Join(missing, ", ")))
		}
	}

	return errors.Join(errs...)
}

// DecodeMetadata decodes and validates metadata read from r. In strict mode,
// unknown fields are rejected.
func DecodeMetadata(r io.Reader, strict bool) (*Metadata, error) {
	decoder := json.NewDecoder(r)
	if strict {
		decoder.DisallowUnknownFields()
	}

	var metadata Metadata

	err := decoder.Decode(&metadata)
	if err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	err = metadata.Validate()
	if err != nil {
		return nil, err
	}

	return &metadata, nil
}

// Encode writes the metadata as indented JSON to w.
func (m *Metadata) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(m)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	return nil
}

// Reader reads metadata from jars.
type Reader struct {
	// Strict rejects metadata with unknown fields.
	Strict bool
}

// ReadMetadata reads the metadata of the jar with the given root path with
// a default [Reader].
func ReadMetadata(root pathfs.Path) (*Metadata, error) {
	return Reader{}.ReadMetadata(root)
}

// ReadMetadata reads the metadata of the jar with the given root path. If
// the jar has no metadata, the error matches [fs.ErrNotExist].
func (r Reader) ReadMetadata(root pathfs.Path) (*Metadata, error) {
	metadataPath := root.Root().ResolveString(MetadataPath)

	data, err := root.FileSystem().ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	metadata, err := DecodeMetadata(bytes.NewReader(data), r.Strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", metadataPath.URI(), err)
	}

	return metadata, nil
}

// NestedSource returns the root path of the given bundled jar of the jar
// with the given root path. The filesystem of root must support layers, as
// the ones created by [pathfs.LayeredProvider] do.
func NestedSource(root pathfs.Path, jar ContainedJar) (pathfs.Path, error) {
	name := strings.TrimSuffix(jar.Path, pathfs.Separator)
	source := root.Root().ResolveString(name + pathfs.LayerSeparator)

	if source.FileSystem() == root.FileSystem() {
		return pathfs.Path{}, fmt.Errorf("%w: %s", ErrNotLayered, root.URI())
	}

	return source, nil
}

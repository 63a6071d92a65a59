// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package jarjar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/aibor/jijfs/pathfs"
)

// Jar is a bundled jar found by [Reader.Collect].
type Jar struct {
	ContainedJar

	// Source is the root path of the bundled jar.
	Source pathfs.Path

	// Container is the root path of the jar the bundled jar was found in.
	Container pathfs.Path
}

// Collect finds all bundled jars of the given roots with a default
// [Reader].
func Collect(ctx context.Context, roots ...pathfs.Path) ([]Jar, error) {
	return Reader{}.Collect(ctx, roots...)
}

// Collect finds all jars bundled in the jars with the given root paths,
// including jars bundled in bundled jars.
//
// Metadata of all jars of one nesting level is read concurrently. Jars are
// returned in the order of their roots and metadata entries, level by level.
// If multiple jars have the same identifier, the first one is kept and a
// warning is logged for each other one. Jars without metadata are skipped.
func (r Reader) Collect(ctx context.Context, roots ...pathfs.Path) ([]Jar, error) {
	var jars []Jar

	seen := make(map[Identifier]Jar)

	for level := roots; len(level) > 0; {
		found, err := r.collectLevel(ctx, level)
		if err != nil {
			return nil, err
		}

		level = nil

		for _, jar := range found {
			if first, exists := seen[jar.Identifier]; exists {
				slog.Warn("jar identifier collision, keeping first",
					"identifier", jar.Identifier.String(),
					"kept", first.Source.URI(),
					"ignored", jar.Source.URI(),
				)

				continue
			}

			seen[jar.Identifier] = jar
			jars = append(jars, jar)
			level = append(level, jar.Source)
		}
	}

	return jars, nil
}

func (r Reader) collectLevel(ctx context.Context, roots []pathfs.Path) ([]Jar, error) {
	results := make([][]Jar, len(roots))

	group, ctx := errgroup.WithContext(ctx)

	for idx, root := range roots {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}

			jars, err := r.bundledJars(root)
			if err != nil {
				return err
			}

			results[idx] = jars

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	var found []Jar
	for _, jars := range results {
		found = append(found, jars...)
	}

	return found, nil
}

func (r Reader) bundledJars(root pathfs.Path) ([]Jar, error) {
	// Root paths refer to the jar file itself.
	_, err := root.FileSystem().Stat(root.Root())
	if err != nil {
		return nil, fmt.Errorf("jar: %w", err)
	}

	metadata, err := r.ReadMetadata(root)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no jar metadata", "root", root.URI())
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	jars := make([]Jar, 0, len(metadata.Jars))

	for _, contained := range metadata.Jars {
		source, err := NestedSource(root, contained)
		if err != nil {
			return nil, fmt.Errorf("jar %s: %w", contained.Identifier, err)
		}

		jars = append(jars, Jar{
			ContainedJar: contained,
			Source:       source,
			Container:    root,
		})
	}

	return jars, nil
}

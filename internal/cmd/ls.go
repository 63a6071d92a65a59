// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"path"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aibor/jijfs/internal/archive"
	"github.com/aibor/jijfs/pathfs"
)

const timeFormat = time.DateTime

func newListCommand(a *app) *cobra.Command {
	var (
		long    bool
		pattern string
	)

	cmd := &cobra.Command{
		Use:     "ls URI",
		Aliases: []string{"list"},
		Short:   "List the entries of a directory",
		Long: `List the entries of a directory. The root of an archive layer lists
the root directory of the archive.`,
		Args: requireArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := nameFilter(pattern)
			if err != nil {
				return err
			}

			return a.list(cmd.OutOrStdout(), args[0], filter, long)
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false,
		"print mode, size and modification time")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "",
		"list only entries with names matching the glob pattern")

	return cmd
}

func nameFilter(pattern string) (pathfs.DirFilter, error) {
	if pattern == "" {
		return nil, nil
	}

	_, err := path.Match(pattern, "")
	if err != nil {
		return nil, &ParseArgsError{msg: "invalid pattern", err: err}
	}

	return func(entry pathfs.Path) bool {
		matched, _ := path.Match(pattern, entry.FileName().String())
		return matched
	}, nil
}

func (a *app) list(w io.Writer, arg string, filter pathfs.DirFilter, long bool) error {
	dir, err := a.path(arg)
	if err != nil {
		return err
	}

	fsys := dir.FileSystem()

	if dir.NameCount() > 0 {
		info, err := fsys.Stat(dir)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}

		if !info.IsDir() {
			return fmt.Errorf("list %s: %w", dir.URI(), archive.ErrNotDir)
		}
	}

	entries := fsys.ReadDir(dir, filter)

	if !long {
		for _, entry := range entries {
			fmt.Fprintln(w, entry.FileName())
		}

		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)

	for _, entry := range entries {
		attrs, err := fsys.ReadAttributes(entry, "")
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}

		fmt.Fprintf(tw, "%s\t%d\t %s\t %s\t\n",
			attrs.Mode, attrs.Size, attrs.ModTime.UTC().Format(timeFormat),
			entry.FileName())
	}

	return tw.Flush() //nolint:wrapcheck
}

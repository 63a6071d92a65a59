// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aibor/jijfs/pathfs"
)

func newStatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat URI...",
		Short: "Print the attributes of files",
		Args:  requireArgs(1, -1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				err := a.stat(cmd.OutOrStdout(), arg)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func (a *app) stat(w io.Writer, arg string) error {
	p, err := a.path(arg)
	if err != nil {
		return err
	}

	fsys := p.FileSystem()

	attrs, err := fsys.ReadAttributes(p, "")
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	access := []byte("---")
	for idx, mode := range []pathfs.AccessMode{
		pathfs.AccessRead,
		pathfs.AccessWrite,
		pathfs.AccessExecute,
	} {
		if fsys.CheckAccess(p, mode) == nil {
			access[idx] = "rwx"[idx]
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	fmt.Fprintf(tw, "URI:\t%s\n", p.URI())
	fmt.Fprintf(tw, "Name:\t%s\n", p.FileName())
	fmt.Fprintf(tw, "Type:\t%s\n", fileType(attrs))
	fmt.Fprintf(tw, "Size:\t%d\n", attrs.Size)
	fmt.Fprintf(tw, "Mode:\t%s\n", attrs.Mode)
	fmt.Fprintf(tw, "Access:\t%s\n", access)
	fmt.Fprintf(tw, "Modified:\t%s\n", attrs.ModTime.UTC().Format(timeFormat))

	return tw.Flush() //nolint:wrapcheck
}

func fileType(attrs pathfs.Attributes) string {
	switch {
	case attrs.IsDir():
		return "directory"
	case attrs.IsSymlink():
		return "symlink"
	case attrs.IsRegular():
		return "regular"
	default:
		return "other"
	}
}

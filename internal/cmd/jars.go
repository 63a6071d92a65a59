// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aibor/jijfs/jarjar"
	"github.com/aibor/jijfs/pathfs"
)

func newJarsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jars JAR...",
		Short: "List the jars bundled in jars",
		Long: `List the jars bundled in jars, including jars bundled in bundled jars.
Bundled jars are declared in ` + jarjar.MetadataPath + `. If multiple jars
have the same identifier, the first one found is listed.`,
		Args: requireArgs(1, -1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := make([]pathfs.Path, 0, len(args))

			for _, arg := range args {
				root, err := a.path(arg)
				if err != nil {
					return err
				}

				roots = append(roots, root)
			}

			reader := jarjar.Reader{Strict: a.config.StrictMetadata}

			jars, err := reader.Collect(cmd.Context(), roots...)
			if err != nil {
				return fmt.Errorf("collect jars: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "IDENTIFIER\tVERSION\tRANGE\tURI")

			for _, jar := range jars {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					jar.Identifier,
					jar.Version.ArtifactVersion,
					jar.Version.Range,
					jar.Source.URI(),
				)
			}

			return tw.Flush() //nolint:wrapcheck
		},
	}

	cmd.Flags().Bool(keyStrictMetadata, false,
		"reject metadata with unknown fields")

	return cmd
}

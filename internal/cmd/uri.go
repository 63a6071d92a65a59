// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newURICommand(a *app) *cobra.Command {
	var normalize bool

	cmd := &cobra.Command{
		Use:   "uri URI...",
		Short: "Print the canonical URIs of paths",
		Long: `Print the canonical URIs of paths. Filesystems are named by the
absolute path of the archive files on disk, so the printed URIs do not
depend on the working directory. The paths are not required to exist.`,
		Args: requireArgs(1, -1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				p, err := a.path(arg)
				if err != nil {
					return err
				}

				if normalize {
					p = p.Normalize()
				}

				fmt.Fprintln(cmd.OutOrStdout(), p.URI())
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&normalize, "normalize", "n", false,
		`remove "." and ".." names`)

	return cmd
}

// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newCatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat URI...",
		Short: "Print the content of files",
		Long: `Print the content of files. The root of an archive layer, like
"outer.zip~/inner.zip", is the nested archive file itself.`,
		Args: requireArgs(1, -1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				err := a.cat(cmd.OutOrStdout(), arg)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func (a *app) cat(w io.Writer, arg string) error {
	p, err := a.path(arg)
	if err != nil {
		return err
	}

	file, err := p.FileSystem().Open(p)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	if err != nil {
		return fmt.Errorf("read %s: %w", p.URI(), err)
	}

	return nil
}

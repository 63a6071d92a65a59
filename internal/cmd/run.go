// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aibor/jijfs/pathfs"
)

// Exit codes of [Run].
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// app holds the state shared by all commands of one [Run].
type app struct {
	io         IO
	config     Config
	configFile string
	logger     *slog.Logger
	router     *pathfs.Router
}

// setup loads the config and creates the router. It runs after flag parsing
// and before any command.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, configFile, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a.config = cfg
	a.configFile = configFile
	a.logger = setupLogging(a.io.Stderr, cfg.Debug)

	a.logger.Debug("Loaded config",
		slog.String("file", configFile),
		slog.Bool("volume_names", cfg.VolumeNames),
		slog.Bool("strict_metadata", cfg.StrictMetadata),
	)

	a.router = pathfs.New(
		pathfs.WithLogger(a.logger),
		pathfs.WithVolumeNames(cfg.VolumeNames),
	)

	return nil
}

func (a *app) close() {
	if a.router == nil {
		return
	}

	err := a.router.Close()
	if err != nil {
		slog.Warn("Failed to close filesystems", slog.Any("error", err))
	}
}

// path returns the path addressed by arg.
//
// Arguments without a known scheme are "jij:" URIs. If such an argument has
// no layer separator, it addresses the root of the archive it names.
func (a *app) path(arg string) (pathfs.Path, error) {
	uri := arg

	scheme, _, found := strings.Cut(arg, ":")
	if _, err := a.router.Provider(scheme); !found || err != nil {
		if !strings.Contains(arg, pathfs.LayerSeparator) {
			arg += pathfs.LayerSeparator
		}

		uri = pathfs.SchemeLayered + ":" + arg
	}

	p, err := a.router.GetPath(uri)
	if err != nil {
		return pathfs.Path{}, fmt.Errorf("resolve %s: %w", uri, err)
	}

	return p, nil
}

// requireArgs validates the number of positional arguments. A negative
// maxArgs means no upper limit.
func requireArgs(minArgs, maxArgs int) cobra.PositionalArgs {
	validate := cobra.RangeArgs(minArgs, maxArgs)
	if maxArgs < 0 {
		validate = cobra.MinimumNArgs(minArgs)
	}

	return func(cmd *cobra.Command, args []string) error {
		err := validate(cmd, args)
		if err != nil {
			return &ParseArgsError{msg: "invalid arguments", err: err}
		}

		return nil
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "jijfs",
		Short: "Read files nested in archives",
		Long: `jijfs reads files nested in zip and cpio archives without unpacking
them. Files are addressed by URI:

  jij:outer.zip~/inner.zip~/file.txt  file.txt in inner.zip in outer.zip
  path:key~/file.txt                  file.txt in the filesystem named key

Arguments without scheme are read as "jij:" URIs.`,
		Version:       version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.Bool(keyDebug, false, "enable debug logging")
	flags.Bool(keyVolumeNames, defaultConfig().VolumeNames,
		`allow volume names in disk layers, like "/C:/archive.zip"`)
	flags.String(flagConfig, "", "config file (default is ./"+localConfigFile+")")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ParseArgsError{msg: "invalid flags", err: err}
	})

	root.AddCommand(
		newCatCommand(a),
		newListCommand(a),
		newStatCommand(a),
		newURICommand(a),
		newJarsCommand(a),
		newConfigCommand(a),
	)

	return root
}

func handleRunError(err error, stderr io.Writer) int {
	if errors.Is(err, &ParseArgsError{}) {
		fmt.Fprintf(stderr, "Error: %v\nRun 'jijfs --help' for usage.\n", err)
		return ExitUsage
	}

	slog.Error(err.Error())

	return ExitError
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	a := &app{io: cfg}
	defer a.close()

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		return handleRunError(err, cfg.Stderr)
	}

	return ExitOK
}

func version() string {
	buildInfo, err := getBuildInfo()
	if err != nil || buildInfo.Main.Version == "" {
		return "dev"
	}

	return buildInfo.Main.Version
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}

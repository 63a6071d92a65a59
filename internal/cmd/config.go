// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "JIJFS"
	localConfigFile = ".jijfs.toml"
	configType      = "toml"

	keyDebug          = "debug"
	keyVolumeNames    = "volume-names"
	keyStrictMetadata = "strict-metadata"

	flagConfig = "config"
)

// Config is the effective configuration of a command.
//
// Values are taken from flags, environment variables prefixed with JIJFS_,
// the config file and defaults, in that order. The config file is
// ".jijfs.toml" in the working directory, unless set by flag.
type Config struct {
	Debug          bool `mapstructure:"debug" toml:"debug"`
	VolumeNames    bool `mapstructure:"volume-names" toml:"volume-names"`
	StrictMetadata bool `mapstructure:"strict-metadata" toml:"strict-metadata"`
}

func defaultConfig() Config {
	return Config{
		VolumeNames: runtime.GOOS == "windows",
	}
}

// loadConfig loads the config for cmd. The flags of cmd must be parsed
// already.
func loadConfig(cmd *cobra.Command) (Config, string, error) {
	v := viper.New()

	defaults := defaultConfig()
	v.SetDefault(keyDebug, defaults.Debug)
	v.SetDefault(keyVolumeNames, defaults.VolumeNames)
	v.SetDefault(keyStrictMetadata, defaults.StrictMetadata)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return Config{}, "", fmt.Errorf("config flag: %w", err)
	}

	// Only the default config file is optional.
	optional := configFile == ""
	if optional {
		configFile = localConfigFile
	}

	v.SetConfigFile(configFile)
	v.SetConfigType(configType)

	var notFound viper.ConfigFileNotFoundError

	err = v.ReadInConfig()
	switch {
	case err == nil:
	case optional && (errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)):
		configFile = ""
	default:
		return Config{}, "", fmt.Errorf("read config file: %w", err)
	}

	err = v.BindPFlags(cmd.Flags())
	if err != nil {
		return Config{}, "", fmt.Errorf("bind flags: %w", err)
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return Config{}, "", fmt.Errorf("parse config: %w", err)
	}

	return cfg, configFile, nil
}

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  requireArgs(0, 0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := toml.Marshal(a.config)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			if a.configFile != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", a.configFile)
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err //nolint:wrapcheck
		},
	}
}

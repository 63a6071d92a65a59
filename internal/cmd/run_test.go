// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibor/jijfs/internal/cmd"
)

type result struct {
	exitCode int
	stdout   string
	stderr   string
}

func run(t *testing.T, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer

	exitCode := cmd.Run(t.Context(), args, cmd.IO{
		Stdin:  &bytes.Buffer{},
		Stdout: &stdout,
		Stderr: &stderr,
	})

	return result{
		exitCode: exitCode,
		stdout:   stdout.String(),
		stderr:   stderr.String(),
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name             string
		args             []string
		expectedExitCode int
		expectedStdout   string
		expectedStderr   string
	}{
		{
			name:           "cat nested",
			args:           []string{"cat", "outer.zip~/inner.zip~/a.txt"},
			expectedStdout: "inner a",
		},
		{
			name:           "cat multiple",
			args:           []string{"cat", "outer.zip~/x.txt", "jij:outer.zip~/inner.zip~/b.md"},
			expectedStdout: "outer x# b",
		},
		{
			name:           "cat layer root",
			args:           []string{"cat", "plain.txt"},
			expectedStdout: "plain",
		},
		{
			name:           "ls archive root",
			args:           []string{"ls", "outer.zip"},
			expectedStdout: "inner.zip\nx.txt\n",
		},
		{
			name:           "ls nested",
			args:           []string{"list", "outer.zip~/inner.zip~/"},
			expectedStdout: "a.txt\nb.md\n",
		},
		{
			name:           "ls pattern",
			args:           []string{"ls", "-p", "*.md", "outer.zip~/inner.zip~/"},
			expectedStdout: "b.md\n",
		},
		{
			name:           "ls long",
			args:           []string{"ls", "-l", "outer.zip~/inner.zip~/"},
			expectedStdout: " 7 ",
		},
		{
			name:             "ls file",
			args:             []string{"ls", "outer.zip~/x.txt"},
			expectedExitCode: cmd.ExitError,
			expectedStderr:   "not a directory",
		},
		{
			name:             "ls invalid pattern",
			args:             []string{"ls", "-p", "[", "outer.zip"},
			expectedExitCode: cmd.ExitUsage,
			expectedStderr:   "invalid pattern",
		},
		{
			name:           "stat",
			args:           []string{"stat", "outer.zip~/inner.zip~/a.txt"},
			expectedStdout: "Type:     regular\nSize:     7\n",
		},
		{
			name:           "stat access",
			args:           []string{"stat", "outer.zip~/inner.zip~/a.txt"},
			expectedStdout: "Access:   r--\n",
		},
		{
			name:             "cat missing file",
			args:             []string{"cat", "outer.zip~/missing.txt"},
			expectedExitCode: cmd.ExitError,
			expectedStderr:   "file does not exist",
		},
		{
			name:             "cat missing archive",
			args:             []string{"cat", "missing.zip~/a.txt"},
			expectedExitCode: cmd.ExitError,
			expectedStderr:   "missing.zip",
		},
		{
			name:             "cat not an archive",
			args:             []string{"cat", "plain.txt~/a.txt"},
			expectedExitCode: cmd.ExitError,
			expectedStderr:   "unknown archive format",
		},
		{
			name:             "unknown key",
			args:             []string{"cat", "jij:unknown"},
			expectedExitCode: cmd.ExitError,
			expectedStderr:   "unknown",
		},
		{
			name:             "missing args",
			args:             []string{"cat"},
			expectedExitCode: cmd.ExitUsage,
			expectedStderr:   "invalid arguments",
		},
		{
			name:             "too many args",
			args:             []string{"ls", "outer.zip", "mod.jar"},
			expectedExitCode: cmd.ExitUsage,
			expectedStderr:   "invalid arguments",
		},
		{
			name:             "unknown flag",
			args:             []string{"ls", "--unknown", "outer.zip"},
			expectedExitCode: cmd.ExitUsage,
			expectedStderr:   "invalid flags",
		},
		{
			name:           "jars",
			args:           []string{"jars", "mod.jar"},
			expectedStdout: "org.example:a  1.2",
		},
		{
			name:             "jars strict",
			args:             []string{"jars", "--strict-metadata", "mod.jar"},
			expectedExitCode: cmd.ExitError,
			expectedStderr:   "extra",
		},
		{
			name:           "version",
			args:           []string{"--version"},
			expectedStdout: "jijfs version ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirFixtures(t)

			res := run(t, tt.args...)

			assert.Equal(t, tt.expectedExitCode, res.exitCode, res.stderr)
			assert.Contains(t, res.stdout, tt.expectedStdout)
			assert.Contains(t, res.stderr, tt.expectedStderr)
		})
	}
}

func TestRunURI(t *testing.T) {
	dir := filepath.ToSlash(chdirFixtures(t))
	outer := "jij:" + dir + "/outer.zip"

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "relative archive",
			args:     []string{"uri", "outer.zip~/inner.zip~/a.txt"},
			expected: outer + "~/inner.zip~/a.txt\n",
		},
		{
			name:     "layer root",
			args:     []string{"uri", "outer.zip"},
			expected: outer + "~/\n",
		},
		{
			name:     "not normalized",
			args:     []string{"uri", "outer.zip~/inner.zip~/./sub/../a.txt"},
			expected: outer + "~/inner.zip~/./sub/../a.txt\n",
		},
		{
			name:     "normalized",
			args:     []string{"uri", "-n", "outer.zip~/inner.zip~/./sub/../a.txt"},
			expected: outer + "~/inner.zip~/a.txt\n",
		},
		{
			name:     "absolute uri",
			args:     []string{"uri", outer + "~/x.txt"},
			expected: outer + "~/x.txt\n",
		},
		{
			name:     "multiple",
			args:     []string{"uri", "outer.zip~/x.txt", "mod.jar~/a.class"},
			expected: outer + "~/x.txt\n" + "jij:" + dir + "/mod.jar~/a.class\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)

			require.Equal(t, cmd.ExitOK, res.exitCode, res.stderr)
			assert.Equal(t, tt.expected, res.stdout)
		})
	}
}

func TestRunConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		chdirFixtures(t)

		res := run(t, "config", "--volume-names=false")

		require.Equal(t, cmd.ExitOK, res.exitCode, res.stderr)
		assert.Equal(t, "debug = false\n"+
			"volume-names = false\n"+
			"strict-metadata = false\n", res.stdout)
	})

	t.Run("env", func(t *testing.T) {
		chdirFixtures(t)
		t.Setenv("JIJFS_DEBUG", "true")
		t.Setenv("JIJFS_STRICT_METADATA", "true")

		res := run(t, "config")

		require.Equal(t, cmd.ExitOK, res.exitCode, res.stderr)
		assert.Contains(t, res.stdout, "debug = true\n")
		assert.Contains(t, res.stdout, "strict-metadata = true\n")
	})

	t.Run("local file", func(t *testing.T) {
		chdirFixtures(t)
		require.NoError(t, os.WriteFile(".jijfs.toml",
			[]byte("strict-metadata = true\n"), 0o644))

		res := run(t, "config")

		require.Equal(t, cmd.ExitOK, res.exitCode, res.stderr)
		assert.Contains(t, res.stdout, "# .jijfs.toml\n")
		assert.Contains(t, res.stdout, "strict-metadata = true\n")
	})

	t.Run("local file applies", func(t *testing.T) {
		chdirFixtures(t)
		require.NoError(t, os.WriteFile(".jijfs.toml",
			[]byte("strict-metadata = true\n"), 0o644))

		res := run(t, "jars", "mod.jar")

		assert.Equal(t, cmd.ExitError, res.exitCode)
		assert.Contains(t, res.stderr, "extra")
	})

	t.Run("flag overrides env", func(t *testing.T) {
		chdirFixtures(t)
		t.Setenv("JIJFS_DEBUG", "true")

		res := run(t, "config", "--debug=false")

		require.Equal(t, cmd.ExitOK, res.exitCode, res.stderr)
		assert.Contains(t, res.stdout, "debug = false\n")
	})

	t.Run("flag file", func(t *testing.T) {
		chdirFixtures(t)
		require.NoError(t, os.WriteFile("custom.toml",
			[]byte("debug = true\n"), 0o644))

		res := run(t, "config", "--config", "custom.toml")

		require.Equal(t, cmd.ExitOK, res.exitCode, res.stderr)
		assert.Contains(t, res.stdout, "# custom.toml\n")
		assert.Contains(t, res.stdout, "debug = true\n")
	})

	t.Run("missing flag file", func(t *testing.T) {
		chdirFixtures(t)

		res := run(t, "config", "--config", "missing.toml")

		assert.Equal(t, cmd.ExitError, res.exitCode)
		assert.Contains(t, res.stderr, "read config file")
	})

	t.Run("invalid file", func(t *testing.T) {
		chdirFixtures(t)
		require.NoError(t, os.WriteFile(".jijfs.toml",
			[]byte("debug = \n"), 0o644))

		res := run(t, "config")

		assert.Equal(t, cmd.ExitError, res.exitCode)
		assert.Contains(t, res.stderr, "read config file")
	})
}

func TestRunDebugLogging(t *testing.T) {
	chdirFixtures(t)

	res := run(t, "--debug", "cat", "outer.zip~/x.txt")

	require.Equal(t, cmd.ExitOK, res.exitCode, res.stderr)
	assert.Equal(t, "outer x", res.stdout)
	assert.Contains(t, res.stderr, "Loaded config")
}

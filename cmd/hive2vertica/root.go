// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/hive2vertica/cmd/hive2vertica/commands"
	"github.com/walteh/hive2vertica/cmd/hive2vertica/opts"
	"github.com/walteh/hive2vertica/pkg/log"
)

// newRootCmd creates the root command with all subcommands
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := opts.New(stdout)

	rootCmd := &cobra.Command{
		Use:   "hive2vertica",
		Short: "Copy Hive ORC partitions into Vertica with vsql",
		Long: `hive2vertica compiles Hive-to-Vertica copy jobs into vsql COPY commands
and optionally runs them. Jobs are read from a YAML or HCL config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(stderr, o.Debug)
			ctx := logger.WithContext(cmd.Context())
			ctx = log.NewContext(ctx, log.NewWithZerolog(stderr, logger))
			cmd.SetContext(ctx)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// Add shared flags
	o.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		commands.NewCompileCmd(o),
		commands.NewListCmd(o),
		commands.NewRunCmd(o),
		newVersionCmd(stdout),
	)

	return rootCmd
}

// setupLogging returns the zerolog logger for this run.
// Without --debug structured logs are off and only console lines are shown.
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.Disabled
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}

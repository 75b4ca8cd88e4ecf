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
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileop/cmd/fileop/commands"
	"github.com/walteh/fileop/cmd/fileop/opts"
	"github.com/walteh/fileop/cmd/fileop/ui"
	"github.com/walteh/fileop/pkg/config"
	"github.com/walteh/fileop/pkg/log"
	"gitlab.com/tozd/go/errors"
)

type rootFlags struct {
	configFile string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	ro := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "fileop",
		Short: "Copy, move, remove and rename files the way a file manager does",
		Long: `fileop runs file manager operations on local trees: recursive copy and
move with conflict strategies, removal to a trash directory, and batch
renaming through your editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(cmd.ErrOrStderr(), flags.debug)
			ctx := logger.WithContext(cmd.Context())
			cmd.SetContext(ctx)

			o, err := newRootOpts(ctx, flags.configFile, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			*ro = *o
			return nil
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewCopyCmd(ro),
		commands.NewMoveCmd(ro),
		commands.NewRemoveCmd(ro),
		commands.NewMakeFileCmd(ro),
		commands.NewMakeDirCmd(ro),
		commands.NewRenameCmd(ro),
		commands.NewTrashCmd(ro),
	)

	return rootCmd
}

func newRootOpts(ctx context.Context, configFile string, out io.Writer) (*opts.RootOpts, error) {
	logger := zerolog.Ctx(ctx)

	if configFile == "" {
		found, err := config.Find(".")
		if err != nil {
			return nil, errors.Errorf("finding config: %w", err)
		}
		configFile = found
	}

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(ctx, configFile)
	} else {
		logger.Debug().Msg("no config file found, using defaults")
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	logger.Debug().Stringer("config", cfg).Msg("configuration ready")

	return &opts.RootOpts{
		Config:  cfg,
		Console: log.NewWithZerolog(out, *logger),
		User:    ui.NewUserLogger(ctx, out),
	}, nil
}

func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (default: nearest .fileop.{yaml,hcl,json})")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}

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

package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/fileop/cmd/fileop/opts"
	"github.com/walteh/fileop/pkg/log"
	"github.com/walteh/fileop/pkg/trash"
	"gitlab.com/tozd/go/errors"
)

func NewTrashCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect and restore trashed entries",
	}

	cmd.AddCommand(newTrashListCmd(o), newTrashRestoreCmd(o))
	return cmd
}

func newTrashListCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the entries in the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := trash.NewDir(o.Config.Trash.Dir).List()
			if err != nil {
				return errors.Errorf("listing trash: %w", err)
			}
			return o.User.LogTrashEntries(entries)
		},
	}
}

func newTrashRestoreCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "restore ENTRY [DST]",
		Short: "Move a trashed entry back",
		Long: `Restore moves ENTRY (a name shown by "fileop trash list", or its full path)
out of the trash. DST defaults to the entry's original name in the current
directory and must not exist.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bin := trash.NewDir(o.Config.Trash.Dir)

			entry := args[0]
			if !filepath.IsAbs(entry) {
				entry = filepath.Join(bin.Root(), entry)
			}

			dst := trash.OriginalName(entry)
			if len(args) == 2 {
				dst = args[1]
			} else {
				wd, err := os.Getwd()
				if err != nil {
					return errors.Errorf("getting working directory: %w", err)
				}
				dst = filepath.Join(wd, dst)
			}

			o.Console.StartBatch(ctx, log.Batch{Command: "trash restore", Requests: 1, Conflict: "fail"})
			err := newEngine(o).Restore(ctx, entry, dst)
			o.Console.EndBatch(ctx)
			if err != nil {
				return err
			}
			o.Console.Successf("restored %s", dst)
			return nil
		},
	}
}

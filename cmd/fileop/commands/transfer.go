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
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/fileop/cmd/fileop/opts"
	"github.com/walteh/fileop/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

func NewCopyCmd(o *opts.RootOpts) *cobra.Command {
	return newTransferCmd(o, operation.KindCopy, "cp", "Copy files and directories", `Copy SRC to DST, or every SRC into DIRECTORY.

Directories are copied recursively. When the destination already has an
entry of the same name, --conflict decides what happens:
  fail           stop with an error (default)
  skip           keep what is there and merge directories
  replace-files  replace files, merge directories
  replace-all    same as replace-files
  append         resume a partially copied file`)
}

func NewMoveCmd(o *opts.RootOpts) *cobra.Command {
	return newTransferCmd(o, operation.KindMove, "mv", "Move files and directories", `Move SRC to DST, or every SRC into DIRECTORY.

A move is a rename when possible. Across volumes, or when the destination
already exists, the tree is copied and the source removed afterwards.
Entries skipped by --conflict skip stay in the source.`)
}

func newTransferCmd(o *opts.RootOpts, kind operation.Kind, use, short, long string) *cobra.Command {
	var (
		target   string
		conflict string
		async    bool
	)

	cmd := &cobra.Command{
		Use:   use + " SRC... DST | " + use + " -t DIRECTORY SRC...",
		Short: short,
		Long:  long,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			crs, err := conflictFlag(o, cmd.Flags().Changed("conflict"), conflict)
			if err != nil {
				return err
			}

			srcs, dst, into, err := splitTransferArgs(args, target)
			if err != nil {
				return err
			}
			srcs, err = expandArgs(srcs)
			if err != nil {
				return err
			}
			if len(srcs) > 1 && !into {
				return errors.Errorf("%s: target %s is not a directory", use, dst)
			}

			reqs := make([]operation.Request, 0, len(srcs))
			for _, src := range srcs {
				to := dst
				if into {
					to = filepath.Join(dst, filepath.Base(filepath.Clean(src)))
				}
				reqs = append(reqs, operation.Request{Kind: kind, Src: src, Dst: to, Conflict: crs})
			}

			return runBatch(ctx, o, use, crs, async || o.Config.Async, reqs)
		},
	}

	cmd.Flags().StringVarP(&target, "target-directory", "t", "", "copy all SRC arguments into DIRECTORY")
	cmd.Flags().StringVar(&conflict, "conflict", "", "what to do when the destination exists: fail, skip, replace-files, replace-all, append")
	cmd.Flags().BoolVar(&async, "async", false, "run independent requests concurrently")

	return cmd
}

// splitTransferArgs separates sources from the destination and reports
// whether sources go inside it
func splitTransferArgs(args []string, target string) ([]string, string, bool, error) {
	if target != "" {
		return args, target, true, nil
	}
	if len(args) < 2 {
		return nil, "", false, errors.Errorf("missing destination after %s", args[0])
	}
	srcs, dst := args[:len(args)-1], args[len(args)-1]
	into := len(srcs) > 1 || hasMeta(srcs[0]) || endsWithSeparator(dst) || isDir(dst)
	return srcs, dst, into, nil
}

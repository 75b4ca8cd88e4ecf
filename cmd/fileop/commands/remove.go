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
	"github.com/spf13/cobra"
	"github.com/walteh/fileop/cmd/fileop/opts"
	"github.com/walteh/fileop/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

func NewRemoveCmd(o *opts.RootOpts) *cobra.Command {
	var (
		toTrash   bool
		permanent bool
		async     bool
	)

	cmd := &cobra.Command{
		Use:   "rm PATH...",
		Short: "Remove files and directories",
		Long: `Remove deletes each PATH recursively, children before their directory.

With --trash (or trash.enabled in the config) entries are moved to the trash
directory instead and can be brought back with "fileop trash restore".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if toTrash && permanent {
				return errors.New("--trash and --permanent are mutually exclusive")
			}
			useTrash := o.Config.Trash.Enabled
			if toTrash {
				useTrash = true
			}
			if permanent {
				useTrash = false
			}

			paths, err := expandArgs(args)
			if err != nil {
				return err
			}

			kind := operation.KindRemovePermanently
			if useTrash {
				kind = operation.KindRemoveToTrash
			}
			reqs := make([]operation.Request, 0, len(paths))
			for _, p := range paths {
				reqs = append(reqs, operation.Request{Kind: kind, Src: p})
			}

			return runBatch(ctx, o, "rm", o.Config.ConflictStrategy(), async || o.Config.Async, reqs)
		},
	}

	cmd.Flags().BoolVar(&toTrash, "trash", false, "move entries to the trash")
	cmd.Flags().BoolVarP(&permanent, "permanent", "P", false, "delete entries even when the trash is enabled")
	cmd.Flags().BoolVar(&async, "async", false, "run independent requests concurrently")

	return cmd
}

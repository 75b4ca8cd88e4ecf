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
	"github.com/walteh/fileop/pkg/fsop"
	"github.com/walteh/fileop/pkg/operation"
)

func NewMakeFileCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkfile PATH...",
		Short: "Create empty files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]operation.Request, 0, len(args))
			for _, p := range args {
				reqs = append(reqs, operation.Request{Kind: operation.KindMakeFile, Src: p})
			}
			return runBatch(cmd.Context(), o, "mkfile", o.Config.ConflictStrategy(), false, reqs)
		},
	}
	return cmd
}

func NewMakeDirCmd(o *opts.RootOpts) *cobra.Command {
	var parents bool

	cmd := &cobra.Command{
		Use:   "mkdir PATH...",
		Short: "Create directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reqs []operation.Request
			for _, p := range args {
				dirs := []string{p}
				if parents {
					var err error
					dirs, err = missingDirs(p)
					if err != nil {
						return err
					}
				}
				for _, d := range dirs {
					reqs = append(reqs, operation.Request{Kind: operation.KindMakeDir, Src: d})
				}
			}
			return runBatch(cmd.Context(), o, "mkdir", o.Config.ConflictStrategy(), false, reqs)
		},
	}

	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parent directories, no error if PATH exists")

	return cmd
}

// missingDirs lists path and its missing ancestors, outermost first
func missingDirs(path string) ([]string, error) {
	var dirs []string
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		exists, err := fsop.Exists(p)
		if err != nil {
			return nil, err
		}
		if exists {
			break
		}
		dirs = append(dirs, p)
		if parent := filepath.Dir(p); parent == p {
			break
		}
	}
	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs, nil
}


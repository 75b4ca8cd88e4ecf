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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/fileop/cmd/fileop/opts"
	"github.com/walteh/fileop/pkg/fserr"
	"github.com/walteh/fileop/pkg/log"
	"github.com/walteh/fileop/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

func NewRenameCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dir  string
		bump int
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "rename [NAME...]",
		Short: "Rename files in a directory through an editor",
		Long: `Rename opens the names (all entries of --dir when none are given) in the
configured editor, one per line. Edit the lines and save: line N becomes the
new name of entry N. Lines starting with # are comments; write \# or \\ for a
leading # or \.

With --bump N no editor is started and the last number in every name is
increased by N instead, keeping its zero padding.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			names, err := renameNames(dir, args)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				o.User.LogValidation(false, "nothing to rename", nil)
				return nil
			}

			var originals, news []string
			if bump != 0 {
				originals = names
				for _, n := range names {
					news = append(news, rename.BumpName(n, bump))
				}
			} else {
				originals, news, err = editNames(ctx, o, dir, names, yes)
				if err != nil || originals == nil {
					return err
				}
			}

			marks, err := rename.CheckRenameList(dir, originals, news)
			if perr := o.User.LogRenamePreview(originals, news, marks); perr != nil {
				logger.Debug().Err(perr).Msg("rendering preview")
			}
			if err != nil {
				return err
			}

			if !yes {
				ok, err := o.User.Confirm(fmt.Sprintf("Rename %d entries?", len(originals)))
				if err != nil {
					return err
				}
				if !ok {
					o.User.LogValidation(false, "rename cancelled", nil)
					return nil
				}
			}

			o.Console.StartBatch(ctx, log.Batch{Command: "rename", Requests: len(originals), Conflict: "fail"})
			n, err := rename.Apply(ctx, dir, originals, news, o.Console)
			o.Console.EndBatch(ctx)
			if err != nil {
				return errors.Errorf("renamed %d entries before failing: %w", n, err)
			}
			o.Console.Successf("renamed %d entries", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory the names are relative to")
	cmd.Flags().IntVar(&bump, "bump", 0, "add N to the last number in each name instead of editing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

// editNames runs the editor until the list validates or the user gives up.
// A nil originals slice means there is nothing to do.
func editNames(ctx context.Context, o *opts.RootOpts, dir string, names []string, yes bool) ([]string, []string, error) {
	session := rename.NewSession(o.Config.Editor.Editor())
	reuse := false

	for {
		res, err := session.Edit(ctx, names, reuse)
		if err != nil {
			return nil, nil, err
		}
		if res.Empty() {
			o.User.LogValidation(false, "names unchanged, nothing to rename", nil)
			return nil, nil, nil
		}
		if res.Mismatch() {
			o.User.LogValidation(false, fmt.Sprintf("expected %d names, got %d: only the first %d entries are renamed", res.Want, res.Got, len(res.Names)), nil)
		}

		originals := names[:len(res.Names)]
		_, err = rename.CheckRenameList(dir, originals, res.Names)
		if err == nil {
			return originals, res.Names, nil
		}
		if yes || !errors.Is(err, fserr.ErrInvalidRenameList) {
			return nil, nil, err
		}

		o.User.LogValidation(false, "the edited list cannot be applied", err)
		again, cerr := o.User.Confirm("Edit the list again?")
		if cerr != nil {
			return nil, nil, cerr
		}
		if !again {
			return nil, nil, err
		}
		reuse = true
	}
}

// renameNames resolves args against dir. Without args every entry of dir is
// used, sorted by name.
func renameNames(dir string, args []string) ([]string, error) {
	if len(args) == 0 {
		dirents, err := os.ReadDir(dir)
		if err != nil {
			return nil, fserr.FromOS("list", dir, err)
		}
		names := make([]string, 0, len(dirents))
		for _, de := range dirents {
			names = append(names, de.Name())
		}
		sort.Strings(names)
		return names, nil
	}

	var names []string
	for _, arg := range args {
		if !hasMeta(arg) {
			names = append(names, filepath.Clean(arg))
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(dir), filepath.ToSlash(arg), doublestar.WithNoFollow())
		if err != nil {
			return nil, errors.Errorf("expanding %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no matches for %s in %s", arg, dir)
		}
		for _, m := range matches {
			names = append(names, filepath.FromSlash(m))
		}
	}
	return names, nil
}

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
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/fileop/cmd/fileop/opts"
	"github.com/walteh/fileop/pkg/log"
	"github.com/walteh/fileop/pkg/operation"
	"github.com/walteh/fileop/pkg/trash"
	"gitlab.com/tozd/go/errors"
)

// 🌟 expandArgs expands glob patterns among args; plain paths pass through
func expandArgs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !hasMeta(arg) {
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithNoFollow())
		if err != nil {
			return nil, errors.Errorf("expanding %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no matches for %s", arg)
		}
		out = append(out, matches...)
	}
	return out, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

func newEngine(o *opts.RootOpts) *operation.Engine {
	return operation.New(operation.Options{
		Notifier: o.Console,
		Trash:    trash.NewDir(o.Config.Trash.Dir),
	})
}

// 🏃 runBatch runs reqs through the engine and prints a summary
func runBatch(ctx context.Context, o *opts.RootOpts, command string, crs operation.ConflictStrategy, async bool, reqs []operation.Request) error {
	runner := operation.NewRunner(zerolog.Ctx(ctx), newEngine(o), async)

	o.Console.StartBatch(ctx, log.Batch{Command: command, Requests: len(reqs), Conflict: crs.String()})
	err := runner.Run(ctx, reqs...)
	sum := o.Console.EndBatch(ctx)
	if err != nil {
		return errors.Errorf("%s: %w", command, err)
	}
	o.Console.Success(sum.String())
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func conflictFlag(o *opts.RootOpts, changed bool, value string) (operation.ConflictStrategy, error) {
	if !changed {
		return o.Config.ConflictStrategy(), nil
	}
	return operation.ParseConflictStrategy(value)
}

func endsWithSeparator(path string) bool {
	return strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator))
}

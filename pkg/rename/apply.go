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

package rename

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/event"
	"github.com/walteh/fileop/pkg/fsop"
	"gitlab.com/tozd/go/errors"
)

// 🚀 Apply renames originals[i] to news[i] inside dir and returns how many
// entries were renamed. The mapping is validated with CheckRenameList first;
// a rejected mapping touches nothing. Entries whose current name is another
// entry's target (swaps, cycles) are parked under a temporary name first.
// One move event is emitted per renamed entry.
func Apply(ctx context.Context, dir string, originals, news []string, notifier event.Notifier) (int, error) {
	if notifier == nil {
		notifier = event.Discard
	}
	if _, err := CheckRenameList(dir, originals, news); err != nil {
		return 0, err
	}

	logger := zerolog.Ctx(ctx)

	targets := map[string]bool{}
	var pending []int
	for i := range originals {
		if news[i] == originals[i] {
			continue
		}
		pending = append(pending, i)
		targets[foldKey(filepath.Clean(news[i]))] = true
	}

	from := make(map[int]string, len(pending))
	isDir := make(map[int]bool, len(pending))
	for _, i := range pending {
		src := filepath.Join(dir, originals[i])
		info, err := fsop.Lstat(src)
		if err != nil {
			return 0, err
		}
		isDir[i] = info.IsDir()
		from[i] = src

		caseOnly := caseInsensitive && strings.EqualFold(originals[i], news[i])
		if !targets[foldKey(filepath.Clean(originals[i]))] && !caseOnly {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, errors.Errorf("renaming cancelled: %w", err)
		}
		tmp, err := fsop.TempName(filepath.Dir(src), filepath.Base(src))
		if err != nil {
			return 0, err
		}
		if err := fsop.Rename(src, tmp); err != nil {
			return 0, errors.Errorf("parking %s: %w", originals[i], err)
		}
		logger.Debug().Str("name", originals[i]).Str("temp", tmp).Msg("parked under temporary name")
		from[i] = tmp
	}

	done := 0
	for _, i := range pending {
		if err := ctx.Err(); err != nil {
			return done, errors.Errorf("renaming cancelled after %d entries: %w", done, err)
		}
		dst := filepath.Join(dir, news[i])
		if err := fsop.Rename(from[i], dst); err != nil {
			return done, errors.Errorf("renaming %s to %s: %w", originals[i], news[i], err)
		}
		logger.Debug().Str("from", originals[i]).Str("to", news[i]).Msg("renamed")
		notifier.Notify(ctx, event.Event{Kind: event.KindMove, Path: filepath.Join(dir, originals[i]), Target: dst, IsDir: isDir[i]})
		done++
	}
	return done, nil
}

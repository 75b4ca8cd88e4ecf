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

package operation

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/event"
	"github.com/walteh/fileop/pkg/fserr"
	"github.com/walteh/fileop/pkg/fsop"
	"gitlab.com/tozd/go/errors"
)

// rename is replaceable in tests.
var rename = fsop.Rename

// 🚚 Move moves src to dst. When dst does not exist a single rename is
// tried first; otherwise, or when the rename would cross volumes, the tree is
// copied with crs and the source removed afterwards. Source entries whose
// destination was skipped stay where they are.
func (e *Engine) Move(ctx context.Context, src, dst string, crs ConflictStrategy) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if err := guardContainment("move", src, dst); err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx)

	info, err := fsop.Lstat(src)
	if err != nil {
		return err
	}
	exists, err := fsop.Exists(dst)
	if err != nil {
		return err
	}

	if !exists {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("moving %s: %w", src, err)
		}
		err := rename(src, dst)
		if err == nil {
			logger.Debug().Str("src", src).Str("dst", dst).Msg("moved by rename")
			e.notify(ctx, event.Event{Kind: event.KindMove, Path: src, Target: dst, IsDir: info.IsDir()})
			return nil
		}
		if !errors.Is(err, fserr.ErrCrossVolume) {
			return err
		}
		logger.Debug().Str("src", src).Str("dst", dst).Msg("rename crosses volumes, copying instead")
	}

	skipped, err := e.copyTree(ctx, src, dst, crs)
	if err != nil {
		return errors.Errorf("moving %s: %w", src, err)
	}
	if err := e.removeTree(ctx, src, skipped); err != nil {
		return errors.Errorf("removing moved source %s: %w", src, err)
	}
	return nil
}

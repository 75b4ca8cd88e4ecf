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
	"github.com/walteh/fileop/pkg/fsop"
	"github.com/walteh/fileop/pkg/traverse"
	"gitlab.com/tozd/go/errors"
)

// 🧹 Remove deletes path and everything below it, children before their
// parent. With toTrash the entry is handed whole to the configured trash
// instead. The first failing entry stops the removal.
func (e *Engine) Remove(ctx context.Context, path string, toTrash bool) error {
	path = filepath.Clean(path)
	if toTrash {
		return e.removeToTrash(ctx, path)
	}
	if err := e.removeTree(ctx, path, nil); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}
	return nil
}

func (e *Engine) removeToTrash(ctx context.Context, path string) error {
	if e.trash == nil {
		return errors.Errorf("removing %s to trash: no trash configured", path)
	}
	info, err := fsop.Lstat(path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("removing %s to trash: %w", path, err)
	}
	stored, err := e.trash.Put(ctx, path)
	if err != nil {
		return errors.Errorf("removing %s to trash: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Str("trashed", stored).Msg("moved to trash")
	e.notify(ctx, event.Event{Kind: event.KindMove, Path: path, Target: stored, IsDir: info.IsDir(), ToTrash: true})
	return nil
}

// removeTree deletes path post-order, leaving the entries in keep and
// therefore their ancestors in place.
func (e *Engine) removeTree(ctx context.Context, path string, keep map[string]bool) error {
	return traverse.Traverse(ctx, path, &remover{engine: e, ctx: ctx, keep: keep})
}

// 🧹 remover deletes files on visit and directories on leave
type remover struct {
	engine *Engine
	ctx    context.Context
	keep   map[string]bool
}

var _ traverse.Visitor = (*remover)(nil)

func (r *remover) EnterDir(string) error { return nil }

func (r *remover) VisitFile(path string) error {
	if r.keep[path] {
		return nil
	}
	if err := fsop.RemoveFile(path); err != nil {
		return err
	}
	r.engine.notify(r.ctx, event.Event{Kind: event.KindRemove, Path: path})
	return nil
}

func (r *remover) LeaveDir(path string) error {
	if r.keep[path] {
		return nil
	}
	if err := fsop.RemoveDir(path); err != nil {
		return err
	}
	r.engine.notify(r.ctx, event.Event{Kind: event.KindRemove, Path: path, IsDir: true})
	return nil
}

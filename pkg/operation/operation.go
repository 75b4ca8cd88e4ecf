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
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/event"
	"github.com/walteh/fileop/pkg/fserr"
	"github.com/walteh/fileop/pkg/fsop"
	"github.com/walteh/fileop/pkg/trash"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operator is the set of recursive operations the engine offers
type Operator interface {
	Copy(ctx context.Context, src, dst string, crs ConflictStrategy) error
	Move(ctx context.Context, src, dst string, crs ConflictStrategy) error
	Remove(ctx context.Context, path string, toTrash bool) error
	MakeFile(ctx context.Context, path string) error
	MakeDir(ctx context.Context, path string) error
	Perform(ctx context.Context, req Request) error
}

// 🔧 Options contains the collaborators of an Engine
type Options struct {
	// Notifier receives one event per elementary change. Defaults to event.Discard.
	Notifier event.Notifier
	// Trash receives entries removed with toTrash. Optional.
	Trash trash.Trash
}

// 🏭 Engine implements Operator on the local filesystem
type Engine struct {
	notifier event.Notifier
	trash    trash.Trash
}

var _ Operator = (*Engine)(nil)

// New creates an engine with the given options.
func New(opts Options) *Engine {
	n := opts.Notifier
	if n == nil {
		n = event.Discard
	}
	return &Engine{
		notifier: n,
		trash:    opts.Trash,
	}
}

const (
	newFilePerm os.FileMode = 0o644
	newDirPerm  os.FileMode = 0o755
)

// ✨ MakeFile creates one empty file
func (e *Engine) MakeFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}
	if err := fsop.MakeFile(path, newFilePerm); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("file created")
	e.notify(ctx, event.Event{Kind: event.KindCreate, Path: path})
	return nil
}

// 📁 MakeDir creates one directory
func (e *Engine) MakeDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("creating %s: %w", path, err)
	}
	if err := fsop.MakeDir(path, newDirPerm); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("directory created")
	e.notify(ctx, event.Event{Kind: event.KindCreate, Path: path, IsDir: true})
	return nil
}

// ♻️ Restore moves an entry out of the trash to dst. The configured trash
// must implement trash.Restorer.
func (e *Engine) Restore(ctx context.Context, trashed, dst string) error {
	r, ok := e.trash.(trash.Restorer)
	if !ok {
		return errors.New("configured trash cannot restore entries")
	}
	info, err := fsop.Lstat(trashed)
	if err != nil {
		return err
	}
	if err := r.Restore(ctx, trashed, dst); err != nil {
		return err
	}
	e.notify(ctx, event.Event{Kind: event.KindMove, Path: trashed, Target: dst, IsDir: info.IsDir(), FromTrash: true})
	return nil
}

func (e *Engine) notify(ctx context.Context, ev event.Event) {
	e.notifier.Notify(ctx, ev)
}

// guardContainment fails when dst is src or lies below it.
func guardContainment(op, src, dst string) error {
	inside, err := fsop.Within(src, dst)
	if err != nil {
		return errors.Errorf("checking %s against %s: %w", dst, src, err)
	}
	if inside {
		return fserr.New(fserr.ErrSelfContainment, op, dst)
	}
	return nil
}

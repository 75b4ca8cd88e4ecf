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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/event"
	"github.com/walteh/fileop/pkg/fserr"
	"github.com/walteh/fileop/pkg/fsop"
	"github.com/walteh/fileop/pkg/traverse"
	"gitlab.com/tozd/go/errors"
)

// 📦 Copy copies src to dst. A directory onto an existing directory merges
// the two trees entry by entry; crs decides what happens to colliding files.
// Directories are created before their contents. Nothing is rolled back when
// an entry fails.
func (e *Engine) Copy(ctx context.Context, src, dst string, crs ConflictStrategy) error {
	_, err := e.copyTree(ctx, src, dst, crs)
	return err
}

// copyTree runs a copy and returns the source paths that were left behind
// because their destination was skipped, ancestors included.
func (e *Engine) copyTree(ctx context.Context, src, dst string, crs ConflictStrategy) (map[string]bool, error) {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if err := guardContainment("copy", src, dst); err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("src", src).Str("dst", dst).Stringer("conflict", crs).Msg("copying")

	c := &copier{
		engine:  e,
		ctx:     ctx,
		src:     src,
		dst:     dst,
		crs:     crs,
		skipped: map[string]bool{},
		infos:   map[string]os.FileInfo{},
	}
	if err := traverse.Traverse(ctx, src, c); err != nil {
		return c.skipped, errors.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return c.skipped, nil
}

// 📦 copier mirrors every visited entry below src into dst
type copier struct {
	engine  *Engine
	ctx     context.Context
	src     string
	dst     string
	crs     ConflictStrategy
	skipped map[string]bool
	// infos holds the source info of directories this copy created, so their
	// attributes can be applied once they are populated.
	infos map[string]os.FileInfo
}

var _ traverse.Visitor = (*copier)(nil)

func (c *copier) target(path string) (string, error) {
	rel, err := filepath.Rel(c.src, path)
	if err != nil {
		return "", errors.Errorf("mapping %s into %s: %w", path, c.dst, err)
	}
	return filepath.Join(c.dst, rel), nil
}

func (c *copier) EnterDir(path string) error {
	target, err := c.target(path)
	if err != nil {
		return err
	}

	existing, err := os.Lstat(target)
	switch {
	case err == nil && existing.IsDir() && c.crs == ConflictFail:
		return fserr.New(fserr.ErrAlreadyExists, "copy", target)
	case err == nil && existing.IsDir():
		// merge: the existing directory keeps its own attributes
		zerolog.Ctx(c.ctx).Debug().Str("dir", target).Msg("merging into existing directory")
		return traverse.SkipLeave
	case err == nil:
		return fserr.New(fserr.ErrShapeMismatch, "copy", target)
	case !errors.Is(err, os.ErrNotExist):
		return fserr.FromOS("stat", target, err)
	}

	info, err := fsop.Lstat(path)
	if err != nil {
		return err
	}
	// owner write access is needed to populate it; the real mode is applied on leave
	if err := fsop.MakeDir(target, info.Mode().Perm()|0o700); err != nil {
		return err
	}
	c.infos[path] = info
	c.engine.notify(c.ctx, event.Event{Kind: event.KindCreate, Path: target, IsDir: true})
	return nil
}

func (c *copier) LeaveDir(path string) error {
	info, ok := c.infos[path]
	if !ok {
		return nil
	}
	delete(c.infos, path)
	target, err := c.target(path)
	if err != nil {
		return err
	}
	return fsop.CopyAttributes(info, target)
}

func (c *copier) VisitFile(path string) error {
	target, err := c.target(path)
	if err != nil {
		return err
	}
	copied, err := c.engine.copyFile(c.ctx, path, target, c.crs)
	if err != nil {
		return err
	}
	if !copied {
		c.markSkipped(path)
	}
	return nil
}

func (c *copier) markSkipped(path string) {
	for p := path; ; p = filepath.Dir(p) {
		c.skipped[p] = true
		if p == c.src || p == filepath.Dir(p) {
			return
		}
	}
}

// copyFile copies a single non-directory applying crs. It reports false when
// the entry was skipped.
func (e *Engine) copyFile(ctx context.Context, src, dst string, crs ConflictStrategy) (bool, error) {
	logger := zerolog.Ctx(ctx)

	existing, err := os.Lstat(dst)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, fserr.FromOS("stat", dst, err)
		}
		if err := fsop.CopyFile(ctx, src, dst, fsop.CopyCreate); err != nil {
			return false, err
		}
		e.notify(ctx, event.Event{Kind: event.KindCreate, Path: dst})
		return true, nil
	}

	if existing.IsDir() {
		return false, fserr.New(fserr.ErrShapeMismatch, "copy", dst)
	}

	switch {
	case crs == ConflictSkip:
		logger.Debug().Str("dst", dst).Msg("destination exists, skipping")
		return false, nil
	case crs == ConflictAppend:
		if err := fsop.CopyFile(ctx, src, dst, fsop.CopyAppend); err != nil {
			return false, err
		}
	case crs.replaces():
		if err := replaceFile(ctx, src, dst); err != nil {
			return false, err
		}
		logger.Debug().Str("dst", dst).Msg("destination replaced")
	default:
		return false, fserr.New(fserr.ErrAlreadyExists, "copy", dst)
	}

	e.notify(ctx, event.Event{Kind: event.KindCreate, Path: dst})
	return true, nil
}

// replaceFile copies src next to dst and renames it over dst, so dst is
// either the old or the new content.
func replaceFile(ctx context.Context, src, dst string) error {
	tmp, err := fsop.TempName(filepath.Dir(dst), filepath.Base(dst))
	if err != nil {
		return err
	}
	if err := fsop.CopyFile(ctx, src, tmp, fsop.CopyCreate); err != nil {
		return err
	}
	if err := fsop.ReplaceFile(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

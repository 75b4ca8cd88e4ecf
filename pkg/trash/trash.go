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

package trash

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/fserr"
	"github.com/walteh/fileop/pkg/fsop"
	"github.com/walteh/fileop/pkg/traverse"
	"gitlab.com/tozd/go/errors"
)

// 🗑️ Trash accepts entries that would otherwise be deleted
type Trash interface {
	// Put moves path into the trash and returns where it now lives.
	Put(ctx context.Context, path string) (string, error)
}

// ♻️ Restorer is implemented by trashes that can give entries back
type Restorer interface {
	// Restore moves a trashed entry to dst, which must not exist.
	Restore(ctx context.Context, trashed, dst string) error
}

// 📦 Entry is one item stored in a Dir
type Entry struct {
	// Path is the location inside the trash directory.
	Path string
	// Name is the entry's name before it was trashed.
	Name string
}

// 📁 Dir is a trash stored as a single directory. Entries are renamed into
// it as "NNN_name" where NNN is the lowest free index. Entries on another
// volume are copied in and then deleted.
type Dir struct {
	root string
	mu   sync.Mutex
}

var _ Trash = (*Dir)(nil)
var _ Restorer = (*Dir)(nil)

// NewDir returns a trash rooted at root. The directory is created on first use.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the trash directory.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) Put(ctx context.Context, path string) (string, error) {
	logger := zerolog.Ctx(ctx)

	if inside, err := fsop.Within(path, d.root); err != nil {
		return "", err
	} else if inside {
		return "", fserr.New(fserr.ErrSelfContainment, "trash", path)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(d.root, 0o700); err != nil {
		return "", fserr.FromOS("mkdir", d.root, err)
	}

	dst, err := d.nextFree(filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := transfer(ctx, path, dst); err != nil {
		return "", errors.Errorf("moving %s to trash: %w", path, err)
	}

	logger.Debug().Str("path", path).Str("trashed", dst).Msg("entry moved to trash")
	return dst, nil
}

// 📋 List returns the entries currently in the trash sorted by index
func (d *Dir) List() ([]Entry, error) {
	dirents, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &fserr.Error{Kind: fserr.ErrCannotList, Op: "list", Path: d.root, Err: err}
	}

	type indexed struct {
		idx int
		e   Entry
	}
	var found []indexed
	for _, de := range dirents {
		idx, name, ok := splitName(de.Name())
		if !ok {
			continue
		}
		found = append(found, indexed{idx: idx, e: Entry{Path: filepath.Join(d.root, de.Name()), Name: name}})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].idx != found[j].idx {
			return found[i].idx < found[j].idx
		}
		return found[i].e.Path < found[j].e.Path
	})

	out := make([]Entry, 0, len(found))
	for _, f := range found {
		out = append(out, f.e)
	}
	return out, nil
}

func (d *Dir) Restore(ctx context.Context, trashed, dst string) error {
	inside, err := fsop.Within(d.root, trashed)
	if err != nil {
		return err
	}
	if !inside || filepath.Dir(filepath.Clean(trashed)) != filepath.Clean(d.root) {
		return errors.Errorf("%s is not an entry of trash %s", trashed, d.root)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if exists, err := fsop.Exists(dst); err != nil {
		return err
	} else if exists {
		return fserr.New(fserr.ErrAlreadyExists, "restore", dst)
	}

	if err := transfer(ctx, trashed, dst); err != nil {
		return errors.Errorf("restoring %s: %w", trashed, err)
	}
	zerolog.Ctx(ctx).Debug().Str("trashed", trashed).Str("path", dst).Msg("entry restored from trash")
	return nil
}

// rename is replaceable in tests.
var rename = fsop.Rename

// transfer renames src to dst. Across volumes the subtree is copied to dst and
// src deleted afterwards; a failed copy removes what it already wrote.
func transfer(ctx context.Context, src, dst string) error {
	err := rename(src, dst)
	if err == nil || !errors.Is(err, fserr.ErrCrossVolume) {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Msg("rename crosses volumes, copying instead")

	if err := copyTree(ctx, src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return err
	}
	return removeTree(ctx, src)
}

func copyTree(ctx context.Context, src, dst string) error {
	infos := map[string]os.FileInfo{}
	return traverse.Traverse(ctx, src, traverse.VisitorFunc(func(path string, ev traverse.Event) error {
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("mapping %s into %s: %w", path, dst, err)
		}
		target := filepath.Join(dst, rel)

		switch ev {
		case traverse.DirEntered:
			info, err := fsop.Lstat(path)
			if err != nil {
				return err
			}
			infos[path] = info
			return fsop.MakeDir(target, info.Mode().Perm()|0o700)
		case traverse.DirLeft:
			return fsop.CopyAttributes(infos[path], target)
		default:
			return fsop.CopyFile(ctx, path, target, fsop.CopyCreate)
		}
	}))
}

func removeTree(ctx context.Context, path string) error {
	return traverse.Traverse(ctx, path, traverse.VisitorFunc(func(p string, ev traverse.Event) error {
		switch ev {
		case traverse.FileVisited:
			return fsop.RemoveFile(p)
		case traverse.DirLeft:
			return fsop.RemoveDir(p)
		default:
			return nil
		}
	}))
}

// OriginalName strips the index prefix from a trashed entry's name.
func OriginalName(trashed string) string {
	if _, name, ok := splitName(filepath.Base(trashed)); ok {
		return name
	}
	return filepath.Base(trashed)
}

func (d *Dir) nextFree(name string) (string, error) {
	for i := 0; ; i++ {
		candidate := filepath.Join(d.root, fmt.Sprintf("%03d_%s", i, name))
		exists, err := fsop.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func splitName(stored string) (int, string, bool) {
	prefix, name, ok := strings.Cut(stored, "_")
	if !ok || len(prefix) < 3 || name == "" {
		return 0, "", false
	}
	idx, err := strconv.Atoi(prefix)
	if err != nil || idx < 0 {
		return 0, "", false
	}
	return idx, name, true
}

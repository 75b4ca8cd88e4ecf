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

// Package traverse walks a directory subtree depth-first and reports every
// entry to a Visitor. It knows nothing about what the visitor does with the
// entries; memory use grows with the depth of the tree, not its size.
package traverse

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/walteh/fileop/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// readBatch bounds how many directory entries are held in memory at once.
const readBatch = 256

// 🎯 Event identifies which callback a visit corresponds to
type Event int

const (
	FileVisited Event = iota
	DirEntered
	DirLeft
)

func (e Event) String() string {
	switch e {
	case FileVisited:
		return "file"
	case DirEntered:
		return "enter"
	case DirLeft:
		return "leave"
	default:
		return "unknown"
	}
}

// SkipLeave may be returned from EnterDir: children are still visited but
// the matching LeaveDir call is suppressed. Returned from any other callback
// it is treated as success.
var SkipLeave = errors.Base("skip directory leave")

// 👣 Visitor receives the entries of a subtree. A nil return continues the
// walk; any error other than SkipLeave aborts it and is returned by Traverse
// unchanged.
type Visitor interface {
	VisitFile(path string) error
	EnterDir(path string) error
	LeaveDir(path string) error
}

// VisitorFunc adapts a single function to the Visitor interface.
type VisitorFunc func(path string, ev Event) error

func (f VisitorFunc) VisitFile(path string) error { return f(path, FileVisited) }
func (f VisitorFunc) EnterDir(path string) error  { return f(path, DirEntered) }
func (f VisitorFunc) LeaveDir(path string) error  { return f(path, DirLeft) }

// 🚶 Traverse walks path. A non-directory (symlinks included, they are never
// followed) produces exactly one VisitFile call. Children are visited in the
// order the directory listing yields them.
//
// ctx is checked before every callback; cancellation aborts the walk with an
// error wrapping ctx.Err().
func Traverse(ctx context.Context, path string, v Visitor) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fserr.FromOS("stat", path, err)
	}
	if !info.IsDir() {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("traversal cancelled at %s: %w", path, err)
		}
		return ignoreSkip(v.VisitFile(path))
	}
	return traverseDir(ctx, path, v)
}

func traverseDir(ctx context.Context, path string, v Visitor) error {
	dir, err := os.Open(path)
	if err != nil {
		return &fserr.Error{Kind: fserr.ErrCannotList, Op: "list", Path: path, Err: err}
	}
	defer dir.Close()

	if err := ctx.Err(); err != nil {
		return errors.Errorf("traversal cancelled at %s: %w", path, err)
	}

	skipLeave := false
	if err := v.EnterDir(path); err != nil {
		if !errors.Is(err, SkipLeave) {
			return err
		}
		skipLeave = true
	}

	for {
		entries, readErr := dir.ReadDir(readBatch)
		for _, entry := range entries {
			// ReadDir never yields "." or "..".
			child := filepath.Join(path, entry.Name())
			if err := ctx.Err(); err != nil {
				return errors.Errorf("traversal cancelled at %s: %w", child, err)
			}
			if entry.IsDir() {
				err = traverseDir(ctx, child, v)
			} else {
				err = ignoreSkip(v.VisitFile(child))
			}
			if err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return &fserr.Error{Kind: fserr.ErrCannotList, Op: "list", Path: path, Err: readErr}
		}
	}

	if skipLeave {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("traversal cancelled at %s: %w", path, err)
	}
	return ignoreSkip(v.LeaveDir(path))
}

func ignoreSkip(err error) error {
	if errors.Is(err, SkipLeave) {
		return nil
	}
	return err
}

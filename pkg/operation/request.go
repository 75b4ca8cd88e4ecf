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

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind names an operation a Request asks for
type Kind int

const (
	KindCopy Kind = iota
	KindMove
	KindRemoveToTrash
	KindRemovePermanently
	KindMakeFile
	KindMakeDir
)

func (k Kind) String() string {
	switch k {
	case KindCopy:
		return "copy"
	case KindMove:
		return "move"
	case KindRemoveToTrash:
		return "trash"
	case KindRemovePermanently:
		return "remove"
	case KindMakeFile:
		return "mkfile"
	case KindMakeDir:
		return "mkdir"
	default:
		return "unknown"
	}
}

// 📨 Request describes one operation. Single-path kinds only use Src.
type Request struct {
	Kind     Kind
	Src      string
	Dst      string
	Conflict ConflictStrategy
}

// paths returns every path the request touches.
func (r Request) paths() []string {
	switch r.Kind {
	case KindCopy, KindMove:
		return []string{r.Src, r.Dst}
	default:
		return []string{r.Src}
	}
}

// 🎮 Perform dispatches req to the matching operation
func (e *Engine) Perform(ctx context.Context, req Request) error {
	switch req.Kind {
	case KindCopy:
		return e.Copy(ctx, req.Src, req.Dst, req.Conflict)
	case KindMove:
		return e.Move(ctx, req.Src, req.Dst, req.Conflict)
	case KindRemoveToTrash:
		return e.Remove(ctx, req.Src, true)
	case KindRemovePermanently:
		return e.Remove(ctx, req.Src, false)
	case KindMakeFile:
		return e.MakeFile(ctx, req.Src)
	case KindMakeDir:
		return e.MakeDir(ctx, req.Src)
	default:
		return errors.Errorf("unknown operation kind %d", int(req.Kind))
	}
}

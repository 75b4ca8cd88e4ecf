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
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📋 Result is the outcome of one editing round
type Result struct {
	// Names holds the edited names, at most as many as were requested.
	// It is empty when nothing changed or editing produced no names.
	Names []string
	// Want is the number of names that were handed to the editor.
	Want int
	// Got is the number of names the edited document contained.
	Got int
}

// Mismatch reports whether the document came back with a different number
// of names than it was given.
func (r Result) Mismatch() bool {
	return len(r.Names) > 0 && r.Got != r.Want
}

// Empty reports whether there is nothing to rename.
func (r Result) Empty() bool {
	return len(r.Names) == 0
}

// 🔄 Session runs editor round trips and remembers the last accepted edit,
// so an unchanged second pass is recognised and a cancelled edit can be
// reopened.
type Session struct {
	editor Editor

	mu     sync.Mutex
	cached string
	last   []string
}

// NewSession returns a session using editor.
func NewSession(editor Editor) *Session {
	return &Session{editor: editor}
}

// ✏️ Edit hands names to the editor and parses the result.
//
// With reuse the previously accepted text is reopened (or the plain names
// when there is none) and its names are returned even if unchanged. Without
// reuse, a document equal to the input or to the previous accepted edit
// yields an empty Result. A document with no names clears the remembered
// edit. When fewer or more names come back, Names is cut to the shorter
// length and Mismatch reports it.
func (s *Session) Edit(ctx context.Context, names []string, reuse bool) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	res := Result{Want: len(names)}

	doc := Encode(names)
	if reuse && s.last != nil {
		doc = s.cached
	}

	edited, err := s.editor.Edit(ctx, doc)
	if err != nil {
		return res, errors.Errorf("editing names: %w", err)
	}

	parsed := Decode(edited)
	res.Got = len(parsed)

	switch {
	case len(parsed) == 0:
		logger.Debug().Msg("edited list is empty, forgetting previous edit")
		s.cached, s.last = "", nil
		return res, nil
	case !reuse && slices.Equal(parsed, names):
		logger.Debug().Msg("names unchanged")
		return Result{Want: len(names), Got: len(parsed)}, nil
	case !reuse && s.last != nil && slices.Equal(parsed, s.last):
		logger.Debug().Msg("same as previous edit")
		return Result{Want: len(names), Got: len(parsed)}, nil
	}

	s.cached, s.last = edited, parsed

	n := min(len(parsed), len(names))
	if len(parsed) != len(names) {
		logger.Warn().Int("want", len(names)).Int("got", len(parsed)).Msg("edited list has a different number of names")
	}
	res.Names = slices.Clone(parsed[:n])
	return res, nil
}

// Forget drops the remembered edit.
func (s *Session) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached, s.last = "", nil
}

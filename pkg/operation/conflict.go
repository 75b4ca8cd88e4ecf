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
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ⚔️ ConflictStrategy decides what happens when a copied or moved entry
// collides with an existing destination entry of the same shape. A file
// colliding with a directory is always an error.
type ConflictStrategy int

const (
	// ConflictFail refuses to touch an existing destination.
	ConflictFail ConflictStrategy = iota
	// ConflictSkip leaves existing destination files alone.
	ConflictSkip
	// ConflictReplaceFiles overwrites colliding files and merges directories.
	ConflictReplaceFiles
	// ConflictReplaceAll overwrites colliding files and merges directories,
	// including populated ones.
	ConflictReplaceAll
	// ConflictAppend resumes an interrupted copy of colliding files.
	ConflictAppend
)

var conflictNames = map[ConflictStrategy]string{
	ConflictFail:         "fail",
	ConflictSkip:         "skip",
	ConflictReplaceFiles: "replace-files",
	ConflictReplaceAll:   "replace-all",
	ConflictAppend:       "append",
}

func (c ConflictStrategy) String() string {
	if name, ok := conflictNames[c]; ok {
		return name
	}
	return "unknown"
}

// 🔍 ParseConflictStrategy parses the names printed by String. The empty
// string selects ConflictFail.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ConflictFail, nil
	}
	for c, name := range conflictNames {
		if name == s {
			return c, nil
		}
	}
	return ConflictFail, errors.Errorf("unknown conflict strategy %q (want fail, skip, replace-files, replace-all or append)", s)
}

// replaces reports whether colliding files are overwritten.
func (c ConflictStrategy) replaces() bool {
	return c == ConflictReplaceFiles || c == ConflictReplaceAll
}

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
	"path/filepath"
	"runtime"
	"strings"

	"github.com/walteh/fileop/pkg/fserr"
	"github.com/walteh/fileop/pkg/fsop"
	"gitlab.com/tozd/go/errors"
)

// caseInsensitive is true where the default filesystem ignores case.
var caseInsensitive = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// ✅ IsNameListOK checks a rename mapping before anything touches the disk:
// both lists must have the same length, every name on either side must name
// an entry rather than a directory itself, no new name may be repeated, and
// every new name must stay in the directory of the name it replaces.
func IsNameListOK(originals, news []string) error {
	if len(originals) != len(news) {
		return errors.Errorf("%w: %d names for %d files", fserr.ErrInvalidRenameList, len(news), len(originals))
	}

	for _, orig := range originals {
		if !isEntryName(orig) {
			return errors.Errorf("%w: %q does not name a directory entry", fserr.ErrInvalidRenameList, orig)
		}
	}

	seen := make(map[string]int, len(news))
	for i, name := range news {
		if name == "" {
			return errors.Errorf("%w: empty name for %q", fserr.ErrInvalidRenameList, originals[i])
		}
		if !isEntryName(name) {
			return errors.Errorf("%w: %q does not name a directory entry", fserr.ErrInvalidRenameList, name)
		}
		clean := filepath.Clean(name)
		if filepath.Dir(clean) != filepath.Dir(filepath.Clean(originals[i])) {
			return errors.Errorf("%w: %q would move %q to another directory", fserr.ErrInvalidRenameList, name, originals[i])
		}
		key := foldKey(clean)
		if j, dup := seen[key]; dup {
			return errors.Errorf("%w: %q and %q would both become %q", fserr.ErrInvalidRenameList, originals[j], originals[i], name)
		}
		seen[key] = i
	}
	return nil
}

// 🔍 CheckRename classifies a single rename of old to name inside dir:
// negative when it is not a rename (empty or identical name), zero when the
// target already exists, positive when the rename can be performed. A change
// of case only counts as a rename on case-insensitive systems.
func CheckRename(dir, old, name string) int {
	if name == "" || name == old {
		return -1
	}
	exists, err := fsop.Exists(filepath.Join(dir, name))
	if err != nil || !exists {
		return 1
	}
	if caseInsensitive && strings.EqualFold(old, name) {
		return 1
	}
	return 0
}

// 🔍 CheckRenameList validates a whole mapping relative to dir. The returned
// slice marks entries whose target already exists on disk and is not itself
// renamed away by the same batch. Any mark makes the list invalid.
func CheckRenameList(dir string, originals, news []string) ([]bool, error) {
	if err := IsNameListOK(originals, news); err != nil {
		return nil, err
	}

	leaving := make(map[string]bool, len(originals))
	for i, orig := range originals {
		if news[i] != orig {
			leaving[foldKey(filepath.Clean(orig))] = true
		}
	}

	marks := make([]bool, len(news))
	var taken []string
	for i, name := range news {
		if name == originals[i] {
			continue
		}
		if leaving[foldKey(filepath.Clean(name))] {
			continue
		}
		if caseInsensitive && strings.EqualFold(name, originals[i]) {
			continue
		}
		exists, err := fsop.Exists(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if exists {
			marks[i] = true
			taken = append(taken, name)
		}
	}

	if len(taken) > 0 {
		return marks, errors.Errorf("%w: %s already exist", fserr.ErrInvalidRenameList, strings.Join(taken, ", "))
	}
	return marks, nil
}

// isEntryName reports whether name resolves to an entry below its directory
// rather than to the directory itself or its parent.
func isEntryName(name string) bool {
	if name == "" {
		return false
	}
	base := filepath.Base(filepath.Clean(name))
	return base != "." && base != ".." && base != string(filepath.Separator)
}

func foldKey(name string) string {
	if caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

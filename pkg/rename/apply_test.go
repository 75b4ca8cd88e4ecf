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
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileop/pkg/event"
	"github.com/walteh/fileop/pkg/fserr"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFiles(t *testing.T, dir string) map[string]string {
	t.Helper()
	got := map[string]string{}
	require.NoError(t, filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(data)
		return nil
	}))
	return got
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		originals []string
		news      []string
		want      map[string]string
		renamed   int
	}{
		{
			name:      "simple",
			files:     map[string]string{"a": "1", "b": "2"},
			originals: []string{"a", "b"},
			news:      []string{"x", "b"},
			want:      map[string]string{"x": "1", "b": "2"},
			renamed:   1,
		},
		{
			name:      "swap",
			files:     map[string]string{"a": "1", "b": "2"},
			originals: []string{"a", "b"},
			news:      []string{"b", "a"},
			want:      map[string]string{"a": "2", "b": "1"},
			renamed:   2,
		},
		{
			name:      "cycle",
			files:     map[string]string{"a": "1", "b": "2", "c": "3"},
			originals: []string{"a", "b", "c"},
			news:      []string{"b", "c", "a"},
			want:      map[string]string{"a": "3", "b": "1", "c": "2"},
			renamed:   3,
		},
		{
			name:      "chain_into_freed_name",
			files:     map[string]string{"a": "1", "b": "2"},
			originals: []string{"a", "b"},
			news:      []string{"b", "c"},
			want:      map[string]string{"b": "1", "c": "2"},
			renamed:   2,
		},
		{
			name:      "nested",
			files:     map[string]string{"sub/a": "1", "sub/b": "2"},
			originals: []string{"sub/a", "sub/b"},
			news:      []string{"sub/b", "sub/a"},
			want:      map[string]string{"sub/a": "2", "sub/b": "1"},
			renamed:   2,
		},
		{
			name:      "nothing_changed",
			files:     map[string]string{"a": "1"},
			originals: []string{"a"},
			news:      []string{"a"},
			want:      map[string]string{"a": "1"},
			renamed:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files)

			n, err := Apply(testContext(t), dir, tt.originals, tt.news, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.renamed, n)
			assert.Equal(t, tt.want, readFiles(t, dir), "no temporary names are left behind")
		})
	}
}

func TestApplyRejectedListTouchesNothing(t *testing.T) {
	tests := []struct {
		name      string
		originals []string
		news      []string
	}{
		{name: "duplicate_targets", originals: []string{"a", "b"}, news: []string{"c", "c"}},
		{name: "existing_target", originals: []string{"a"}, news: []string{"keep"}},
		{name: "empty_name", originals: []string{"a", "b"}, news: []string{"x", ""}},
		{name: "moves_out_of_directory", originals: []string{"a"}, news: []string{"../a"}},
		{name: "count_mismatch", originals: []string{"a", "b"}, news: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			files := map[string]string{"a": "1", "b": "2", "keep": "3"}
			writeFiles(t, dir, files)
			rec := &event.Recorder{}

			n, err := Apply(testContext(t), dir, tt.originals, tt.news, rec)
			assert.ErrorIs(t, err, fserr.ErrInvalidRenameList)
			assert.Zero(t, n)
			assert.Equal(t, files, readFiles(t, dir))
			assert.Empty(t, rec.Events())
		})
	}
}

func TestApplyEvents(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a": "1", "b": "2", "d/f": "3"})
	rec := &event.Recorder{}

	_, err := Apply(testContext(t), dir, []string{"a", "b", "d"}, []string{"b", "a", "e"}, rec)
	require.NoError(t, err)

	evs := rec.Events()
	sort.Slice(evs, func(i, j int) bool { return evs[i].Path < evs[j].Path })
	assert.Equal(t, []event.Event{
		{Kind: event.KindMove, Path: filepath.Join(dir, "a"), Target: filepath.Join(dir, "b")},
		{Kind: event.KindMove, Path: filepath.Join(dir, "b"), Target: filepath.Join(dir, "a")},
		{Kind: event.KindMove, Path: filepath.Join(dir, "d"), Target: filepath.Join(dir, "e"), IsDir: true},
	}, evs, "events name the original and final paths, never temporary ones")
}

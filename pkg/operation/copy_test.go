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

package operation_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileop/pkg/event"
	"github.com/walteh/fileop/pkg/fserr"
	"github.com/walteh/fileop/pkg/operation"
)

func TestCopyStructures(t *testing.T) {
	tests := []struct {
		name string
		src  map[string]string
	}{
		{
			name: "empty_directory",
			src:  map[string]string{},
		},
		{
			name: "directory_with_file",
			src:  map[string]string{"file": "content"},
		},
		{
			name: "nested_empty_directory",
			src:  map[string]string{"empty/": ""},
		},
		{
			name: "nested_directory_with_file",
			src:  map[string]string{"nested/": "", "nested/file": "deep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, engine, rec := createTestEnv(t)
			root := t.TempDir()
			src := filepath.Join(root, "src")
			dst := filepath.Join(root, "dst")
			require.NoError(t, os.Mkdir(src, 0o755))
			writeTree(t, src, tt.src)

			require.NoError(t, engine.Copy(ctx, src, dst, operation.ConflictFail))

			assert.Equal(t, readTree(t, src), readTree(t, dst), "destination should mirror the source")
			assert.Len(t, rec.Events(), len(tt.src)+1, "one create event per entry")
		})
	}
}

func TestCopySingleFileRoundTrip(t *testing.T) {
	ctx, engine, rec := createTestEnv(t)
	root := t.TempDir()
	src := filepath.Join(root, "a")
	dst := filepath.Join(root, "b")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, engine.Copy(ctx, src, dst, operation.ConflictFail))
	assert.Equal(t, []event.Event{{Kind: event.KindCreate, Path: dst}}, rec.Events())

	require.NoError(t, engine.Remove(ctx, dst, false))

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data), "source is untouched by copy and removal of the copy")
	assert.NoFileExists(t, dst)
}

func TestCopyConflicts(t *testing.T) {
	tests := []struct {
		name    string
		src     map[string]string // below root/src
		dst     map[string]string // below root/dst
		srcPath string            // relative to root
		dstPath string
		crs     operation.ConflictStrategy
		wantErr error
		want    map[string]string // final content of root/dst
	}{
		{
			name:    "fail_on_existing_file",
			src:     map[string]string{"f": "new"},
			dst:     map[string]string{"f": "old"},
			srcPath: "src/f",
			dstPath: "dst/f",
			crs:     operation.ConflictFail,
			wantErr: fserr.ErrAlreadyExists,
			want:    map[string]string{"f": "old"},
		},
		{
			name:    "fail_on_existing_directory",
			src:     map[string]string{"d/": ""},
			dst:     map[string]string{"d/": ""},
			srcPath: "src/d",
			dstPath: "dst/d",
			crs:     operation.ConflictFail,
			wantErr: fserr.ErrAlreadyExists,
			want:    map[string]string{"d/": ""},
		},
		{
			name:    "skip_keeps_existing_file",
			src:     map[string]string{"f": "new"},
			dst:     map[string]string{"f": "old"},
			srcPath: "src/f",
			dstPath: "dst/f",
			crs:     operation.ConflictSkip,
			want:    map[string]string{"f": "old"},
		},
		{
			name:    "replace_files_overwrites_file",
			src:     map[string]string{"f": "new"},
			dst:     map[string]string{"f": "old"},
			srcPath: "src/f",
			dstPath: "dst/f",
			crs:     operation.ConflictReplaceFiles,
			want:    map[string]string{"f": "new"},
		},
		{
			name:    "replace_files_file_onto_directory",
			src:     map[string]string{"f": "new"},
			dst:     map[string]string{"f/": ""},
			srcPath: "src/f",
			dstPath: "dst/f",
			crs:     operation.ConflictReplaceFiles,
			wantErr: fserr.ErrShapeMismatch,
			want:    map[string]string{"f/": ""},
		},
		{
			name:    "replace_all_directory_onto_file",
			src:     map[string]string{"d/": ""},
			dst:     map[string]string{"d": "file"},
			srcPath: "src/d",
			dstPath: "dst/d",
			crs:     operation.ConflictReplaceAll,
			wantErr: fserr.ErrShapeMismatch,
			want:    map[string]string{"d": "file"},
		},
		{
			name:    "replace_all_into_populated_directory",
			src:     map[string]string{"d/a": "a-new", "d/sub/c": "c"},
			dst:     map[string]string{"d/a": "a-old", "d/b": "b"},
			srcPath: "src/d",
			dstPath: "dst/d",
			crs:     operation.ConflictReplaceAll,
			want: map[string]string{
				"d/": "", "d/a": "a-new", "d/b": "b", "d/sub/": "", "d/sub/c": "c",
			},
		},
		{
			name:    "replace_files_merges_directories",
			src:     map[string]string{"first/a": "a"},
			dst:     map[string]string{"second/b": "b"},
			srcPath: "src/first",
			dstPath: "dst/second",
			crs:     operation.ConflictReplaceFiles,
			want:    map[string]string{"second/": "", "second/a": "a", "second/b": "b"},
		},
		{
			name:    "skip_merges_directories",
			src:     map[string]string{"d/a": "a-new", "d/c": "c"},
			dst:     map[string]string{"d/a": "a-old"},
			srcPath: "src/d",
			dstPath: "dst/d",
			crs:     operation.ConflictSkip,
			want:    map[string]string{"d/": "", "d/a": "a-old", "d/c": "c"},
		},
		{
			name:    "append_completes_partial_file",
			src:     map[string]string{"f": "0123456789"},
			dst:     map[string]string{"f": "01234"},
			srcPath: "src/f",
			dstPath: "dst/f",
			crs:     operation.ConflictAppend,
			want:    map[string]string{"f": "0123456789"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, engine, _ := createTestEnv(t)
			root := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0o755))
			require.NoError(t, os.Mkdir(filepath.Join(root, "dst"), 0o755))
			writeTree(t, filepath.Join(root, "src"), tt.src)
			writeTree(t, filepath.Join(root, "dst"), tt.dst)

			err := engine.Copy(ctx, filepath.Join(root, tt.srcPath), filepath.Join(root, tt.dstPath), tt.crs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			got := readTree(t, filepath.Join(root, "dst"))
			for name := range got {
				if filepath.Base(name)[0] == '.' {
					t.Errorf("temporary file %s left behind", name)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCopySelfContainment(t *testing.T) {
	tests := []struct {
		name string
		dst  string
	}{
		{name: "into_subdirectory", dst: "d/sub"},
		{name: "into_new_subdirectory", dst: "d/sub/new"},
		{name: "onto_itself", dst: "d"},
		{name: "onto_itself_unclean", dst: "d/./"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, engine, rec := createTestEnv(t)
			root := t.TempDir()
			writeTree(t, root, map[string]string{"d/sub/": "", "d/f": "x"})
			before := readTree(t, root)

			err := engine.Copy(ctx, filepath.Join(root, "d"), filepath.Join(root, filepath.FromSlash(tt.dst)), operation.ConflictReplaceAll)
			assert.ErrorIs(t, err, fserr.ErrSelfContainment)
			assert.Equal(t, before, readTree(t, root), "filesystem must be unchanged")
			assert.Empty(t, rec.Events())
		})
	}
}

func TestCopySiblingWithSharedPrefix(t *testing.T) {
	ctx, engine, _ := createTestEnv(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"d/f": "x"})

	require.NoError(t, engine.Copy(ctx, filepath.Join(root, "d"), filepath.Join(root, "d2"), operation.ConflictFail))
	assert.FileExists(t, filepath.Join(root, "d2", "f"))
}

func TestCopyEventsPerEntry(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/a": "a", "src/sub/b": "b"})
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")

	n := &MockNotifier{}
	n.On("Notify", mock.Anything, event.Event{Kind: event.KindCreate, Path: dst, IsDir: true}).Once()
	n.On("Notify", mock.Anything, event.Event{Kind: event.KindCreate, Path: filepath.Join(dst, "a")}).Once()
	n.On("Notify", mock.Anything, event.Event{Kind: event.KindCreate, Path: filepath.Join(dst, "sub"), IsDir: true}).Once()
	n.On("Notify", mock.Anything, event.Event{Kind: event.KindCreate, Path: filepath.Join(dst, "sub", "b")}).Once()

	engine := operation.New(operation.Options{Notifier: n})
	require.NoError(t, engine.Copy(context.Background(), src, dst, operation.ConflictFail))

	n.AssertExpectations(t)
}

func TestCopyCreatesParentsBeforeChildren(t *testing.T) {
	ctx, engine, rec := createTestEnv(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/x/y/z": "z"})

	require.NoError(t, engine.Copy(ctx, filepath.Join(root, "src"), filepath.Join(root, "dst"), operation.ConflictFail))

	var order []string
	for _, ev := range rec.Events() {
		rel, _ := filepath.Rel(root, ev.Path)
		order = append(order, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"dst", "dst/x", "dst/x/y", "dst/x/y/z"}, order)
}

func TestCopyPreservesAttributes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	ctx, engine, _ := createTestEnv(t)
	root := t.TempDir()
	src := filepath.Join(root, "src")
	writeTree(t, root, map[string]string{"src/f": "x"})
	require.NoError(t, os.Chmod(filepath.Join(src, "f"), 0o600))
	require.NoError(t, os.Chmod(src, 0o750))
	mtime := time.Date(2019, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dst := filepath.Join(root, "dst")
	require.NoError(t, engine.Copy(ctx, src, dst, operation.ConflictFail))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime), "directory mtime is applied after it is populated")

	info, err = os.Stat(filepath.Join(dst, "f"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCopyMissingSource(t *testing.T) {
	ctx, engine, _ := createTestEnv(t)
	root := t.TempDir()
	err := engine.Copy(ctx, filepath.Join(root, "nope"), filepath.Join(root, "dst"), operation.ConflictFail)
	assert.ErrorIs(t, err, fserr.ErrNotFound)
}

func TestCopyStopsAtFirstFailure(t *testing.T) {
	ctx, engine, _ := createTestEnv(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/a/f": "x", "dst/a/f/": ""})

	err := engine.Copy(ctx, filepath.Join(root, "src"), filepath.Join(root, "dst"), operation.ConflictReplaceAll)
	assert.ErrorIs(t, err, fserr.ErrShapeMismatch)
	var fe *fserr.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, filepath.Join(root, "dst", "a", "f"), fe.Path, "error names the failing entry")
}

func TestCopyCancelled(t *testing.T) {
	_, engine, rec := createTestEnv(t)
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/a": "a", "src/b": "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := engine.Copy(ctx, filepath.Join(root, "src"), filepath.Join(root, "dst"), operation.ConflictFail)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.Events())
	assert.NoDirExists(t, filepath.Join(root, "dst"))
}

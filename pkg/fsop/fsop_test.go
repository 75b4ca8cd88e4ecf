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

package fsop

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileop/pkg/fserr"
)

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	require.NoError(t, RemoveFile(file))
	assert.NoFileExists(t, file)

	assert.ErrorIs(t, RemoveFile(file), fserr.ErrNotFound)
	assert.ErrorIs(t, RemoveFile(dir), fserr.ErrIsDirectory)
	assert.DirExists(t, dir)
}

func TestRemoveDir(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	full := filepath.Join(dir, "full")
	require.NoError(t, os.Mkdir(empty, 0o755))
	require.NoError(t, os.Mkdir(full, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(full, "f"), nil, 0o644))

	require.NoError(t, RemoveDir(empty))
	assert.NoDirExists(t, empty)

	assert.ErrorIs(t, RemoveDir(full), fserr.ErrNotEmpty)
	assert.DirExists(t, full)

	assert.ErrorIs(t, RemoveDir(filepath.Join(full, "f")), fserr.ErrNotDirectory)
	assert.ErrorIs(t, RemoveDir(empty), fserr.ErrNotFound)
}

func TestMakeFileAndDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "new")
	sub := filepath.Join(dir, "sub")

	require.NoError(t, MakeFile(file, 0o644))
	assert.FileExists(t, file)
	assert.ErrorIs(t, MakeFile(file, 0o644), fserr.ErrAlreadyExists)

	require.NoError(t, MakeDir(sub, 0o755))
	assert.DirExists(t, sub)
	assert.ErrorIs(t, MakeDir(sub, 0o755), fserr.ErrAlreadyExists)
	assert.ErrorIs(t, MakeDir(filepath.Join(dir, "a", "b"), 0o755), fserr.ErrNotFound, "parents are not created")
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(c, []byte("c"), 0o644))

	require.NoError(t, Rename(a, b))
	assert.NoFileExists(t, a)
	assert.FileExists(t, b)

	err := Rename(b, c)
	assert.ErrorIs(t, err, fserr.ErrAlreadyExists)
	data, _ := os.ReadFile(c)
	assert.Equal(t, "c", string(data), "existing destination is untouched")

	assert.ErrorIs(t, Rename(a, filepath.Join(dir, "z")), fserr.ErrNotFound)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := Exists(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCopyFileCreate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o640))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, CopyFile(context.Background(), src, dst, CopyCreate))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "mtime is preserved")
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm(), "permissions are preserved")
	}

	err = CopyFile(context.Background(), src, dst, CopyCreate)
	assert.ErrorIs(t, err, fserr.ErrAlreadyExists, "create never overwrites")
}

func TestCopyFileAppend(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("0123456789"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("0123"), 0o644))

	require.NoError(t, CopyFile(context.Background(), src, dst, CopyAppend))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	require.NoError(t, os.WriteFile(dst, []byte("0123456789abc"), 0o644))
	assert.ErrorIs(t, CopyFile(context.Background(), src, dst, CopyAppend), fserr.ErrIoFailure)
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "0123456789abc", string(data), "a refused append leaves the destination alone")
}

func TestCopyFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(context.Background(), dir, filepath.Join(dir, "x"), CopyCreate)
	assert.ErrorIs(t, err, fserr.ErrIsDirectory)
}

func TestCopyFileCancelled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CopyFile(ctx, src, dst, CopyCreate)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, dst)
}

func TestCopyFileSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	dst := filepath.Join(dir, "copy")
	require.NoError(t, os.Symlink("nowhere", link))

	require.NoError(t, CopyFile(context.Background(), link, dst, CopyCreate))

	target, err := os.Readlink(dst)
	require.NoError(t, err)
	assert.Equal(t, "nowhere", target, "links are recreated, not followed")

	require.NoError(t, CopyFile(context.Background(), link, dst, CopyAppend), "an identical link is already complete")
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want bool
	}{
		{name: "same", root: "a", path: "a", want: true},
		{name: "same_unclean", root: "a/", path: "./a", want: true},
		{name: "child", root: "a", path: "a/b", want: true},
		{name: "deep", root: "a", path: "a/b/c", want: true},
		{name: "sibling_prefix", root: "a", path: "ab", want: false},
		{name: "parent", root: "a/b", path: "a", want: false},
		{name: "dotdot_name", root: "a", path: "a/..b", want: true},
		{name: "escape", root: "a", path: "a/../b", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Within(filepath.FromSlash(tt.root), filepath.FromSlash(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "new")
	dst := filepath.Join(dir, "old")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	require.NoError(t, ReplaceFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.NoFileExists(t, src)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.ErrorIs(t, ReplaceFile(dst, sub), fserr.ErrIsDirectory)
	assert.ErrorIs(t, ReplaceFile(dst, filepath.Join(dir, "missing")), fserr.ErrNotFound)
}

func TestTempName(t *testing.T) {
	dir := t.TempDir()
	first, err := TempName(dir, "a")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(first))

	require.NoError(t, MakeFile(first, 0o600))
	second, err := TempName(dir, "a")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

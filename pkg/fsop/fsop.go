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

// Package fsop provides single-entry filesystem primitives.
//
// Every function acts on exactly one entry and never recurses. A primitive
// either applies completely or leaves the entry as it was; none of them
// overwrites an existing entry. Overwrite policy lives in package operation.
package fsop

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/walteh/fileop/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// 📋 CopyMode selects how CopyFile treats the destination
type CopyMode int

const (
	// CopyCreate creates dst and fails if it exists.
	CopyCreate CopyMode = iota
	// CopyAppend resumes an interrupted copy: bytes of src beyond the
	// current size of dst are appended to it.
	CopyAppend
)

// Lstat returns file info without following symlinks.
func Lstat(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fserr.FromOS("stat", path, err)
	}
	return info, nil
}

// 🔍 Exists reports whether an entry exists at path. Dangling symlinks exist.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fserr.FromOS("stat", path, err)
}

// 🗑️ RemoveFile unlinks a single non-directory entry.
func RemoveFile(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fserr.FromOS("remove", path, err)
	}
	if info.IsDir() {
		return fserr.New(fserr.ErrIsDirectory, "remove", path)
	}
	if err := os.Remove(path); err != nil {
		return fserr.FromOS("remove", path, err)
	}
	return nil
}

// 🗑️ RemoveDir removes a directory only if it is empty.
func RemoveDir(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fserr.FromOS("rmdir", path, err)
	}
	if !info.IsDir() {
		return fserr.New(fserr.ErrNotDirectory, "rmdir", path)
	}
	if err := os.Remove(path); err != nil {
		// some systems report a non-empty directory as EEXIST
		if errors.Is(err, syscall.EEXIST) {
			return &fserr.Error{Kind: fserr.ErrNotEmpty, Op: "rmdir", Path: path, Err: err}
		}
		return fserr.FromOS("rmdir", path, err)
	}
	return nil
}

// ✨ MakeFile creates a new empty file. It fails if anything exists at path.
func MakeFile(path string, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fserr.FromOS("mkfile", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fserr.FromOS("mkfile", path, err)
	}
	return nil
}

// 📁 MakeDir creates a single directory. Parents must exist.
func MakeDir(path string, perm os.FileMode) error {
	if err := os.Mkdir(path, perm); err != nil {
		return fserr.FromOS("mkdir", path, err)
	}
	return nil
}

// 🔀 Rename moves an entry within one volume. It refuses to replace an
// existing destination and reports fserr.ErrCrossVolume when the rename
// would cross a filesystem boundary.
func Rename(oldpath, newpath string) error {
	if _, err := os.Lstat(oldpath); err != nil {
		return fserr.FromOS("rename", oldpath, err)
	}
	exists, err := Exists(newpath)
	if err != nil {
		return err
	}
	if exists {
		return fserr.New(fserr.ErrAlreadyExists, "rename", newpath)
	}
	if err := os.Rename(oldpath, newpath); err != nil {
		return fserr.FromOS("rename", oldpath, err)
	}
	return nil
}

// 🔁 ReplaceFile atomically puts src in place of the existing non-directory
// dst. Both must be on the same volume.
func ReplaceFile(src, dst string) error {
	info, err := os.Lstat(dst)
	if err != nil {
		return fserr.FromOS("replace", dst, err)
	}
	if info.IsDir() {
		return fserr.New(fserr.ErrIsDirectory, "replace", dst)
	}
	if err := os.Rename(src, dst); err != nil {
		return fserr.FromOS("replace", dst, err)
	}
	return nil
}

// TempName returns a hidden sibling name for base in dir that does not exist
// yet. Callers must still create it exclusively.
func TempName(dir, base string) (string, error) {
	for i := 0; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf(".%s.fileop~%d", base, i))
		exists, err := Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// 📄 CopyFile copies one regular file or symlink from src to dst, preserving
// permission bits and modification time. Symlinks are recreated, not
// followed. In CopyCreate mode a failed copy leaves no destination behind.
func CopyFile(ctx context.Context, src, dst string, mode CopyMode) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fserr.FromOS("copy", src, err)
	}

	switch {
	case info.IsDir():
		return fserr.New(fserr.ErrIsDirectory, "copy", src)
	case info.Mode()&os.ModeSymlink != 0:
		return copySymlink(src, dst, mode)
	case !info.Mode().IsRegular():
		return &fserr.Error{Kind: fserr.ErrIoFailure, Op: "copy", Path: src, Err: errors.Errorf("unsupported file type %s", info.Mode().Type())}
	}

	if err := ctx.Err(); err != nil {
		return errors.Errorf("copy of %s cancelled: %w", src, err)
	}

	if mode == CopyAppend {
		if err := appendFile(src, dst); err != nil {
			return err
		}
	} else if err := createFile(src, dst, info.Mode().Perm()); err != nil {
		return err
	}

	return CopyAttributes(info, dst)
}

// CopyAttributes applies the permission bits and modification time of info
// to dst.
func CopyAttributes(info os.FileInfo, dst string) error {
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fserr.FromOS("chmod", dst, err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fserr.FromOS("chtimes", dst, err)
	}
	return nil
}

func createFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fserr.FromOS("open", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fserr.FromOS("create", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fserr.FromOS("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fserr.FromOS("copy", dst, err)
	}
	return nil
}

func appendFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fserr.FromOS("open", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fserr.FromOS("append", dst, err)
	}

	if err := appendTail(in, out, src, dst); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fserr.FromOS("append", dst, err)
	}
	return nil
}

// appendTail writes the bytes of in past the current size of out to out.
func appendTail(in, out *os.File, src, dst string) error {
	srcInfo, err := in.Stat()
	if err != nil {
		return fserr.FromOS("stat", src, err)
	}
	dstInfo, err := out.Stat()
	if err != nil {
		return fserr.FromOS("stat", dst, err)
	}
	if dstInfo.Size() > srcInfo.Size() {
		return &fserr.Error{Kind: fserr.ErrIoFailure, Op: "append", Path: dst, Err: errors.Errorf("destination is larger than source (%d > %d bytes)", dstInfo.Size(), srcInfo.Size())}
	}

	if _, err := in.Seek(dstInfo.Size(), io.SeekStart); err != nil {
		return fserr.FromOS("seek", src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		return fserr.FromOS("append", dst, err)
	}
	return nil
}

func copySymlink(src, dst string, mode CopyMode) error {
	target, err := os.Readlink(src)
	if err != nil {
		return fserr.FromOS("readlink", src, err)
	}
	if mode == CopyAppend {
		if existing, err := os.Readlink(dst); err == nil && existing == target {
			return nil
		}
	}
	if err := os.Symlink(target, dst); err != nil {
		return fserr.FromOS("symlink", dst, err)
	}
	return nil
}

// 🧭 Within reports whether path is root itself or lies below it. Both are
// compared in cleaned absolute form; symlinks are not resolved.
func Within(root, path string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, errors.Errorf("resolving %s: %w", root, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, errors.Errorf("resolving %s: %w", path, err)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return false, nil
	}
	if rel == "." {
		return true, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

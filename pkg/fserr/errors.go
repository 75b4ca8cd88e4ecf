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

// Package fserr defines the error kinds shared by every fileop layer.
//
// Each failure surfaced by the engine is an *Error carrying one of the kind
// sentinels below, the operation that failed and the offending path. Both the
// kind and the underlying OS error are reachable through errors.Is.
package fserr

import (
	"io/fs"
	"os"
	"syscall"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Error kinds
var (
	ErrCannotList        = errors.Base("cannot list directory")
	ErrNotFound          = errors.Base("no such file or directory")
	ErrPermissionDenied  = errors.Base("permission denied")
	ErrNotEmpty          = errors.Base("directory not empty")
	ErrAlreadyExists     = errors.Base("already exists")
	ErrIsDirectory       = errors.Base("is a directory")
	ErrNotDirectory      = errors.Base("not a directory")
	ErrShapeMismatch     = errors.Base("file and directory collide")
	ErrSelfContainment   = errors.Base("destination is inside the source")
	ErrCrossVolume       = errors.Base("source and destination are on different volumes")
	ErrInvalidRenameList = errors.Base("invalid rename list")
	ErrEditorCancelled   = errors.Base("editing cancelled")
	ErrIoFailure         = errors.Base("i/o failure")
)

// 🚨 Error describes a failed action on a single path
type Error struct {
	Kind error  // one of the Err* kinds
	Op   string // short action name, e.g. "copy" or "rmdir"
	Path string // offending path
	Err  error  // underlying cause, may be nil
}

// New creates an *Error without an underlying cause.
func New(kind error, op, path string) *Error {
	return &Error{Kind: kind, Op: op, Path: path}
}

func (e *Error) Error() string {
	msg := e.Op + " " + e.Path + ": " + e.Kind.Error()
	if cause := osCause(e.Err); cause != nil && cause.Error() != e.Kind.Error() {
		msg += ": " + cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// 🔍 KindOf returns the kind of the first *Error in err's chain, or nil.
func KindOf(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return nil
}

// 🔄 FromOS wraps an error returned by the os package into an *Error whose
// kind matches the OS condition. Errors that already are *Error are returned
// unchanged.
func FromOS(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Kind: classify(err), Op: op, Path: path, Err: err}
}

func classify(err error) error {
	switch {
	case errors.Is(err, syscall.ENOTEMPTY):
		return ErrNotEmpty
	case errors.Is(err, syscall.EXDEV):
		return ErrCrossVolume
	case errors.Is(err, syscall.EISDIR):
		return ErrIsDirectory
	case errors.Is(err, syscall.ENOTDIR):
		return ErrNotDirectory
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, fs.ErrExist):
		return ErrAlreadyExists
	default:
		return ErrIoFailure
	}
}

// osCause strips the path decoration the os package adds, since *Error
// already prints the path.
func osCause(err error) error {
	switch e := err.(type) {
	case *fs.PathError:
		return e.Err
	case *os.LinkError:
		return e.Err
	case *os.SyscallError:
		return e.Err
	default:
		return err
	}
}

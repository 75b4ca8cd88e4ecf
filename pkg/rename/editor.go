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
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

// 🖊️ Editor turns a document into an edited document. Returning an error
// wrapping fserr.ErrEditorCancelled means the user gave up.
type Editor interface {
	Edit(ctx context.Context, doc string) (string, error)
}

// 🤖 ScriptedEditor edits without a user, for tests and automation
type ScriptedEditor func(ctx context.Context, doc string) (string, error)

func (f ScriptedEditor) Edit(ctx context.Context, doc string) (string, error) {
	return f(ctx, doc)
}

// 🐚 ShellEditor runs an external command on a temporary copy of the document
type ShellEditor struct {
	// Shell runs Command, e.g. /bin/sh or cmd.
	Shell string
	// Command is the editor invocation; the document path is appended as its
	// last argument.
	Command string
	// Interactive attaches the editor to the terminal. Otherwise its output
	// is captured and reported on failure.
	Interactive bool
	// Stdin, Stdout and Stderr default to the process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var _ Editor = (*ShellEditor)(nil)

func (e *ShellEditor) Edit(ctx context.Context, doc string) (string, error) {
	logger := zerolog.Ctx(ctx)

	f, err := os.CreateTemp("", "fileop-rename-*.txt")
	if err != nil {
		return "", errors.Errorf("creating edit document: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := f.Chmod(0o600); err != nil && runtime.GOOS != "windows" {
		f.Close()
		return "", errors.Errorf("restricting edit document: %w", err)
	}
	if _, err := f.WriteString(doc); err != nil {
		f.Close()
		return "", errors.Errorf("writing edit document: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", errors.Errorf("closing edit document: %w", err)
	}

	cmd := e.command(ctx, path)
	var captured bytes.Buffer
	if e.Interactive {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		if e.Stdin != nil {
			cmd.Stdin = e.Stdin
		}
		if e.Stdout != nil {
			cmd.Stdout = e.Stdout
		}
		if e.Stderr != nil {
			cmd.Stderr = e.Stderr
		}
	} else {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
	}

	logger.Debug().Str("shell", e.Shell).Str("command", e.Command).Str("document", path).Msg("starting editor")
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out := strings.TrimSpace(captured.String())
			return "", errors.Errorf("%w: %s exited with %d: %s", fserr.ErrEditorCancelled, e.Command, exitErr.ExitCode(), out)
		}
		return "", errors.Errorf("running editor %s: %w", e.Command, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading edited document: %w", err)
	}
	return string(edited), nil
}

func (e *ShellEditor) command(ctx context.Context, path string) *exec.Cmd {
	if isCmdShell(e.Shell) {
		return exec.CommandContext(ctx, e.Shell, "/C", e.Command+` "`+path+`"`)
	}
	// the path is passed as $1 and never interpolated into the script
	return exec.CommandContext(ctx, e.Shell, "-c", e.Command+` "$1"`, e.Shell, path)
}

func isCmdShell(shell string) bool {
	base := strings.ToLower(shell)
	if i := strings.LastIndexAny(base, `\/`); i >= 0 {
		base = base[i+1:]
	}
	return base == "cmd" || base == "cmd.exe"
}

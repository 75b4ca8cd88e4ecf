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

package ui

import (
	"context"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/trash"
	"gitlab.com/tozd/go/errors"
)

// 🙋 UserLogger talks to the person at the terminal
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}
	pterm.Warning.WithWriter(u.out).WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
	u.log.Warn().Msg(description)
}

// 📋 LogRenamePreview shows the pending renames; marked rows name a target
// that is already taken
func (u *UserLogger) LogRenamePreview(originals, news []string, marks []bool) error {
	data := pterm.TableData{{"", "from", "to"}}
	for i := range originals {
		state := "✏️"
		switch {
		case originals[i] == news[i]:
			state = "="
		case i < len(marks) && marks[i]:
			state = "⛔"
		}
		data = append(data, []string{state, originals[i], news[i]})
	}
	u.log.Debug().Int("entries", len(originals)).Msg("rename preview")
	return pterm.DefaultTable.WithWriter(u.out).WithHasHeader().WithData(data).Render()
}

// 🗑️ LogTrashEntries shows what is in the trash
func (u *UserLogger) LogTrashEntries(entries []trash.Entry) error {
	if len(entries) == 0 {
		pterm.Info.WithWriter(u.out).Println("trash is empty")
		return nil
	}
	data := pterm.TableData{{"entry", "name"}}
	for _, e := range entries {
		data = append(data, []string{e.Path, e.Name})
	}
	return pterm.DefaultTable.WithWriter(u.out).WithHasHeader().WithData(data).Render()
}

// ❓ Confirm asks a yes/no question, defaulting to no
func (u *UserLogger) Confirm(question string) (bool, error) {
	ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(question)
	if err != nil {
		return false, errors.Errorf("asking %q: %w", question, err)
	}
	u.log.Debug().Str("question", question).Bool("answer", ok).Msg("confirmation")
	return ok, nil
}

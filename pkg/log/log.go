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

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/event"
)

// 🎨 Display configuration
const (
	eventIndent = 4  // spaces to indent event lines
	kindWidth   = 8  // width for the event kind
	pathWidth   = 35 // base width for the path
)

// 📦 Batch describes a group of requests being run together
type Batch struct {
	Command  string // cli command that started the batch
	Requests int    // number of requests
	Conflict string // conflict strategy in effect
}

// 📊 Summary counts the events seen during a batch
type Summary struct {
	Created int
	Removed int
	Moved   int
	Trashed int
}

// 🎯 Logger prints engine events and messages to the console and mirrors
// them as structured records
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	batch   *Batch
	summary Summary
}

var _ event.Notifier = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// 🏭 NewWithZerolog creates a logger mirroring into zlog
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatEvent formats an event for display
func (l *Logger) formatEvent(ev event.Event) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case ev.ToTrash:
		symbol = '♻'
		symbolColor = color.FgYellow
	case ev.FromTrash:
		symbol = '↩'
		symbolColor = color.FgYellow
	case ev.Kind == event.KindCreate:
		symbol = '✓'
		symbolColor = color.FgGreen
	case ev.Kind == event.KindRemove:
		symbol = '✗'
		symbolColor = color.FgRed
	default:
		symbol = '⟳'
		symbolColor = color.FgBlue
	}

	path := ev.Path
	if ev.IsDir {
		path += string(filepath.Separator)
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", eventIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", kindWidth, ev.Kind)),
		fmt.Sprintf("%-*s", pathWidth, path))
	if ev.Kind == event.KindMove {
		line += " → " + color.New(color.FgCyan).Sprint(ev.Target)
	}
	return line
}

// 📝 Notify prints one engine event
func (l *Logger) Notify(ctx context.Context, ev event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case ev.ToTrash:
		l.summary.Trashed++
	case ev.Kind == event.KindCreate:
		l.summary.Created++
	case ev.Kind == event.KindRemove:
		l.summary.Removed++
	default:
		l.summary.Moved++
	}

	fmt.Fprintln(l.console, l.formatEvent(ev))

	l.zlog.Info().
		Str("op", string(ev.Kind)).
		Str("path", ev.Path).
		Str("target", ev.Target).
		Bool("is_dir", ev.IsDir).
		Bool("from_trash", ev.FromTrash).
		Bool("to_trash", ev.ToTrash).
		Msg("file event")
}

// 📝 StartBatch starts a new batch and resets the summary
func (l *Logger) StartBatch(ctx context.Context, b Batch) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = &b
	l.summary = Summary{}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(b.Command),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d requests, on conflict %s", b.Requests, b.Conflict))

	l.zlog.Info().
		Str("command", b.Command).
		Int("requests", b.Requests).
		Str("conflict", b.Conflict).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch and returns what it did
func (l *Logger) EndBatch(ctx context.Context) Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := l.summary
	if l.batch == nil {
		return sum
	}

	l.zlog.Info().
		Str("command", l.batch.Command).
		Int("created", sum.Created).
		Int("removed", sum.Removed).
		Int("moved", sum.Moved).
		Int("trashed", sum.Trashed).
		Msg("batch complete")

	l.batch = nil
	l.summary = Summary{}
	return sum
}

// String renders the summary for the console.
func (s Summary) String() string {
	return fmt.Sprintf("%d created, %d removed, %d moved, %d trashed", s.Created, s.Removed, s.Moved, s.Trashed)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("fileop")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

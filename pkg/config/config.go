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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/fileop/pkg/operation"
	"github.com/walteh/fileop/pkg/rename"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes the config from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// FileNames are the config files Find looks for, in order.
var FileNames = []string{".fileop.yaml", ".fileop.yml", ".fileop.hcl", ".fileop.json"}

const (
	EditorInteractive = "interactive"
	EditorCaptured    = "captured"
)

// 🗑️ TrashConfig controls remove-to-trash
type TrashConfig struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Dir     string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// 🖊️ EditorConfig describes how the rename editor is launched
type EditorConfig struct {
	Shell   string `json:"shell,omitempty" yaml:"shell,omitempty"`
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	Mode    string `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Conflict string       `json:"conflict,omitempty" yaml:"conflict,omitempty"`
	Async    bool         `json:"async,omitempty" yaml:"async,omitempty"`
	Trash    TrashConfig  `json:"trash,omitempty" yaml:"trash,omitempty"`
	Editor   EditorConfig `json:"editor,omitempty" yaml:"editor,omitempty"`

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔎 Find walks up from dir and returns the first config file it sees, or ""
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", dir, err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Default returns a validated config with nothing set explicitly.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	crs, err := operation.ParseConflictStrategy(cfg.Conflict)
	if err != nil {
		return errors.Errorf("conflict: %w", err)
	}
	cfg.Conflict = crs.String()

	if cfg.Trash.Dir == "" {
		data, err := dataHome()
		if err != nil {
			return errors.Errorf("trash.dir: %w", err)
		}
		cfg.Trash.Dir = filepath.Join(data, "fileop", "trash")
	}
	dir, err := expandHome(cfg.Trash.Dir)
	if err != nil {
		return errors.Errorf("trash.dir: %w", err)
	}
	cfg.Trash.Dir = filepath.Clean(dir)

	return cfg.Editor.validate()
}

// ConflictStrategy returns the parsed default conflict strategy.
func (cfg *Config) ConflictStrategy() operation.ConflictStrategy {
	crs, _ := operation.ParseConflictStrategy(cfg.Conflict)
	return crs
}

// Location is the file the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	trash := "off"
	if cfg.Trash.Enabled {
		trash = cfg.Trash.Dir
	}
	return fmt.Sprintf("conflict=%s trash=%s editor=%s -c %s (%s)", cfg.Conflict, trash, cfg.Editor.Shell, cfg.Editor.Command, cfg.Editor.Mode)
}

func (e *EditorConfig) validate() error {
	if e.Shell == "" {
		e.Shell = os.Getenv("SHELL")
	}
	if e.Shell == "" {
		if runtime.GOOS == "windows" {
			e.Shell = "cmd"
		} else {
			e.Shell = "/bin/sh"
		}
	}

	if e.Command == "" {
		e.Command = os.Getenv("VISUAL")
	}
	if e.Command == "" {
		e.Command = os.Getenv("EDITOR")
	}
	if e.Command == "" {
		e.Command = "vi"
	}

	e.Mode = strings.ToLower(strings.TrimSpace(e.Mode))
	switch e.Mode {
	case "":
		e.Mode = EditorInteractive
	case EditorInteractive, EditorCaptured:
	default:
		return errors.Errorf("editor.mode must be %q or %q, got %q", EditorInteractive, EditorCaptured, e.Mode)
	}
	return nil
}

// 🐚 Editor builds the shell editor this config describes
func (e EditorConfig) Editor() *rename.ShellEditor {
	return &rename.ShellEditor{
		Shell:       e.Shell,
		Command:     e.Command,
		Interactive: e.Mode != EditorCaptured,
	}
}

func dataHome() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Expressions can read the process environment through env, e.g.
// command = env.EDITOR.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	type hclConfig struct {
		Conflict string `hcl:"conflict,optional"`
		Async    bool   `hcl:"async,optional"`
		Trash    *struct {
			Enabled bool   `hcl:"enabled,optional"`
			Dir     string `hcl:"dir,optional"`
		} `hcl:"trash,block"`
		Editor *struct {
			Shell   string `hcl:"shell,optional"`
			Command string `hcl:"command,optional"`
			Mode    string `hcl:"mode,optional"`
		} `hcl:"editor,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Conflict: hclCfg.Conflict,
		Async:    hclCfg.Async,
	}
	if hclCfg.Trash != nil {
		cfg.Trash = TrashConfig{Enabled: hclCfg.Trash.Enabled, Dir: hclCfg.Trash.Dir}
	}
	if hclCfg.Editor != nil {
		cfg.Editor = EditorConfig{Shell: hclCfg.Editor.Shell, Command: hclCfg.Editor.Command, Mode: hclCfg.Editor.Mode}
	}

	return cfg, nil
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	return cty.ObjectVal(vars)
}

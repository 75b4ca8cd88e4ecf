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
	"strings"
)

const (
	commentChar = '#'
	escapeChar  = '\\'
)

// 📝 Encode renders names one per line. Names starting with '#' or '\' get a
// leading '\' so they survive Decode.
func Encode(names []string) string {
	var b strings.Builder
	for _, name := range names {
		if name != "" && (name[0] == commentChar || name[0] == escapeChar) {
			b.WriteByte(escapeChar)
		}
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return b.String()
}

// 📖 Decode parses an edited document. Blank lines and lines starting with
// '#' are dropped; a leading '\' before '#' or '\' is removed once.
func Decode(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case line == "":
			continue
		case line[0] == commentChar:
			continue
		case len(line) > 1 && line[0] == escapeChar && (line[1] == commentChar || line[1] == escapeChar):
			line = line[1:]
		}
		names = append(names, line)
	}
	return names
}

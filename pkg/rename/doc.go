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

/*
Package rename implements batch renaming: validating a mapping, the
editor round trip used to build one, and applying it.

	names --Encode--> document --Editor--> edited --Decode--> new names
	                                                            |
	                       CheckRenameList <--------------------+
	                              |
	                            Apply --> event.Notifier

📝 Document format:
- one name per line
- blank lines and lines starting with '#' are ignored
- a name starting with '#' or '\' is written with one extra leading '\'

🔄 Sessions:
A Session remembers the last edited text it accepted. Reopening with reuse
starts from that text, so a user can fix a rejected list without retyping it.
*/
package rename

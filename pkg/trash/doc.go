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
Package trash defines the collaborator that receives entries removed "to
trash" and a simple directory-backed implementation.

	+-----------+   Put(path)    +-------------+
	|  Engine   | -------------> |  trash.Dir  |
	| (Remove)  | <------------- | 000_a 001_b |
	+-----------+   stored path  +-------------+

🎯 The engine never decides where trashed entries go. It hands the whole
top-level entry to a Trash and emits one move event with the path it got back.

📝 Dir keeps no index file: the "NNN_" prefix makes every stored name unique
and the original name is recovered by stripping it.
*/
package trash

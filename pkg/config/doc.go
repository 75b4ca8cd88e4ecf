/*
Package config loads fileop settings from .fileop.yaml, .fileop.hcl or
.fileop.json.

	            +-------------+
	            |   Config    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Finds the nearest config file walking up from a directory
- Picks a parser by file extension
- Rejects unknown fields in every format
- Fills defaults in Validate

📝 Defaults:
- conflict: fail
- trash.dir: $XDG_DATA_HOME/fileop/trash (or ~/.local/share/fileop/trash)
- editor.shell: $SHELL, then /bin/sh (cmd on windows)
- editor.command: $VISUAL, then $EDITOR, then vi
- editor.mode: interactive

🔍 Example:

	# .fileop.hcl
	conflict = "skip"

	trash {
	  enabled = true
	}

	editor {
	  command = env.EDITOR
	  mode    = "interactive"
	}
*/
package config

/*
Package operation implements the recursive file operations of fileop.

	+-------------+
	|   Runner    |
	|  (batches)  |
	+------+------+
	       |
	+------+------+      +-------------+
	|   Engine    | ---> |  Notifier   |
	| copy/mv/rm  |      |  (events)   |
	+------+------+      +-------------+
	       |
	+------+------+
	|  traverse   |
	|  + fsop     |
	+-------------+

🎯 Purpose:
- Copies, moves and removes whole subtrees
- Resolves collisions with a ConflictStrategy
- Emits one event per elementary change

🔄 Flow:
1. The self-containment guard runs before anything is touched
2. traverse walks the source, top-down for copies, children first for removal
3. Each entry is handled by a single fsop primitive
4. A successful primitive is reported to the Notifier

⚔️ Conflicts:
- Fail: any existing destination entry is an error
- Skip: existing files stay, directories are merged
- ReplaceFiles / ReplaceAll: existing files are replaced atomically, directories are merged
- Append: existing files are completed from the source
- A file meeting a directory (or the reverse) always fails

🚧 Partial failure:
Nothing is rolled back. A failed copy leaves the entries copied so far, a
failed move can leave both trees partially populated. The error names the
entry that failed.

🔍 Example:

	engine := operation.New(operation.Options{Notifier: logger, Trash: trash.NewDir(dir)})
	err := engine.Copy(ctx, "src", "dst", operation.ConflictSkip)

	runner := operation.NewRunner(&logger, engine, true)
	err = runner.Run(ctx, reqs...)
*/
package operation

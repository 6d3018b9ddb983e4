/*
Package status manages file access and per-file status for instantiate.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Files   |           |  States  |
	|  (Root)   |           | (Report) |
	+-----------+           +----------+

🎯 Purpose:
- Resolves target paths against the repository root
- Reads target files and writes them back safely
- Names the state a target file ends a run in

⚡ Key Responsibilities:
- Existence checks that treat "not there" as a normal answer
- In-place single-file writes that keep permissions, owner and hard links
- Refusing to write files the caller has no write permission for
- Following symlinks so the link itself survives a rewrite

📝 Design Philosophy:
The engine in package operation decides what to write; this package only
knows how. There is no backup or multi-file transaction: each file is
rewritten on its own, and a failed run leaves earlier files rewritten.

🔍 Example:

	mgr := status.New(root)
	ok, err := mgr.FileExists(ctx, "README.md")
	if err != nil {
		return err
	}
	if ok {
		content, err := mgr.ReadFile(ctx, "README.md")
		// ...
		err = mgr.WriteFile(ctx, "README.md", updated)
	}
*/
package status

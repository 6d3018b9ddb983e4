/*
Package operation implements the placeholder substitution engine.

	+---------------+
	|  Instantiate  |
	|  (Fixed List) |
	+-------+-------+
	        |
	+-------+-------+
	|  ProcessFile  |
	| (Read/Write)  |
	+-------+-------+
	        |
	+-------+-------+
	|     text      |
	|  (Replace)    |
	+---------------+

🎯 Purpose:
- Walks the fixed TargetFiles list in order
- Replaces every supplied placeholder token with its value
- Writes a file back only when its content changed
- Reports which files were (or, in a dry run, would be) modified

🔄 Flow:
1. Skip targets matching an exclude pattern
2. Skip targets that do not exist under the root
3. Read the file and reject content that is not valid UTF-8
4. Apply the replacement map in a single literal pass
5. Write back through status.Manager when the content differs

⚡ Key Responsibilities:
- Keeping untouched files byte-for-byte identical
- Stopping at the first failing file
- Classifying failures as ErrIO or ErrEncoding

📝 Design Philosophy:
Everything runs sequentially and synchronously. There is no rollback: a run
that fails half way leaves the files it already rewrote in their new state,
and rerunning with the same values is safe because replaced tokens are gone.

🔍 Example:

	in, err := operation.New(operation.Options{Root: root})
	if err != nil {
		return err
	}

	m, err := placeholder.Build(map[string]string{"project_name": "My Project"})
	if err != nil {
		return err
	}

	modified, err := in.Instantiate(ctx, m, false)
	if errors.Is(err, operation.ErrEncoding) {
		// a target file is not text
	}
*/
package operation

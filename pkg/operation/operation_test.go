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

package operation

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/instantiate/pkg/log"
	"github.com/walteh/instantiate/pkg/placeholder"
	"github.com/walteh/instantiate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).WithContext(context.Background())
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func newMap(pairs ...string) *placeholder.Map {
	m := placeholder.NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func newInstantiator(t *testing.T, root string) *Instantiator {
	t.Helper()
	in, err := New(Options{Root: root})
	require.NoError(t, err)
	return in
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		errContains string
	}{
		{
			name: "root_only",
			opts: Options{Root: "/tmp"},
		},
		{
			name: "files_without_root",
			opts: Options{Files: status.New("/tmp")},
		},
		{
			name:        "missing_root",
			opts:        Options{},
			errContains: "root directory is required",
		},
		{
			name:        "invalid_exclude_pattern",
			opts:        Options{Root: "/tmp", Exclude: []string{"[unterminated"}},
			errContains: `invalid exclude pattern "[unterminated"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := New(tt.opts)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TargetFiles, in.Targets())
		})
	}
}

func TestProcessFile(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		content      string
		replacements *placeholder.Map
		wantModified bool
		wantContains []string
		want         string
	}{
		{
			name:         "single_placeholder",
			file:         "README.md",
			content:      "# {{PROJECT_NAME}}\n",
			replacements: newMap("{{PROJECT_NAME}}", "My Project"),
			wantModified: true,
			want:         "# My Project\n",
		},
		{
			name:    "multiple_placeholders",
			file:    "README.md",
			content: "# {{PROJECT_NAME}}\nOwner: {{OWNER}}\nYear: {{YEAR}}\n",
			replacements: newMap(
				"{{PROJECT_NAME}}", "Test Project",
				"{{OWNER}}", "test-org",
				"{{YEAR}}", "2026",
			),
			wantModified: true,
			wantContains: []string{"# Test Project", "Owner: test-org", "Year: 2026"},
		},
		{
			name:         "no_placeholders",
			file:         "README.md",
			content:      "# Regular Project\nNo placeholders here\n",
			replacements: newMap("{{PROJECT_NAME}}", "My Project"),
			wantModified: false,
			want:         "# Regular Project\nNo placeholders here\n",
		},
		{
			name:    "email_placeholders",
			file:    "SUPPORT.md",
			content: "Support: {{SUPPORT_EMAIL}}\nSecurity: {{SECURITY_EMAIL}}\nMaintainer: {{MAINTAINER_EMAIL}}\n",
			replacements: newMap(
				"{{SUPPORT_EMAIL}}", "support@example.com",
				"{{SECURITY_EMAIL}}", "security@example.com",
				"{{MAINTAINER_EMAIL}}", "maintainer@example.com",
			),
			wantModified: true,
			wantContains: []string{"support@example.com", "security@example.com", "maintainer@example.com"},
		},
		{
			name:         "codeowners_placeholder",
			file:         ".github/CODEOWNERS",
			content:      "* @{{GITHUB_USERNAME}}\n",
			replacements: newMap("{{GITHUB_USERNAME}}", "my-org/maintainers"),
			wantModified: true,
			wantContains: []string{"@my-org/maintainers"},
		},
		{
			name:    "pgp_placeholders",
			file:    "SECURITY.md",
			content: "PGP Key: {{PGP_KEY_URL}}\nKey ID: {{PGP_KEY_ID}}\n",
			replacements: newMap(
				"{{PGP_KEY_URL}}", "https://example.com/key.asc",
				"{{PGP_KEY_ID}}", "0xABCD1234",
			),
			wantModified: true,
			wantContains: []string{"https://example.com/key.asc", "0xABCD1234"},
		},
		{
			name:         "discussion_url",
			file:         ".github/ISSUE_TEMPLATE/config.yml",
			content:      "url: https://github.com/{{OWNER}}/{{REPO_NAME}}/discussions\n",
			replacements: newMap("{{OWNER}}", "my-org", "{{REPO_NAME}}", "my-repo"),
			wantModified: true,
			want:         "url: https://github.com/my-org/my-repo/discussions\n",
		},
		{
			name:         "one_of_two_supplied",
			file:         "README.md",
			content:      "{{OWNER}}/{{REPO_NAME}}",
			replacements: newMap("{{OWNER}}", "my-org"),
			wantModified: true,
			want:         "my-org/{{REPO_NAME}}",
		},
		{
			name:    "unicode_content",
			file:    "README.md",
			content: "# {{PROJECT_NAME}} 🚀\nPowered by ❤️\nCopyright © {{YEAR}}\n",
			replacements: newMap(
				"{{PROJECT_NAME}}", "Test Project",
				"{{YEAR}}", "2026",
			),
			wantModified: true,
			want:         "# Test Project 🚀\nPowered by ❤️\nCopyright © 2026\n",
		},
		{
			name:         "crlf_line_endings_kept",
			file:         "LICENSE",
			content:      "Copyright (c) {{YEAR}}\r\nAll rights reserved.\r\n",
			replacements: newMap("{{YEAR}}", "2026"),
			wantModified: true,
			want:         "Copyright (c) 2026\r\nAll rights reserved.\r\n",
		},
		{
			name:         "empty_map",
			file:         "README.md",
			content:      "# {{PROJECT_NAME}}\n",
			replacements: placeholder.NewMap(),
			wantModified: false,
			want:         "# {{PROJECT_NAME}}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			root := t.TempDir()
			path := writeFile(t, root, tt.file, tt.content)
			in := newInstantiator(t, root)

			modified, err := in.ProcessFile(ctx, path, tt.replacements)
			require.NoError(t, err)
			assert.Equal(t, tt.wantModified, modified)

			got := readFile(t, path)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestProcessFile_RelativePath(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	path := writeFile(t, root, ".github/PULL_REQUEST_TEMPLATE.md", "Thanks for contributing to {{PROJECT_NAME}}!")
	in := newInstantiator(t, root)

	modified, err := in.ProcessFile(ctx, ".github/PULL_REQUEST_TEMPLATE.md", newMap("{{PROJECT_NAME}}", "Demo"))
	require.NoError(t, err)
	assert.True(t, modified)
	assert.Equal(t, "Thanks for contributing to Demo!", readFile(t, path))
}

func TestProcessFile_Missing(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	in := newInstantiator(t, root)

	modified, err := in.ProcessFile(ctx, filepath.Join(root, "nonexistent.md"), newMap("{{PROJECT_NAME}}", "Test"))
	require.NoError(t, err)
	assert.False(t, modified)

	_, err = os.Stat(filepath.Join(root, "nonexistent.md"))
	assert.True(t, os.IsNotExist(err), "missing file should not be created")
}

func TestProcessFile_Untouched(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	original := "Plain text © 2024 – no tokens 🚀\n"
	path := writeFile(t, root, "README.md", original)
	require.NoError(t, os.Chmod(path, 0o600))

	before, err := os.Stat(path)
	require.NoError(t, err)

	in := newInstantiator(t, root)
	modified, err := in.ProcessFile(ctx, path, newMap("{{PROJECT_NAME}}", "x", "{{YEAR}}", "2026"))
	require.NoError(t, err)
	assert.False(t, modified)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, original, readFile(t, path))
	assert.Equal(t, before.ModTime(), after.ModTime(), "untouched file should not be rewritten")
	assert.Equal(t, os.FileMode(0o600), after.Mode().Perm())
}

func TestProcessFile_Errors(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, root string) string
		needsUser   bool
		wantKind    error
		errContains string
	}{
		{
			name: "invalid_utf8",
			setup: func(t *testing.T, root string) string {
				return writeFile(t, root, "LICENSE", "Copyright \xff\xfe {{YEAR}}")
			},
			wantKind:    ErrEncoding,
			errContains: "invalid UTF-8 at byte 10",
		},
		{
			name: "directory_instead_of_file",
			setup: func(t *testing.T, root string) string {
				path := filepath.Join(root, "README.md")
				require.NoError(t, os.Mkdir(path, 0o755))
				return path
			},
			wantKind:    ErrIO,
			errContains: "reading file",
		},
		{
			name: "read_only_target",
			setup: func(t *testing.T, root string) string {
				path := writeFile(t, root, "LICENSE", "Copyright {{YEAR}}\n")
				require.NoError(t, os.Chmod(path, 0o444))
				return path
			},
			needsUser:   true,
			wantKind:    ErrIO,
			errContains: "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.needsUser && os.Geteuid() == 0 {
				t.Skip("root ignores file permissions")
			}
			ctx := testContext(t)
			root := t.TempDir()
			path := tt.setup(t, root)
			in := newInstantiator(t, root)

			modified, err := in.ProcessFile(ctx, path, newMap("{{YEAR}}", "2026"))
			require.Error(t, err)
			assert.False(t, modified)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Contains(t, err.Error(), tt.errContains)

			var ferr *FileError
			require.True(t, errors.As(err, &ferr), "error should be a *FileError")
			assert.Equal(t, path, ferr.Path)
		})
	}
}

// failingWrites wraps a real manager and refuses every write
type failingWrites struct {
	*status.Manager
}

func (f failingWrites) WriteFile(ctx context.Context, path string, content []byte) error {
	return errors.Errorf("disk full")
}

func TestProcessFile_ReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	ctx := testContext(t)
	root := t.TempDir()
	dir := filepath.Join(root, ".github")
	path := writeFile(t, root, ".github/CODEOWNERS", "* @{{GITHUB_USERNAME}}\n")
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	modified, err := newInstantiator(t, root).ProcessFile(ctx, path, newMap("{{GITHUB_USERNAME}}", "acme/maintainers"))
	require.NoError(t, err)
	assert.True(t, modified)
	assert.Equal(t, "* @acme/maintainers\n", readFile(t, path))
}

func TestProcessFile_WriteError(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	path := writeFile(t, root, "README.md", "# {{PROJECT_NAME}}\n")

	in, err := New(Options{Files: failingWrites{status.New(root)}})
	require.NoError(t, err)

	_, err = in.ProcessFile(ctx, "README.md", newMap("{{PROJECT_NAME}}", "x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, ErrEncoding)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "# {{PROJECT_NAME}}\n", readFile(t, path))
}

func TestInstantiate(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()

	readme := writeFile(t, root, "README.md", "# {{PROJECT_NAME}}\nRepository: {{OWNER}}/{{REPO_NAME}}\n")
	support := writeFile(t, root, "SUPPORT.md", "Contact: {{SUPPORT_EMAIL}}\n")
	codeowners := writeFile(t, root, ".github/CODEOWNERS", "* @{{GITHUB_USERNAME}}\n")
	conduct := writeFile(t, root, "CODE_OF_CONDUCT.md", "Be kind.\n")
	outside := writeFile(t, root, "docs/guide.md", "{{PROJECT_NAME}}\n")

	replacements := newMap(
		"{{PROJECT_NAME}}", "My Project",
		"{{OWNER}}", "my-org",
		"{{REPO_NAME}}", "my-repo",
		"{{SUPPORT_EMAIL}}", "support@example.com",
		"{{GITHUB_USERNAME}}", "my-org/team",
	)

	in := newInstantiator(t, root)
	modified, err := in.Instantiate(ctx, replacements, false)
	require.NoError(t, err)

	assert.Equal(t, []string{readme, codeowners, support}, modified, "modified files should follow target list order")

	assert.Contains(t, readFile(t, readme), "# My Project")
	assert.Contains(t, readFile(t, readme), "my-org/my-repo")
	assert.Contains(t, readFile(t, support), "support@example.com")
	assert.Contains(t, readFile(t, codeowners), "@my-org/team")
	assert.Equal(t, "Be kind.\n", readFile(t, conduct))
	assert.Equal(t, "{{PROJECT_NAME}}\n", readFile(t, outside), "files outside the target list are never touched")

	again, err := in.Instantiate(ctx, replacements, false)
	require.NoError(t, err)
	assert.Empty(t, again, "second run should report no changes")
}

func TestInstantiate_DryRun(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()

	readme := writeFile(t, root, "README.md", "# {{PROJECT_NAME}}\n")
	license := writeFile(t, root, "LICENSE", "MIT, no tokens\n")

	in := newInstantiator(t, root)
	modified, err := in.Instantiate(ctx, newMap("{{PROJECT_NAME}}", "Test Project"), true)
	require.NoError(t, err)

	assert.Equal(t, []string{readme, license}, modified, "dry run reports every existing target")
	assert.Equal(t, "# {{PROJECT_NAME}}\n", readFile(t, readme))
	assert.Equal(t, "MIT, no tokens\n", readFile(t, license))
}

func TestInstantiate_DryRunSkipsUnreadable(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()

	binary := writeFile(t, root, "LICENSE", "\xff\xfe\xfd")

	in := newInstantiator(t, root)
	modified, err := in.Instantiate(ctx, newMap("{{YEAR}}", "2026"), true)
	require.NoError(t, err, "dry run only checks existence")
	assert.Equal(t, []string{binary}, modified)
}

func TestInstantiate_Empty(t *testing.T) {
	ctx := testContext(t)
	in := newInstantiator(t, t.TempDir())

	modified, err := in.Instantiate(ctx, newMap("{{PROJECT_NAME}}", "x"), false)
	require.NoError(t, err)
	assert.NotNil(t, modified)
	assert.Empty(t, modified)
}

func TestInstantiate_StopsAtFirstError(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()

	citation := writeFile(t, root, "CITATION.cff", "title: {{PROJECT_NAME}}\n")
	writeFile(t, root, "LICENSE", "Copyright \xff {{PROJECT_NAME}}")
	support := writeFile(t, root, "SUPPORT.md", "{{PROJECT_NAME}} support\n")

	in := newInstantiator(t, root)
	modified, err := in.Instantiate(ctx, newMap("{{PROJECT_NAME}}", "Demo"), false)
	require.Error(t, err)
	assert.Nil(t, modified)
	assert.ErrorIs(t, err, ErrEncoding)

	var ferr *FileError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "LICENSE", ferr.Path)

	assert.Equal(t, "title: Demo\n", readFile(t, citation), "files before the failure keep their changes")
	assert.Equal(t, "{{PROJECT_NAME}} support\n", readFile(t, support), "files after the failure are not processed")
}

func TestInstantiate_Exclude(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()

	readme := writeFile(t, root, "README.md", "# {{PROJECT_NAME}}\n")
	bugMD := writeFile(t, root, ".github/ISSUE_TEMPLATE/bug_report.md", "{{PROJECT_NAME}} bug\n")
	bugYML := writeFile(t, root, ".github/ISSUE_TEMPLATE/bug_report.yml", "name: {{PROJECT_NAME}}\n")

	in, err := New(Options{Root: root, Exclude: []string{".github/ISSUE_TEMPLATE/*.yml"}})
	require.NoError(t, err)

	modified, err := in.Instantiate(ctx, newMap("{{PROJECT_NAME}}", "Demo"), false)
	require.NoError(t, err)

	assert.Equal(t, []string{readme, bugMD}, modified)
	assert.Equal(t, "name: {{PROJECT_NAME}}\n", readFile(t, bugYML))
}

func TestInstantiate_InvalidReplacements(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeFile(t, root, "README.md", "# {{PROJECT_NAME}}\n")

	in := newInstantiator(t, root)
	_, err := in.Instantiate(ctx, newMap("", "oops"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating replacements")
}

func TestInstantiate_Reporting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := testContext(t)
	root := t.TempDir()
	writeFile(t, root, "README.md", "# {{PROJECT_NAME}} {{PROJECT_NAME}}\n")
	writeFile(t, root, "LICENSE", "nothing here\n")

	buf := &bytes.Buffer{}
	in, err := New(Options{Root: root, Logger: log.New(buf, zerolog.Nop())})
	require.NoError(t, err)

	_, err = in.Instantiate(ctx, newMap("{{PROJECT_NAME}}", "Demo"), false)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "README.md")
	assert.Contains(t, buf.String(), "updated (2 replacements)")
	assert.NotContains(t, buf.String(), "LICENSE", "unchanged files stay off the console")

	buf.Reset()
	_, err = in.Instantiate(ctx, newMap("{{PROJECT_NAME}}", "Demo"), true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "would process")
	assert.Contains(t, buf.String(), "LICENSE")
}

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

package status

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents what happened to a target file during a run
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusMissing              // File is not present under the root
	StatusExcluded             // File matched an exclude pattern
	StatusUnchanged            // File exists and no replacement changed it
	StatusModified             // File was rewritten
	StatusPending              // Dry run: file exists and would be processed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusExcluded:
		return "excluded"
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// 💾 FileManager handles the file system operations needed for a run
type FileManager interface {
	FileExists(ctx context.Context, path string) (bool, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
	AbsPath(path string) string
}

var _ FileManager = (*Manager)(nil)

// 🔧 Manager implements FileManager on the local file system, rooted at a
// base directory. Relative paths resolve against the base directory, absolute
// paths are used as given.
type Manager struct {
	baseDir string
}

// 🏭 New creates a new file manager rooted at baseDir
func New(baseDir string) *Manager {
	return &Manager{
		baseDir: filepath.Clean(baseDir),
	}
}

// BaseDir returns the root every relative path resolves against
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// AbsPath returns the path a relative path resolves to
func (m *Manager) AbsPath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.baseDir, path)
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(m.AbsPath(path))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.AbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFile rewrites the file in place. Symlinks are followed, the existing
// permission bits, owner and hard links are kept, and a file the caller may
// not write fails with a permission error.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	absPath := m.AbsPath(path)

	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.Errorf("resolving path: %w", err)
	}

	f, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Errorf("opening file for writing: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return errors.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", absPath).Int("bytes", len(content)).Msg("wrote file")

	return nil
}

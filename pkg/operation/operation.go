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
	"path/filepath"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/instantiate/pkg/log"
	"github.com/walteh/instantiate/pkg/placeholder"
	"github.com/walteh/instantiate/pkg/status"
	"github.com/walteh/instantiate/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📋 TargetFiles is the fixed, ordered list of repository files eligible for
// placeholder replacement. Files are never discovered from the file system.
var TargetFiles = []string{
	"README.md",
	"CITATION.cff",
	"LICENSE",
	".github/PULL_REQUEST_TEMPLATE.md",
	".github/ISSUE_TEMPLATE/bug_report.md",
	".github/ISSUE_TEMPLATE/bug_report.yml",
	".github/ISSUE_TEMPLATE/feature_request.md",
	".github/ISSUE_TEMPLATE/feature_request.yml",
	".github/ISSUE_TEMPLATE/security_report.yml",
	".github/ISSUE_TEMPLATE/config.yml",
	".github/CODEOWNERS",
	"SUPPORT.md",
	"SECURITY.md",
	"SECURITY_CONTACTS.md",
	"CODE_OF_CONDUCT.md",
	"CONTRIBUTING.md",
}

// 🔧 Options contains configuration for the instantiator
type Options struct {
	// Root is the repository root. Ignored when Files is set.
	Root string
	// Files performs the file system access. Defaults to a status.Manager on Root.
	Files status.FileManager
	// Replacer applies replacements. Defaults to text.SimpleTextReplacer.
	Replacer text.TextReplacer
	// Logger reports per-file outcomes. Defaults to a discarding logger.
	Logger *log.Logger
	// Targets overrides TargetFiles.
	Targets []string
	// Exclude holds doublestar patterns matched against target paths.
	Exclude []string
}

// 🎮 Instantiator replaces placeholders across the target files of a root
type Instantiator struct {
	files    status.FileManager
	replacer text.TextReplacer
	logger   *log.Logger
	targets  []string
	exclude  []string
}

// 🏭 New creates a new instantiator with the given options
func New(opts Options) (*Instantiator, error) {
	if opts.Files == nil {
		if opts.Root == "" {
			return nil, errors.Errorf("root directory is required")
		}
		opts.Files = status.New(opts.Root)
	}
	if opts.Replacer == nil {
		opts.Replacer = text.NewSimpleTextReplacer()
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Targets == nil {
		opts.Targets = TargetFiles
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return &Instantiator{
		files:    opts.Files,
		replacer: opts.Replacer,
		logger:   opts.Logger,
		targets:  opts.Targets,
		exclude:  opts.Exclude,
	}, nil
}

// Targets returns the target files in processing order
func (in *Instantiator) Targets() []string {
	out := make([]string, len(in.targets))
	copy(out, in.targets)
	return out
}

// 📄 ProcessFile replaces placeholders in a single file and reports whether it
// was written. A missing file is not an error.
func (in *Instantiator) ProcessFile(ctx context.Context, path string, replacements *placeholder.Map) (bool, error) {
	st, _, err := in.processFile(ctx, path, replacements)
	return st == status.StatusModified, err
}

func (in *Instantiator) processFile(ctx context.Context, path string, replacements *placeholder.Map) (status.FileStatus, int, error) {
	exists, err := in.files.FileExists(ctx, path)
	if err != nil {
		return status.StatusUnknown, 0, newFileError(ErrIO, path, err)
	}
	if !exists {
		return status.StatusMissing, 0, nil
	}

	content, err := in.files.ReadFile(ctx, path)
	if err != nil {
		return status.StatusUnknown, 0, newFileError(ErrIO, path, err)
	}

	if offset := invalidUTF8Offset(content); offset >= 0 {
		return status.StatusUnknown, 0, newFileError(ErrEncoding, path, errors.Errorf("invalid UTF-8 at byte %d", offset))
	}

	result, err := in.replacer.ReplaceText(ctx, bytes.NewReader(content), replacements.Rules())
	if err != nil {
		return status.StatusUnknown, 0, newFileError(ErrIO, path, err)
	}

	if !result.WasModified {
		return status.StatusUnchanged, result.ReplacementCount, nil
	}

	if err := in.files.WriteFile(ctx, path, result.ModifiedContent); err != nil {
		return status.StatusUnknown, 0, newFileError(ErrIO, path, err)
	}

	return status.StatusModified, result.ReplacementCount, nil
}

// 🚀 Instantiate walks the target files in order and returns the root-joined
// paths that were modified or, in a dry run, would be processed. The first
// error stops the run.
func (in *Instantiator) Instantiate(ctx context.Context, replacements *placeholder.Map, dryRun bool) ([]string, error) {
	zlog := zerolog.Ctx(ctx)

	if err := in.replacer.ValidateRules(replacements.Rules()); err != nil {
		return nil, errors.Errorf("validating replacements: %w", err)
	}

	modified := []string{}
	for _, rel := range in.targets {
		if pattern, ok := in.excluded(ctx, rel); ok {
			zlog.Debug().Str("file", rel).Str("pattern", pattern).Msg("file excluded by pattern")
			in.logger.LogFileOperation(ctx, log.FileOperation{Path: rel, Status: status.StatusExcluded.String()})
			continue
		}

		path := in.files.AbsPath(rel)

		if dryRun {
			exists, err := in.files.FileExists(ctx, rel)
			if err != nil {
				return nil, newFileError(ErrIO, rel, err)
			}
			if !exists {
				in.logger.LogFileOperation(ctx, log.FileOperation{Path: rel, Status: status.StatusMissing.String()})
				continue
			}
			modified = append(modified, path)
			in.logger.LogFileOperation(ctx, log.FileOperation{Path: rel, Status: status.StatusPending.String(), IsPending: true})
			continue
		}

		st, count, err := in.processFile(ctx, rel, replacements)
		if err != nil {
			return nil, err
		}

		if st != status.StatusModified {
			in.logger.LogFileOperation(ctx, log.FileOperation{Path: rel, Status: st.String(), Replacements: count})
			continue
		}

		modified = append(modified, path)
		in.logger.LogFileOperation(ctx, log.FileOperation{
			Path:         rel,
			Status:       status.StatusModified.String(),
			IsModified:   true,
			Replacements: count,
		})
	}

	zlog.Debug().Int("files", len(modified)).Bool("dry_run", dryRun).Msg("instantiation complete")

	return modified, nil
}

// 🔍 excluded checks if a target matches an exclude pattern
func (in *Instantiator) excluded(ctx context.Context, rel string) (string, bool) {
	for _, pattern := range in.exclude {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return pattern, true
		}
	}
	return "", false
}

// invalidUTF8Offset returns the byte offset of the first invalid UTF-8
// sequence, or -1 when content is valid.
func invalidUTF8Offset(content []byte) int {
	if utf8.Valid(content) {
		return -1
	}
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

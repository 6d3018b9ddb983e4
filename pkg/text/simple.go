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

package text

import (
	"bytes"
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// SimpleTextReplacer implements TextReplacer with a single literal pass over
// the content. Text inserted by a rule is never matched again, so a value that
// itself looks like a placeholder is written out verbatim.
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	current := string(originalContent)

	// Empty FromText would match between every byte
	pairs := make([]string, 0, len(rules)*2)
	for _, rule := range rules {
		if rule.FromText == "" {
			continue
		}
		pairs = append(pairs, rule.FromText, rule.ToText)
		result.ReplacementCount += strings.Count(current, rule.FromText)
	}

	if len(pairs) == 0 || result.ReplacementCount == 0 {
		return result, nil
	}

	modified := []byte(strings.NewReplacer(pairs...).Replace(current))
	if !bytes.Equal(modified, originalContent) {
		result.WasModified = true
		result.ModifiedContent = modified
	}

	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	seen := make(map[string]int, len(rules))
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if prev, ok := seen[rule.FromText]; ok {
			return errors.Errorf("rule %d: from_text %q duplicates rule %d", i, rule.FromText, prev)
		}
		seen[rule.FromText] = i
	}
	return nil
}

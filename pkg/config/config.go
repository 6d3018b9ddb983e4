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

package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/instantiate/pkg/placeholder"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for values file parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is the content of a values file
type Config struct {
	// Values maps placeholder config keys (project_name, owner, ...) to values
	Values map[string]string `json:"values,omitempty" yaml:"values,omitempty" hcl:"values,optional"`
	// Exclude holds doublestar patterns for target files to leave alone
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
}

// 🎯 Load loads a values file, picking the parser from the file extension
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading values file")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := p.Parse(ctx, data, filepath.Base(path))
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Int("values", len(cfg.Values)).Strs("exclude", cfg.Exclude).Msg("loaded values file")

	return cfg, nil
}

// 🔍 Validate checks keys against the placeholder catalogue and exclude
// patterns for syntax
func (cfg *Config) Validate() error {
	keys := make([]string, 0, len(cfg.Values))
	for k := range cfg.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := placeholder.Lookup(k); !ok {
			return errors.Errorf("values.%s: unknown placeholder, expected one of %s", k, knownNames())
		}
	}

	for i, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("exclude[%d]: invalid pattern %q", i, pattern)
		}
	}

	return nil
}

func knownNames() string {
	names := make([]string, 0, len(placeholder.Known))
	for _, p := range placeholder.Known {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

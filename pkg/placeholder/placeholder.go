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

// Package placeholder holds the catalogue of template placeholders and the
// ordered replacement map built from caller-supplied values.
package placeholder

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Placeholder describes one template token and how a value for it is supplied.
type Placeholder struct {
	Name  string // config key, e.g. project_name
	Token string // literal marker, e.g. {{PROJECT_NAME}}
	Usage string
}

// Flag returns the command line flag name for the placeholder.
func (p Placeholder) Flag() string {
	return strings.ReplaceAll(p.Name, "_", "-")
}

func newPlaceholder(name, usage string) Placeholder {
	return Placeholder{
		Name:  name,
		Token: "{{" + strings.ToUpper(name) + "}}",
		Usage: usage,
	}
}

// Known is the catalogue of supported placeholders. Its order is the order
// replacements are applied in.
var Known = []Placeholder{
	newPlaceholder("project_name", "Project name"),
	newPlaceholder("repo_name", "Repository name"),
	newPlaceholder("owner", "GitHub owner/organization"),
	newPlaceholder("year", "Copyright year"),
	newPlaceholder("maintainer_email", "Maintainer email"),
	newPlaceholder("support_email", "Support email"),
	newPlaceholder("security_email", "Security email"),
	newPlaceholder("github_username", "GitHub username/team"),
	newPlaceholder("pgp_key_url", "PGP key URL"),
	newPlaceholder("pgp_key_id", "PGP key ID"),
}

// Lookup finds a known placeholder by config key.
func Lookup(name string) (Placeholder, bool) {
	for _, p := range Known {
		if p.Name == name {
			return p, true
		}
	}
	return Placeholder{}, false
}

// Build creates a replacement map from config-keyed values in catalogue order.
// Empty values count as not supplied and leave their token untouched.
func Build(values map[string]string) (*Map, error) {
	for name := range values {
		if _, ok := Lookup(name); !ok {
			return nil, errors.Errorf("unknown placeholder %q", name)
		}
	}

	m := NewMap()
	for _, p := range Known {
		if v := values[p.Name]; v != "" {
			m.Set(p.Token, v)
		}
	}
	return m, nil
}

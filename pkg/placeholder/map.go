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

package placeholder

import (
	"github.com/walteh/instantiate/pkg/text"
)

// Entry is a single token to value pair.
type Entry struct {
	Token string
	Value string
}

// Map is an insertion-ordered replacement map from placeholder token to value.
type Map struct {
	entries []Entry
	index   map[string]int
}

func NewMap() *Map {
	return &Map{index: map[string]int{}}
}

// Set adds a token or overwrites its value in place.
func (m *Map) Set(token, value string) {
	if i, ok := m.index[token]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[token] = len(m.entries)
	m.entries = append(m.entries, Entry{Token: token, Value: value})
}

func (m *Map) Get(token string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.index[token]
	if !ok {
		return "", false
	}
	return m.entries[i].Value, true
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Rules converts the map into replacement rules in insertion order.
func (m *Map) Rules() []text.ReplacementRule {
	if m == nil {
		return nil
	}
	rules := make([]text.ReplacementRule, 0, len(m.entries))
	for _, e := range m.entries {
		rules = append(rules, text.ReplacementRule{FromText: e.Token, ToText: e.Value})
	}
	return rules
}

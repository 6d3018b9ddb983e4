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

// Package remote looks up default placeholder values from the hosting
// service a project was created on.
package remote

import (
	"context"
)

// Provider returns default values for a hosted repository, keyed by
// placeholder config key (project_name, owner, ...)
type Provider interface {
	// Name returns the name of the provider (e.g. "github")
	Name() string
	// Defaults returns the values the provider can infer for the repository
	Defaults(ctx context.Context, repo string) (map[string]string, error)
}

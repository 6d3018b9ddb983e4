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

package github

import (
	"context"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/instantiate/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

var _ remote.Provider = (*Provider)(nil)

// 🎯 Provider implements remote.Provider for GitHub
type Provider struct {
	client *github.Client
}

// 🏭 New creates a new GitHub provider. GITHUB_TOKEN is used when set;
// public repositories work without it.
func New(ctx context.Context) *Provider {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("GITHUB_TOKEN not set, using unauthenticated client")
	}
	return &Provider{client: client}
}

// NewWithClient creates a provider around an existing client
func NewWithClient(client *github.Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return "github"
}

// 🔍 ParseRepo parses owner/name, github.com/owner/name, a GitHub URL or an
// ssh remote
func ParseRepo(repo string) (owner, name string, err error) {
	s := strings.TrimSpace(repo)
	host := ""
	if u, perr := url.Parse(s); perr == nil && u.Host != "" {
		host, s = u.Hostname(), u.Path
	} else if rest, ok := strings.CutPrefix(s, "git@"); ok {
		// scp-like ssh remote: git@github.com:owner/name.git
		host, s, _ = strings.Cut(rest, ":")
	}
	if host != "" && host != "github.com" && host != "www.github.com" {
		return "", "", errors.Errorf("invalid GitHub repository %q, host %s is not github.com", repo, host)
	}
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.Trim(s, "/"), ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repository %q, expected owner/name", repo)
	}
	return parts[0], parts[1], nil
}

// 📦 Defaults fetches the repository and derives project_name, repo_name,
// owner, github_username and year from it
func (p *Provider) Defaults(ctx context.Context, repo string) (map[string]string, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("owner", owner).Str("name", name).Msg("fetching repository")

	r, _, err := p.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, errors.Errorf("getting repository %s/%s: %w", owner, name, err)
	}

	values := map[string]string{}
	if v := r.GetName(); v != "" {
		values["project_name"] = v
		values["repo_name"] = v
	}
	if v := r.GetOwner().GetLogin(); v != "" {
		values["owner"] = v
		values["github_username"] = v
	}
	if created := r.GetCreatedAt(); !created.IsZero() {
		values["year"] = strconv.Itoa(created.Year())
	}

	logger.Debug().Interface("values", values).Msg("repository defaults")

	return values, nil
}

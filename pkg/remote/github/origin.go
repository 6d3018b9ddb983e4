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

	git "github.com/go-git/go-git/v6"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 OriginRepo returns the owner/name of the GitHub repository that the
// "origin" remote of the git repository containing dir points at
func OriginRepo(ctx context.Context, dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.Errorf("opening git repository at %s: %w", dir, err)
	}

	origin, err := repo.Remote("origin")
	if err != nil {
		return "", errors.Errorf("reading origin remote: %w", err)
	}

	urls := origin.Config().URLs
	if len(urls) == 0 {
		return "", errors.Errorf("origin remote has no URL")
	}

	owner, name, err := ParseRepo(urls[0])
	if err != nil {
		return "", err
	}

	zerolog.Ctx(ctx).Debug().Str("url", urls[0]).Str("owner", owner).Str("name", name).Msg("detected origin repository")

	return owner + "/" + name, nil
}

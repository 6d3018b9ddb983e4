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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/instantiate/pkg/config"
	"github.com/walteh/instantiate/pkg/log"
	"github.com/walteh/instantiate/pkg/operation"
	"github.com/walteh/instantiate/pkg/placeholder"
	"github.com/walteh/instantiate/pkg/remote"
	"github.com/walteh/instantiate/pkg/remote/github"
	"gitlab.com/tozd/go/errors"
)

// rootOpts holds the flags of the root command
type rootOpts struct {
	values       map[string]*string
	dryRun       bool
	rootDir      string
	configFile   string
	exclude      []string
	githubRepo   string
	githubOrigin bool
	debug        bool

	newProvider func(ctx context.Context) remote.Provider
}

// NewCommand creates the instantiate command tree
func NewCommand() *cobra.Command {
	return newCommand(func(ctx context.Context) remote.Provider {
		return github.New(ctx)
	})
}

func newCommand(newProvider func(ctx context.Context) remote.Provider) *cobra.Command {
	opts := &rootOpts{
		values:      make(map[string]*string, len(placeholder.Known)),
		newProvider: newProvider,
	}

	cmd := &cobra.Command{
		Use:   "instantiate",
		Short: "Replace template placeholders across a new repository",
		Long: `instantiate replaces placeholders such as {{PROJECT_NAME}} with concrete
values in a fixed set of repository files (README.md, LICENSE, .github
templates, ...). Placeholders without a value are left untouched.

Values come from flags, an optional values file (--config) and, with
--github-repo or --github-origin, from the GitHub repository itself. Flags win over the values
file, which wins over GitHub defaults.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	addRootFlags(cmd, opts)

	cmd.AddCommand(
		newPlaceholdersCmd(),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds one flag per known placeholder plus the run flags
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	for _, p := range placeholder.Known {
		v := new(string)
		opts.values[p.Name] = v
		cmd.Flags().StringVar(v, p.Flag(), "", p.Usage)
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would be changed without writing files")
	cmd.Flags().StringVar(&opts.rootDir, "root-dir", "", "repository root directory (default: current directory)")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "values file (.yaml, .yml, .json or .hcl)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "glob pattern of target files to skip (repeatable)")
	cmd.Flags().StringVar(&opts.githubRepo, "github-repo", "", "GitHub repository (owner/name) to read default values from")
	cmd.Flags().BoolVar(&opts.githubOrigin, "github-origin", false, "read default values from the GitHub repository of the root's origin remote")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
}

// 🔄 collect merges GitHub defaults, the values file and flags, in that order
func (o *rootOpts) collect(ctx context.Context, root string) (map[string]string, []string, error) {
	values := map[string]string{}
	var exclude []string

	repo := o.githubRepo
	if repo == "" && o.githubOrigin {
		detected, err := github.OriginRepo(ctx, root)
		if err != nil {
			return nil, nil, errors.Errorf("detecting GitHub repository: %w", err)
		}
		repo = detected
	}

	if repo != "" {
		defaults, err := o.newProvider(ctx).Defaults(ctx, repo)
		if err != nil {
			return nil, nil, errors.Errorf("reading GitHub defaults: %w", err)
		}
		merge(values, defaults)
	}

	if o.configFile != "" {
		cfg, err := config.Load(ctx, o.configFile)
		if err != nil {
			return nil, nil, errors.Errorf("loading values file: %w", err)
		}
		merge(values, cfg.Values)
		exclude = append(exclude, cfg.Exclude...)
	}

	for name, v := range o.values {
		if *v != "" {
			values[name] = *v
		}
	}
	exclude = append(exclude, o.exclude...)

	return values, exclude, nil
}

// merge copies non-empty values from src into dst
func merge(dst, src map[string]string) {
	for k, v := range src {
		if v != "" {
			dst[k] = v
		}
	}
}

func (o *rootOpts) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if o.debug {
		logger := zerolog.Ctx(ctx).Level(zerolog.DebugLevel)
		ctx = logger.WithContext(ctx)
	}

	root := o.rootDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Errorf("getting working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return errors.Errorf("resolving root directory: %w", err)
	}

	values, exclude, err := o.collect(ctx, root)
	if err != nil {
		return err
	}

	replacements, err := placeholder.Build(values)
	if err != nil {
		return errors.Errorf("building replacements: %w", err)
	}
	if replacements.Len() == 0 {
		return errors.New("no replacement values provided, use --help for usage")
	}

	out := log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx))

	inst, err := operation.New(operation.Options{
		Root:    root,
		Logger:  out,
		Exclude: exclude,
	})
	if err != nil {
		return errors.Errorf("creating instantiator: %w", err)
	}

	mode := "replacing"
	if o.dryRun {
		mode = "dry run, checking"
	}
	out.Header(fmt.Sprintf("%s %d placeholders in %s", mode, replacements.Len(), root))

	modified, err := inst.Instantiate(ctx, replacements, o.dryRun)
	if err != nil {
		return errors.Errorf("instantiating template: %w", err)
	}

	if o.dryRun {
		out.Infof("Dry run: %d files would be modified", len(modified))
		return nil
	}
	if len(modified) == 0 {
		out.Warningf("No files under %s contained any of the supplied placeholders", root)
	}
	out.Successf("Successfully modified %d files", len(modified))

	return nil
}

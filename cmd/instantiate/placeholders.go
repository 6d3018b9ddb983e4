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
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/instantiate/pkg/operation"
	"github.com/walteh/instantiate/pkg/placeholder"
	"gitlab.com/tozd/go/errors"
)

func newPlaceholdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "placeholders",
		Short: "List supported placeholders and the files they are replaced in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := pterm.TableData{{"Token", "Flag", "Config key", "Description"}}
			for _, p := range placeholder.Known {
				data = append(data, []string{p.Token, "--" + p.Flag(), p.Name, p.Usage})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering placeholders: %w", err)
			}

			files := pterm.TableData{{"#", "Target file"}}
			for i, f := range operation.TargetFiles {
				files = append(files, []string{fmt.Sprint(i + 1), f})
			}

			fileTable, err := pterm.DefaultTable.WithHasHeader().WithData(files).Srender()
			if err != nil {
				return errors.Errorf("rendering target files: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", table, fileTable)
			return nil
		},
	}
}

/*
Copyright © 2026 The IconForge Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iconforge/iconforge/internal/store"
)

var (
	historyDBPath string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent icon generations",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer s.Close()

		entries, err := s.ListHistory(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No history yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSTYLE\tDESCRIPTION\tREFINER\tSYNTH\tRESULT")
		for _, e := range entries {
			result := e.ImagePath
			if e.Error != "" {
				result = "FAILED: " + truncate(e.Error, 50)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04"), e.ArtStyle,
				truncate(e.Description, 40), e.Refiner, e.Synthesizer, result)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyDBPath, "db", "./data/iconforge.db", "path to the SQLite database")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show")
}

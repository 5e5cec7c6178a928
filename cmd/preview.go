package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	previewTemplate string
	previewVars     string
	previewOffset   int64
	previewLimit    int64
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "List the titles a batch would generate, without generating",
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, set, err := loadInputs(previewTemplate, previewVars)
		if err != nil {
			return err
		}

		// No store: preview never persists or consults the ledger.
		items, total, err := initEngine(nil).Preview(tmpl, set, previewOffset, previewLimit)
		if err != nil {
			return err
		}

		fmt.Printf("Combination space: %d total, showing %d from offset %d\n", total, len(items), previewOffset)
		for _, it := range items {
			fmt.Printf("%6d  %s  /%s\n", it.Index, it.Title, it.Slug)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewTemplate, "template", "", "template definition file (YAML)")
	previewCmd.Flags().StringVar(&previewVars, "vars", "", "variable set file (CSV, XLSX or YAML)")
	previewCmd.Flags().Int64Var(&previewOffset, "offset", 0, "skip this many combinations")
	previewCmd.Flags().Int64Var(&previewLimit, "limit", 20, "max combinations to list")
	_ = previewCmd.MarkFlagRequired("template")
	_ = previewCmd.MarkFlagRequired("vars")
	rootCmd.AddCommand(previewCmd)
}

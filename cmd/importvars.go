package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/pagegen-cli/internal/varimport"
)

var importOut string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a variable set file and optionally convert it to YAML",
	Long: "Reads a CSV, XLSX or YAML variable set, reports each variable and its " +
		"value count, and with --out writes the normalized set as YAML.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := varimport.Load(args[0])
		if err != nil {
			return err
		}

		names := make([]string, 0, len(set.Values))
		for name := range set.Values {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("%-20s %d values\n", name, len(set.Values[name]))
		}

		if importOut != "" {
			data, err := yaml.Marshal(set.Values)
			if err != nil {
				return err
			}
			if err := os.WriteFile(importOut, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", importOut)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importOut, "out", "", "write the normalized variable set as YAML")
	rootCmd.AddCommand(importCmd)
}

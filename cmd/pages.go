package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/internal/store"
)

var (
	pagesTemplate string
	pagesVerdict  string
	pagesLimit    int
	pagesOffset   int
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Inspect and manage generated pages",
}

var pagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		pages, err := st.ListPages(cmd.Context(), store.PageFilter{
			TemplateID: pagesTemplate,
			Verdict:    model.Verdict(pagesVerdict),
			Limit:      pagesLimit,
			Offset:     pagesOffset,
		})
		if err != nil {
			return err
		}

		for _, p := range pages {
			fmt.Printf("%s  %-6s  %.2f  %s\n", p.ID, p.Verdict, p.QualityScore, p.Title)
		}
		fmt.Printf("%d pages\n", len(pages))
		return nil
	},
}

var pagesShowCmd = &cobra.Command{
	Use:   "show <page-id>",
	Short: "Print one page as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		page, err := st.GetPage(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	},
}

var pagesDeleteCmd = &cobra.Command{
	Use:   "delete <page-id>",
	Short: "Delete a page and its ledger entry, allowing regeneration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeletePage(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	pagesListCmd.Flags().StringVar(&pagesTemplate, "template", "", "filter by template ID")
	pagesListCmd.Flags().StringVar(&pagesVerdict, "verdict", "", "filter by verdict (pass, warn)")
	pagesListCmd.Flags().IntVar(&pagesLimit, "limit", 50, "max pages to list")
	pagesListCmd.Flags().IntVar(&pagesOffset, "offset", 0, "skip this many pages")

	pagesCmd.AddCommand(pagesListCmd, pagesShowCmd, pagesDeleteCmd)
	rootCmd.AddCommand(pagesCmd)
}

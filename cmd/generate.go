package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/pagegen-cli/internal/engine"
)

var (
	generateTemplate    string
	generateVars        string
	generateOffset      int64
	generateLimit       int64
	generateForce       bool
	generateConcurrency int
	generateJSON        bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate pages for a template's combination space",
	Long: "Expands the template's variables into combinations, runs each through " +
		"enrichment, variant selection, assembly and the quality gate, and persists " +
		"accepted pages. Already generated combinations are skipped unless --force is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tmpl, set, err := loadInputs(generateTemplate, generateVars)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		result, err := initEngine(st).Generate(ctx, tmpl, set, engine.Request{
			Offset: generateOffset,
			Limit:  generateLimit,
		}, engine.Options{
			Force:       generateForce,
			Concurrency: generateConcurrency,
		})
		if err != nil {
			return err
		}

		if generateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		fmt.Printf("Batch %s: %d requested, %d generated, %d skipped, %d failed quality, %d errors\n",
			result.BatchID, result.Requested, len(result.Generated),
			len(result.SkippedDuplicates), len(result.FailedQuality), len(result.Errors))
		if result.Cancelled {
			fmt.Println("Batch was cancelled; remaining combinations were not attempted.")
		}
		if result.Usage.Calls > 0 || result.Usage.Fallbacks > 0 {
			fmt.Printf("AI usage: %d calls, %d fallbacks, %d in / %d out tokens, $%.4f\n",
				result.Usage.Calls, result.Usage.Fallbacks,
				result.Usage.InputTokens, result.Usage.OutputTokens, result.Usage.CostUSD)
		}
		for _, f := range result.FailedQuality {
			fmt.Printf("  rejected #%d (%s): %s\n", f.Index, f.CombinationKey, f.FailedCheck)
		}
		for _, e := range result.Errors {
			fmt.Printf("  error #%d: %s\n", e.Index, e.Reason)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateTemplate, "template", "", "template definition file (YAML)")
	generateCmd.Flags().StringVar(&generateVars, "vars", "", "variable set file (CSV, XLSX or YAML)")
	generateCmd.Flags().Int64Var(&generateOffset, "offset", 0, "skip this many combinations")
	generateCmd.Flags().Int64Var(&generateLimit, "limit", 0, "max combinations to generate (0 = whole space, subject to the size guard)")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "replace pages for already generated combinations")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "worker pool size override")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "print the full batch result as JSON")
	_ = generateCmd.MarkFlagRequired("template")
	_ = generateCmd.MarkFlagRequired("vars")
	rootCmd.AddCommand(generateCmd)
}

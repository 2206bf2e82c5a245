package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/evalia/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	batchQuery  string
	batchOutDir string
	concurrency int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Evaluate multiple draft files against one query in parallel",
	Long: `Batch evaluates multiple drafts concurrently:
- Read draft file paths from the input file (one per line, # comments skipped)
- Evaluate drafts in parallel with a configurable worker count
- Write per-draft reports into subdirectories of the output directory

Example:
  evalia batch drafts.txt --query "Compare the best databases"
  evalia batch drafts.txt --query "..." --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchQuery, "query", "", "the original user question/query (required)")
	batchCmd.Flags().StringVar(&batchOutDir, "output-dir", "evaluation_output", "output directory for per-draft reports")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent evaluations")
	_ = batchCmd.MarkFlagRequired("query")

	addPipelineFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	listPath := args[0]

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), totalTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Batch evaluation\n")
	fmt.Fprintf(os.Stderr, "  Input file:  %s\n", listPath)
	fmt.Fprintf(os.Stderr, "  Workers:     %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:  %s\n\n", batchOutDir)

	p := pipeline.NewPipeline(cfg)
	processor := pipeline.NewBatchProcessor(p, concurrency)

	results, err := processor.ProcessFile(ctx, batchQuery, listPath, batchOutDir)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Path, res.Err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s: overall %.2f/5.00\n", res.Path, res.Report.Score.Overall)
	}

	fmt.Fprintf(os.Stderr, "\nEvaluated %d drafts, %d failed\n", len(results), failed)

	if failed == len(results) && len(results) > 0 {
		return fmt.Errorf("all %d evaluations failed", failed)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/evalia/internal/llm"
	"github.com/ppiankov/evalia/internal/search"
	"github.com/spf13/cobra"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check LLM and search provider configuration",
	Long: `Doctor probes the configured providers:
- Reports which search backend the current credentials select
- Makes a lightweight call to verify the LLM provider is reachable

Useful before a long batch run to catch bad API keys early.

Example:
  evalia doctor
  evalia doctor --llm-provider openai`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	addPipelineFlags(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	// Search: selection is static, so just report the outcome
	selected := search.DetectProvider(cfg.Search.Credentials)
	if selected == search.ProviderMock {
		fmt.Println("⚠ No search credentials found (TAVILY_API_KEY, SERPAPI_KEY, BING_API_KEY, GOOGLE_API_KEY+GOOGLE_CSE_ID)")
		fmt.Println("  Searches will return fixed mock results")
	} else {
		fmt.Printf("✓ Search provider: %s\n", selected)
	}

	// LLM: make a lightweight probe call
	if cfg.LLM.Provider == "" {
		fmt.Println("⚠ No LLM configured; criteria, claims, verdicts, and revisions use heuristic fallbacks")
		return nil
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Probing %s API...\n", provider.Name())
	if !provider.IsAvailable(ctx) {
		return fmt.Errorf("%s provider is not reachable; check your API key", provider.Name())
	}

	fmt.Printf("✓ LLM provider: %s", provider.Name())
	if cfg.LLM.Model != "" {
		fmt.Printf(" (model: %s)", cfg.LLM.Model)
	}
	fmt.Println()

	return nil
}

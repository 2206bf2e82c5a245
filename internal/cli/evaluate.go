package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/evalia/internal/model"
	"github.com/ppiankov/evalia/internal/pipeline"
	"github.com/spf13/cobra"
)

// ErrPoorQuality signals a successful evaluation whose overall score fell
// below the poor-quality threshold. main maps it to exit code 2.
var ErrPoorQuality = errors.New("overall score below quality threshold")

var (
	query        string
	draftPath    string
	outDir       string
	llmProvider  string
	llmModel     string
	callTimeout  int
	totalTimeout time.Duration
	checkWorkers int
	noCache      bool
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a draft research report against the original query",
	Long: `Evaluate fact-checks and scores an AI-generated draft:
- Extract evaluation criteria from the user query
- Extract up to 10 verifiable claims from the draft
- Fact-check each claim against web search evidence
- Score accuracy, coverage, citations quality, and clarity
- Auto-fix drafts scoring below 3.5
- Write report.md, report.html, and report.json

Exit codes: 0 success, 2 success but overall score below 3.0, 1 error.

Example:
  evalia evaluate --query "Compare the best databases" --draft report.md
  evalia evaluate --query "..." --draft report.md --out results --llm-provider openai`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&query, "query", "", "the original user question/query (required)")
	evaluateCmd.Flags().StringVar(&draftPath, "draft", "", "path to the draft file to evaluate (required)")
	evaluateCmd.Flags().StringVar(&outDir, "out", "evaluation_output", "output directory for reports")
	_ = evaluateCmd.MarkFlagRequired("query")
	_ = evaluateCmd.MarkFlagRequired("draft")

	addPipelineFlags(evaluateCmd)
}

// addPipelineFlags registers the flags shared by evaluate and batch
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "auto", "LLM provider (auto, openai, anthropic, ollama, none)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
	cmd.Flags().IntVar(&callTimeout, "call-timeout", 30, "timeout per external call, in seconds")
	cmd.Flags().DurationVar(&totalTimeout, "timeout", 10*time.Minute, "overall evaluation timeout")
	cmd.Flags().IntVar(&checkWorkers, "check-workers", 1, "concurrent fact-checks (1 = sequential)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the search-result cache")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	draft, err := os.ReadFile(draftPath)
	if err != nil {
		return fmt.Errorf("draft file not found: %s: %w", draftPath, err)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), totalTimeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg)

	result, err := p.Evaluate(ctx, query, string(draft))
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if err := p.Render(result, outDir); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if result.Report.Score.Overall < model.PoorQualityThreshold {
		return ErrPoorQuality
	}
	return nil
}

// buildConfig assembles the run configuration from defaults, flags, and
// environment credentials. All credentials are read here, once, and
// injected into the components at construction.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.LLM.Model = llmModel
	cfg.LLM.Timeout = callTimeout
	cfg.Search.Timeout = callTimeout
	cfg.Concurrency.CheckWorkers = checkWorkers
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	if err := resolveLLMProvider(cfg); err != nil {
		return nil, err
	}

	cfg.Search.Credentials = model.SearchCredentials{
		TavilyAPIKey: os.Getenv("TAVILY_API_KEY"),
		SerpAPIKey:   os.Getenv("SERPAPI_KEY"),
		BingAPIKey:   os.Getenv("BING_API_KEY"),
		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GoogleCSEID:  os.Getenv("GOOGLE_CSE_ID"),
	}

	return cfg, nil
}

// resolveLLMProvider fills cfg.LLM from the --llm-provider flag and the
// environment. "auto" picks the first provider with a credential present;
// an explicit provider with no credential is an error, while "auto"
// finding nothing silently disables the LLM (heuristic mode).
func resolveLLMProvider(cfg *model.Config) error {
	switch llmProvider {
	case "auto":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.LLM.Provider = "openai"
			cfg.LLM.APIKey = key
		} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			cfg.LLM.Provider = "anthropic"
			cfg.LLM.APIKey = key
		} else {
			cfg.LLM.Provider = ""
			fmt.Fprintln(os.Stderr, "Warning: no LLM credentials found, using heuristic fallbacks")
		}

	case "openai":
		cfg.LLM.Provider = "openai"
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}

	case "anthropic", "claude":
		cfg.LLM.Provider = "anthropic"
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}

	case "ollama":
		cfg.LLM.Provider = "ollama"
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}

	case "none", "":
		cfg.LLM.Provider = ""

	default:
		return fmt.Errorf("unknown LLM provider: %s (supported: auto, openai, anthropic, ollama, none)", llmProvider)
	}

	if model := os.Getenv("OPENAI_MODEL"); model != "" && cfg.LLM.Provider == "openai" && cfg.LLM.Model == "" {
		cfg.LLM.Model = model
	}

	return nil
}

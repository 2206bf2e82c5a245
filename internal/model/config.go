package model

import "time"

// Config is the complete evalia configuration. All components receive the
// slice of it they need at construction; nothing reads global state after
// startup.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the language-model provider
type LLMConfig struct {
	Provider  string `yaml:"provider"`   // openai, anthropic, ollama, "" (disabled)
	Model     string `yaml:"model"`      // Provider-specific model name
	APIKey    string `yaml:"api_key"`    // Prefer env vars over the config file
	BaseURL   string `yaml:"base_url"`   // Custom endpoint (e.g., Ollama)
	Timeout   int    `yaml:"timeout"`    // Seconds per API call
	MaxTokens int    `yaml:"max_tokens"` // Response length limit

	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
	NoProxy    string `yaml:"no_proxy"`
}

// SearchConfig configures the web-search backend
type SearchConfig struct {
	NumResults int     `yaml:"num_results"` // Results fetched per fact-check query
	Timeout    int     `yaml:"timeout"`     // Seconds per search call
	RatePerSec float64 `yaml:"rate_per_sec"`
	Burst      int     `yaml:"burst"`

	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
	NoProxy    string `yaml:"no_proxy"`

	Credentials SearchCredentials `yaml:"credentials"`
}

// SearchCredentials holds the per-provider API keys. The first configured
// provider wins, in a fixed priority order (tavily, serpapi, bing, google).
type SearchCredentials struct {
	TavilyAPIKey string `yaml:"tavily_api_key"`
	SerpAPIKey   string `yaml:"serpapi_key"`
	BingAPIKey   string `yaml:"bing_api_key"`
	GoogleAPIKey string `yaml:"google_api_key"`
	GoogleCSEID  string `yaml:"google_cse_id"`
}

// ConcurrencyConfig bounds parallel external calls
type ConcurrencyConfig struct {
	CheckWorkers int `yaml:"check_workers"` // Concurrent fact-checks; 1 = strictly sequential
	BatchWorkers int `yaml:"batch_workers"` // Concurrent draft evaluations in batch mode
}

// CacheConfig configures the layered search-result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"` // Disk layer location; empty = ~/.evalia/cache
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir     string `yaml:"dir"` // Output directory for report.{md,html,json}
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 2000,
		},
		Search: SearchConfig{
			NumResults: 3,
			Timeout:    15,
			RatePerSec: 2,
			Burst:      5,
		},
		Concurrency: ConcurrencyConfig{
			CheckWorkers: 1,
			BatchWorkers: 4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			Dir: "evaluation_output",
		},
	}
}

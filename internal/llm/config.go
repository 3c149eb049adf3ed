package llm

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskPromptAnalysis   TaskType = "prompt_analysis"
	TaskModuleSuggest    TaskType = "module_suggest"
	TaskResponseAnalysis TaskType = "response_analysis"
	TaskQuestion         TaskType = "question"
	TaskSynthesis        TaskType = "synthesis"
)

// Backend selects the completion service implementation.
type Backend string

const (
	BackendOpenAI Backend = "openai"
	BackendOllama Backend = "ollama"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Backend    Backend `envconfig:"BACKEND" default:"openai"`
	LogCalls   bool    `envconfig:"LOG_CALLS" default:"false"`
	Endpoint   string  `envconfig:"ENDPOINT"`
	Model      string  `envconfig:"MODEL"`
	APIKey     string  `envconfig:"OPENAI_API_KEY"`
	TimeoutMs  int     `envconfig:"TIMEOUT_MS" default:"30000"`
	MaxRetries int     `envconfig:"MAX_RETRIES" default:"1"`

	Tasks map[TaskType]TaskConfig `ignored:"true"`
}

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1"
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultOllamaModel    = "llama3.2"
)

// DefaultConfig returns an LLMConfig with sensible defaults for the OpenAI backend.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Backend:    BackendOpenAI,
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks:      defaultTasks(),
	}
}

// defaultTasks leaves TimeoutMs unset so the global TimeoutMs applies until
// a per-task variable overrides it.
func defaultTasks() map[TaskType]TaskConfig {
	return map[TaskType]TaskConfig{
		TaskPromptAnalysis:   {Temperature: 0.2, MaxTokens: 1024},
		TaskModuleSuggest:    {Temperature: 0.4, MaxTokens: 1024},
		TaskResponseAnalysis: {Temperature: 0.0, MaxTokens: 256},
		TaskQuestion:         {Temperature: 0.7, MaxTokens: 512},
		TaskSynthesis:        {Temperature: 0.7, MaxTokens: 512},
	}
}

// LoadConfig reads LLM configuration from AISCRIBE_LLM_* environment
// variables, falling back to defaults for any unset values.
func LoadConfig() (LLMConfig, error) {
	var cfg LLMConfig
	if err := envconfig.Process("AISCRIBE_LLM", &cfg); err != nil {
		return LLMConfig{}, fmt.Errorf("loading llm config: %w", err)
	}
	if cfg.Backend != BackendOpenAI && cfg.Backend != BackendOllama {
		return LLMConfig{}, fmt.Errorf("unknown llm backend %q (want %q or %q)", cfg.Backend, BackendOpenAI, BackendOllama)
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultConfig().TimeoutMs
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	cfg.Tasks = defaultTasks()

	applyTaskTimeoutEnv(&cfg, TaskPromptAnalysis, "AISCRIBE_LLM_PROMPT_ANALYSIS_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskModuleSuggest, "AISCRIBE_LLM_MODULE_SUGGEST_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskResponseAnalysis, "AISCRIBE_LLM_RESPONSE_ANALYSIS_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskQuestion, "AISCRIBE_LLM_QUESTION_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSynthesis, "AISCRIBE_LLM_SYNTHESIS_TIMEOUT_MS")

	return cfg, nil
}

// EffectiveEndpoint returns the configured endpoint or the backend default.
func (c LLMConfig) EffectiveEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.Backend == BackendOllama {
		return defaultOllamaEndpoint
	}
	return defaultOpenAIEndpoint
}

// EffectiveModel returns the configured model or the backend default.
func (c LLMConfig) EffectiveModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Backend == BackendOllama {
		return defaultOllamaModel
	}
	return defaultOpenAIModel
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}

package llm

import (
	"context"

	"github.com/caldermed/priorauth/internal/model"
)

// Provider defines the interface for model-serving backends. The pipeline
// treats the backend as a black-box text-completion capability.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a text completion for the given prompt. Transport
	// failures and timeouts surface as errors; the caller decides how to
	// recover.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a model invocation.
type CompletionRequest struct {
	// Prompt is the full instruction text, including the output contract
	Prompt string

	// Model overrides the configured model for this call (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// StopSequence ends generation when emitted by the model
	StopSequence string
}

// CompletionResponse contains the raw model output.
type CompletionResponse struct {
	// Text is the raw completion, possibly with stray tokens around the JSON
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// systemPrompt is shared by all providers.
const systemPrompt = "You are a medical prior-authorization decision system. You follow the requested output format exactly and never add explanatory prose around it."

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   30,
		MaxTokens: 512,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPProxy:  modelConfig.HTTPProxy,
		HTTPSProxy: modelConfig.HTTPSProxy,
		NoProxy:    modelConfig.NoProxy,
	}
}

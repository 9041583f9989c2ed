package llm

import (
	"strings"
	"testing"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantNil  bool
		wantErr  bool
		wantName string
	}{
		{
			name:     "openai",
			config:   Config{Provider: "openai", APIKey: "test-key"},
			wantName: "openai",
		},
		{
			name:     "anthropic",
			config:   Config{Provider: "anthropic", APIKey: "test-key"},
			wantName: "anthropic",
		},
		{
			name:     "claude alias",
			config:   Config{Provider: "claude", APIKey: "test-key"},
			wantName: "anthropic",
		},
		{
			name:     "ollama",
			config:   Config{Provider: "ollama", Model: "llama3.1"},
			wantName: "ollama",
		},
		{
			name:     "case insensitive",
			config:   Config{Provider: "OpenAI", APIKey: "test-key"},
			wantName: "openai",
		},
		{
			name:    "empty means no provider",
			config:  Config{Provider: ""},
			wantNil: true,
		},
		{
			name:    "unknown provider",
			config:  Config{Provider: "bedrock"},
			wantErr: true,
		},
		{
			name:    "openai without key",
			config:  Config{Provider: "openai"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if tt.wantNil {
				if provider != nil {
					t.Fatalf("Expected nil provider, got %T", provider)
				}
				return
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Expected provider %q, got %q", tt.wantName, provider.Name())
			}
		})
	}
}

func TestResolveAPIKey_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := ResolveAPIKey(Config{Provider: "openai"})
	if err == nil {
		t.Fatal("Expected error when OPENAI_API_KEY not set")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Expected variable name in error, got %v", err)
	}
}

func TestResolveAPIKey_FromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	config, err := ResolveAPIKey(Config{Provider: "anthropic"})
	if err != nil {
		t.Fatalf("ResolveAPIKey failed: %v", err)
	}
	if config.APIKey != "env-key" {
		t.Errorf("Expected key from environment, got %q", config.APIKey)
	}
}

func TestResolveAPIKey_ExplicitKeyWins(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	config, err := ResolveAPIKey(Config{Provider: "openai", APIKey: "explicit-key"})
	if err != nil {
		t.Fatalf("ResolveAPIKey failed: %v", err)
	}
	if config.APIKey != "explicit-key" {
		t.Errorf("Expected explicit key to win, got %q", config.APIKey)
	}
}

func TestResolveAPIKey_OllamaNeedsNoKey(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	config, err := ResolveAPIKey(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("ResolveAPIKey failed: %v", err)
	}
	if config.BaseURL != "http://ollama:11434" {
		t.Errorf("Expected base URL from environment, got %q", config.BaseURL)
	}
}

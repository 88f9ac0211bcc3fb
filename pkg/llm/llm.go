package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"

	DefaultProvider  = ProviderAnthropic
	DefaultModel     = "claude-3-haiku-20240307"
	DefaultMaxTokens = 1000
	DefaultTimeout   = 120 * time.Second
)

type Client interface {
	Generate(ctx context.Context, request GenerateRequest) (*GenerateResponse, error)
}

type GenerateRequest struct {
	Prompt    string `json:"prompt" yaml:"prompt"`
	Model     string `json:"model" yaml:"model"`
	MaxTokens int    `json:"maxTokens" yaml:"maxTokens"`
}

type GenerateResponse struct {
	Response string `json:"response" yaml:"response"`
}

// Settings select and tune the backend. Zero values fall back to the defaults above.
type Settings struct {
	Provider  string        `json:"provider" yaml:"provider"`
	Model     string        `json:"model" yaml:"model"`
	BaseURL   string        `json:"baseURL" yaml:"baseURL"`
	MaxTokens int           `json:"maxTokens" yaml:"maxTokens"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
}

func (s Settings) WithDefaults() Settings {
	s.Provider = strings.ToLower(lo.Ternary(s.Provider == "", DefaultProvider, s.Provider))
	s.Model = lo.Ternary(s.Model == "" && s.Provider == ProviderAnthropic, DefaultModel, s.Model)
	s.MaxTokens = lo.Ternary(s.MaxTokens <= 0, DefaultMaxTokens, s.MaxTokens)
	s.Timeout = lo.Ternary(s.Timeout <= 0, DefaultTimeout, s.Timeout)
	return s
}

// New builds the backend client for settings.Provider authenticated with credential.
func New(log *slog.Logger, settings Settings, credential string) (Client, error) {
	settings = settings.WithDefaults()
	switch settings.Provider {
	case ProviderAnthropic:
		return NewAnthropic(log, credential, settings.BaseURL, settings.Timeout), nil
	case ProviderOpenAI:
		return NewOpenAI(log, credential, settings.BaseURL, settings.Model)
	case ProviderOllama:
		return NewOllama(log, lo.Ternary(settings.BaseURL == "", DefaultOllamaURL, settings.BaseURL), credential, settings.Timeout), nil
	default:
		return nil, errors.Errorf("unsupported provider %q (expected one of %s, %s, %s)",
			settings.Provider, ProviderAnthropic, ProviderOpenAI, ProviderOllama)
	}
}

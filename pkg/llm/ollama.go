package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.1:8b"
)

func NewOllama(log *slog.Logger, ollamaUrl, ollamaApiKey string, timeout time.Duration) Client {
	return &ollamaClient{
		log:          log,
		ollamaApiKey: ollamaApiKey,
		ollamaUrl:    ollamaUrl,
		timeout:      timeout,
	}
}

type ollamaClient struct {
	log          *slog.Logger
	ollamaApiKey string
	ollamaUrl    string
	timeout      time.Duration
}

type RoundTripFn func(req *http.Request) (*http.Response, error)

func (f RoundTripFn) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func (o *ollamaClient) Generate(ctx context.Context, request GenerateRequest) (*GenerateResponse, error) {
	baseURL, err := url.Parse(o.ollamaUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ollama url %q", o.ollamaUrl)
	}
	client := api.NewClient(baseURL, &http.Client{
		Timeout: o.timeout,
		Transport: RoundTripFn(func(req *http.Request) (*http.Response, error) {
			if o.ollamaApiKey != "" {
				req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", o.ollamaApiKey))
			}
			return http.DefaultTransport.RoundTrip(req)
		}),
	})

	model := lo.Ternary(request.Model == "", DefaultOllamaModel, request.Model)
	o.log.Debug("sending prompt", "provider", ProviderOllama, "model", model, "url", o.ollamaUrl)

	resBuf := strings.Builder{}
	err = client.Generate(ctx, &api.GenerateRequest{
		Model:  model,
		Prompt: request.Prompt,
		Stream: lo.ToPtr(false),
		Options: map[string]any{
			"num_predict": lo.Ternary(request.MaxTokens <= 0, DefaultMaxTokens, request.MaxTokens),
		},
	}, func(response api.GenerateResponse) error {
		resBuf.WriteString(response.Response)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to process prompt with model %q", model)
	}
	if resBuf.Len() == 0 {
		return nil, errors.Errorf("ollama returned an empty response for model %q", model)
	}
	return &GenerateResponse{
		Response: resBuf.String(),
	}, nil
}

package llm

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

func NewAnthropic(log *slog.Logger, apiKey, baseURL string, timeout time.Duration) Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &anthropicClient{
		log:    log,
		client: anthropic.NewClient(opts...),
	}
}

type anthropicClient struct {
	log    *slog.Logger
	client anthropic.Client
}

func (a *anthropicClient) Generate(ctx context.Context, request GenerateRequest) (*GenerateResponse, error) {
	model := lo.Ternary(request.Model == "", DefaultModel, request.Model)
	a.log.Debug("sending prompt", "provider", ProviderAnthropic, "model", model, "maxTokens", request.MaxTokens)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(lo.Ternary(request.MaxTokens <= 0, DefaultMaxTokens, request.MaxTokens)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create message with model %q", model)
	}

	var resBuf strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			resBuf.WriteString(block.Text)
		}
	}
	if resBuf.Len() == 0 {
		return nil, errors.Errorf("response does not contain any text content (stop reason %q)", message.StopReason)
	}
	return &GenerateResponse{
		Response: resBuf.String(),
	}, nil
}

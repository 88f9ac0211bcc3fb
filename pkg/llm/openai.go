package llm

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func NewOpenAI(log *slog.Logger, openaiToken, baseURL, model string) (Client, error) {
	opts := []openai.Option{
		openai.WithToken(openaiToken),
	}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init openai client")
	}

	return &openaiClient{
		log:    log,
		client: client,
	}, nil
}

type openaiClient struct {
	log    *slog.Logger
	client *openai.LLM
}

func (o *openaiClient) Generate(ctx context.Context, request GenerateRequest) (*GenerateResponse, error) {
	o.log.Debug("sending prompt", "provider", ProviderOpenAI, "model", request.Model, "maxTokens", request.MaxTokens)

	var contents []llms.MessageContent
	contents = append(contents, llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextContent{
				Text: request.Prompt,
			},
		},
	})
	callOpts := []llms.CallOption{llms.WithMaxTokens(request.MaxTokens)}
	if request.Model != "" {
		callOpts = append(callOpts, llms.WithModel(request.Model))
	}
	res, err := o.client.GenerateContent(ctx, contents, callOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate content for prompt")
	}
	if len(res.Choices) == 0 || res.Choices[0].Content == "" {
		return nil, errors.Errorf("response does not contain any result")
	}

	return &GenerateResponse{
		Response: res.Choices[0].Content,
	}, nil
}

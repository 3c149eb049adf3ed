package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// openAIClient implements LLMClient against an OpenAI-compatible chat
// completions API.
type openAIClient struct {
	cfg      LLMConfig
	client   *openai.Client
	observer Observer
}

// NewOpenAIClient creates an LLMClient backed by the chat completions API at
// cfg.EffectiveEndpoint().
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = strings.TrimRight(cfg.EffectiveEndpoint(), "/")

	return &openAIClient{
		cfg:      cfg,
		client:   openai.NewClientWithConfig(config),
		observer: observer,
	}
}

var errEmptyChoices = errors.New("empty response: no choices returned")

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()
	temp, maxTok := c.cfg.taskParams(req)

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	model := c.cfg.EffectiveModel()
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(temp),
		MaxTokens:   maxTok,
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	tried := 0

	for i := 0; i < attempts; i++ {
		tried++
		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err == nil && len(resp.Choices) == 0 {
			err = errEmptyChoices
		}
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(LLMCallEvent{
				Task:      req.Task,
				Backend:   BackendOpenAI,
				Model:     model,
				LatencyMs: latency,
				Attempts:  tried,
				Success:   true,
			})
			respModel := resp.Model
			if respModel == "" {
				respModel = model
			}
			return &GenerateResponse{
				Text:      resp.Choices[0].Message.Content,
				Model:     respModel,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	return nil, finishFailure(ctx, c.observer, LLMCallEvent{
		Task:      req.Task,
		Backend:   BackendOpenAI,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  tried,
	}, lastErr)
}

// retryable reports whether an API error is worth another attempt. Client
// errors other than rate limiting will fail the same way again.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.HTTPStatusCode
		return code == 429 || code >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		code := reqErr.HTTPStatusCode
		return code == 429 || code >= 500
	}
	return true
}

func (c *openAIClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := c.client.ListModels(ctx)
	return err == nil
}

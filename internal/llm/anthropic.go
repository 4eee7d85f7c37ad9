package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	boterrors "github.com/laramiej/ai-daytrading/internal/errors"
)

const anthropicBaseURL = "https://api.anthropic.com"

// AnthropicProvider talks to the Anthropic Messages API. It supports both the
// single-shot analysis call and the full three-stage debate.
type AnthropicProvider struct {
	client *resty.Client
	model  string
}

func NewAnthropicProvider(apiKey, model string, timeout time.Duration) *AnthropicProvider {
	client := resty.New().
		SetBaseURL(anthropicBaseURL).
		SetTimeout(timeout).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetHeader("Content-Type", "application/json")

	return &AnthropicProvider{
		client: client,
		model:  model,
	}
}

func (p *AnthropicProvider) GetName() string      { return "anthropic" }
func (p *AnthropicProvider) GetModel() string     { return p.model }
func (p *AnthropicProvider) SupportsDebate() bool { return true }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *AnthropicProvider) complete(ctx context.Context, system, prompt string) (*Response, error) {
	req := anthropicRequest{
		Model:     p.model,
		MaxTokens: 1500,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	var result anthropicResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/v1/messages")
	if err != nil {
		return nil, boterrors.Wrap(boterrors.ErrorCategoryNetwork, "llm", "anthropic_complete",
			"request failed", err)
	}

	if resp.IsError() {
		msg := fmt.Sprintf("status %d", resp.StatusCode())
		if result.Error != nil {
			msg = fmt.Sprintf("%s (%s): %s", msg, result.Error.Type, result.Error.Message)
		}
		cat := boterrors.ErrorCategoryUpstream
		if resp.StatusCode() == 429 {
			cat = boterrors.ErrorCategoryRateLimit
		}
		return nil, boterrors.New(cat, "llm", "anthropic_complete", msg)
	}

	if len(result.Content) == 0 {
		return nil, boterrors.New(boterrors.ErrorCategoryUpstream, "llm", "anthropic_complete",
			"empty response content")
	}

	return &Response{
		Content:    result.Content[0].Text,
		Model:      result.Model,
		Provider:   p.GetName(),
		TokensUsed: result.Usage.InputTokens + result.Usage.OutputTokens,
	}, nil
}

func (p *AnthropicProvider) AnalyzeMarketData(ctx context.Context, snapshot MarketSnapshot, portfolioContext string) (*Response, error) {
	return p.complete(ctx, analystSystemPrompt, buildAnalysisPrompt(snapshot, portfolioContext))
}

func (p *AnthropicProvider) MakeBullCase(ctx context.Context, snapshot MarketSnapshot) (*Response, error) {
	return p.complete(ctx, analystSystemPrompt, buildBullPrompt(snapshot))
}

func (p *AnthropicProvider) MakeBearCase(ctx context.Context, snapshot MarketSnapshot) (*Response, error) {
	return p.complete(ctx, analystSystemPrompt, buildBearPrompt(snapshot))
}

func (p *AnthropicProvider) JudgeDebate(ctx context.Context, bull, bear DebateCase, snapshot MarketSnapshot) (*Response, error) {
	return p.complete(ctx, analystSystemPrompt, buildJudgePrompt(bull, bear, snapshot))
}

var _ Provider = (*AnthropicProvider)(nil)

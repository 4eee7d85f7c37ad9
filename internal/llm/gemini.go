package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	boterrors "github.com/laramiej/ai-daytrading/internal/errors"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiProvider talks to the Google Generative Language REST API
type GeminiProvider struct {
	client *resty.Client
	model  string
	apiKey string
}

func NewGeminiProvider(apiKey, model string, timeout time.Duration) *GeminiProvider {
	client := resty.New().
		SetBaseURL(geminiBaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &GeminiProvider{
		client: client,
		model:  model,
		apiKey: apiKey,
	}
}

func (p *GeminiProvider) GetName() string      { return "gemini" }
func (p *GeminiProvider) GetModel() string     { return p.model }
func (p *GeminiProvider) SupportsDebate() bool { return true }

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		MaxOutputTokens int     `json:"maxOutputTokens"`
		Temperature     float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *GeminiProvider) complete(ctx context.Context, system, prompt string) (*Response, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	}
	if system != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	req.GenerationConfig.MaxOutputTokens = 1500
	req.GenerationConfig.Temperature = 0.3

	var result geminiResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("model", p.model).
		SetQueryParam("key", p.apiKey).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return nil, boterrors.Wrap(boterrors.ErrorCategoryNetwork, "llm", "gemini_complete",
			"request failed", err)
	}

	if resp.IsError() {
		msg := fmt.Sprintf("status %d", resp.StatusCode())
		if result.Error != nil {
			msg = fmt.Sprintf("%s (%s): %s", msg, result.Error.Status, result.Error.Message)
		}
		cat := boterrors.ErrorCategoryUpstream
		if resp.StatusCode() == 429 {
			cat = boterrors.ErrorCategoryRateLimit
		}
		return nil, boterrors.New(cat, "llm", "gemini_complete", msg)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, boterrors.New(boterrors.ErrorCategoryUpstream, "llm", "gemini_complete",
			"empty response candidates")
	}

	return &Response{
		Content:    result.Candidates[0].Content.Parts[0].Text,
		Model:      p.model,
		Provider:   p.GetName(),
		TokensUsed: result.UsageMetadata.TotalTokenCount,
	}, nil
}

func (p *GeminiProvider) AnalyzeMarketData(ctx context.Context, snapshot MarketSnapshot, portfolioContext string) (*Response, error) {
	return p.complete(ctx, analystSystemPrompt, buildAnalysisPrompt(snapshot, portfolioContext))
}

func (p *GeminiProvider) MakeBullCase(ctx context.Context, snapshot MarketSnapshot) (*Response, error) {
	return p.complete(ctx, analystSystemPrompt, buildBullPrompt(snapshot))
}

func (p *GeminiProvider) MakeBearCase(ctx context.Context, snapshot MarketSnapshot) (*Response, error) {
	return p.complete(ctx, analystSystemPrompt, buildBearPrompt(snapshot))
}

func (p *GeminiProvider) JudgeDebate(ctx context.Context, bull, bear DebateCase, snapshot MarketSnapshot) (*Response, error) {
	return p.complete(ctx, analystSystemPrompt, buildJudgePrompt(bull, bear, snapshot))
}

var _ Provider = (*GeminiProvider)(nil)

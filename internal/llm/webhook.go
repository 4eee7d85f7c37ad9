package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	boterrors "github.com/laramiej/ai-daytrading/internal/errors"
)

// WebhookProvider delegates analysis to an external automation webhook
// (for example an n8n workflow) that runs its own model chain and returns
// the signal JSON. The webhook contract is single-shot only, so debate
// calls report ErrDebateUnsupported and callers fall back to
// AnalyzeMarketData.
type WebhookProvider struct {
	client *resty.Client
	url    string
}

func NewWebhookProvider(url string, timeout time.Duration) *WebhookProvider {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &WebhookProvider{
		client: client,
		url:    url,
	}
}

func (p *WebhookProvider) GetName() string      { return "webhook" }
func (p *WebhookProvider) GetModel() string     { return "external" }
func (p *WebhookProvider) SupportsDebate() bool { return false }

type webhookRequest struct {
	Symbol     string         `json:"symbol"`
	MarketData MarketSnapshot `json:"market_data"`
	Context    string         `json:"context,omitempty"`
}

func (p *WebhookProvider) AnalyzeMarketData(ctx context.Context, snapshot MarketSnapshot, portfolioContext string) (*Response, error) {
	req := webhookRequest{
		Symbol:     snapshot.Symbol(),
		MarketData: snapshot,
		Context:    portfolioContext,
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(p.url)
	if err != nil {
		return nil, boterrors.Wrap(boterrors.ErrorCategoryNetwork, "llm", "webhook_analyze",
			"request failed", err)
	}

	if resp.IsError() {
		return nil, boterrors.New(boterrors.ErrorCategoryUpstream, "llm", "webhook_analyze",
			fmt.Sprintf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	body := resp.String()
	if body == "" {
		return nil, boterrors.New(boterrors.ErrorCategoryUpstream, "llm", "webhook_analyze",
			"empty webhook response")
	}

	return &Response{
		Content:  body,
		Model:    p.GetModel(),
		Provider: p.GetName(),
	}, nil
}

func (p *WebhookProvider) MakeBullCase(ctx context.Context, snapshot MarketSnapshot) (*Response, error) {
	return nil, ErrDebateUnsupported
}

func (p *WebhookProvider) MakeBearCase(ctx context.Context, snapshot MarketSnapshot) (*Response, error) {
	return nil, ErrDebateUnsupported
}

func (p *WebhookProvider) JudgeDebate(ctx context.Context, bull, bear DebateCase, snapshot MarketSnapshot) (*Response, error) {
	return nil, ErrDebateUnsupported
}

var _ Provider = (*WebhookProvider)(nil)

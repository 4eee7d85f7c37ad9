package alpaca

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	paperBaseURL = "https://paper-api.alpaca.markets"
	liveBaseURL  = "https://api.alpaca.markets"
	dataBaseURL  = "https://data.alpaca.markets"
)

// Client wraps the Alpaca trading and market data REST APIs
type Client struct {
	trading *resty.Client
	data    *resty.Client
	paper   bool
}

// Config holds the configuration for the Alpaca client
type Config struct {
	APIKey       string
	SecretKey    string
	PaperTrading bool
}

// NewClient creates a new Alpaca client
func NewClient(config Config) *Client {
	baseURL := liveBaseURL
	if config.PaperTrading {
		baseURL = paperBaseURL
	}

	trading := resty.New()
	trading.SetBaseURL(baseURL)
	trading.SetTimeout(30 * time.Second)
	trading.SetHeader("APCA-API-KEY-ID", config.APIKey)
	trading.SetHeader("APCA-API-SECRET-KEY", config.SecretKey)

	data := resty.New()
	data.SetBaseURL(dataBaseURL)
	data.SetTimeout(30 * time.Second)
	data.SetHeader("APCA-API-KEY-ID", config.APIKey)
	data.SetHeader("APCA-API-SECRET-KEY", config.SecretKey)

	return &Client{
		trading: trading,
		data:    data,
		paper:   config.PaperTrading,
	}
}

// GetName returns the broker identifier
func (c *Client) GetName() string {
	return "alpaca"
}

// IsPaperTrading returns whether the client targets the paper environment
func (c *Client) IsPaperTrading() bool {
	return c.paper
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.paper {
		return "paper"
	}
	return "live"
}

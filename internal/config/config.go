package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AlpacaConfig holds broker credentials and environment selection
type AlpacaConfig struct {
	APIKey       string
	SecretKey    string
	PaperTrading bool
}

// LLMConfig holds model provider selection and credentials
type LLMConfig struct {
	Provider        string // anthropic, gemini, webhook
	AnthropicAPIKey string
	AnthropicModel  string
	GoogleAPIKey    string
	GeminiModel     string
	WebhookURL      string
	EnableDebate    bool
	RequestTimeout  time.Duration
}

// RiskConfig holds the limits handed to the risk evaluator and sizer
type RiskConfig struct {
	MaxPositionSize        float64 // max USD per position
	MaxDailyLoss           float64 // max daily loss in USD
	MaxTotalExposure       float64 // max total portfolio exposure in USD
	MaxOpenPositions       int     // max concurrent positions
	MaxPositionExposurePct float64 // max % of exposure budget per single position
	RiskPerTradePct        float64 // % of account risked per trade
	EnableShortSelling     bool
}

// BotConfig holds scan scheduling and execution behavior
type BotConfig struct {
	Watchlist         string
	ScanInterval      time.Duration
	MinConfidence     float64
	EnableAutoTrading bool
	Debug             bool
}

// MonitoringConfig holds metrics and health endpoint ports
type MonitoringConfig struct {
	PrometheusPort int
	HealthPort     int
}

// NotificationsConfig holds alerting credentials
type NotificationsConfig struct {
	TelegramToken  string
	TelegramChatID string
}

// Config is the full application configuration, loaded once from the environment
type Config struct {
	Alpaca        AlpacaConfig
	LLM           LLMConfig
	Risk          RiskConfig
	Bot           BotConfig
	Monitoring    MonitoringConfig
	Notifications NotificationsConfig
}

// Load reads configuration from the environment, consulting .env if present
func Load() *Config {
	// Ignore error - .env file is optional
	_ = godotenv.Load()

	return &Config{
		Alpaca: AlpacaConfig{
			APIKey:       getEnv("ALPACA_API_KEY", ""),
			SecretKey:    getEnv("ALPACA_SECRET_KEY", ""),
			PaperTrading: getEnvBool("ALPACA_PAPER_TRADING", true),
		},
		LLM: LLMConfig{
			Provider:        getEnv("LLM_PROVIDER", "anthropic"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			GoogleAPIKey:    getEnv("GOOGLE_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			WebhookURL:      getEnv("LLM_WEBHOOK_URL", ""),
			EnableDebate:    getEnvBool("ENABLE_DEBATE_MODE", false),
			RequestTimeout:  getEnvDuration("LLM_REQUEST_TIMEOUT", 120*time.Second),
		},
		Risk: RiskConfig{
			MaxPositionSize:        getEnvFloat("MAX_POSITION_SIZE", 1000.0),
			MaxDailyLoss:           getEnvFloat("MAX_DAILY_LOSS", 500.0),
			MaxTotalExposure:       getEnvFloat("MAX_TOTAL_EXPOSURE", 5000.0),
			MaxOpenPositions:       getEnvInt("MAX_OPEN_POSITIONS", 5),
			MaxPositionExposurePct: getEnvFloat("MAX_POSITION_EXPOSURE_PERCENT", 25.0),
			RiskPerTradePct:        getEnvFloat("RISK_PER_TRADE_PERCENT", 1.0),
			EnableShortSelling:     getEnvBool("ENABLE_SHORT_SELLING", true),
		},
		Bot: BotConfig{
			Watchlist:         getEnv("WATCHLIST", "AAPL,MSFT,GOOGL,AMZN,TSLA,NVDA,META,AMD,NFLX,SPY"),
			ScanInterval:      getEnvDuration("SCAN_INTERVAL", 5*time.Minute),
			MinConfidence:     getEnvFloat("MIN_CONFIDENCE_THRESHOLD", 70.0),
			EnableAutoTrading: getEnvBool("ENABLE_AUTO_TRADING", false),
			Debug:             getEnvBool("BOT_DEBUG", false),
		},
		Monitoring: MonitoringConfig{
			PrometheusPort: getEnvInt("PROMETHEUS_PORT", 8080),
			HealthPort:     getEnvInt("HEALTH_PORT", 8081),
		},
		Notifications: NotificationsConfig{
			TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
			TelegramChatID: getEnv("TELEGRAM_CHAT_ID", ""),
		},
	}
}

// WatchlistSymbols parses the configured watchlist into symbols
func (c *Config) WatchlistSymbols() []string {
	parts := strings.Split(c.Bot.Watchlist, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}
	return symbols
}

// Validate checks that the configuration is complete enough to run the bot
func (c *Config) Validate() error {
	if c.Alpaca.APIKey == "" || c.Alpaca.SecretKey == "" {
		return fmt.Errorf("ALPACA_API_KEY and ALPACA_SECRET_KEY are required")
	}

	switch c.LLM.Provider {
	case "anthropic":
		if c.LLM.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "gemini":
		if c.LLM.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for the gemini provider")
		}
	case "webhook":
		if c.LLM.WebhookURL == "" {
			return fmt.Errorf("LLM_WEBHOOK_URL is required for the webhook provider")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %s", c.LLM.Provider)
	}

	if len(c.WatchlistSymbols()) == 0 {
		return fmt.Errorf("watchlist is empty")
	}

	if c.Risk.MaxPositionSize <= 0 {
		return fmt.Errorf("MAX_POSITION_SIZE must be positive, got %.2f", c.Risk.MaxPositionSize)
	}
	if c.Risk.MaxDailyLoss <= 0 {
		return fmt.Errorf("MAX_DAILY_LOSS must be positive, got %.2f", c.Risk.MaxDailyLoss)
	}
	if c.Risk.MaxTotalExposure <= 0 {
		return fmt.Errorf("MAX_TOTAL_EXPOSURE must be positive, got %.2f", c.Risk.MaxTotalExposure)
	}
	if c.Risk.MaxOpenPositions <= 0 {
		return fmt.Errorf("MAX_OPEN_POSITIONS must be positive, got %d", c.Risk.MaxOpenPositions)
	}
	if c.Risk.MaxPositionExposurePct <= 0 || c.Risk.MaxPositionExposurePct > 100 {
		return fmt.Errorf("MAX_POSITION_EXPOSURE_PERCENT must be in (0, 100], got %.2f", c.Risk.MaxPositionExposurePct)
	}
	if c.Bot.MinConfidence < 0 || c.Bot.MinConfidence > 100 {
		return fmt.Errorf("MIN_CONFIDENCE_THRESHOLD must be in [0, 100], got %.2f", c.Bot.MinConfidence)
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

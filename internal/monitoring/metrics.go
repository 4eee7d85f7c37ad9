package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Signal pipeline metrics
	signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daytrader_signals_total",
			Help: "Total number of signals produced, by action",
		},
		[]string{"symbol", "action"},
	)

	parseFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daytrader_parse_failures_total",
			Help: "Model responses that could not be parsed into a signal",
		},
		[]string{"provider"},
	)

	signalConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "daytrader_signal_confidence",
			Help: "Confidence of the latest signal per symbol",
		},
		[]string{"symbol"},
	)

	// Risk metrics
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daytrader_risk_decisions_total",
			Help: "Risk evaluator verdicts",
		},
		[]string{"symbol", "verdict"},
	)

	dailyPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "daytrader_daily_realized_pnl",
			Help: "Today's realized P&L in USD",
		},
	)

	totalExposure = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "daytrader_total_exposure",
			Help: "Total open position value in USD",
		},
	)

	// Execution metrics
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daytrader_trades_total",
			Help: "Total number of orders placed",
		},
		[]string{"symbol", "side"},
	)

	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "daytrader_scan_duration_seconds",
			Help:    "Duration of full watchlist scans",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daytrader_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(signalsTotal)
	prometheus.MustRegister(parseFailuresTotal)
	prometheus.MustRegister(signalConfidence)
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(dailyPnL)
	prometheus.MustRegister(totalExposure)
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(scanDuration)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordSignal records a produced signal and its confidence
func RecordSignal(symbol, action string, confidence float64) {
	signalsTotal.WithLabelValues(symbol, action).Inc()
	signalConfidence.WithLabelValues(symbol).Set(confidence)
}

// RecordParseFailure records a model response that yielded no signal
func RecordParseFailure(provider string) {
	parseFailuresTotal.WithLabelValues(provider).Inc()
}

// RecordDecision records a risk evaluator verdict
func RecordDecision(symbol string, approved bool) {
	verdict := "denied"
	if approved {
		verdict = "approved"
	}
	decisionsTotal.WithLabelValues(symbol, verdict).Inc()
}

// RecordTrade records a placed order
func RecordTrade(symbol, side string) {
	tradesTotal.WithLabelValues(symbol, side).Inc()
}

// RecordScanDuration records how long a full watchlist scan took
func RecordScanDuration(seconds float64) {
	scanDuration.Observe(seconds)
}

// UpdatePortfolio updates the exposure and daily P&L gauges
func UpdatePortfolio(exposure, realizedPnL float64) {
	totalExposure.Set(exposure)
	dailyPnL.Set(realizedPnL)
}

// RecordError records an error metric
func RecordError(errorType string) {
	errorsTotal.WithLabelValues(errorType).Inc()
}

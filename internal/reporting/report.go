package reporting

import (
	"sync"
	"time"
)

// TradeRecord is one executed or blocked trade in the daily report
type TradeRecord struct {
	Timestamp  time.Time
	Symbol     string
	Side       string
	Quantity   int
	Price      float64
	Value      float64
	Executed   bool
	Reason     string
	Confidence float64
	OrderID    string
}

// DailyReport collects the day's trade records and portfolio stats for
// console and Excel output. Keyed by calendar date.
type DailyReport struct {
	mu      sync.Mutex
	date    time.Time
	records []TradeRecord
}

func NewDailyReport() *DailyReport {
	return &DailyReport{date: time.Now()}
}

// Add appends a trade record to the report
func (r *DailyReport) Add(record TradeRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

// Records returns a copy of the recorded trades
func (r *DailyReport) Records() []TradeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TradeRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Date returns the report's calendar date
func (r *DailyReport) Date() time.Time {
	return r.date
}

func (r *DailyReport) executedCount() (executed, blocked int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Executed {
			executed++
		} else {
			blocked++
		}
	}
	return
}

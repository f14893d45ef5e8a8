package aggregator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/StrathCole/btc-cache/pkg/session"
)

// Session statuses reported per feed.
const (
	StatusOK            = "ok"
	StatusConnectFailed = "connect_failed"
	StatusFailed        = "failed"
	StatusMissingKey    = "missing_key"
	StatusBadSignature  = "bad_signature"
	StatusEmpty         = "empty"
)

// Outcome is what one session goroutine hands back at the join.
type Outcome struct {
	Feed   string
	Result session.Result
	Err    error
}

// FeedStatus summarizes how one feed fared during evaluation.
type FeedStatus struct {
	Feed    string
	Status  string
	Average decimal.Decimal
	Samples int
	Signer  string
	Err     error
}

// Report is the result of one aggregation run.
type Report struct {
	Base         string
	Quote        string
	Mode         string
	Average      decimal.Decimal
	NoData       bool
	Contributing []string
	Sessions     []FeedStatus
	SampleLog    []string // One entry per completed session: its average and raw data points
}

// AverageText returns the aggregate price, or "no data".
func (r *Report) AverageText() string {
	if r.NoData {
		return "no data"
	}
	return r.Average.String()
}

// Text renders the aggregate artifact.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "The Average %s price of %s is: %s\n", r.Quote, r.Base, r.AverageText())
	for _, entry := range r.SampleLog {
		b.WriteString(entry)
		b.WriteString("\n")
	}
	return b.String()
}

// Status returns the status recorded for feed, or "" when it was not run.
func (r *Report) Status(feed string) string {
	for _, s := range r.Sessions {
		if s.Feed == feed {
			return s.Status
		}
	}
	return ""
}

// Package session drives one feed from dial to a signed average.
package session

import (
	"context"

	"github.com/shopspring/decimal"
)

// Conn is an open feed connection.
type Conn interface {
	// Send writes one text frame
	Send(ctx context.Context, text string) error

	// Frames returns inbound text frames; closed when the connection ends
	Frames() <-chan string

	// Close performs a bounded close handshake
	Close(ctx context.Context) error
}

// Dialer opens feed connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// Writer persists a named text artifact.
type Writer interface {
	Write(ctx context.Context, name, content string) error
}

// State is the lifecycle stage of a listener.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateSubscribed
	StateStreaming
	StateDraining
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "draining"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Result is what a finished session reports to the aggregator.
type Result struct {
	Feed      string
	Average   decimal.Decimal
	Signature []byte
	Samples   int
	Data      string
	Signer    string
}

// FormatAverage returns the canonical text of an average. It is the exact
// message that gets signed and later verified.
func FormatAverage(avg decimal.Decimal) string {
	return avg.String()
}

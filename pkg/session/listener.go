package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/StrathCole/btc-cache/pkg/counter"
	"github.com/StrathCole/btc-cache/pkg/feeds"
	"github.com/StrathCole/btc-cache/pkg/keystore"
	"github.com/StrathCole/btc-cache/pkg/logging"
	"github.com/StrathCole/btc-cache/pkg/metrics"
)

const defaultCloseGrace = 5 * time.Second

// Config holds everything one listener needs.
type Config struct {
	Feed      string
	URL       string
	Subscribe string // Sent once after connecting; empty for URL-subscribed streams

	Duration         time.Duration
	HandshakeTimeout time.Duration
	CloseGrace       time.Duration
	HDPath           string

	// ArtifactPath names the per-session artifact; empty disables it
	ArtifactPath string

	Extractor feeds.Extractor
	Dialer    Dialer
	Writer    Writer
	Registry  *keystore.Registry
	Logger    *logging.Logger
}

// Listener runs one feed session. A listener is single use.
type Listener struct {
	cfg     Config
	counter *counter.Counter
	logger  *logging.Logger

	mu    sync.RWMutex
	state State
}

// New creates a listener.
func New(cfg Config) (*Listener, error) {
	switch {
	case cfg.Feed == "":
		return nil, fmt.Errorf("%w: feed is required", ErrInvalidConfig)
	case cfg.Extractor == nil:
		return nil, fmt.Errorf("%w: %s: extractor is required", ErrInvalidConfig, cfg.Feed)
	case cfg.Dialer == nil:
		return nil, fmt.Errorf("%w: %s: dialer is required", ErrInvalidConfig, cfg.Feed)
	case cfg.Registry == nil:
		return nil, fmt.Errorf("%w: %s: key registry is required", ErrInvalidConfig, cfg.Feed)
	case cfg.Duration < 0:
		return nil, fmt.Errorf("%w: %s: negative duration", ErrInvalidConfig, cfg.Feed)
	}

	if cfg.CloseGrace <= 0 {
		cfg.CloseGrace = defaultCloseGrace
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	return &Listener{
		cfg:     cfg,
		counter: counter.New(),
		logger:  logger.With("feed", cfg.Feed),
	}, nil
}

// State returns the current lifecycle stage.
func (l *Listener) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

func (l *Listener) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
	l.logger.Debug("Session state changed", "state", s.String())
}

// Run connects, streams for the configured duration, closes the connection and
// returns the signed average. Only a failed connection or a signing failure
// yields an error; a session without samples still returns a zero average.
func (l *Listener) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	l.setState(StateConnecting)

	dialCtx := ctx
	if l.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, l.cfg.HandshakeTimeout)
		defer cancel()
	}

	conn, err := l.cfg.Dialer.Dial(dialCtx, l.cfg.URL)
	if err != nil {
		l.setState(StateFinalized)
		metrics.RecordSession(l.cfg.Feed, "connect_error", time.Since(start))
		l.logger.Error("Failed to connect", "url", l.cfg.URL, "error", err)
		return Result{Feed: l.cfg.Feed}, fmt.Errorf("%w: %s: %v", ErrConnect, l.cfg.Feed, err)
	}

	if l.cfg.Subscribe != "" {
		l.setState(StateSubscribed)
		if err := conn.Send(ctx, l.cfg.Subscribe); err != nil {
			l.logger.Warn("Failed to send subscription", "error", err)
		}
	}

	l.stream(ctx, conn)

	l.setState(StateDraining)
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.cfg.CloseGrace)
	if err := conn.Close(closeCtx); err != nil {
		l.logger.Debug("Close handshake incomplete", "error", err)
	}
	cancel()

	res, err := l.finalize(context.WithoutCancel(ctx))
	l.setState(StateFinalized)

	status := "ok"
	if err != nil {
		status = "sign_error"
	} else if res.Samples == 0 {
		status = "empty"
	}
	metrics.RecordSession(l.cfg.Feed, status, time.Since(start))

	return res, err
}

// stream consumes frames until the duration elapses or ctx ends. A far-end
// close stops receiving but the session still waits out its duration.
func (l *Listener) stream(ctx context.Context, conn Conn) {
	l.setState(StateStreaming)

	timer := time.NewTimer(l.cfg.Duration)
	defer timer.Stop()

	frames := conn.Frames()
	for {
		select {
		case <-timer.C:
			return
		case <-ctx.Done():
			l.logger.Info("Session cancelled", "reason", ctx.Err())
			return
		case frame, ok := <-frames:
			if !ok {
				l.logger.Warn("Feed closed the connection", "samples", l.counter.Len())
				frames = nil
				continue
			}
			l.handle(frame)
		}
	}
}

func (l *Listener) handle(frame string) {
	metrics.RecordFrame(l.cfg.Feed)

	price, ok, err := l.cfg.Extractor.Extract([]byte(frame))
	if err != nil {
		metrics.RecordParseFault(l.cfg.Feed)
		l.logger.Warn("Skipping unparseable price", "frame", frame, "error", err)
		return
	}
	if !ok {
		l.logger.Debug("Ignoring non-price frame", "frame", frame)
		return
	}

	l.counter.Add(price, frame)
	metrics.RecordSample(l.cfg.Feed)
}

func (l *Listener) finalize(ctx context.Context) (Result, error) {
	avg, err := l.counter.Average()
	if errors.Is(err, counter.ErrNoSamples) {
		l.logger.Warn("No price samples collected")
		avg = decimal.Zero
	}

	text := FormatAverage(avg)
	data := l.counter.Data()
	res := Result{
		Feed:    l.cfg.Feed,
		Average: avg,
		Samples: l.counter.Len(),
		Data:    data,
	}

	if l.cfg.Writer != nil && l.cfg.ArtifactPath != "" {
		content := fmt.Sprintf("average %s\nData points:\n%s", text, data)
		if err := l.cfg.Writer.Write(ctx, l.cfg.ArtifactPath, content); err != nil {
			l.logger.Error("Failed to write session artifact", "path", l.cfg.ArtifactPath, "error", err)
		}
	}

	kp, err := keystore.Generate(l.cfg.HDPath)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrSign, l.cfg.Feed, err)
	}
	sig, err := kp.Sign([]byte(text))
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrSign, l.cfg.Feed, err)
	}
	l.cfg.Registry.Register(l.cfg.Feed, kp.PubKey())

	res.Signature = sig
	res.Signer = kp.Address()

	l.logger.Info("Session finished",
		"average", text,
		"samples", res.Samples,
		"signer", res.Signer,
	)
	return res, nil
}

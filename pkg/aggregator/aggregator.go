package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/StrathCole/btc-cache/pkg/config"
	"github.com/StrathCole/btc-cache/pkg/feeds"
	"github.com/StrathCole/btc-cache/pkg/keystore"
	"github.com/StrathCole/btc-cache/pkg/logging"
	"github.com/StrathCole/btc-cache/pkg/metrics"
	"github.com/StrathCole/btc-cache/pkg/session"
)

// SessionRunner runs one feed session to completion.
type SessionRunner interface {
	Run(ctx context.Context) (session.Result, error)
}

// Config holds orchestrator settings shared by every session.
type Config struct {
	Symbol string // BASE/QUOTE
	Mode   string

	HandshakeTimeout time.Duration
	CloseGrace       time.Duration
	HDPath           string

	ReportFile  string
	SessionPath func(feed string) string // Per-session artifact name; nil disables them

	Dialer session.Dialer
	Writer session.Writer
	Logger *logging.Logger
}

// Aggregator fans out feed sessions and evaluates their results.
type Aggregator struct {
	cfg      Config
	combiner Combiner
	logger   *logging.Logger

	base, quote string

	newRunner func(session.Config) (SessionRunner, error)
}

// New creates an aggregator.
func New(cfg Config) (*Aggregator, error) {
	combiner, err := NewCombiner(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeAverage
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	base, quote, ok := strings.Cut(cfg.Symbol, "/")
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSymbolFormat, cfg.Symbol)
	}

	return &Aggregator{
		cfg:      cfg,
		combiner: combiner,
		logger:   logger,
		base:     strings.ToUpper(strings.TrimSpace(base)),
		quote:    strings.ToUpper(strings.TrimSpace(quote)),
		newRunner: func(c session.Config) (SessionRunner, error) {
			return session.New(c)
		},
	}, nil
}

// Run starts one session per feed, waits for all of them, then verifies and
// combines their averages. The report is persisted even when it carries no
// data; in that case ErrNoData is returned alongside it.
func (a *Aggregator) Run(ctx context.Context, feedCfgs []config.FeedConfig, duration time.Duration) (*Report, error) {
	registry := keystore.NewRegistry()
	outcomes := make([]Outcome, len(feedCfgs))

	a.logger.Info("Starting feed sessions", "feeds", len(feedCfgs), "duration", duration.String())

	// Sessions never fail the group; every outcome is collected at the join
	var g errgroup.Group
	for i, fc := range feedCfgs {
		i, fc := i, fc
		g.Go(func() error {
			outcomes[i] = a.runSession(ctx, fc, duration, registry)
			return nil
		})
	}
	_ = g.Wait()

	report, err := a.Evaluate(outcomes, registry)

	if a.cfg.Writer != nil && a.cfg.ReportFile != "" {
		if werr := a.cfg.Writer.Write(context.WithoutCancel(ctx), a.cfg.ReportFile, report.Text()); werr != nil {
			a.logger.Error("Failed to write aggregate artifact", "path", a.cfg.ReportFile, "error", werr)
		}
	}

	return report, err
}

func (a *Aggregator) runSession(ctx context.Context, fc config.FeedConfig, duration time.Duration, registry *keystore.Registry) (out Outcome) {
	out.Feed = fc.Name

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("%w: %s: %v", ErrSessionPanic, fc.Name, r)
		}
	}()

	extractor, err := feeds.Lookup(fc.Name)
	if err != nil {
		out.Err = err
		return out
	}

	var artifactPath string
	if a.cfg.SessionPath != nil {
		artifactPath = a.cfg.SessionPath(fc.Name)
	}

	runner, err := a.newRunner(session.Config{
		Feed:             fc.Name,
		URL:              fc.URL,
		Subscribe:        fc.Subscribe,
		Duration:         duration,
		HandshakeTimeout: a.cfg.HandshakeTimeout,
		CloseGrace:       a.cfg.CloseGrace,
		HDPath:           a.cfg.HDPath,
		ArtifactPath:     artifactPath,
		Extractor:        extractor,
		Dialer:           a.cfg.Dialer,
		Writer:           a.cfg.Writer,
		Registry:         registry,
		Logger:           a.logger,
	})
	if err != nil {
		out.Err = err
		return out
	}

	out.Result, out.Err = runner.Run(ctx)
	return out
}

// Evaluate verifies every session result against the key registered for its
// feed and combines the verified non-zero averages. Failed sessions, bad
// signatures and zero averages are excluded.
func (a *Aggregator) Evaluate(outcomes []Outcome, registry *keystore.Registry) (*Report, error) {
	report := &Report{
		Base:  a.base,
		Quote: a.quote,
		Mode:  a.cfg.Mode,
	}

	var values []decimal.Decimal
	for _, o := range outcomes {
		status := FeedStatus{
			Feed:    o.Feed,
			Average: o.Result.Average,
			Samples: o.Result.Samples,
			Signer:  o.Result.Signer,
			Err:     o.Err,
		}

		if o.Err != nil {
			status.Status = StatusFailed
			if errors.Is(o.Err, session.ErrConnect) {
				status.Status = StatusConnectFailed
			}
			a.logger.Error("Feed session failed", "feed", o.Feed, "error", o.Err)
			report.Sessions = append(report.Sessions, status)
			continue
		}

		avgText := session.FormatAverage(o.Result.Average)
		report.SampleLog = append(report.SampleLog,
			fmt.Sprintf("[%s] average %s\n%s", o.Feed, avgText, o.Result.Data))

		pub, ok := registry.Lookup(o.Feed)
		switch {
		case !ok:
			status.Status = StatusMissingKey
			metrics.RecordVerification(o.Feed, false)
			a.logger.Warn("No public key registered, excluding feed", "feed", o.Feed)
		case !keystore.Verify(pub, []byte(avgText), o.Result.Signature):
			status.Status = StatusBadSignature
			metrics.RecordVerification(o.Feed, false)
			a.logger.Warn("Signature verification failed, excluding feed", "feed", o.Feed, "signer", o.Result.Signer)
		case o.Result.Average.IsZero():
			status.Status = StatusEmpty
			metrics.RecordVerification(o.Feed, true)
			a.logger.Warn("Feed produced no price, excluding it", "feed", o.Feed)
		default:
			status.Status = StatusOK
			metrics.RecordVerification(o.Feed, true)
			values = append(values, o.Result.Average)
			report.Contributing = append(report.Contributing, o.Feed)
		}
		report.Sessions = append(report.Sessions, status)
	}

	symbol := a.base + "/" + a.quote
	if len(values) == 0 {
		report.NoData = true
		metrics.RecordAggregate(symbol, 0, 0)
		a.logger.Error("No verified price data from any feed", "feeds", len(outcomes))
		return report, ErrNoData
	}

	avg, err := a.combiner.Combine(values)
	if err != nil {
		report.NoData = true
		return report, err
	}
	report.Average = avg

	price, _ := avg.Float64()
	metrics.RecordAggregate(symbol, price, len(values))

	a.logger.Info("Aggregate computed",
		"symbol", symbol,
		"mode", a.cfg.Mode,
		"price", avg.String(),
		"contributing", len(values),
		"feeds", len(outcomes),
	)
	return report, nil
}

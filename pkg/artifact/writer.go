// Package artifact persists the plain text session and aggregate artifacts.
// Files are the primary sink; SQL and Redis mirrors are optional.
package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/StrathCole/btc-cache/pkg/config"
	"github.com/StrathCole/btc-cache/pkg/logging"
	"github.com/StrathCole/btc-cache/pkg/metrics"
)

// Writer stores a named text artifact. Writing an existing name replaces it.
type Writer interface {
	Write(ctx context.Context, name, content string) error
	Close() error
}

type sink struct {
	name string
	w    Writer
}

// Multi fans every write out to all configured sinks.
type Multi struct {
	sinks  []sink
	logger *logging.Logger
}

// NewMulti creates an empty fan-out writer.
func NewMulti(logger *logging.Logger) *Multi {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Multi{logger: logger}
}

// Add registers a sink under a name used in logs and metrics.
func (m *Multi) Add(name string, w Writer) {
	m.sinks = append(m.sinks, sink{name: name, w: w})
}

// Write writes to every sink, even when an earlier one fails.
func (m *Multi) Write(ctx context.Context, name, content string) error {
	var errs []error
	for _, s := range m.sinks {
		err := s.w.Write(ctx, name, content)
		metrics.RecordArtifactWrite(s.name, err)
		if err != nil {
			m.logger.Warn("Artifact write failed", "sink", s.name, "name", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		m.logger.Debug("Artifact written", "sink", s.name, "name", name)
	}
	return errors.Join(errs...)
}

// Close closes every sink.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

// New builds the writer described by cfg: the file sink plus any enabled mirrors.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Multi, error) {
	m := NewMulti(logger)
	m.Add("file", NewFileWriter(cfg.Output.Dir))

	if cfg.Storage.SQL.Enabled {
		w, err := NewSQLWriter(ctx, cfg.Storage.SQL.Driver, cfg.Storage.SQL.DSN)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		m.Add("sql", w)
	}

	if cfg.Storage.Redis.Enabled {
		w, err := NewRedisWriter(ctx, cfg.Storage.Redis)
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		m.Add("redis", w)
	}

	return m, nil
}

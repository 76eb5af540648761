package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cartpile/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Placed 12 items (3ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports cart, store and HTTP events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks for every hook family and returns a
// func that restores the no-op defaults.
func registerLogHooks(l *log.Logger) func() {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetCartHooks(h)
	observability.SetStoreHooks(h)
	observability.SetHTTPHooks(h)
	return observability.Reset
}

func (h logHooks) OnDrop(_ context.Context, cartID, tag string, row int, wrapped bool) {
	h.logger.Debug("drop", "cart", cartID, "tag", tag, "row", row, "wrapped", wrapped)
}

func (h logHooks) OnReject(_ context.Context, cartID, reason string) {
	h.logger.Debug("reject", "cart", cartID, "reason", reason)
}

func (h logHooks) OnMeter(_ context.Context, cartID string, hp, delta int) {
	h.logger.Debug("meter", "cart", cartID, "hp", hp, "delta", delta)
}

func (h logHooks) OnLoad(_ context.Context, backend string, hit bool, d time.Duration) {
	h.logger.Debug("store load", "backend", backend, "hit", hit, "duration", d)
}

func (h logHooks) OnSave(_ context.Context, backend string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("store save failed", "backend", backend, "err", err)
		return
	}
	h.logger.Debug("store save", "backend", backend, "bytes", size, "duration", d)
}

func (h logHooks) OnRequest(context.Context, string, string) {}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request", "method", method, "path", path, "status", status, "duration", d)
	}
}

package ui

import (
	"context"
	"time"
)

// Reveal types text out one rune at a time. It runs on its own goroutine and
// stops early when cancelled.
type Reveal struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// StartReveal begins revealing text, calling emit with a growing prefix
// every interval. The final call carries the full text. A non-positive
// interval emits the full text at once. Cancel ctx or call [Reveal.Cancel]
// to stop.
func StartReveal(ctx context.Context, text string, interval time.Duration, emit func(string)) *Reveal {
	ctx, cancel := context.WithCancel(ctx)
	r := &Reveal{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		defer cancel()
		r.err = RevealText(ctx, text, interval, emit)
	}()
	return r
}

// Cancel stops the reveal. It is safe to call more than once.
func (r *Reveal) Cancel() { r.cancel() }

// Done is closed when the reveal finishes or is cancelled.
func (r *Reveal) Done() <-chan struct{} { return r.done }

// Wait blocks until the reveal stops and returns nil when the full text was
// emitted or the context error when it was cancelled.
func (r *Reveal) Wait() error {
	<-r.done
	return r.err
}

// RevealText is the synchronous form of [StartReveal]; it returns when the
// text is fully revealed or ctx is done.
func RevealText(ctx context.Context, text string, interval time.Duration, emit func(string)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runes := []rune(text)
	if interval <= 0 || len(runes) == 0 {
		emit(text)
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 1; i <= len(runes); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			emit(string(runes[:i]))
		}
	}
	return nil
}

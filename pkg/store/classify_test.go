package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/cartpile/pkg/errors"
)

// netError is a net.Error with a configurable Timeout.
type netError struct{ timeout bool }

func (e netError) Error() string   { return fmt.Sprintf("net error (timeout=%v)", e.timeout) }
func (e netError) Timeout() bool   { return e.timeout }
func (e netError) Temporary() bool { return false }

func TestRedisErr(t *testing.T) {
	plain := stderrors.New("WRONGTYPE")
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"miss", redis.Nil, false},
		{"server reply", plain, false},
		{"network", netError{}, true},
		{"network timeout", netError{timeout: true}, true},
		{"wrapped network", fmt.Errorf("dial: %w", netError{}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redisErr(tt.err)
			if isRetryable(got) != tt.retryable {
				t.Errorf("isRetryable(redisErr(%v)) = %v, want %v", tt.err, !tt.retryable, tt.retryable)
			}
			if !stderrors.Is(got, tt.err) {
				t.Errorf("redisErr(%v) = %v, must keep the cause", tt.err, got)
			}
		})
	}
}

func TestRedisMissIsNotFound(t *testing.T) {
	// Get relies on redis.Nil passing through unmarked.
	if !stderrors.Is(redisErr(redis.Nil), redis.Nil) {
		t.Fatal("redis.Nil must pass through redisErr")
	}
}

func TestWrapStoreErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.Code
	}{
		{"deadline", context.DeadlineExceeded, errors.ErrCodeStoreTimeout},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), errors.ErrCodeStoreTimeout},
		{"network timeout", netError{timeout: true}, errors.ErrCodeStoreTimeout},
		{"retryable timeout", retryable(netError{timeout: true}), errors.ErrCodeStoreTimeout},
		{"network", netError{}, errors.ErrCodeStore},
		{"other", stderrors.New("boom"), errors.ErrCodeStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapStoreErr(tt.err, "get snapshot %s", "c1")
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("code = %s, want %s", got, tt.want)
			}
			if !stderrors.Is(err, tt.err) {
				t.Errorf("wrapped error %v lost its cause", err)
			}
		})
	}
}

func TestMongoErr(t *testing.T) {
	if mongoErr(nil) != nil {
		t.Error("mongoErr(nil) != nil")
	}
	plain := stderrors.New("duplicate key")
	if got := mongoErr(plain); isRetryable(got) || got != plain {
		t.Errorf("mongoErr(%v) = %v, want unchanged", plain, got)
	}
	if got := mongoErr(context.DeadlineExceeded); !isRetryable(got) {
		t.Errorf("mongoErr(deadline) = %v, want retryable", got)
	}
}

func TestWrapMongoErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.Code
	}{
		{"deadline", context.DeadlineExceeded, errors.ErrCodeStoreTimeout},
		{"retryable deadline", retryable(context.DeadlineExceeded), errors.ErrCodeStoreTimeout},
		{"other", stderrors.New("auth failed"), errors.ErrCodeStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetCode(wrapMongoErr(tt.err, "list snapshots")); got != tt.want {
				t.Errorf("code = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIDsFromKeys(t *testing.T) {
	keys := []string{
		redisKeyPrefix + "b",
		redisKeyPrefix + "a",
		redisKeyPrefix + "b",
		"other:key",
		redisKeyPrefix,
	}
	got := idsFromKeys(keys)
	if want := []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("idsFromKeys() = %v, want %v", got, want)
	}
	if got := idsFromKeys(nil); len(got) != 0 {
		t.Errorf("idsFromKeys(nil) = %v, want empty", got)
	}
	if got := redisKey("c1"); got != "cartpile:cart:c1" {
		t.Errorf("redisKey() = %q", got)
	}
}

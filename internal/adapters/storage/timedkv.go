package storage

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSlowKVMs is the default threshold for slow key-value warnings.
const DefaultSlowKVMs = 50

var slowKVMs int64
var slowKVOnce sync.Once

// getSlowKVThreshold returns the slow-operation threshold in milliseconds.
func getSlowKVThreshold() float64 {
	slowKVOnce.Do(func() {
		ms := DefaultSlowKVMs
		if v := os.Getenv("SWITCHBOARD_SLOW_KV_MS"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				ms = n
			}
		}
		atomic.StoreInt64(&slowKVMs, int64(ms))
	})
	return float64(atomic.LoadInt64(&slowKVMs))
}

// TimedKV wraps a KVDB to log slow operations. Satisfies the KVDB
// interface so it can be passed anywhere a store is expected.
type TimedKV struct {
	kv        KVDB
	threshold float64
}

// Compile-time check that *TimedKV satisfies KVDB.
var _ KVDB = (*TimedKV)(nil)

// NewTimedKV wraps kv with timing instrumentation.
// PRE: kv is a valid store
// POST: Returns a TimedKV that logs operations over the threshold
func NewTimedKV(kv KVDB) *TimedKV {
	return &TimedKV{kv: kv, threshold: getSlowKVThreshold()}
}

// logOp logs one operation's timing.
func (t *TimedKV) logOp(op, key string, start time.Time) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	if durationMs >= t.threshold {
		slog.Warn("slow_kv",
			"op", op,
			"key", key,
			"duration_ms", durationMs,
		)
	} else {
		slog.Debug("kv",
			"op", op,
			"key", key,
			"duration_ms", durationMs,
		)
	}
}

// Get wraps KVDB.Get with timing.
func (t *TimedKV) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, ok, err := t.kv.Get(ctx, key)
	t.logOp("Get", key, start)
	return value, ok, err
}

// Set wraps KVDB.Set with timing.
func (t *TimedKV) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := t.kv.Set(ctx, key, value)
	t.logOp("Set", key, start)
	return err
}

// Delete wraps KVDB.Delete with timing.
func (t *TimedKV) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := t.kv.Delete(ctx, key)
	t.logOp("Delete", key, start)
	return err
}

// Keys wraps KVDB.Keys with timing.
func (t *TimedKV) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := t.kv.Keys(ctx)
	t.logOp("Keys", "", start)
	return keys, err
}

package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// handlerFunc adapts a function to Handler and counts calls.
type handlerFunc struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, raw json.RawMessage) error
}

func (h *handlerFunc) Process(_ context.Context, raw json.RawMessage) error {
	h.mu.Lock()
	h.calls++
	call := h.calls
	h.mu.Unlock()
	return h.fn(call, raw)
}

func (h *handlerFunc) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func dlqEntries(t *testing.T, rdb *redis.Client, queue string) []DLQEntry {
	t.Helper()
	raws, err := rdb.LRange(context.Background(), DLQPrefix+queue, 0, -1).Result()
	require.NoError(t, err)
	out := make([]DLQEntry, len(raws))
	for i, raw := range raws {
		require.NoError(t, json.Unmarshal([]byte(raw), &out[i]))
	}
	return out
}

func queuedJobs(t *testing.T, rdb *redis.Client, queue string) []Job {
	t.Helper()
	raws, err := rdb.LRange(context.Background(), queue, 0, -1).Result()
	require.NoError(t, err)
	out := make([]Job, len(raws))
	for i, raw := range raws {
		require.NoError(t, json.Unmarshal([]byte(raw), &out[i]))
	}
	return out
}

package worker

import (
	"context"
	"encoding/json"
	"testing"

	"foboh/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushDLQ(t *testing.T, rdb *redis.Client, queue string, entry DLQEntry) {
	t.Helper()
	data, err := json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, rdb.LPush(context.Background(), DLQPrefix+queue, data).Err())
}

func TestRedriveQueue_RequeuesAndParks(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()
	cfg := RedriveConfig{RDB: rdb, MaxRedrives: 2}
	cfg.withDefaults()

	pushDLQ(t, rdb, QueuePriceSheet, DLQEntry{JobType: JobPriceSheet, Payload: json.RawMessage(`{"profile_id":"a"}`)})
	pushDLQ(t, rdb, QueuePriceSheet, DLQEntry{JobType: JobPriceSheet, Payload: json.RawMessage(`{"profile_id":"b"}`), Redrives: 2})
	pushDLQ(t, rdb, QueuePriceSheet, DLQEntry{JobType: "unknown", Payload: json.RawMessage(`"garbage"`)})

	moved := redriveQueue(ctx, cfg, QueuePriceSheet)
	assert.Equal(t, 1, moved)

	jobs := queuedJobs(t, rdb, QueuePriceSheet)
	require.Len(t, jobs, 1)
	assert.Equal(t, JobPriceSheet, jobs[0].Type)
	assert.Equal(t, 1, jobs[0].Redrives)
	assert.JSONEq(t, `{"profile_id":"a"}`, string(jobs[0].Payload))

	parked, err := rdb.LLen(ctx, parkedPrefix+QueuePriceSheet).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 2, parked)

	n, err := DLQLength(ctx, rdb, QueuePriceSheet)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedriveQueue_BatchSize(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := RedriveConfig{RDB: rdb, BatchSize: 2}
	cfg.withDefaults()
	for i := 0; i < 5; i++ {
		pushDLQ(t, rdb, QueueEmail, DLQEntry{JobType: JobEmail, Payload: json.RawMessage(`{}`)})
	}

	assert.Equal(t, 2, redriveQueue(context.Background(), cfg, QueueEmail))
	n, err := DLQLength(context.Background(), rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestRedriveQueue_SkipsEmailWhileBreakerOpen(t *testing.T) {
	_, rdb := newTestRedis(t)
	cb := infra.NewBreaker("smtp", infra.BreakerConfig{FailureThreshold: 1})
	_ = cb.Execute(func() error { return assert.AnError })
	require.Equal(t, infra.BreakerOpen, cb.State())

	cfg := RedriveConfig{RDB: rdb, MailBreaker: cb}
	cfg.withDefaults()
	pushDLQ(t, rdb, QueueEmail, DLQEntry{JobType: JobEmail, Payload: json.RawMessage(`{}`)})

	assert.Zero(t, redriveQueue(context.Background(), cfg, QueueEmail))
	n, err := DLQLength(context.Background(), rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

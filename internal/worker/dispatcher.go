package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	QueuePriceSheet = "jobs:price_sheet"
	QueueEmail      = "jobs:email"

	JobPriceSheet = "price_sheet"
	JobEmail      = "email"
)

// Job is the generic envelope for all async tasks. Redrives counts how many
// times the job came back from the dead-letter list.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Redrives int             `json:"redrives,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueuePriceSheet asks the pool to render and archive a profile's price sheet.
func (d *Dispatcher) EnqueuePriceSheet(ctx context.Context, payload PriceSheetJobPayload) error {
	return d.enqueue(ctx, QueuePriceSheet, JobPriceSheet, payload)
}

// EnqueueEmail pushes a mail delivery job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// QueueLength reports how many jobs wait in queue.
func (d *Dispatcher) QueueLength(ctx context.Context, queue string) (int64, error) {
	return d.rdb.LLen(ctx, queue).Result()
}

package worker

// redrive.go
// Background goroutine that periodically moves dead-lettered jobs back onto
// their queue. Jobs that have already been redriven MaxRedrives times are
// parked under dlq:parked:{queue} and left for an operator.
// While the mail circuit breaker is open the email queue is skipped.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"foboh/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const parkedPrefix = DLQPrefix + "parked:"

// RedriveConfig holds all dependencies for the redrive goroutine.
type RedriveConfig struct {
	RDB         *redis.Client
	Queues      []string
	MailBreaker *infra.Breaker // optional
	Interval    time.Duration
	BatchSize   int
	MaxRedrives int
}

func (c *RedriveConfig) withDefaults() {
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.MaxRedrives <= 0 {
		c.MaxRedrives = 3
	}
}

// StartDLQRedrive launches the redrive ticker. It stops when ctx is done.
func StartDLQRedrive(ctx context.Context, cfg RedriveConfig) {
	cfg.withDefaults()
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Msg("dlq_redrive: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("dlq_redrive: shutting down")
				return
			case <-ticker.C:
				for _, q := range cfg.Queues {
					redriveQueue(ctx, cfg, q)
				}
			}
		}
	}()
}

// redriveQueue moves up to BatchSize entries of one DLQ and returns how many
// were put back on the live queue.
func redriveQueue(ctx context.Context, cfg RedriveConfig, queue string) int {
	if queue == QueueEmail && cfg.MailBreaker != nil && cfg.MailBreaker.State() == infra.BreakerOpen {
		log.Debug().Str("queue", queue).Msg("dlq_redrive: mail breaker open, skipping")
		return 0
	}

	moved := 0
	for i := 0; i < cfg.BatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, DLQPrefix+queue).Bytes()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq_redrive: pop failed")
			break
		}

		var entry DLQEntry
		if err := json.Unmarshal(raw, &entry); err != nil || entry.JobType == "unknown" {
			park(ctx, cfg.RDB, queue, raw)
			continue
		}
		if entry.Redrives >= cfg.MaxRedrives {
			log.Error().
				Str("queue", queue).
				Str("job_type", entry.JobType).
				Int("redrives", entry.Redrives).
				Msg("dlq_redrive: max redrives exceeded, parking job")
			park(ctx, cfg.RDB, queue, raw)
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Redrives: entry.Redrives + 1}
		if err := pushJob(ctx, cfg.RDB, queue, job); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq_redrive: requeue failed")
			park(ctx, cfg.RDB, queue, raw)
			continue
		}
		moved++
	}
	if moved > 0 {
		log.Info().Str("queue", queue).Int("count", moved).Msg("dlq_redrive: jobs requeued")
	}
	return moved
}

func park(ctx context.Context, rdb *redis.Client, queue string, raw []byte) {
	if err := rdb.LPush(ctx, parkedPrefix+queue, raw).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq_redrive: park failed")
	}
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	maxJobAttempts = 3

	// Pause bounds between failed BRPOP calls while Redis is unreachable.
	pollErrBackoff    = 500 * time.Millisecond
	pollErrBackoffMax = 30 * time.Second
)

// Handler processes one job payload. A returned error is retried with
// backoff unless it is marked permanent.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// permanent marks err as not worth retrying; the job goes straight to the DLQ.
func permanent(err error) error { return &permanentError{err: err} }

// Pool consumes the registered queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
	backoff  time.Duration

	pollBackoff    time.Duration
	pollBackoffMax time.Duration
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{
		rdb:            rdb,
		handlers:       make(map[string]Handler),
		backoff:        time.Second,
		pollBackoff:    pollErrBackoff,
		pollBackoffMax: pollErrBackoffMax,
	}
}

// Register binds a handler to a queue. Call before Start.
func (p *Pool) Register(queue string, h Handler) {
	if _, ok := p.handlers[queue]; !ok {
		p.queues = append(p.queues, queue)
	}
	p.handlers[queue] = h
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if len(p.queues) == 0 {
		log.Warn().Msg("worker pool: no queues registered, not starting")
		return
	}
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Strs("queues", p.queues).Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	var delay time.Duration
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
		}

		// Blocking pop: waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				delay = 0
				continue
			}
			delay = nextPollDelay(delay, p.pollBackoff, p.pollBackoffMax)
			log.Warn().Err(err).Int("worker", id).Dur("retry_in", delay).Msg("worker pool: dequeue failed")
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
			continue
		}
		delay = 0
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

// nextPollDelay doubles the previous pause, starting at base and capped at max.
func nextPollDelay(prev, base, max time.Duration) time.Duration {
	if prev <= 0 {
		return base
	}
	if next := prev * 2; next < max {
		return next
	}
	return max
}

// processJob runs one raw job through its handler, retrying transient
// failures and dead-lettering the rest.
func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, Job{Type: "unknown", Payload: json.RawMessage(fmt.Sprintf("%q", raw))}, "malformed envelope: "+err.Error(), 0)
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler registered")
		return
	}

	attempts := 0
	err := withRetry(ctx, maxJobAttempts, p.backoff, func(attempt int) error {
		attempts = attempt + 1
		if err := h.Process(ctx, job.Payload); err != nil {
			log.Warn().Err(err).Str("queue", queue).Int("attempt", attempts).Msg("job attempt failed")
			return err
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, p.rdb, queue, job, err.Error(), attempts)
		return
	}
	log.Debug().Str("queue", queue).Str("type", job.Type).Msg("job done")
}

// withRetry calls fn up to maxAttempts times with exponential backoff
// (immediate, base, 2*base, ...). Permanent errors stop the loop early.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := base * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		err := fn(i)
		if err == nil {
			return nil
		}
		lastErr = err
		var perm *permanentError
		if errors.As(err, &perm) {
			return err
		}
	}
	return lastErr
}

package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Breaker guards the SMTP relay. After FailureThreshold consecutive send
// failures it opens and Mailer.Send fails fast with ErrCircuitOpen, so the
// email worker dead-letters instead of hammering a dead relay. Once
// OpenTimeout has passed it admits one trial send at a time; SuccessThreshold
// clean sends close it again. The health endpoint reports State, and the DLQ
// redriver refuses to replay email jobs while it is open.
type Breaker struct {
	name string
	cfg  BreakerConfig
	now  func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	successes   int
	openedAt    time.Time
	trialActive bool
}

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without calling the relay while the breaker is
// open, or while another trial send is already in flight.
var ErrCircuitOpen = errors.New("mail relay circuit is open")

type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the breaker
	SuccessThreshold int           // trial successes needed to close it
	OpenTimeout      time.Duration // wait before the first trial send
}

// DefaultMailBreakerConfig suits a relay that usually recovers within a minute.
func DefaultMailBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	}
}

// NewBreaker returns a closed breaker. Zero config fields take the defaults;
// name only labels log lines.
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	def := DefaultMailBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &Breaker{name: name, cfg: cfg, now: time.Now}
}

// State reports the current state. An open breaker whose timeout has passed
// reports half-open.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

// Execute runs send unless the breaker refuses it, and records the outcome.
func (b *Breaker) Execute(send func() error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := send()
	b.record(err)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	switch b.state {
	case BreakerOpen:
		return ErrCircuitOpen
	case BreakerHalfOpen:
		if b.trialActive {
			return ErrCircuitOpen
		}
		b.trialActive = true
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerHalfOpen {
		b.trialActive = false
		if err != nil {
			b.transition(BreakerOpen)
			return
		}
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.transition(BreakerClosed)
		}
		return
	}

	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.state == BreakerClosed && b.failures >= b.cfg.FailureThreshold {
		b.transition(BreakerOpen)
	}
}

// refresh moves open to half-open once the timeout has elapsed. Caller holds mu.
func (b *Breaker) refresh() {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.transition(BreakerHalfOpen)
	}
}

// transition resets the counters for the new state. Caller holds mu.
func (b *Breaker) transition(to BreakerState) {
	from := b.state
	b.state = to
	b.failures, b.successes = 0, 0
	b.trialActive = false
	if to == BreakerOpen {
		b.openedAt = b.now()
	}
	log.Warn().Str("breaker", b.name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
}

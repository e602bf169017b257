package dedup

import (
	"errors"
	"sync"
	"time"

	"github.com/dnldd/setupwatch/shared"
)

// TrackerConfig represents the configuration for the alert tracker.
type TrackerConfig struct {
	// Cooldown is the minimum duration between repeated alerts of the same decision
	// for a symbol. A zero cooldown alerts every cycle.
	Cooldown time.Duration
}

// Validate asserts the config sane inputs.
func (cfg *TrackerConfig) Validate() error {
	if cfg.Cooldown < 0 {
		return errors.New("cooldown cannot be negative")
	}

	return nil
}

// alertRecord is the last alerted state of a symbol.
type alertRecord struct {
	decision shared.SetupDecision
	alerted  time.Time
}

// Tracker suppresses repeated alerts of an unchanged decision within the cooldown.
type Tracker struct {
	cfg     *TrackerConfig
	records map[string]alertRecord
	mtx     sync.Mutex
}

// NewTracker initializes a new alert tracker.
func NewTracker(cfg *TrackerConfig) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Tracker{
		cfg:     cfg,
		records: make(map[string]alertRecord),
	}, nil
}

// Allow returns whether the provided decision for the symbol should be alerted and
// records it as the symbol's last alert when it is. A non-actionable decision is never
// alerted and clears the symbol's record so a returning setup alerts immediately.
func (t *Tracker) Allow(symbol string, decision shared.SetupDecision, now time.Time) bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if !decision.IsActionable() {
		delete(t.records, symbol)
		return false
	}

	last, ok := t.records[symbol]
	if t.cfg.Cooldown > 0 && ok && last.decision == decision &&
		now.Sub(last.alerted) < t.cfg.Cooldown {
		return false
	}

	t.records[symbol] = alertRecord{decision: decision, alerted: now}

	return true
}

// Len returns the number of symbols with a recorded alert.
func (t *Tracker) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return len(t.records)
}

package dedup

import (
	"testing"
	"time"

	"github.com/dnldd/setupwatch/shared"
	"github.com/peterldowns/testy/assert"
)

func TestNewTracker(t *testing.T) {
	_, err := NewTracker(&TrackerConfig{Cooldown: -time.Second})
	assert.Error(t, err)

	tracker, err := NewTracker(&TrackerConfig{})
	assert.NoError(t, err)
	assert.Equal(t, tracker.Len(), 0)
}

func TestTrackerWithoutCooldown(t *testing.T) {
	tracker, err := NewTracker(&TrackerConfig{})
	assert.NoError(t, err)

	now := time.Date(2025, 2, 4, 10, 0, 0, 0, time.UTC)
	call := shared.NewTradeDecision(shared.Call)

	// Ensure a persisting setup alerts every cycle without a cooldown.
	assert.True(t, tracker.Allow("AAPL", call, now))
	assert.True(t, tracker.Allow("AAPL", call, now.Add(time.Minute*3)))
	assert.True(t, tracker.Allow("AAPL", call, now.Add(time.Minute*6)))

	// Ensure non-actionable decisions are never alerted.
	assert.False(t, tracker.Allow("AAPL", shared.NoDecision(), now.Add(time.Minute*9)))
}

func TestTrackerWithCooldown(t *testing.T) {
	tracker, err := NewTracker(&TrackerConfig{Cooldown: time.Minute * 10})
	assert.NoError(t, err)

	now := time.Date(2025, 2, 4, 10, 0, 0, 0, time.UTC)
	call := shared.NewTradeDecision(shared.Call)
	put := shared.NewTradeDecision(shared.Put)
	nearCall := shared.NewNearSetupDecision(shared.Call)

	assert.True(t, tracker.Allow("AAPL", call, now))

	// Ensure a repeated decision within the cooldown is suppressed.
	assert.False(t, tracker.Allow("AAPL", call, now.Add(time.Minute*3)))

	// Ensure symbols are tracked independently.
	assert.True(t, tracker.Allow("MSFT", call, now.Add(time.Minute*3)))
	assert.Equal(t, tracker.Len(), 2)

	// Ensure a changed decision is alerted within the cooldown.
	assert.True(t, tracker.Allow("AAPL", put, now.Add(time.Minute*4)))
	assert.True(t, tracker.Allow("AAPL", nearCall, now.Add(time.Minute*5)))

	// Ensure a repeated decision is alerted once the cooldown elapses.
	assert.False(t, tracker.Allow("AAPL", nearCall, now.Add(time.Minute*14)))
	assert.True(t, tracker.Allow("AAPL", nearCall, now.Add(time.Minute*15)))

	// Ensure a lapsed setup clears the record so a returning setup alerts immediately.
	assert.False(t, tracker.Allow("MSFT", shared.NoDecision(), now.Add(time.Minute*6)))
	assert.Equal(t, tracker.Len(), 1)
	assert.True(t, tracker.Allow("MSFT", call, now.Add(time.Minute*9)))
}

package shared

import (
	"fmt"
	"time"
)

const (
	// Session names.
	PreMarket    = "premarket"
	RegularHours = "regular"
	AfterHours   = "afterhours"

	// US equities session times in new york time (ET).
	PreMarketOpen     = "04:00"
	PreMarketClose    = "09:30"
	RegularHoursOpen  = "09:30"
	RegularHoursClose = "16:00"
	AfterHoursOpen    = "16:00"
	AfterHoursClose   = "20:00"

	// SessionTimeLayout is the format layout for session times.
	SessionTimeLayout = "15:04"
)

// Session represents an equities trading session.
type Session struct {
	Name  string
	Open  time.Time
	Close time.Time
}

// NewSession initializes a trading session on the day of the provided time.
func NewSession(name string, open string, close string, now time.Time) (*Session, error) {
	sessionOpen, err := time.Parse(SessionTimeLayout, open)
	if err != nil {
		return nil, fmt.Errorf("parsing session open: %w", err)
	}

	sessionClose, err := time.Parse(SessionTimeLayout, close)
	if err != nil {
		return nil, fmt.Errorf("parsing session close: %w", err)
	}

	loc := now.Location()
	if loc.String() != NewYorkLocation {
		return nil, fmt.Errorf("expected new york location for provided time, got %v", loc.String())
	}

	sOpen := time.Date(now.Year(), now.Month(), now.Day(), sessionOpen.Hour(), sessionOpen.Minute(), 0, 0, loc)
	sClose := time.Date(now.Year(), now.Month(), now.Day(), sessionClose.Hour(), sessionClose.Minute(), 0, 0, loc)
	if !sClose.After(sOpen) {
		return nil, fmt.Errorf("%s session close %s must be after open %s", name, close, open)
	}

	return &Session{Name: name, Open: sOpen, Close: sClose}, nil
}

// IsCurrentSession checks whether the provided session is the current session.
func (s *Session) IsCurrentSession(current time.Time) bool {
	return (current.Equal(s.Open) || current.After(s.Open)) && current.Before(s.Close)
}

// CurrentSession returns the current session name, empty when outside every session.
// Weekends have no sessions.
func CurrentSession(now time.Time) (string, error) {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return "", nil
	}

	sessions := []struct {
		name  string
		open  string
		close string
	}{
		{PreMarket, PreMarketOpen, PreMarketClose},
		{RegularHours, RegularHoursOpen, RegularHoursClose},
		{AfterHours, AfterHoursOpen, AfterHoursClose},
	}

	for _, sess := range sessions {
		session, err := NewSession(sess.name, sess.open, sess.close, now)
		if err != nil {
			return "", fmt.Errorf("creating %s session: %w", sess.name, err)
		}

		if session.IsCurrentSession(now) {
			return session.Name, nil
		}
	}

	return "", nil
}

// IsMarketOpen checks whether the regular equities session is open.
func IsMarketOpen(now time.Time) (bool, string, error) {
	name, err := CurrentSession(now)
	if err != nil {
		return false, name, fmt.Errorf("fetching current market session: %w", err)
	}

	return name == RegularHours, name, nil
}

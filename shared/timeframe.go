package shared

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the format layout for parsing dates.
	DateLayout = "2006-01-02 15:04:05"
	// NewYorkLocation is the new york time zone name.
	NewYorkLocation = "America/New_York"
)

// Timeframe represents the market data time period.
type Timeframe int

const (
	OneMinute Timeframe = iota
	FiveMinute
	FifteenMinute
	OneHour
)

// String stringifies the provided timeframe.
func (t Timeframe) String() string {
	switch t {
	case OneMinute:
		return "1m"
	case FiveMinute:
		return "5m"
	case FifteenMinute:
		return "15m"
	case OneHour:
		return "1H"
	default:
		return "unknown"
	}
}

// Duration returns the length of a single bar of the timeframe.
func (t Timeframe) Duration() (time.Duration, error) {
	switch t {
	case OneMinute:
		return time.Minute, nil
	case FiveMinute:
		return time.Minute * 5, nil
	case FifteenMinute:
		return time.Minute * 15, nil
	case OneHour:
		return time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown timeframe provided: %d", t)
	}
}

// ParseTimeframe parses the provided timeframe label.
func ParseTimeframe(label string) (Timeframe, error) {
	switch label {
	case "1m":
		return OneMinute, nil
	case "5m":
		return FiveMinute, nil
	case "15m":
		return FifteenMinute, nil
	case "1H", "1h":
		return OneHour, nil
	default:
		return 0, fmt.Errorf("unknown timeframe label: %s", label)
	}
}

// WatchTimeframes are the timeframes fetched for every watched symbol.
var WatchTimeframes = []Timeframe{OneMinute, FiveMinute, FifteenMinute}

// DecisionTimeframe is the timeframe setups are decided on.
const DecisionTimeframe = FiveMinute

// NewYorkTime returns the current time in new york (EST/EDT adjusted automatically).
func NewYorkTime() (time.Time, *time.Location, error) {
	loc, err := time.LoadLocation(NewYorkLocation)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("loading new york timezone: %w", err)
	}

	now := time.Now().In(loc)
	return now, loc, nil
}

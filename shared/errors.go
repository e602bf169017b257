package shared

import "errors"

var (
	// ErrNoData is returned when the market data provider has no data for a symbol.
	ErrNoData = errors.New("no market data available")
	// ErrInvalidProfile is returned when a stock profile fails validation.
	ErrInvalidProfile = errors.New("invalid stock profile")
)

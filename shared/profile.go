package shared

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// StockProfile represents the static configuration of a watched symbol.
type StockProfile struct {
	Symbol          string
	Exchange        string
	RSIOverbought   float64
	RSIOversold     float64
	ADXThreshold    float64
	VolumeThreshold float64
}

// Validate asserts the profile has sane inputs.
func (p *StockProfile) Validate() error {
	var errs error

	if p.Symbol == "" {
		errs = errors.Join(errs, fmt.Errorf("symbol cannot be an empty string"))
	}
	if p.Exchange == "" {
		errs = errors.Join(errs, fmt.Errorf("%s: exchange cannot be an empty string", p.Symbol))
	}
	if p.RSIOverbought <= 0 || p.RSIOverbought > 100 {
		errs = errors.Join(errs, fmt.Errorf("%s: rsi overbought must be within (0, 100], got %v",
			p.Symbol, p.RSIOverbought))
	}
	if p.RSIOversold < 0 || p.RSIOversold >= p.RSIOverbought {
		errs = errors.Join(errs, fmt.Errorf("%s: rsi oversold must be within [0, overbought), got %v",
			p.Symbol, p.RSIOversold))
	}
	if p.ADXThreshold <= 0 {
		errs = errors.Join(errs, fmt.Errorf("%s: adx threshold must be positive, got %v",
			p.Symbol, p.ADXThreshold))
	}
	if p.VolumeThreshold < 0 {
		errs = errors.Join(errs, fmt.Errorf("%s: volume threshold cannot be negative, got %v",
			p.Symbol, p.VolumeThreshold))
	}

	if errs != nil {
		return errors.Join(ErrInvalidProfile, errs)
	}

	return nil
}

// DefaultWatchList returns the built-in watch-list.
func DefaultWatchList() []StockProfile {
	return []StockProfile{
		{Symbol: "AAPL", Exchange: "NASDAQ", RSIOverbought: 70, RSIOversold: 30, ADXThreshold: 25, VolumeThreshold: 100000},
		{Symbol: "TSLA", Exchange: "NASDAQ", RSIOverbought: 75, RSIOversold: 25, ADXThreshold: 30, VolumeThreshold: 200000},
		{Symbol: "NVDA", Exchange: "NASDAQ", RSIOverbought: 72, RSIOversold: 28, ADXThreshold: 28, VolumeThreshold: 150000},
		{Symbol: "AMZN", Exchange: "NASDAQ", RSIOverbought: 68, RSIOversold: 32, ADXThreshold: 22, VolumeThreshold: 180000},
		{Symbol: "META", Exchange: "NASDAQ", RSIOverbought: 73, RSIOversold: 27, ADXThreshold: 29, VolumeThreshold: 160000},
		{Symbol: "GOOGL", Exchange: "NASDAQ", RSIOverbought: 71, RSIOversold: 29, ADXThreshold: 27, VolumeThreshold: 140000},
		{Symbol: "AMD", Exchange: "NASDAQ", RSIOverbought: 74, RSIOversold: 26, ADXThreshold: 30, VolumeThreshold: 120000},
		{Symbol: "BABA", Exchange: "NYSE", RSIOverbought: 69, RSIOversold: 31, ADXThreshold: 25, VolumeThreshold: 130000},
		{Symbol: "COIN", Exchange: "NASDAQ", RSIOverbought: 72, RSIOversold: 28, ADXThreshold: 28, VolumeThreshold: 100000},
		{Symbol: "MSFT", Exchange: "NASDAQ", RSIOverbought: 70, RSIOversold: 30, ADXThreshold: 26, VolumeThreshold: 190000},
	}
}

// ParseWatchList parses and validates stock profiles from the provided json array.
func ParseWatchList(data []byte) ([]StockProfile, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid watch-list json")
	}

	payload := gjson.ParseBytes(data)
	if !payload.IsArray() {
		return nil, errors.New("watch-list must be a json array")
	}

	entries := payload.Array()
	if len(entries) == 0 {
		return nil, errors.New("watch-list cannot be empty")
	}

	profiles := make([]StockProfile, 0, len(entries))
	var errs error
	for idx := range entries {
		profile := StockProfile{
			Symbol:          entries[idx].Get("symbol").String(),
			Exchange:        entries[idx].Get("exchange").String(),
			RSIOverbought:   entries[idx].Get("rsi_overbought").Float(),
			RSIOversold:     entries[idx].Get("rsi_oversold").Float(),
			ADXThreshold:    entries[idx].Get("adx_threshold").Float(),
			VolumeThreshold: entries[idx].Get("volume_threshold").Float(),
		}
		if err := profile.Validate(); err != nil {
			errs = errors.Join(errs, fmt.Errorf("watch-list entry #%d: %w", idx, err))
			continue
		}

		profiles = append(profiles, profile)
	}

	if errs != nil {
		return nil, errs
	}

	return profiles, nil
}

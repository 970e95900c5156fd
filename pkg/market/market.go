// Package market defines the price and weather capabilities the planner and
// web UI consume. Only static implementations are provided; live feeds are
// out of scope and can be injected through the interfaces.
package market

import (
	"context"
	"fmt"
	"time"

	"github.com/iwvelando/maize-roi/pkg/constants"
	"github.com/iwvelando/maize-roi/pkg/validation"
)

// PriceQuote is a market price per 50 kg bag.
type PriceQuote struct {
	PricePerBag float64   `json:"pricePerBag"`
	Source      string    `json:"source"`
	AsOf        time.Time `json:"asOf"`
}

// WeatherReport is a short outlook for the planting district.
type WeatherReport struct {
	Location    string    `json:"location"`
	Description string    `json:"description"`
	RainfallMM  float64   `json:"rainfallMm"`
	TempC       float64   `json:"tempC"`
	AsOf        time.Time `json:"asOf"`
}

// PriceSource provides the current market price per bag.
type PriceSource interface {
	CurrentPrice(ctx context.Context) (PriceQuote, error)
}

// WeatherSource provides a weather outlook.
type WeatherSource interface {
	Outlook(ctx context.Context) (WeatherReport, error)
}

// StaticPriceSource returns a fixed quote.
type StaticPriceSource struct {
	PricePerBag float64
	Source      string
	now         func() time.Time
}

// NewStaticPriceSource returns a source quoting pricePerBag. A zero price
// falls back to the default placeholder price.
func NewStaticPriceSource(pricePerBag float64, source string) (*StaticPriceSource, error) {
	if err := validation.NonNegative("market price per bag", pricePerBag); err != nil {
		return nil, err
	}
	if pricePerBag == 0 {
		pricePerBag = constants.DefaultMarketPricePerBag
	}
	if source == "" {
		source = constants.DefaultMarketPriceSource
	}
	return &StaticPriceSource{PricePerBag: pricePerBag, Source: source, now: time.Now}, nil
}

// CurrentPrice implements PriceSource.
func (s *StaticPriceSource) CurrentPrice(ctx context.Context) (PriceQuote, error) {
	if err := ctx.Err(); err != nil {
		return PriceQuote{}, fmt.Errorf("price lookup cancelled: %w", err)
	}
	return PriceQuote{PricePerBag: s.PricePerBag, Source: s.Source, AsOf: s.clock()}, nil
}

func (s *StaticPriceSource) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// StaticWeatherSource returns a fixed outlook.
type StaticWeatherSource struct {
	Report WeatherReport
}

// NewStaticWeatherSource returns a source describing location with the
// given outlook text.
func NewStaticWeatherSource(location, description string, rainfallMM, tempC float64) *StaticWeatherSource {
	if description == "" {
		description = constants.DefaultWeatherDescription
	}
	return &StaticWeatherSource{Report: WeatherReport{
		Location:    location,
		Description: description,
		RainfallMM:  rainfallMM,
		TempC:       tempC,
	}}
}

// Outlook implements WeatherSource.
func (s *StaticWeatherSource) Outlook(ctx context.Context) (WeatherReport, error) {
	if err := ctx.Err(); err != nil {
		return WeatherReport{}, fmt.Errorf("weather lookup cancelled: %w", err)
	}
	report := s.Report
	report.AsOf = time.Now().UTC()
	return report, nil
}

package agent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/regenai/regen-agent/internal/domain"
)

// Enricher produces the weather and market summaries attached to a turn's
// prompt. The two lookups are independent, so Enrich issues them
// concurrently; both current implementations are static stubs, kept behind
// this seam so real providers can be slotted in without touching callers.
type Enricher struct {
	weather WeatherProvider
	market  MarketProvider
}

// WeatherProvider returns a short weather outlook for a land profile.
type WeatherProvider interface {
	WeatherSummary(ctx context.Context, form *domain.Form) (string, error)
}

// MarketProvider returns a short market-trend summary for a land profile.
type MarketProvider interface {
	MarketSummary(ctx context.Context, form *domain.Form) (string, error)
}

func NewEnricher(weather WeatherProvider, market MarketProvider) *Enricher {
	if weather == nil {
		weather = stubWeather{}
	}
	if market == nil {
		market = stubMarket{}
	}
	return &Enricher{weather: weather, market: market}
}

// Enrich never fails: a provider error degrades that summary to its generic
// placeholder so prompt assembly always has something to render.
func (e *Enricher) Enrich(ctx context.Context, form *domain.Form) domain.EnrichmentContext {
	var out domain.EnrichmentContext

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := e.weather.WeatherSummary(gctx, form)
		if err != nil || s == "" {
			s = genericWeather
		}
		out.Weather = s
		return nil
	})
	g.Go(func() error {
		s, err := e.market.MarketSummary(gctx, form)
		if err != nil || s == "" {
			s = genericMarket
		}
		out.Market = s
		return nil
	})
	_ = g.Wait()

	return out
}

const (
	genericWeather = "No local weather data available; assume seasonal averages for the region."
	genericMarket  = "No market data available; consider staple crops with steady regional demand."
)

type stubWeather struct{}

func (stubWeather) WeatherSummary(_ context.Context, form *domain.Form) (string, error) {
	if form.IsEmpty() {
		return genericWeather, nil
	}
	return fmt.Sprintf(
		"Seasonal outlook for %s suggests moderate temperatures and medium rainfall over the next 4-6 weeks",
		form.Location,
	), nil
}

type stubMarket struct{}

func (stubMarket) MarketSummary(_ context.Context, form *domain.Form) (string, error) {
	goal := domain.GoalProfit
	if !form.IsEmpty() && form.Goal != "" {
		goal = form.Goal
	}
	return fmt.Sprintf(
		"Goal %s: wheat demand steady in regional mills; pulses prices rising in nearby wholesale markets",
		goal,
	), nil
}

package workload

import (
	"context"
	"errors"

	"github.com/acquisition-ops/workload/internal/roster"
)

// Source supplies the project roster.
type Source interface {
	Load(ctx context.Context) ([]roster.Project, error)
}

// Query scopes a dashboard computation.
type Query struct {
	Filter  ClientFilter
	Overlay Overlay
}

// ActivityLine is one activity as shown on a project card.
type ActivityLine struct {
	Name     string              `json:"name"`
	Pole     roster.Pole         `json:"pole"`
	Type     roster.ActivityType `json:"type"`
	Days     float64             `json:"days"`
	Duration string              `json:"duration"`
	Hours    *float64            `json:"hours,omitempty"`
	Disabled bool                `json:"disabled"`
}

// PoleShare is a slice of a project's stored total attributed to a pole.
type PoleShare struct {
	Pole     roster.Pole `json:"pole"`
	Days     float64     `json:"days"`
	Duration string      `json:"duration"`
	Percent  float64     `json:"percent"`
}

// ProjectCard is a ranked project rendered from stored figures.
type ProjectCard struct {
	Rank        int               `json:"rank"`
	Client      string            `json:"client"`
	DisplayName string            `json:"displayName"`
	ClientType  roster.ClientType `json:"clientType"`
	Priority    roster.Priority   `json:"priority"`
	TotalDays   float64           `json:"totalDays"`
	Duration    string            `json:"duration"`
	AdsCount    float64           `json:"adsCount"`
	Disabled    bool              `json:"disabled"`
	Activities  []ActivityLine    `json:"activities"`
	Shares      []PoleShare       `json:"shares"`
}

// Dashboard is the full computed view for one query. Totals, Poles and
// Capacity reflect the overlay; Projects and Breakdowns use stored totals.
type Dashboard struct {
	Filter             ClientFilter  `json:"filter"`
	Totals             Totals        `json:"totals"`
	Poles              []PoleTotal   `json:"poles"`
	Capacity           Capacity      `json:"capacity"`
	Projects           []ProjectCard `json:"projects"`
	Breakdowns         []Breakdown   `json:"breakdowns"`
	DisabledClients    []string      `json:"disabledClients"`
	DisabledActivities []string      `json:"disabledActivities"`
}

// Service coordinates roster loading, aggregation and the cache layer.
type Service struct {
	source Source
	engine *Engine
	cache  *Cache
}

// NewService wires a Source with an Engine and an optional Cache.
func NewService(source Source, engine *Engine, cache *Cache) *Service {
	if engine == nil {
		engine = NewEngine(DefaultConfig())
	}
	return &Service{source: source, engine: engine, cache: cache}
}

// Engine exposes the aggregation engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Cache exposes the cache helper, which may be nil.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Roster returns the unscoped projects for the filter.
func (s *Service) Roster(ctx context.Context, filter ClientFilter) ([]roster.Project, error) {
	if s.source == nil {
		return nil, errors.New("workload: source not configured")
	}
	projects, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByClientType(projects, filter), nil
}

// Dashboard resolves the dashboard for q using cache-aware lookups.
func (s *Service) Dashboard(ctx context.Context, q Query) (Dashboard, error) {
	if q.Filter == "" {
		q.Filter = FilterAll
	}
	if s.cache == nil {
		return s.compute(ctx, q)
	}
	key, err := s.cache.BuildKey(ctx, dashboardKeyParts(q.Filter, q.Overlay)...)
	if err != nil {
		return Dashboard{}, err
	}
	return cached(ctx, s.cache, key, func(ctx context.Context) (Dashboard, error) {
		return s.compute(ctx, q)
	})
}

func (s *Service) compute(ctx context.Context, q Query) (Dashboard, error) {
	filtered, err := s.Roster(ctx, q.Filter)
	if err != nil {
		return Dashboard{}, err
	}
	active := ApplyOverlay(filtered, q.Overlay)
	poles := PoleTotals(active)

	dash := Dashboard{
		Filter:             q.Filter,
		Totals:             s.engine.Totals(active),
		Poles:              poles,
		Capacity:           s.engine.Capacity(PoleDays(poles, roster.PoleAds)),
		Projects:           s.cards(filtered, q.Overlay),
		Breakdowns:         ProjectBreakdowns(filtered),
		DisabledClients:    q.Overlay.Clients(),
		DisabledActivities: q.Overlay.Activities(),
	}
	return dash, nil
}

func (s *Service) cards(filtered []roster.Project, overlay Overlay) []ProjectCard {
	ranked := RankByStoredTotal(filtered)
	cards := make([]ProjectCard, 0, len(ranked))
	for i, p := range ranked {
		card := ProjectCard{
			Rank:        i + 1,
			Client:      p.Client,
			DisplayName: roster.DisplayName(p.Client),
			ClientType:  p.ClientType,
			Priority:    p.Priority,
			TotalDays:   p.TotalDaysSold,
			Duration:    s.engine.FormatDuration(p.TotalDaysSold),
			AdsCount:    p.TotalAdsCount,
			Disabled:    overlay.ClientDisabled(p.Client),
			Activities:  make([]ActivityLine, 0, len(p.Activities)),
			Shares:      []PoleShare{},
		}
		perPole := make(map[roster.Pole]float64, 4)
		for _, a := range p.Activities {
			card.Activities = append(card.Activities, ActivityLine{
				Name:     a.Name,
				Pole:     a.Pole,
				Type:     a.Type,
				Days:     a.Days,
				Duration: s.engine.FormatDuration(a.Days),
				Hours:    a.Hours,
				Disabled: overlay.ActivityDisabled(p.Client, a.Name),
			})
			perPole[a.Pole] += a.Days
		}
		if p.TotalDaysSold > 0 {
			for _, pole := range roster.Poles() {
				days := perPole[pole]
				if days <= 0 {
					continue
				}
				card.Shares = append(card.Shares, PoleShare{
					Pole:     pole,
					Days:     days,
					Duration: s.engine.FormatDuration(days),
					Percent:  days / p.TotalDaysSold * 100,
				})
			}
		}
		cards = append(cards, card)
	}
	return cards
}

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SchemaVersion is the only snapshot layout this service writes.
const SchemaVersion = 1

// Impact grades a livewire item.
type Impact string

const (
	ImpactHigh   Impact = "HIGH"
	ImpactMedium Impact = "MEDIUM"
	ImpactLow    Impact = "LOW"
)

// Trend is the direction of an index move.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendFlat Trend = "FLAT"
)

// Snapshot is the single persisted market-state document.
type Snapshot struct {
	SchemaVersion int                `json:"schema_version"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Status        Status             `json:"status"`
	Briefings     Briefings          `json:"briefings"`
	Indices       map[string][]Index `json:"indices"`
	Livewire      []NewsItem         `json:"livewire"`
}

type Status struct {
	OK            bool       `json:"ok"`
	LastError     *string    `json:"last_error"`
	LastSuccessAt *time.Time `json:"last_success_at"`
}

// Briefing is a titled list of bullets for one region or sector.
type Briefing struct {
	Title       string   `json:"title"`
	Bullets     []string `json:"bullets"`
	WhatToWatch []string `json:"what_to_watch,omitempty"`
}

// SectorsKey is the briefings key holding the nested sector map.
const SectorsKey = "sectors"

// Briefings maps region keys to briefings. Sector briefings live under the
// reserved "sectors" key on the wire and in Sectors here.
type Briefings struct {
	Regions map[string]Briefing
	Sectors map[string]Briefing
}

func (b Briefings) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(b.Regions)+1)
	for k, v := range b.Regions {
		out[k] = v
	}
	if len(b.Sectors) > 0 {
		out[SectorsKey] = b.Sectors
	}
	return json.Marshal(out)
}

func (b *Briefings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("briefings: %w", err)
	}
	b.Regions = make(map[string]Briefing, len(raw))
	b.Sectors = nil
	for k, v := range raw {
		if k == SectorsKey {
			if err := json.Unmarshal(v, &b.Sectors); err != nil {
				return fmt.Errorf("briefings.%s: %w", k, err)
			}
			continue
		}
		var br Briefing
		if err := json.Unmarshal(v, &br); err != nil {
			return fmt.Errorf("briefings.%s: %w", k, err)
		}
		b.Regions[k] = br
	}
	return nil
}

// Index is one market index quote.
type Index struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Change string  `json:"change"`
	Trend  Trend   `json:"trend"`
}

// NewsItem is a single livewire entry. Time is local "HH:MM".
type NewsItem struct {
	Headline string `json:"headline"`
	Impact   Impact `json:"impact"`
	Summary  string `json:"summary"`
	Time     string `json:"time,omitempty"`
}

// Generation is the structured payload returned by the generative service.
type Generation struct {
	Briefings Briefings          `json:"briefings"`
	Indices   map[string][]Index `json:"indices"`
	Livewire  []NewsItem         `json:"livewire"`
}

// Normalize replaces absent sections with empty ones.
func (g *Generation) Normalize() {
	if g.Briefings.Regions == nil {
		g.Briefings.Regions = map[string]Briefing{}
	}
	if g.Indices == nil {
		g.Indices = map[string][]Index{}
	}
	if g.Livewire == nil {
		g.Livewire = []NewsItem{}
	}
}

// RefreshEvent is announced after every snapshot write.
type RefreshEvent struct {
	GeneratedAt   time.Time `json:"generated_at"`
	OK            bool      `json:"ok"`
	LastError     string    `json:"last_error,omitempty"`
	LivewireCount int       `json:"livewire_count"`
	TopHeadline   string    `json:"top_headline,omitempty"`
}

// NewRefreshEvent summarises s.
func NewRefreshEvent(s *Snapshot) RefreshEvent {
	ev := RefreshEvent{
		GeneratedAt:   s.GeneratedAt,
		OK:            s.Status.OK,
		LivewireCount: len(s.Livewire),
	}
	if s.Status.LastError != nil {
		ev.LastError = *s.Status.LastError
	}
	if len(s.Livewire) > 0 {
		ev.TopHeadline = s.Livewire[0].Headline
	}
	return ev
}

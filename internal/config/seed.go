package config

import (
	"strings"

	"github.com/vfg2006/sales-pipeline/internal/usecases/seeding"
)

// SeedTimeline converte a seção Timeline no intervalo usado pelo seed
func (c *Config) SeedTimeline() seeding.Timeline {
	segments := make([]string, 0, len(c.Timeline.Segments))
	for _, s := range c.Timeline.Segments {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			segments = append(segments, s)
		}
	}

	return seeding.Timeline{
		StartYear: c.Timeline.StartYear,
		EndYear:   c.Timeline.EndYear,
		Segments:  segments,
	}
}

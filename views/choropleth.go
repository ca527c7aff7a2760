package views

import (
	"log"

	"olistdash/api/dataset"
	"olistdash/api/models"
)

// choropleth keeps the rows whose state has a boundary shape and records the rest in
// Geo.Unmatched. rows[i] belongs to states[i].
func choropleth(c models.Chart, states []models.StateCode, rows []models.Datum, b *dataset.StateBoundaries) models.Chart {
	c.Kind = models.ChartChoropleth
	c.Encoding.FeatureIDKey = dataset.FeatureIDKey
	c.Geo = &models.GeoBinding{FeatureIDKey: dataset.FeatureIDKey}
	c.Data = make([]models.Datum, 0, len(rows))

	seen := make(map[models.StateCode]bool)
	matched := make([]models.StateCode, 0, len(states))
	for i, code := range states {
		if b != nil && b.Has(code) {
			c.Data = append(c.Data, rows[i])
			matched = append(matched, code)
			continue
		}
		if !seen[code] {
			seen[code] = true
			c.Geo.Unmatched = append(c.Geo.Unmatched, code)
		}
	}

	if len(c.Geo.Unmatched) > 0 {
		log.Printf("WARN: chart %s: no boundary shape for states %v; rows omitted from map", c.ID, c.Geo.Unmatched)
	}
	if b != nil {
		if bound, ok := b.Bound(matched); ok {
			c.Geo.FitBounds = []float64{bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1]}
		}
	}
	c.Empty = len(c.Data) == 0
	return c
}

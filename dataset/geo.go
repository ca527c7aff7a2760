package dataset

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"olistdash/api/models"
)

// FeatureIDKey is the GeoJSON property path that holds a state's code.
const FeatureIDKey = "properties.sigla"

const siglaProperty = "sigla"

// StateBoundaries is the state polygon collection indexed by state code.
type StateBoundaries struct {
	collection *geojson.FeatureCollection
	byCode     map[models.StateCode]*geojson.Feature
}

func LoadBoundaries(path string) (*StateBoundaries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataLoadError{File: path, Err: err}
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &DataLoadError{File: path, Err: fmt.Errorf("invalid GeoJSON: %w", err)}
	}
	b, err := NewStateBoundaries(fc)
	if err != nil {
		return nil, &DataLoadError{File: path, Column: FeatureIDKey, Err: err}
	}
	return b, nil
}

// NewStateBoundaries indexes a feature collection by its sigla property. Every feature must
// carry one.
func NewStateBoundaries(fc *geojson.FeatureCollection) (*StateBoundaries, error) {
	b := &StateBoundaries{
		collection: fc,
		byCode:     make(map[models.StateCode]*geojson.Feature, len(fc.Features)),
	}
	for i, f := range fc.Features {
		sigla, ok := f.Properties[siglaProperty].(string)
		if !ok || strings.TrimSpace(sigla) == "" {
			return nil, fmt.Errorf("feature %d: %w", i, ErrMissingColumn)
		}
		b.byCode[models.StateCode(strings.ToUpper(strings.TrimSpace(sigla)))] = f
	}
	return b, nil
}

func (b *StateBoundaries) Len() int { return len(b.byCode) }

func (b *StateBoundaries) Has(code models.StateCode) bool {
	_, ok := b.byCode[code]
	return ok
}

// Codes returns the known state codes, sorted.
func (b *StateBoundaries) Codes() []models.StateCode {
	codes := make([]models.StateCode, 0, len(b.byCode))
	for c := range b.byCode {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Bound returns the bounding box of the shapes for codes, skipping unknown codes. ok is false
// when none of them has a shape.
func (b *StateBoundaries) Bound(codes []models.StateCode) (bound orb.Bound, ok bool) {
	for _, c := range codes {
		f, found := b.byCode[c]
		if !found || f.Geometry == nil {
			continue
		}
		if !ok {
			bound, ok = f.Geometry.Bound(), true
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound, ok
}

// MarshalJSON emits the loaded FeatureCollection unchanged.
func (b *StateBoundaries) MarshalJSON() ([]byte, error) {
	return b.collection.MarshalJSON()
}

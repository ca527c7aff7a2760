// api/models/chart.go
package models

// ChartKind names the type of chart a front end should draw.
type ChartKind string

const (
	ChartChoropleth ChartKind = "choropleth"
	ChartBar        ChartKind = "bar"
	ChartHistogram  ChartKind = "histogram"
	ChartCountPlot  ChartKind = "countplot"
)

// Datum is one record of chart data, keyed by column name.
type Datum map[string]any

// Encoding binds data columns to visual channels.
type Encoding struct {
	X            string `json:"x,omitempty"`
	Y            string `json:"y,omitempty"`
	Color        string `json:"color,omitempty"`
	Location     string `json:"location,omitempty"`
	FeatureIDKey string `json:"featureIdKey,omitempty"`
}

// GeoBinding describes how a choropleth's rows were joined to the state boundaries.
type GeoBinding struct {
	FeatureIDKey string `json:"featureIdKey"`
	// FitBounds is [minLon, minLat, maxLon, maxLat] over the matched shapes.
	FitBounds []float64   `json:"fitBounds,omitempty"`
	Unmatched []StateCode `json:"unmatched,omitempty"`
}

// Chart is a declarative chart specification. Nothing in this package draws it.
type Chart struct {
	ID         string    `json:"id"`
	Kind       ChartKind `json:"kind"`
	Title      string    `json:"title"`
	Columns    []string  `json:"columns"`
	Data       []Datum   `json:"data"`
	Encoding   Encoding  `json:"encoding"`
	ColorScale string    `json:"colorScale,omitempty"`
	Palette    string    `json:"palette,omitempty"`
	Color      string    `json:"color,omitempty"`
	BarMode    string    `json:"barMode,omitempty"`
	XTickAngle int       `json:"xTickAngle,omitempty"`
	Bins       int       `json:"bins,omitempty"`
	// CategoryOrder fixes the x-axis order for count plots.
	CategoryOrder []string    `json:"categoryOrder,omitempty"`
	Geo           *GeoBinding `json:"geo,omitempty"`
	Empty         bool        `json:"empty"`
}

// PageResponse is the body of a rendered page.
type PageResponse struct {
	Page      string   `json:"page"`
	Title     string   `json:"title"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Charts    []Chart  `json:"charts"`
	Warnings  []string `json:"warnings,omitempty"`
}

// DateBounds is the selectable purchase-date range.
type DateBounds struct {
	MinDate string `json:"minDate"`
	MaxDate string `json:"maxDate"`
}

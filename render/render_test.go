package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot/vg"

	"olistdash/api/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func stackedBar() models.Chart {
	return models.Chart{
		ID:       "payment-types-by-state",
		Kind:     models.ChartBar,
		Title:    "Payment Types per State",
		Columns:  []string{"state", "payment_type", "count"},
		Encoding: models.Encoding{X: "state", Y: "count", Color: "payment_type"},
		BarMode:  "stack",
		Data: []models.Datum{
			{"state": "SP", "payment_type": "boleto", "count": 10.0},
			{"state": "SP", "payment_type": "credit_card", "count": 20.0},
			{"state": "RJ", "payment_type": "boleto", "count": 3.0},
			{"state": "RJ", "payment_type": "credit_card", "count": 9.0},
		},
	}
}

func TestPNGCharts(t *testing.T) {
	cases := []models.Chart{
		stackedBar(),
		{
			ID: "mean-review-score", Kind: models.ChartBar, Title: "Average Review Score",
			Columns:  []string{"product_category_name", "review_score"},
			Encoding: models.Encoding{X: "product_category_name", Y: "review_score", Color: "review_score"},
			Data: []models.Datum{
				{"product_category_name": "books", "review_score": 4.5},
				{"product_category_name": "toys", "review_score": 3.9},
			},
			XTickAngle: 45,
		},
		{
			ID: "rfm-recency", Kind: models.ChartHistogram, Title: "Recency", Color: "skyblue",
			Columns:  []string{"bin_start", "bin_end", "count"},
			Encoding: models.Encoding{X: "bin_start", Y: "count"},
			Data: []models.Datum{
				{"bin_start": 0.0, "bin_end": 1.0, "count": 4.0},
				{"bin_start": 1.0, "bin_end": 2.0, "count": 1.0},
			},
		},
		{
			ID: "rfm-segments", Kind: models.ChartCountPlot, Title: "Segments",
			Encoding: models.Encoding{X: "Segment", Y: "count"},
			Data:     []models.Datum{{"Segment": "A", "count": 2}, {"Segment": "B", "count": 1}},
		},
		{ID: "credit-installments", Kind: models.ChartBar, Title: "Empty", Empty: true},
	}
	for _, c := range cases {
		t.Run(c.ID, func(t *testing.T) {
			var buf bytes.Buffer
			if err := PNG(&buf, c, 6*vg.Inch, 4*vg.Inch); err != nil {
				t.Fatalf("PNG: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
				t.Fatalf("output is not a PNG (%d bytes)", buf.Len())
			}
		})
	}
}

func TestPNGRejectsMaps(t *testing.T) {
	var buf bytes.Buffer
	err := PNG(&buf, models.Chart{ID: "customers-by-state", Kind: models.ChartChoropleth}, vg.Inch, vg.Inch)
	if !errors.Is(err, ErrUnsupportedChart) {
		t.Fatalf("expected ErrUnsupportedChart, got %v", err)
	}
}

func TestStackedDetection(t *testing.T) {
	if !stacked(stackedBar()) {
		t.Fatal("categorical color channel should stack")
	}
	c := models.Chart{
		Encoding: models.Encoding{X: "product_category_name", Y: "review_score", Color: "review_score"},
		Data:     []models.Datum{{"product_category_name": "books", "review_score": 4.5}},
	}
	if stacked(c) {
		t.Fatal("numeric color channel should not stack")
	}
}

func TestWorkbook(t *testing.T) {
	charts := []models.Chart{
		stackedBar(),
		{ID: "financial-inclusion", Title: "Financial Inclusion Ratio", Columns: []string{"state", "financial_inclusion_ratio"},
			Data: []models.Datum{{"state": "SP", "financial_inclusion_ratio": 0.7}}},
	}
	f, err := Workbook(models.PageFinancialInclusion, "2017-01-01 to 2017-12-31", charts)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer back.Close()

	sheets := back.GetSheetList()
	want := []string{"summary", "payment-types-by-state", "financial-inclusion"}
	if len(sheets) != len(want) {
		t.Fatalf("sheets=%v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheets=%v want %v", sheets, want)
		}
	}

	title, _ := back.GetCellValue("summary", "A1")
	if title != "Financial Inclusion" {
		t.Fatalf("title=%q", title)
	}

	rows, err := back.GetRows("payment-types-by-state")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows=%v", rows)
	}
	if rows[0][0] != "state" || rows[0][2] != "count" || rows[2][1] != "credit_card" || rows[2][2] != "20" {
		t.Fatalf("rows=%v", rows)
	}
}

func TestSheetNameTruncated(t *testing.T) {
	name := sheetName("a-very-long-chart-identifier-that-overflows")
	if len(name) != 31 {
		t.Fatalf("len=%d", len(name))
	}
}

func TestWorkbookRejectsBadSheetName(t *testing.T) {
	charts := []models.Chart{{ID: "rfm:segments", Title: "Segments", Columns: []string{"Segment"}}}
	f, err := Workbook(models.PageRFMSegmentation, "2017-01-01 to 2017-12-31", charts)
	if err == nil {
		t.Fatal("expected an error for a sheet name containing ':'")
	}
	if f != nil {
		t.Fatal("no workbook should be returned on error")
	}
}

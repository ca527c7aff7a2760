package views

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"olistdash/api/dataset"
	"olistdash/api/models"
	"olistdash/api/store"
)

func square(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat}}}
}

func testBoundaries(t *testing.T) *dataset.StateBoundaries {
	t.Helper()
	fc := geojson.NewFeatureCollection()
	for code, poly := range map[string]orb.Polygon{
		"SP": square(-53, -25, -44, -19),
		"RJ": square(-45, -23, -41, -20),
	} {
		f := geojson.NewFeature(poly)
		f.Properties["sigla"] = code
		fc.Append(f)
	}
	b, err := dataset.NewStateBoundaries(fc)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.Add(12 * time.Hour)
}

func testDataset(t *testing.T) *dataset.Dataset {
	return &dataset.Dataset{
		Customers: []models.CustomerLocation{{State: "SP", CustomerCount: 100}, {State: "RJ", CustomerCount: 40}, {State: "ZZ", CustomerCount: 1}},
		Sellers:   []models.SellerLocation{{State: "SP", SellerCount: 10}},
		StatePayments: []models.StatePayments{
			{State: "SP", FinancialInclusionRatio: 0.7, Boleto: 10, CreditCard: 20, DebitCard: 5, Voucher: 2},
			{State: "RJ", FinancialInclusionRatio: 0.8, Boleto: 1, CreditCard: 2, DebitCard: 3, Voucher: 4},
		},
		TopCategories: []models.StateCategory{{State: "SP", Category: "beleza_saude", Count: 50}},
		RFM: []models.RFMScore{
			{Recency: 1, Frequency: 1, Monetary: 10, Segment: "A"},
			{Recency: 2, Frequency: 1, Monetary: 20, Segment: "A"},
			{Recency: 3, Frequency: 1, Monetary: 30, Segment: "B"},
		},
		Reviews: []models.ReviewRecord{
			{Category: "toys", ReviewScore: 3, PurchasedAt: at("2017-02-01")},
			{Category: "books", ReviewScore: 5, PurchasedAt: at("2017-02-02")},
			{Category: "books", ReviewScore: 1, PurchasedAt: at("2018-02-02")},
		},
		Payments: []models.PaymentRecord{
			{Category: "toys", PaymentType: models.PaymentCreditCard, Installments: 6, PurchasedAt: at("2017-02-01")},
			{Category: "toys", PaymentType: models.PaymentCreditCard, Installments: 2, PurchasedAt: at("2017-02-03")},
			{Category: "toys", PaymentType: models.PaymentBoleto, Installments: 1, PurchasedAt: at("2017-02-04")},
			{Category: "books", PaymentType: models.PaymentBoleto, Installments: 1, PurchasedAt: at("2017-02-02")},
			{Category: "books", PaymentType: models.PaymentCreditCard, Installments: 10, PurchasedAt: at("2017-02-05")},
			{Category: "books", PaymentType: models.PaymentCreditCard, Installments: 10, PurchasedAt: at("2018-03-01")},
			{Category: "books", PaymentType: models.PaymentCreditCard, Installments: 10, PurchasedAt: at("2018-03-02")},
		},
		Boundaries: testBoundaries(t),
	}
}

func window(t *testing.T, ds *dataset.Dataset, r store.DateRange) *store.Window {
	t.Helper()
	w, _ := store.NewDashboardStore(ds).Window(r)
	return w
}

func collect(page models.Page, w *store.Window) []models.Chart {
	var out []models.Chart
	for c := range Render(page, w) {
		out = append(out, c)
	}
	return out
}

func TestEveryPageRenders(t *testing.T) {
	ds := testDataset(t)
	w := window(t, ds, store.NewDashboardStore(ds).FullRange())

	wantCharts := map[models.Page][]string{
		models.PageCustomersSellers:   {"customers-by-state", "sellers-by-state"},
		models.PageFinancialInclusion: {"financial-inclusion", "payment-types-by-state"},
		models.PageProductsReviews:    {"top-categories-by-state", "mean-review-score"},
		models.PageRFMSegmentation:    {"rfm-recency", "rfm-frequency", "rfm-monetary", "rfm-segments"},
		models.PageCreditInstallments: {"credit-installments"},
	}
	for _, page := range models.Pages() {
		got := collect(page, w)
		want := wantCharts[page]
		if len(got) != len(want) {
			t.Fatalf("%s: got %d charts want %d", page, len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Fatalf("%s chart %d: got %q want %q", page, i, got[i].ID, want[i])
			}
			if got[i].Empty {
				t.Fatalf("%s chart %s unexpectedly empty", page, got[i].ID)
			}
		}
	}
}

func TestRenderPanicsOnInvalidPage(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an out-of-range page")
		}
	}()
	Render(models.Page(200), nil)
}

func TestRenderIsRestartable(t *testing.T) {
	ds := testDataset(t)
	seq := Render(models.PageRFMSegmentation, window(t, ds, store.NewDashboardStore(ds).FullRange()))

	first := 0
	for range seq {
		first++
	}
	second := 0
	for c := range seq {
		second++
		if c.ID == "rfm-frequency" {
			break
		}
	}
	if first != 4 || second != 2 {
		t.Fatalf("first=%d second=%d", first, second)
	}
}

func TestChoroplethReportsUnmatchedStates(t *testing.T) {
	ds := testDataset(t)
	c, ok := Find(models.PageCustomersSellers, window(t, ds, store.NewDashboardStore(ds).FullRange()), "customers-by-state")
	if !ok {
		t.Fatal("chart not found")
	}
	if c.Kind != models.ChartChoropleth || c.ColorScale != "YlGnBu" || c.Encoding.FeatureIDKey != "properties.sigla" {
		t.Fatalf("chart=%+v", c)
	}
	if len(c.Data) != 2 {
		t.Fatalf("rows=%v", c.Data)
	}
	if len(c.Geo.Unmatched) != 1 || c.Geo.Unmatched[0] != "ZZ" {
		t.Fatalf("unmatched=%v", c.Geo.Unmatched)
	}
	want := []float64{-53, -25, -41, -19}
	for i := range want {
		if c.Geo.FitBounds[i] != want[i] {
			t.Fatalf("fit bounds=%v", c.Geo.FitBounds)
		}
	}
}

func TestPaymentTypesLongForm(t *testing.T) {
	ds := testDataset(t)
	c, _ := Find(models.PageFinancialInclusion, window(t, ds, store.NewDashboardStore(ds).FullRange()), "payment-types-by-state")
	if len(c.Data) != len(ds.StatePayments)*4 {
		t.Fatalf("rows=%d", len(c.Data))
	}
	first := c.Data[:4]
	want := []struct {
		pt    string
		count float64
	}{{"boleto", 10}, {"credit_card", 20}, {"debit_card", 5}, {"voucher", 2}}
	for i, w := range want {
		if first[i]["state"] != "SP" || first[i]["payment_type"] != w.pt || first[i]["count"] != w.count {
			t.Fatalf("row %d=%v", i, first[i])
		}
	}
	if c.BarMode != "stack" {
		t.Fatalf("bar mode=%q", c.BarMode)
	}
}

func TestReviewScoresUseFilteredTable(t *testing.T) {
	ds := testDataset(t)
	w := window(t, ds, store.Days(at("2017-01-01"), at("2017-12-31")))
	c, _ := Find(models.PageProductsReviews, w, "mean-review-score")

	if len(c.Data) != 2 || c.XTickAngle != 45 {
		t.Fatalf("chart=%+v", c)
	}
	// The 2018 review for books is outside the range, so books keeps its 5.
	if c.Data[0]["product_category_name"] != "books" || c.Data[0]["review_score"] != 5.0 {
		t.Fatalf("first=%v", c.Data[0])
	}
}

func TestSegmentCountPlotOrder(t *testing.T) {
	ds := testDataset(t)
	c, _ := Find(models.PageRFMSegmentation, window(t, ds, store.NewDashboardStore(ds).FullRange()), "rfm-segments")
	if c.Kind != models.ChartCountPlot || c.XTickAngle != 45 {
		t.Fatalf("chart=%+v", c)
	}
	if len(c.CategoryOrder) != 2 || c.CategoryOrder[0] != "A" || c.CategoryOrder[1] != "B" {
		t.Fatalf("order=%v", c.CategoryOrder)
	}
	if c.Data[0]["count"] != 2 || c.Data[1]["count"] != 1 {
		t.Fatalf("data=%v", c.Data)
	}
}

func TestCreditInstallmentsChart(t *testing.T) {
	ds := testDataset(t)

	// In 2017 toys has 2 credit vs 1 boleto, books 1 credit vs 1 boleto (not dominant).
	c, _ := Find(models.PageCreditInstallments, window(t, ds, store.Days(at("2017-01-01"), at("2017-12-31"))), "credit-installments")
	if len(c.Data) != 1 || c.Data[0]["product_category_name"] != "toys" || c.Data[0]["payment_installments"] != 4.0 {
		t.Fatalf("2017 data=%v", c.Data)
	}
	if c.XTickAngle != 90 {
		t.Fatalf("tick angle=%d", c.XTickAngle)
	}

	// Over the full range books becomes dominant (3 credit vs 1 boleto) with mean 10.
	c, _ = Find(models.PageCreditInstallments, window(t, ds, store.NewDashboardStore(ds).FullRange()), "credit-installments")
	if len(c.Data) != 2 || c.Data[0]["product_category_name"] != "books" || c.Data[1]["product_category_name"] != "toys" {
		t.Fatalf("full data=%v", c.Data)
	}
}

func TestNarrowRangeRendersEmptyCharts(t *testing.T) {
	ds := testDataset(t)
	w := window(t, ds, store.Days(at("2010-01-01"), at("2010-01-02")))

	for _, page := range []models.Page{models.PageProductsReviews, models.PageCreditInstallments} {
		for _, c := range collect(page, w) {
			dependsOnFilter := c.ID == "mean-review-score" || c.ID == "credit-installments"
			if dependsOnFilter && (!c.Empty || len(c.Data) != 0) {
				t.Fatalf("%s should be empty, got %v", c.ID, c.Data)
			}
			if !dependsOnFilter && c.Empty {
				t.Fatalf("%s does not depend on the date range", c.ID)
			}
		}
	}
}

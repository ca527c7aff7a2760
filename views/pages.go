package views

import (
	"iter"

	"olistdash/api/models"
	"olistdash/api/store"
)

const (
	histogramBins = 20
	barModeStack  = "stack"
)

func customersSellers(w *store.Window) iter.Seq[models.Chart] {
	return charts(
		func() models.Chart {
			states := make([]models.StateCode, len(w.Data.Customers))
			rows := make([]models.Datum, len(w.Data.Customers))
			for i, r := range w.Data.Customers {
				states[i] = r.State
				rows[i] = models.Datum{"state": string(r.State), "customer_count": r.CustomerCount}
			}
			return choropleth(models.Chart{
				ID:         "customers-by-state",
				Title:      "Number of Customers",
				Columns:    []string{"state", "customer_count"},
				Encoding:   models.Encoding{Location: "state", Color: "customer_count"},
				ColorScale: "YlGnBu",
			}, states, rows, w.Data.Boundaries)
		},
		func() models.Chart {
			states := make([]models.StateCode, len(w.Data.Sellers))
			rows := make([]models.Datum, len(w.Data.Sellers))
			for i, r := range w.Data.Sellers {
				states[i] = r.State
				rows[i] = models.Datum{"state": string(r.State), "seller_count": r.SellerCount}
			}
			return choropleth(models.Chart{
				ID:         "sellers-by-state",
				Title:      "Number of Sellers",
				Columns:    []string{"state", "seller_count"},
				Encoding:   models.Encoding{Location: "state", Color: "seller_count"},
				ColorScale: "OrRd",
			}, states, rows, w.Data.Boundaries)
		},
	)
}

func financialInclusion(w *store.Window) iter.Seq[models.Chart] {
	return charts(
		func() models.Chart {
			states := make([]models.StateCode, len(w.Data.StatePayments))
			rows := make([]models.Datum, len(w.Data.StatePayments))
			for i, r := range w.Data.StatePayments {
				states[i] = r.State
				rows[i] = models.Datum{"state": string(r.State), "financial_inclusion_ratio": r.FinancialInclusionRatio}
			}
			return choropleth(models.Chart{
				ID:         "financial-inclusion",
				Title:      "Financial Inclusion Ratio",
				Columns:    []string{"state", "financial_inclusion_ratio"},
				Encoding:   models.Encoding{Location: "state", Color: "financial_inclusion_ratio"},
				ColorScale: "Plasma",
			}, states, rows, w.Data.Boundaries)
		},
		func() models.Chart {
			long := store.MeltPayments(w.Data.StatePayments)
			rows := make([]models.Datum, len(long))
			for i, r := range long {
				rows[i] = models.Datum{"state": string(r.State), "payment_type": string(r.PaymentType), "count": r.Count}
			}
			return models.Chart{
				ID:       "payment-types-by-state",
				Kind:     models.ChartBar,
				Title:    "Payment Types per State",
				Columns:  []string{"state", "payment_type", "count"},
				Data:     rows,
				Encoding: models.Encoding{X: "state", Y: "count", Color: "payment_type"},
				BarMode:  barModeStack,
				Empty:    len(rows) == 0,
			}
		},
	)
}

func productsReviews(w *store.Window) iter.Seq[models.Chart] {
	return charts(
		func() models.Chart {
			rows := make([]models.Datum, len(w.Data.TopCategories))
			for i, r := range w.Data.TopCategories {
				rows[i] = models.Datum{"state": string(r.State), "product_category_name": r.Category, "count": r.Count}
			}
			return models.Chart{
				ID:       "top-categories-by-state",
				Kind:     models.ChartBar,
				Title:    "Most Popular Product Categories",
				Columns:  []string{"state", "product_category_name", "count"},
				Data:     rows,
				Encoding: models.Encoding{X: "state", Y: "count", Color: "product_category_name"},
				BarMode:  barModeStack,
				Empty:    len(rows) == 0,
			}
		},
		func() models.Chart {
			means := store.MeanReviewScores(w.Reviews)
			rows := make([]models.Datum, len(means))
			for i, m := range means {
				rows[i] = models.Datum{"product_category_name": m.Category, "review_score": m.Mean}
			}
			return models.Chart{
				ID:         "mean-review-score",
				Kind:       models.ChartBar,
				Title:      "Average Review Score per Product Category",
				Columns:    []string{"product_category_name", "review_score"},
				Data:       rows,
				Encoding:   models.Encoding{X: "product_category_name", Y: "review_score", Color: "review_score"},
				ColorScale: "Blues",
				XTickAngle: 45,
				Empty:      len(rows) == 0,
			}
		},
	)
}

func rfmSegmentation(w *store.Window) iter.Seq[models.Chart] {
	histogram := func(id, title, color string, value func(models.RFMScore) float64) func() models.Chart {
		return func() models.Chart {
			values := make([]float64, len(w.Data.RFM))
			for i, r := range w.Data.RFM {
				values[i] = value(r)
			}
			bins := store.Histogram(values, histogramBins)
			rows := make([]models.Datum, len(bins))
			for i, b := range bins {
				rows[i] = models.Datum{"bin_start": b.Start, "bin_end": b.End, "count": b.Count}
			}
			return models.Chart{
				ID:       id,
				Kind:     models.ChartHistogram,
				Title:    title,
				Columns:  []string{"bin_start", "bin_end", "count"},
				Data:     rows,
				Encoding: models.Encoding{X: "bin_start", Y: "count"},
				Color:    color,
				Bins:     histogramBins,
				Empty:    len(rows) == 0,
			}
		}
	}

	return charts(
		histogram("rfm-recency", "Recency", "skyblue", func(r models.RFMScore) float64 { return r.Recency }),
		histogram("rfm-frequency", "Frequency", "lightgreen", func(r models.RFMScore) float64 { return r.Frequency }),
		histogram("rfm-monetary", "Monetary", "salmon", func(r models.RFMScore) float64 { return r.Monetary }),
		func() models.Chart {
			counts := store.SegmentCounts(w.Data.RFM)
			rows := make([]models.Datum, len(counts))
			order := make([]string, len(counts))
			for i, c := range counts {
				rows[i] = models.Datum{"Segment": c.Label, "count": c.Count}
				order[i] = c.Label
			}
			return models.Chart{
				ID:            "rfm-segments",
				Kind:          models.ChartCountPlot,
				Title:         "RFM Customer Segmentation",
				Columns:       []string{"Segment", "count"},
				Data:          rows,
				Encoding:      models.Encoding{X: "Segment", Y: "count"},
				Palette:       "pastel",
				XTickAngle:    45,
				CategoryOrder: order,
				Empty:         len(rows) == 0,
			}
		},
	)
}

func creditInstallments(w *store.Window) iter.Seq[models.Chart] {
	return charts(
		func() models.Chart {
			means := store.CreditInstallments(w.Payments)
			rows := make([]models.Datum, len(means))
			for i, m := range means {
				rows[i] = models.Datum{"product_category_name": m.Category, "payment_installments": m.Mean}
			}
			return models.Chart{
				ID:         "credit-installments",
				Kind:       models.ChartBar,
				Title:      "Average Installments per Product Category",
				Columns:    []string{"product_category_name", "payment_installments"},
				Data:       rows,
				Encoding:   models.Encoding{X: "product_category_name", Y: "payment_installments"},
				Palette:    "viridis",
				XTickAngle: 90,
				Empty:      len(rows) == 0,
			}
		},
	)
}

// api/store/aggregate.go
package store

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"olistdash/api/models"
)

// MeltPayments unpivots the wide payment table into one row per (state, payment type), in
// input row order and payment column order. Values are copied unchanged.
func MeltPayments(rows []models.StatePayments) []models.StatePaymentCount {
	out := make([]models.StatePaymentCount, 0, len(rows)*len(models.PaymentTypes))
	for _, row := range rows {
		for _, pt := range models.PaymentTypes {
			out = append(out, models.StatePaymentCount{State: row.State, PaymentType: pt, Count: row.Count(pt)})
		}
	}
	return out
}

// meanByCategory averages value per category. Rows without a category and NaN values are
// skipped; categories left without values are omitted. The result is sorted by mean
// descending, then category name.
func meanByCategory[T any](rows []T, category func(T) string, value func(T) float64) []models.CategoryMean {
	groups := make(map[string][]float64)
	for _, row := range rows {
		c, v := category(row), value(row)
		if c == "" || math.IsNaN(v) {
			continue
		}
		groups[c] = append(groups[c], v)
	}

	out := make([]models.CategoryMean, 0, len(groups))
	for c, values := range groups {
		out = append(out, models.CategoryMean{Category: c, Mean: stat.Mean(values, nil), Count: len(values)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MeanReviewScores is the average review score per product category, highest first.
func MeanReviewScores(reviews []models.ReviewRecord) []models.CategoryMean {
	return meanByCategory(reviews,
		func(r models.ReviewRecord) string { return r.Category },
		func(r models.ReviewRecord) float64 { return r.ReviewScore })
}

// SegmentCounts counts RFM segment labels, most frequent first (ties by label).
func SegmentCounts(rfm []models.RFMScore) []models.LabelCount {
	counts := make(map[string]int)
	for _, r := range rfm {
		counts[r.Segment]++
	}
	out := make([]models.LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Histogram splits values into n equal-width bins over [min, max]. The maximum is counted in
// the last bin; a constant column is binned over [v-0.5, v+0.5]. NaNs are ignored.
func Histogram(values []float64, n int) []models.HistogramBin {
	x := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			x = append(x, v)
		}
	}
	if len(x) == 0 || n <= 0 {
		return nil
	}
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, n+1), lo, hi)

	// stat.Histogram uses half-open bins, so nudge the last divider past the maximum.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(make([]float64, n), dividers, x, nil)

	bins := make([]models.HistogramBin, n)
	for i := range bins {
		bins[i] = models.HistogramBin{Start: edges[i], End: edges[i+1], Count: counts[i]}
	}
	return bins
}

// PaymentTypeCounts counts transactions per category and known payment type. A category seen
// without some type holds 0 for it.
func PaymentTypeCounts(payments []models.PaymentRecord) map[string]map[models.PaymentType]int {
	out := make(map[string]map[models.PaymentType]int)
	for _, p := range payments {
		if p.Category == "" || !p.PaymentType.Known() {
			continue
		}
		byType, ok := out[p.Category]
		if !ok {
			byType = make(map[models.PaymentType]int, len(models.PaymentTypes))
			out[p.Category] = byType
		}
		byType[p.PaymentType]++
	}
	return out
}

// CreditCardDominant returns the categories whose credit-card count is strictly greater than
// each of the boleto, debit-card and voucher counts.
func CreditCardDominant(counts map[string]map[models.PaymentType]int) map[string]bool {
	out := make(map[string]bool)
	for category, byType := range counts {
		cc := byType[models.PaymentCreditCard]
		if cc > byType[models.PaymentBoleto] && cc > byType[models.PaymentDebitCard] && cc > byType[models.PaymentVoucher] {
			out[category] = true
		}
	}
	return out
}

// CreditInstallments averages payment_installments over credit-card transactions for the
// credit-card-dominant categories, most installments first.
func CreditInstallments(payments []models.PaymentRecord) []models.CategoryMean {
	dominant := CreditCardDominant(PaymentTypeCounts(payments))

	credit := make([]models.PaymentRecord, 0, len(payments))
	for _, p := range payments {
		if p.PaymentType == models.PaymentCreditCard && dominant[p.Category] {
			credit = append(credit, p)
		}
	}
	return meanByCategory(credit,
		func(p models.PaymentRecord) string { return p.Category },
		func(p models.PaymentRecord) float64 { return p.Installments })
}

// Package views turns a filtered data window into the chart specifications of each dashboard
// page. Renderers keep no state: every call recomputes from the window it is given.
package views

import (
	"fmt"
	"iter"

	"olistdash/api/models"
	"olistdash/api/store"
)

// Render returns the charts of page, computed one at a time as the sequence is consumed. The
// sequence can be iterated any number of times.
func Render(page models.Page, w *store.Window) iter.Seq[models.Chart] {
	switch page {
	case models.PageCustomersSellers:
		return customersSellers(w)
	case models.PageFinancialInclusion:
		return financialInclusion(w)
	case models.PageProductsReviews:
		return productsReviews(w)
	case models.PageRFMSegmentation:
		return rfmSegmentation(w)
	case models.PageCreditInstallments:
		return creditInstallments(w)
	}
	// Pages are only obtained through models.ParsePage or models.Pages.
	panic(fmt.Sprintf("views: unreachable page %d", uint8(page)))
}

// Find renders page and returns the chart with the given id.
func Find(page models.Page, w *store.Window, id string) (models.Chart, bool) {
	for c := range Render(page, w) {
		if c.ID == id {
			return c, true
		}
	}
	return models.Chart{}, false
}

func charts(builders ...func() models.Chart) iter.Seq[models.Chart] {
	return func(yield func(models.Chart) bool) {
		for _, build := range builders {
			if !yield(build()) {
				return
			}
		}
	}
}

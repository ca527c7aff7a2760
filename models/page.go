// api/models/page.go
package models

import "fmt"

// Page is one of the dashboard's sidebar pages. The set is closed.
type Page uint8

const (
	PageCustomersSellers Page = iota
	PageFinancialInclusion
	PageProductsReviews
	PageRFMSegmentation
	PageCreditInstallments

	pageCount
)

var pageSlugs = [pageCount]string{
	PageCustomersSellers:   "customers-sellers",
	PageFinancialInclusion: "financial-inclusion",
	PageProductsReviews:    "products-reviews",
	PageRFMSegmentation:    "rfm-segmentation",
	PageCreditInstallments: "credit-installments",
}

var pageTitles = [pageCount]string{
	PageCustomersSellers:   "Customers & Sellers",
	PageFinancialInclusion: "Financial Inclusion",
	PageProductsReviews:    "Products & Reviews",
	PageRFMSegmentation:    "RFM Segmentation",
	PageCreditInstallments: "Credit Installments",
}

// Pages returns every page in sidebar order.
func Pages() []Page {
	pages := make([]Page, 0, pageCount)
	for p := Page(0); p < pageCount; p++ {
		pages = append(pages, p)
	}
	return pages
}

func (p Page) Valid() bool { return p < pageCount }

// Slug is the page's URL path segment.
func (p Page) Slug() string {
	if !p.Valid() {
		return fmt.Sprintf("page(%d)", uint8(p))
	}
	return pageSlugs[p]
}

func (p Page) Title() string {
	if !p.Valid() {
		return ""
	}
	return pageTitles[p]
}

func (p Page) String() string { return p.Slug() }

// ParsePage maps a URL slug to its Page.
func ParsePage(slug string) (Page, error) {
	for p := Page(0); p < pageCount; p++ {
		if pageSlugs[p] == slug {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown page %q", slug)
}

// PageInfo is the sidebar entry returned to the front end.
type PageInfo struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

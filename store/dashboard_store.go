// api/store/dashboard_store.go
package store

import (
	"time"

	"olistdash/api/dataset"
	"olistdash/api/models"
)

// DashboardStore serves date-filtered views over the loaded dataset. The dataset is shared
// read-only between requests.
type DashboardStore struct {
	data    *dataset.Dataset
	minDate time.Time
	maxDate time.Time
}

// Window is one request's view of the data: the immutable tables plus payments and reviews
// narrowed to Range.
type Window struct {
	Data     *dataset.Dataset
	Range    DateRange
	Payments []models.PaymentRecord
	Reviews  []models.ReviewRecord
}

func NewDashboardStore(ds *dataset.Dataset) *DashboardStore {
	s := &DashboardStore{data: ds}
	s.minDate, s.maxDate, _ = Bounds(ds.Payments)
	return s
}

func (s *DashboardStore) Dataset() *dataset.Dataset { return s.data }

// DateBounds returns the first and last purchase dates in the payments table.
func (s *DashboardStore) DateBounds() (minDate, maxDate time.Time) {
	return s.minDate, s.maxDate
}

// FullRange covers every payment, from the first to the last purchase day.
func (s *DashboardStore) FullRange() DateRange {
	return Days(s.minDate, s.maxDate)
}

// Window filters payments and reviews to r. When either ends up empty the window is still
// returned, along with an *EmptyRangeError.
func (s *DashboardStore) Window(r DateRange) (*Window, error) {
	w := &Window{
		Data:     s.data,
		Range:    r,
		Payments: Filter(s.data.Payments, r),
		Reviews:  Filter(s.data.Reviews, r),
	}

	var empty []string
	if len(w.Payments) == 0 {
		empty = append(empty, "payments")
	}
	if len(w.Reviews) == 0 {
		empty = append(empty, "reviews")
	}
	if len(empty) > 0 {
		return w, &EmptyRangeError{Range: r, Tables: empty}
	}
	return w, nil
}

// api/store/timefilter.go
package store

import (
	"fmt"
	"time"

	"olistdash/api/utils"
)

// DateRange is an inclusive instant range [Start, End].
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days turns a calendar-date selection into the instants covering both days completely.
func Days(startDate, endDate time.Time) DateRange {
	return DateRange{Start: utils.TruncateToDate(startDate), End: utils.EndOfDate(endDate)}
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Inverted reports a range whose start lies after its end; it matches nothing.
func (r DateRange) Inverted() bool { return r.Start.After(r.End) }

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// Timestamped is a row with a purchase time.
type Timestamped interface {
	PurchaseTime() time.Time
}

// Bounds returns the first and last purchase dates in rows, truncated to calendar dates.
// ok is false for an empty table.
func Bounds[T Timestamped](rows []T) (minDate, maxDate time.Time, ok bool) {
	for i, row := range rows {
		ts := row.PurchaseTime()
		if i == 0 || ts.Before(minDate) {
			minDate = ts
		}
		if i == 0 || ts.After(maxDate) {
			maxDate = ts
		}
	}
	if len(rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return utils.TruncateToDate(minDate), utils.TruncateToDate(maxDate), true
}

// Filter returns the rows whose purchase time falls inside r, in their original order. The
// input slice is not modified.
func Filter[T Timestamped](rows []T, r DateRange) []T {
	out := make([]T, 0)
	if r.Inverted() {
		return out
	}
	for _, row := range rows {
		if r.Contains(row.PurchaseTime()) {
			out = append(out, row)
		}
	}
	return out
}

// EmptyRangeError reports a date range that leaves a filtered table empty. It is not a failure:
// the window is still usable and renders as empty charts.
type EmptyRangeError struct {
	Range  DateRange
	Tables []string
}

func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("no %v rows in range %s", e.Tables, e.Range)
}

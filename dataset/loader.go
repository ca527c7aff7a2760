package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"olistdash/api/config"
	"olistdash/api/models"
	"olistdash/api/utils"
)

// Dataset holds every table the dashboard reads. It is built once by Load and never mutated.
type Dataset struct {
	Customers     []models.CustomerLocation
	Sellers       []models.SellerLocation
	StatePayments []models.StatePayments
	TopCategories []models.StateCategory
	RFM           []models.RFMScore
	Reviews       []models.ReviewRecord
	Payments      []models.PaymentRecord
	Boundaries    *StateBoundaries
}

// Load reads the eight dataset files from cfg.DataDir. Any failure aborts the whole load.
func Load(cfg *config.Config) (*Dataset, error) {
	path, files := cfg.Path, cfg.Files

	var (
		ds  Dataset
		err error
	)
	if ds.Customers, err = LoadCustomers(path(files.CustomerCounts)); err != nil {
		return nil, err
	}
	if ds.Sellers, err = LoadSellers(path(files.SellerCounts)); err != nil {
		return nil, err
	}
	if ds.StatePayments, err = LoadStatePayments(path(files.PaymentPivot)); err != nil {
		return nil, err
	}
	if ds.TopCategories, err = LoadTopCategories(path(files.TopPerState)); err != nil {
		return nil, err
	}
	if ds.RFM, err = LoadRFM(path(files.RFMAnalysis)); err != nil {
		return nil, err
	}
	if ds.Reviews, err = LoadReviews(path(files.MergedReviews)); err != nil {
		return nil, err
	}
	if ds.Payments, err = LoadPayments(path(files.MergedPayments)); err != nil {
		return nil, err
	}
	if ds.Boundaries, err = LoadBoundaries(path(files.StateBoundaries)); err != nil {
		return nil, err
	}

	log.Printf("Dataset loaded from %s: %d customer states, %d seller states, %d payment pivot rows, %d top-category rows, %d RFM rows, %d reviews, %d payments, %d state shapes",
		cfg.DataDir, len(ds.Customers), len(ds.Sellers), len(ds.StatePayments), len(ds.TopCategories),
		len(ds.RFM), len(ds.Reviews), len(ds.Payments), ds.Boundaries.Len())
	return &ds, nil
}

func LoadCustomers(path string) ([]models.CustomerLocation, error) {
	t, err := readTable(path, "state", "customer_count")
	if err != nil {
		return nil, err
	}
	counts, err := t.counts("customer_count")
	if err != nil {
		return nil, err
	}
	states := t.states("state")

	out := make([]models.CustomerLocation, t.rows())
	for i := range out {
		out[i] = models.CustomerLocation{State: states[i], CustomerCount: counts[i]}
	}
	return out, nil
}

func LoadSellers(path string) ([]models.SellerLocation, error) {
	t, err := readTable(path, "state", "seller_count")
	if err != nil {
		return nil, err
	}
	counts, err := t.counts("seller_count")
	if err != nil {
		return nil, err
	}
	states := t.states("state")

	out := make([]models.SellerLocation, t.rows())
	for i := range out {
		out[i] = models.SellerLocation{State: states[i], SellerCount: counts[i]}
	}
	return out, nil
}

func LoadStatePayments(path string) ([]models.StatePayments, error) {
	t, err := readTable(path, "state", "financial_inclusion_ratio",
		string(models.PaymentBoleto), string(models.PaymentCreditCard),
		string(models.PaymentDebitCard), string(models.PaymentVoucher))
	if err != nil {
		return nil, err
	}

	cols := make(map[string][]float64, 5)
	for _, name := range []string{"financial_inclusion_ratio", "boleto", "credit_card", "debit_card", "voucher"} {
		if cols[name], err = t.floats(name, false); err != nil {
			return nil, err
		}
	}
	states := t.states("state")

	out := make([]models.StatePayments, t.rows())
	for i := range out {
		out[i] = models.StatePayments{
			State:                   states[i],
			FinancialInclusionRatio: cols["financial_inclusion_ratio"][i],
			Boleto:                  cols["boleto"][i],
			CreditCard:              cols["credit_card"][i],
			DebitCard:               cols["debit_card"][i],
			Voucher:                 cols["voucher"][i],
		}
	}
	return out, nil
}

func LoadTopCategories(path string) ([]models.StateCategory, error) {
	t, err := readTable(path, "state", "product_category_name", "count")
	if err != nil {
		return nil, err
	}
	counts, err := t.counts("count")
	if err != nil {
		return nil, err
	}
	states := t.states("state")
	categories := t.strings("product_category_name")

	out := make([]models.StateCategory, t.rows())
	for i := range out {
		out[i] = models.StateCategory{State: states[i], Category: categories[i], Count: counts[i]}
	}
	return out, nil
}

var rfmIDColumns = []string{"customer_unique_id", "customer_id"}

func LoadRFM(path string) ([]models.RFMScore, error) {
	t, err := readTable(path, "Recency", "Frequency", "Monetary", "Segment")
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, c := range rfmIDColumns {
		if t.has(c) {
			ids = t.strings(c)
			break
		}
	}

	values := make(map[string][]float64, 3)
	for _, name := range []string{"Recency", "Frequency", "Monetary"} {
		col, err := t.floats(name, false)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			if v < 0 {
				return nil, &DataLoadError{File: t.path, Column: name, Row: i + 1, Err: ErrNegativeValue}
			}
		}
		values[name] = col
	}
	segments := t.strings("Segment")

	out := make([]models.RFMScore, t.rows())
	for i := range out {
		out[i] = models.RFMScore{
			Recency:   values["Recency"][i],
			Frequency: values["Frequency"][i],
			Monetary:  values["Monetary"][i],
			Segment:   segments[i],
		}
		if ids != nil {
			out[i].CustomerID = ids[i]
		}
	}
	return out, nil
}

func LoadReviews(path string) ([]models.ReviewRecord, error) {
	t, err := readTable(path, "product_category_name", "review_score", "order_purchase_timestamp")
	if err != nil {
		return nil, err
	}
	scores, err := t.floats("review_score", true)
	if err != nil {
		return nil, err
	}
	times, err := t.times("order_purchase_timestamp")
	if err != nil {
		return nil, err
	}
	categories := t.strings("product_category_name")

	out := make([]models.ReviewRecord, t.rows())
	for i := range out {
		out[i] = models.ReviewRecord{Category: categories[i], ReviewScore: scores[i], PurchasedAt: times[i]}
	}
	return out, nil
}

func LoadPayments(path string) ([]models.PaymentRecord, error) {
	t, err := readTable(path, "product_category_name", "payment_type", "payment_installments", "order_purchase_timestamp")
	if err != nil {
		return nil, err
	}
	installments, err := t.floats("payment_installments", true)
	if err != nil {
		return nil, err
	}
	times, err := t.times("order_purchase_timestamp")
	if err != nil {
		return nil, err
	}
	categories := t.strings("product_category_name")
	types := t.strings("payment_type")

	unknown := 0
	out := make([]models.PaymentRecord, t.rows())
	for i := range out {
		pt := models.PaymentType(strings.TrimSpace(types[i]))
		if !pt.Known() {
			unknown++
		}
		out[i] = models.PaymentRecord{
			Category:     categories[i],
			PaymentType:  pt,
			Installments: installments[i],
			PurchasedAt:  times[i],
		}
	}
	if unknown > 0 {
		log.Printf("WARN: %s: %d payments have an unknown payment_type and are ignored by payment-type comparisons", path, unknown)
	}
	return out, nil
}

// table is a CSV file read into a string-typed DataFrame; columns are converted on demand so
// conversion errors can name the offending row. A file holding only a header has no DataFrame.
type table struct {
	path  string
	df    dataframe.DataFrame
	cols  map[string]bool
	empty bool
}

func readTable(path string, required ...string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataLoadError{File: path, Err: err}
	}

	// gota refuses a header without records, so the header is read here first.
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &DataLoadError{File: path, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, &DataLoadError{File: path, Err: err}
	}
	_, err = r.Read()
	empty := errors.Is(err, io.EOF)

	t := &table{path: path, cols: make(map[string]bool), empty: empty}
	for _, name := range header {
		t.cols[name] = true
	}
	for _, name := range required {
		if !t.cols[name] {
			return nil, &DataLoadError{File: path, Column: name, Err: ErrMissingColumn}
		}
	}
	if empty {
		return t, nil
	}

	t.df = dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if t.df.Err != nil {
		return nil, &DataLoadError{File: path, Err: t.df.Err}
	}
	return t, nil
}

func (t *table) rows() int {
	if t.empty {
		return 0
	}
	return t.df.Nrow()
}

func (t *table) has(col string) bool { return t.cols[col] }

func (t *table) records(col string) []string {
	if t.empty {
		return nil
	}
	return t.df.Col(col).Records()
}

func (t *table) strings(col string) []string {
	records := t.records(col)
	for i, v := range records {
		if isMissing(v) {
			records[i] = ""
		}
	}
	return records
}

func (t *table) states(col string) []models.StateCode {
	records := t.strings(col)
	out := make([]models.StateCode, len(records))
	for i, v := range records {
		out[i] = models.StateCode(strings.ToUpper(strings.TrimSpace(v)))
	}
	return out
}

// floats converts a column to float64. With optional set, empty cells become NaN; otherwise
// they are a load error. Infinities are always a load error.
func (t *table) floats(col string, optional bool) ([]float64, error) {
	records := t.records(col)
	out := make([]float64, len(records))
	for i, v := range records {
		v = strings.TrimSpace(v)
		if isMissing(v) {
			if optional {
				out[i] = math.NaN()
				continue
			}
			return nil, &DataLoadError{File: t.path, Column: col, Row: i + 1, Err: fmt.Errorf("empty value")}
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &DataLoadError{File: t.path, Column: col, Row: i + 1, Err: err}
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, &DataLoadError{File: t.path, Column: col, Row: i + 1, Err: ErrNonFinite}
		}
		out[i] = f
	}
	return out, nil
}

// counts converts a column of whole, non-negative numbers. Pandas exports counts as "12" or
// "12.0" depending on upstream dtype, so both are accepted.
func (t *table) counts(col string) ([]int64, error) {
	values, err := t.floats(col, false)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(values))
	for i, v := range values {
		if v < 0 {
			return nil, &DataLoadError{File: t.path, Column: col, Row: i + 1, Err: ErrNegativeValue}
		}
		if v != math.Trunc(v) {
			return nil, &DataLoadError{File: t.path, Column: col, Row: i + 1, Err: fmt.Errorf("%v is not a whole count", v)}
		}
		out[i] = int64(v)
	}
	return out, nil
}

func (t *table) times(col string) ([]time.Time, error) {
	records := t.records(col)
	out := make([]time.Time, len(records))
	for i, v := range records {
		ts, err := utils.ParseTimestamp(v)
		if err != nil {
			return nil, &DateParseError{File: t.path, Row: i + 1, Value: v, Err: err}
		}
		out[i] = ts
	}
	return out, nil
}

func isMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NaN", "nan", "NA", "<nil>":
		return true
	}
	return false
}

// api/models/dashboard.go
package models

import (
	"time"
)

// StateCode is a two-letter Brazilian state code ("SP", "RJ", ...). It is the join key between
// the per-state tables and the boundary file's properties.sigla.
type StateCode string

// PaymentType is one of the Olist payment methods.
type PaymentType string

const (
	PaymentBoleto     PaymentType = "boleto"
	PaymentCreditCard PaymentType = "credit_card"
	PaymentDebitCard  PaymentType = "debit_card"
	PaymentVoucher    PaymentType = "voucher"
)

// PaymentTypes lists the known payment methods in the column order of the payment pivot file.
var PaymentTypes = []PaymentType{PaymentBoleto, PaymentCreditCard, PaymentDebitCard, PaymentVoucher}

// Known reports whether p is one of the four payment methods.
func (p PaymentType) Known() bool {
	switch p {
	case PaymentBoleto, PaymentCreditCard, PaymentDebitCard, PaymentVoucher:
		return true
	}
	return false
}

type CustomerLocation struct {
	State         StateCode `json:"state"`
	CustomerCount int64     `json:"customer_count"`
}

type SellerLocation struct {
	State       StateCode `json:"state"`
	SellerCount int64     `json:"seller_count"`
}

// StatePayments is one row of the wide payment pivot: counts per payment method for a state.
type StatePayments struct {
	State                   StateCode `json:"state"`
	FinancialInclusionRatio float64   `json:"financial_inclusion_ratio"`
	Boleto                  float64   `json:"boleto"`
	CreditCard              float64   `json:"credit_card"`
	DebitCard               float64   `json:"debit_card"`
	Voucher                 float64   `json:"voucher"`
}

// Count returns the wide column value for a payment type, or 0 for an unknown type.
func (p StatePayments) Count(t PaymentType) float64 {
	switch t {
	case PaymentBoleto:
		return p.Boleto
	case PaymentCreditCard:
		return p.CreditCard
	case PaymentDebitCard:
		return p.DebitCard
	case PaymentVoucher:
		return p.Voucher
	}
	return 0
}

// StatePaymentCount is the long (melted) form of StatePayments.
type StatePaymentCount struct {
	State       StateCode   `json:"state"`
	PaymentType PaymentType `json:"payment_type"`
	Count       float64     `json:"count"`
}

type StateCategory struct {
	State    StateCode `json:"state"`
	Category string    `json:"product_category_name"`
	Count    int64     `json:"count"`
}

// RFMScore is one customer's precomputed recency/frequency/monetary values and segment label.
type RFMScore struct {
	CustomerID string  `json:"customer_id,omitempty"`
	Recency    float64 `json:"Recency"`
	Frequency  float64 `json:"Frequency"`
	Monetary   float64 `json:"Monetary"`
	Segment    string  `json:"Segment"`
}

// ReviewRecord is one order review. ReviewScore is NaN when the source cell was empty.
type ReviewRecord struct {
	Category    string    `json:"product_category_name"`
	ReviewScore float64   `json:"review_score"`
	PurchasedAt time.Time `json:"order_purchase_timestamp"`
}

func (r ReviewRecord) PurchaseTime() time.Time { return r.PurchasedAt }

// PaymentRecord is one payment transaction. Installments is NaN when the source cell was empty.
type PaymentRecord struct {
	Category     string      `json:"product_category_name"`
	PaymentType  PaymentType `json:"payment_type"`
	Installments float64     `json:"payment_installments"`
	PurchasedAt  time.Time   `json:"order_purchase_timestamp"`
}

func (p PaymentRecord) PurchaseTime() time.Time { return p.PurchasedAt }

// CategoryMean is a per-category average, used for review scores and installments.
type CategoryMean struct {
	Category string  `json:"product_category_name"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

// LabelCount is one bar of a categorical count plot.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HistogramBin is one equal-width bin; the last bin also holds values equal to End.
type HistogramBin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count float64 `json:"count"`
}

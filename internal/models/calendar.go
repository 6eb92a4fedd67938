package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind identifies where a calendar payment comes from
type PaymentKind string

const (
	PaymentKindMinimum PaymentKind = "minimum_payment"
	PaymentKindExpense PaymentKind = "expense"
)

// ScheduledPayment is a payment due on a calendar day
type ScheduledPayment struct {
	Kind     PaymentKind     `json:"type"`
	SourceID int64           `json:"source_id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category,omitempty"`
}

// CalendarDay lists the payments due on one date
type CalendarDay struct {
	Date        time.Time
	Payments    []ScheduledPayment
	TotalAmount decimal.Decimal
}

func (c CalendarDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date        string             `json:"date"`
		Payments    []ScheduledPayment `json:"payments"`
		TotalAmount string             `json:"total_amount"`
	}{
		Date:        c.Date.Format(DateLayout),
		Payments:    c.Payments,
		TotalAmount: c.TotalAmount.StringFixed(2),
	})
}

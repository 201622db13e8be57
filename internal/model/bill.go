package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the lifecycle state of a stored bill.
type BillStatus string

const (
	StatusActive BillStatus = "active"
	StatusPaid   BillStatus = "paid"
)

// DisplayTimeFormat is how bill timestamps are shown to users.
const DisplayTimeFormat = "01/02/2006 15:04"

// Bill is one recorded household expense.
type Bill struct {
	ID        int64
	Name      string
	Amount    decimal.Decimal // always quantized to cents
	Payer     Participant
	CreatedAt time.Time
	Paid      bool
}

// IsRent reports whether the bill uses the weighted rent split.
func (b Bill) IsRent() bool {
	return strings.EqualFold(strings.TrimSpace(b.Name), "rent")
}

// Status derives the lifecycle state from the paid flag.
func (b Bill) Status() BillStatus {
	if b.Paid {
		return StatusPaid
	}
	return StatusActive
}

// DisplayAmount renders the amount as "$1234.50".
func (b Bill) DisplayAmount() string {
	return "$" + b.Amount.StringFixed(2)
}

// DisplayTime renders the creation time in local time.
func (b Bill) DisplayTime() string {
	return b.CreatedAt.Local().Format(DisplayTimeFormat)
}

package view

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a validated amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatMoney renders an amount received from the API.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatDate renders a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

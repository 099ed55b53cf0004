package transaction

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// AmountPolicy decides whether a submitted amount is acceptable. The upload
// pipeline and the API apply different policies on purpose: imported rows
// must carry a strictly positive amount, while the API tolerates zero-amount
// adjustment entries. The two rules stay separate; do not unify them.
type AmountPolicy int

const (
	// StrictPositiveAmount accepts finite amounts greater than zero.
	StrictPositiveAmount AmountPolicy = iota
	// NonNegativeAmount accepts finite amounts of zero or more.
	NonNegativeAmount
)

// Check validates an amount under the policy.
func (p AmountPolicy) Check(amount float64) error {
	finite := !math.IsNaN(amount) && !math.IsInf(amount, 0)

	switch p {
	case NonNegativeAmount:
		if finite && amount >= 0 {
			return nil
		}

		return &ValidationError{Message: fmt.Sprintf("Invalid amount: %s. Must be a non-negative number", formatAmount(amount))}
	default:
		if finite && amount > 0 {
			return nil
		}

		return &ValidationError{Message: fmt.Sprintf("Invalid amount: %s. Must be a positive number", formatAmount(amount))}
	}
}

// ValidationError reports the first field rule a submitted transaction
// failed. The message is user-facing and stable; clients display it verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// MaxDescriptionLen is the longest accepted description, in characters.
const MaxDescriptionLen = 200

// dateLayouts are tried in order when parsing a submitted date.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
}

// ParseDate parses a date string against the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}

// Validate checks the draft's fields in a fixed order and stops at the first
// failure. It returns either fully populated CreateParams or a
// *ValidationError, never a partial result.
func (d Draft) Validate(policy AmountPolicy) (CreateParams, error) {
	if d.Type != string(TypeIncome) && d.Type != string(TypeExpense) {
		return CreateParams{}, &ValidationError{Message: fmt.Sprintf("Invalid type: %s. Must be 'income' or 'expense'", d.Type)}
	}

	if err := policy.Check(d.Amount); err != nil {
		return CreateParams{}, err
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		return CreateParams{}, &ValidationError{Message: "Category is required"}
	}

	date, err := ParseDate(d.Date)
	if err != nil {
		return CreateParams{}, &ValidationError{Message: fmt.Sprintf("Invalid date format: %s", d.Date)}
	}

	description := strings.TrimSpace(d.Description)
	if description == "" {
		return CreateParams{}, &ValidationError{Message: "Description is required"}
	}

	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return CreateParams{}, &ValidationError{Message: fmt.Sprintf("Description must not exceed %d characters", MaxDescriptionLen)}
	}

	return CreateParams{
		Type:        Type(d.Type),
		Amount:      decimal.NewFromFloat(d.Amount),
		Category:    category,
		Date:        date,
		Description: description,
	}, nil
}

// formatAmount renders an amount the way it was submitted: plain notation,
// no trailing zeros. Inf and NaN keep their usual spelling.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

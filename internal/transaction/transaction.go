package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the direction of a transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Transaction represents a persisted financial transaction.
type Transaction struct {
	ID          uuid.UUID
	Type        Type
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Draft holds the untrusted fields of one submitted transaction, as they
// arrive from an uploaded row or over the wire. Validate converts a Draft
// into CreateParams; the two representations never mix.
type Draft struct {
	Type        string
	Amount      float64
	Category    string
	Date        string
	Description string
}

// SchemaViolation is reported by the store when the database rejects a
// record for violating a schema constraint. The schema enforces the same
// field rules as Draft.Validate, as a backstop.
type SchemaViolation struct {
	Constraint string
	Message    string
}

func (e *SchemaViolation) Error() string { return e.Message }

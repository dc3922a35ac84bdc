package expense

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// amountScale matches the numeric(12,2) column.
const amountScale = 2

// MarshalJSON writes amount as a JSON number with two decimals.
func (e Expense) MarshalJSON() ([]byte, error) {
	type plain Expense
	return json.Marshal(struct {
		plain
		Amount json.Number `json:"amount"`
	}{plain(e), json.Number(e.Amount.StringFixed(amountScale))})
}

// Page is one page of a user's expenses, newest first.
type Page struct {
	Expenses      []Expense `json:"expenses"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalExpenses int       `json:"totalExpenses"`
}

// NewExpense holds the fields accepted when recording an expense.
type NewExpense struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        *time.Time // nil means now
}

// Patch holds the fields to change; nil and empty values are left alone.
type Patch struct {
	Description *string
	Amount      *decimal.Decimal
	Category    *string
	Date        *time.Time
}

func (p Patch) apply(e *Expense) {
	if p.Description != nil && *p.Description != "" {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil && *p.Category != "" {
		e.Category = *p.Category
	}
	if p.Date != nil && !p.Date.IsZero() {
		e.Date = p.Date.UTC()
	}
}

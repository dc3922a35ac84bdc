package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Order statuses as stored in orders.status.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusSuccessful = "SUCCESSFUL"
	OrderStatusFailed     = "FAILED"
)

// User is the users table row.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                  uuid.UUID  `bun:"id,pk,type:uuid"`
	Name                string     `bun:"name,notnull"`
	Email               string     `bun:"email,notnull,unique"`
	PasswordHash        string     `bun:"password_hash,notnull"`
	IsPremium           bool       `bun:"is_premium,notnull"`
	ResetPasswordToken  *string    `bun:"reset_password_token"`
	ResetPasswordExpire *time.Time `bun:"reset_password_expire"`
	CreatedAt           time.Time  `bun:"created_at,notnull"`
	UpdatedAt           time.Time  `bun:"updated_at,notnull"`
}

// Expense is the expenses table row.
type Expense struct {
	bun.BaseModel `bun:"table:expenses,alias:e"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid"`
	UserID      uuid.UUID       `bun:"user_id,notnull,type:uuid"`
	Description string          `bun:"description,notnull"`
	Amount      decimal.Decimal `bun:"amount,notnull,type:numeric(12,2)"`
	Category    string          `bun:"category,notnull"`
	Date        time.Time       `bun:"date,notnull"`
	CreatedAt   time.Time       `bun:"created_at,notnull"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull"`
}

// Order is the orders table row: the local ledger of gateway orders.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	OrderID   string    `bun:"order_id,notnull,unique"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	Amount    int64     `bun:"amount,notnull"`
	Currency  string    `bun:"currency,notnull"`
	Receipt   string    `bun:"receipt,notnull"`
	Status    string    `bun:"status,notnull"`
	PaymentID *string   `bun:"payment_id"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Models lists every table model, in creation order.
func Models() []any {
	return []any{(*User)(nil), (*Expense)(nil), (*Order)(nil)}
}

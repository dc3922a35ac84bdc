package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/expense-api/internal/database"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderNotOwned = errors.New("order belongs to another user")
	ErrOrderClosed   = errors.New("order was already paid with a different payment")
)

// OrderRepository is the local ledger of gateway orders.
type OrderRepository struct {
	db bun.IDB
}

func NewOrderRepository(db bun.IDB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *Order) error {
	row := &database.Order{
		ID:        o.ID,
		OrderID:   o.OrderID,
		UserID:    o.UserID,
		Amount:    o.Amount,
		Currency:  o.Currency,
		Receipt:   o.Receipt,
		Status:    o.Status,
		PaymentID: o.PaymentID,
		CreatedAt: o.CreatedAt.UTC(),
		UpdatedAt: o.UpdatedAt.UTC(),
	}
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*Order, error) {
	return getByOrderID(ctx, r.db, orderID)
}

// MarkPaid records paymentID against orderID and grants userID premium, in one
// transaction. An order already paid with the same paymentID is reported with
// upgraded=false and nothing changes.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID string, userID uuid.UUID, paymentID string, now time.Time) (upgraded bool, err error) {
	now = now.UTC()

	err = r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		o, err := getByOrderID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return ErrOrderNotOwned
		}
		if o.Status == database.OrderStatusSuccessful {
			if o.PaymentID != nil && *o.PaymentID == paymentID {
				upgraded = false
				return nil
			}
			return ErrOrderClosed
		}

		// FAILED only means nobody paid in time; a captured payment still counts.
		result, err := tx.NewUpdate().
			Model((*database.Order)(nil)).
			Set("status = ?", database.OrderStatusSuccessful).
			Set("payment_id = ?", paymentID).
			Set("updated_at = ?", now).
			Where("order_id = ?", orderID).
			Where("status <> ?", database.OrderStatusSuccessful).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		} else if n == 0 {
			// a concurrent verification won
			return ErrOrderClosed
		}

		result, err = tx.NewUpdate().
			Model((*database.User)(nil)).
			Set("is_premium = ?", true).
			Set("updated_at = ?", now).
			Where("id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to grant premium: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		} else if n == 0 {
			return fmt.Errorf("grant premium: user %s not found", userID)
		}

		upgraded = true
		return nil
	})

	return upgraded, err
}

// ExpireStale marks PENDING orders created before cutoff as FAILED.
func (r *OrderRepository) ExpireStale(ctx context.Context, cutoff, now time.Time) (int64, error) {
	result, err := r.db.NewUpdate().
		Model((*database.Order)(nil)).
		Set("status = ?", database.OrderStatusFailed).
		Set("updated_at = ?", now.UTC()).
		Where("status = ?", database.OrderStatusPending).
		Where("created_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to expire orders: %w", err)
	}
	return result.RowsAffected()
}

func getByOrderID(ctx context.Context, db bun.IDB, orderID string) (*Order, error) {
	row := new(database.Order)
	err := db.NewSelect().
		Model(row).
		Where("order_id = ?", orderID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &Order{
		ID:        row.ID,
		OrderID:   row.OrderID,
		UserID:    row.UserID,
		Amount:    row.Amount,
		Currency:  row.Currency,
		Receipt:   row.Receipt,
		Status:    row.Status,
		PaymentID: row.PaymentID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/expense-api/internal/database"
)

var ErrNotFound = errors.New("expense not found")

// Repository handles expense persistence
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, e *Expense) error {
	row := mapModelToDB(e)
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Expense, error) {
	row := new(database.Expense)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return mapDBToModel(row), nil
}

// Update overwrites the mutable columns of e.
func (r *Repository) Update(ctx context.Context, e *Expense) error {
	result, err := r.db.NewUpdate().
		Model((*database.Expense)(nil)).
		Set("description = ?", e.Description).
		Set("amount = ?", e.Amount).
		Set("category = ?", e.Category).
		Set("date = ?", e.Date.UTC()).
		Set("updated_at = ?", e.UpdatedAt.UTC()).
		Where("id = ?", e.ID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	return requireOneRow(result)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Expense)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return requireOneRow(result)
}

// ListByUser returns up to limit expenses of userID starting at offset, newest first.
// A limit of zero or less returns every expense.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Expense, error) {
	var rows []database.Expense
	q := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("date DESC", "created_at DESC")

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := make([]Expense, 0, len(rows))
	for i := range rows {
		expenses = append(expenses, *mapDBToModel(&rows[i]))
	}
	return expenses, nil
}

func (r *Repository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := r.db.NewSelect().
		Model((*database.Expense)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return n, nil
}

func requireOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func mapDBToModel(row *database.Expense) *Expense {
	return &Expense{
		ID:          row.ID,
		UserID:      row.UserID,
		Description: row.Description,
		Amount:      row.Amount,
		Category:    row.Category,
		Date:        row.Date,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func mapModelToDB(e *Expense) *database.Expense {
	return &database.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date.UTC(),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

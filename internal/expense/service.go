package expense

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/expense-api/internal/logging"
)

var (
	ErrNotOwner      = errors.New("not authorized")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrNoExpenses    = errors.New("no expenses found")
)

var csvHeader = []string{"description", "amount", "category", "date"}

// Service implements expense bookkeeping for a single owner per record.
type Service struct {
	repo      *Repository
	logger    *logging.Logger
	exportDir string
	now       func() time.Time
}

func NewService(repo *Repository, logger *logging.Logger, exportDir string) *Service {
	if exportDir == "" {
		exportDir = os.TempDir()
	}
	return &Service{
		repo:      repo,
		logger:    logger,
		exportDir: exportDir,
		now:       time.Now,
	}
}

// List returns one page of the user's expenses, newest first.
// Pages past the end come back empty; only existing pages compute an offset.
func (s *Service) List(ctx context.Context, userID uuid.UUID, page, limit int) (*Page, error) {
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	expenses := []Expense{}
	if page <= totalPages(total, limit) {
		expenses, err = s.repo.ListByUser(ctx, userID, (page-1)*limit, limit)
		if err != nil {
			return nil, err
		}
	}

	return &Page{
		Expenses:      expenses,
		CurrentPage:   page,
		TotalPages:    totalPages(total, limit),
		TotalExpenses: total,
	}, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in NewExpense) (*Expense, error) {
	amount := in.Amount.Round(amountScale)
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	now := s.now().UTC()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}

	e := &Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Category:    strings.TrimSpace(in.Category),
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update applies patch to an expense owned by userID.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, patch Patch) (*Expense, error) {
	if patch.Amount != nil {
		amount := patch.Amount.Round(amountScale)
		if !amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		patch.Amount = &amount
	}

	e, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	patch.apply(e)
	e.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Export is a CSV file on disk. Close removes it.
type Export struct {
	File     *os.File
	Filename string
	ModTime  time.Time
}

// Close closes and deletes the export file.
func (x *Export) Close() error {
	closeErr := x.File.Close()
	if err := os.Remove(x.File.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove export: %w", err)
	}
	return closeErr
}

// ExportCSV writes every expense of userID, newest first, to a temporary CSV
// file and returns it rewound to the start. The caller must Close the export.
func (s *Service) ExportCSV(ctx context.Context, userID uuid.UUID) (_ *Export, err error) {
	expenses, err := s.repo.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, ErrNoExpenses
	}

	f, err := os.CreateTemp(s.exportDir, userID.String()+"_expenses-*.csv")
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	x := &Export{File: f, Filename: userID.String() + "_expenses.csv", ModTime: s.now()}
	defer func() {
		if err != nil {
			if cerr := x.Close(); cerr != nil {
				s.logger.Warn("failed to clean up export file", "path", f.Name(), "error", cerr)
			}
		}
	}()

	if err := WriteCSV(f, expenses); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind export file: %w", err)
	}

	return x, nil
}

// WriteCSV writes the export header and one row per expense.
func WriteCSV(w io.Writer, expenses []Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.Description,
			e.Amount.StringFixed(2),
			e.Category,
			e.Date.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, userID, id uuid.UUID) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, ErrNotOwner
	}
	return e, nil
}

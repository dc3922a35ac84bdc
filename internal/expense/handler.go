package expense

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/redmonkez12/expense-api/internal/auth"
	"github.com/redmonkez12/expense-api/internal/httputil"
	"github.com/redmonkez12/expense-api/internal/logging"
)

// Handler contains HTTP handlers for expense endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateExpenseRequest represents the add-expense request body
type CreateExpenseRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	Category    string          `json:"category" validate:"required,max=100"`
	Date        string          `json:"date,omitempty"` // RFC 3339 or YYYY-MM-DD
}

// UpdateExpenseRequest represents a partial update; omitted fields are unchanged
type UpdateExpenseRequest struct {
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Amount      *decimal.Decimal `json:"amount,omitempty" swaggertype:"number"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Date        *string          `json:"date,omitempty"`
}

// List returns the caller's expenses a page at a time
// @Summary      List expenses
// @Description  Page through the caller's expenses, newest first
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size (max 100)" default(5)
// @Success      200 {object} Page
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /expenses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, limit := ParsePage(r.URL.Query().Get("page"), r.URL.Query().Get("limit"))

	result, err := h.service.List(r.Context(), userID, page, limit)
	if err != nil {
		logger.Error("failed to list expenses", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, result, http.StatusOK)
}

// Create records a new expense
// @Summary      Add expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateExpenseRequest true "Expense"
// @Success      201 {object} Expense
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateExpenseRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	in := NewExpense{Description: req.Description, Amount: req.Amount, Category: req.Category}
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		in.Date = &d
	}

	e, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		logger.Error("failed to create expense", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, e, http.StatusCreated)
}

// Update changes the supplied fields of an expense
// @Summary      Update expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string               true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Fields to change"
// @Success      200 {object} Expense
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse "Not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Expense not found"
// @Router       /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	var req UpdateExpenseRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	patch := Patch{Description: req.Description, Amount: req.Amount, Category: req.Category}
	if req.Date != nil && *req.Date != "" {
		d, err := parseDate(*req.Date)
		if err != nil {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		patch.Date = &d
	}

	e, err := h.service.Update(r.Context(), userID, id, patch)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	httputil.RespondJSON(w, e, http.StatusOK)
}

// Delete removes an expense
// @Summary      Delete expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Expense ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      403 {object} httputil.ErrorResponse "Not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Expense not found"
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	httputil.RespondMessage(w, "Expense removed", http.StatusOK)
}

// Download streams every expense as a CSV attachment
// @Summary      Download expenses as CSV
// @Description  Premium members only
// @Tags         expenses
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200 {file} file
// @Failure      403 {object} httputil.ErrorResponse "Premium membership required"
// @Failure      404 {object} httputil.ErrorResponse "No expenses found"
// @Router       /expenses/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	export, err := h.service.ExportCSV(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoExpenses) {
			httputil.RespondErrorWithCode(w, "No expenses found", httputil.CodeNoExpenses, http.StatusNotFound)
			return
		}
		logger.Error("failed to export expenses", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := export.Close(); err != nil {
			logger.Warn("failed to remove export file", "error", err.Error())
		}
	}()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	http.ServeContent(w, r, export.Filename, export.ModTime, export.File)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "Expense not found", httputil.CodeExpenseNotFound, http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		httputil.RespondErrorWithCode(w, "Not authorized", httputil.CodeNotOwner, http.StatusForbidden)
	case errors.Is(err, ErrInvalidAmount):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
	default:
		logging.GetLoggerFromContext(r.Context()).Error("expense operation failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
	}
	return userID, ok
}

// expenseID parses the {id} path parameter. A malformed id cannot name an
// expense, so it is reported as not found.
func expenseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "Expense not found", httputil.CodeExpenseNotFound, http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date must be RFC 3339 or YYYY-MM-DD, got %q", raw)
}

package payment

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/expense-api/internal/auth"
	"github.com/redmonkez12/expense-api/internal/httputil"
	"github.com/redmonkez12/expense-api/internal/logging"
)

// Handler contains HTTP handlers for payment endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// VerifyRequest carries the fields the gateway's checkout returns to the client.
// Amount or currency fields sent alongside are ignored.
type VerifyRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// VerifyResponse acknowledges a verified payment
type VerifyResponse struct {
	Message  string `json:"message"`
	Upgraded bool   `json:"upgraded"`
}

// CreateOrder opens a premium order with the gateway
// @Summary      Create payment order
// @Description  Open a premium membership order; the gateway's order descriptor is returned unchanged
// @Tags         payment
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} GatewayOrder
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.UpstreamErrorResponse "Error creating order"
// @Router       /payment/create-order [post]
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID)
	if err != nil {
		logger.Error("failed to create order", "error", err.Error())
		if errors.Is(err, ErrGateway) {
			// relay the provider's own message when there is one
			var upstream error = err
			var gwErr *GatewayError
			if errors.As(err, &gwErr) {
				upstream = gwErr
			}
			httputil.RespondUpstreamError(w, "Error creating order", upstream)
			return
		}
		httputil.RespondErrorWithCode(w, "Error creating order", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondRawJSON(w, order.Raw, http.StatusOK)
}

// Verify checks the gateway signature and grants premium
// @Summary      Verify payment
// @Description  Verify the gateway signature for an order and upgrade the caller to premium
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body VerifyRequest true "Gateway checkout result"
// @Success      200 {object} VerifyResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid signature"
// @Failure      403 {object} httputil.ErrorResponse "Order belongs to another user"
// @Failure      404 {object} httputil.ErrorResponse "Order not found"
// @Failure      409 {object} httputil.ErrorResponse "Order already settled"
// @Router       /payment/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req VerifyRequest
	if !httputil.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.Verify(r.Context(), userID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			httputil.RespondErrorWithCode(w, "Invalid signature", httputil.CodeInvalidSignature, http.StatusBadRequest)
		case errors.Is(err, ErrOrderNotFound):
			httputil.RespondErrorWithCode(w, "Order not found", httputil.CodeOrderNotFound, http.StatusNotFound)
		case errors.Is(err, ErrOrderNotOwned):
			httputil.RespondErrorWithCode(w, "Order belongs to another user", httputil.CodeOrderNotOwned, http.StatusForbidden)
		case errors.Is(err, ErrOrderClosed):
			httputil.RespondErrorWithCode(w, "Order already settled", httputil.CodeOrderClosed, http.StatusConflict)
		default:
			logger.Error("payment verification failed", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Payment verification failed", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	httputil.RespondJSON(w, VerifyResponse{Message: "Payment successful", Upgraded: result.Upgraded}, http.StatusOK)
}

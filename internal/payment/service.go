package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/database"
	"github.com/redmonkez12/expense-api/internal/logging"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrGateway          = errors.New("payment gateway error")
)

// Service creates premium orders and settles them on a valid gateway signature.
type Service struct {
	gateway   Gateway
	orders    *OrderRepository
	keySecret string
	amount    int64
	currency  string
	logger    *logging.Logger
	now       func() time.Time
}

func NewService(gateway Gateway, orders *OrderRepository, cfg config.PaymentConfig, logger *logging.Logger) *Service {
	return &Service{
		gateway:   gateway,
		orders:    orders,
		keySecret: cfg.KeySecret,
		amount:    cfg.Amount,
		currency:  cfg.Currency,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder opens a premium order with the gateway for userID and records
// it as PENDING. The gateway's descriptor is returned untouched.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID) (*GatewayOrder, error) {
	now := s.now()
	req := OrderRequest{
		Amount:   s.amount,
		Currency: s.currency,
		Receipt:  "receipt_order_" + strconv.FormatInt(now.UnixMilli(), 10),
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	order := &Order{
		ID:        uuid.New(),
		OrderID:   gwOrder.ID,
		UserID:    userID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Receipt:   req.Receipt,
		Status:    database.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("payment order created", "order_id", gwOrder.ID, "user_id", userID)
	return gwOrder, nil
}

// Verify checks the gateway signature for (orderID, paymentID) and, when it
// matches, marks the order paid and upgrades userID to premium. A mismatch
// changes nothing.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, orderID, paymentID, signature string) (*Verification, error) {
	if !VerifySignature(s.keySecret, orderID, paymentID, signature) {
		s.logger.Warn("payment signature mismatch", "order_id", orderID, "user_id", userID)
		return nil, ErrInvalidSignature
	}

	upgraded, err := s.orders.MarkPaid(ctx, orderID, userID, paymentID, s.now())
	if err != nil {
		return nil, err
	}

	if upgraded {
		s.logger.Info("user upgraded to premium", "order_id", orderID, "user_id", userID)
	} else {
		s.logger.Info("payment already verified", "order_id", orderID, "user_id", userID)
	}

	return &Verification{OrderID: orderID, PaymentID: paymentID, Upgraded: upgraded}, nil
}

// ExpireStale fails PENDING orders older than maxAge.
func (s *Service) ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	now := s.now()
	return s.orders.ExpireStale(ctx, now.Add(-maxAge), now)
}

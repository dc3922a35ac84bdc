package payment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Order is a gateway order as recorded locally.
type Order struct {
	ID        uuid.UUID `json:"id"`
	OrderID   string    `json:"orderId"`
	UserID    uuid.UUID `json:"userId"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Receipt   string    `json:"receipt"`
	Status    string    `json:"status"`
	PaymentID *string   `json:"paymentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderRequest is the body sent to the gateway's create-order endpoint.
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// GatewayOrder is the gateway's order descriptor. Raw holds the response
// exactly as received so it can be relayed to the client unchanged.
type GatewayOrder struct {
	ID       string          `json:"id"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Receipt  string          `json:"receipt"`
	Status   string          `json:"status"`
	Raw      json.RawMessage `json:"-"`
}

// Verification is the outcome of a successful signature check.
type Verification struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	// Upgraded is false when the order had already been verified.
	Upgraded bool `json:"upgraded"`
}

package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/expense-api/internal/auth"
	"github.com/redmonkez12/expense-api/internal/config"
	"github.com/redmonkez12/expense-api/internal/httputil"
	"github.com/redmonkez12/expense-api/internal/logging"
	"github.com/redmonkez12/expense-api/internal/testutil"
)

func newPaymentRouter(t *testing.T, gw Gateway) (http.Handler, uuid.UUID) {
	db := testutil.NewDB(t)
	svc := NewService(gw, NewOrderRepository(db), config.PaymentConfig{KeySecret: testSecret, Amount: 50000, Currency: "INR"}, logging.Discard())
	h := NewHandler(svc)
	buyer := testutil.SeedUser(t, db, "hash", false)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), buyer.ID)))
		})
	})
	r.Post("/create-order", h.CreateOrder)
	r.Post("/verify", h.Verify)
	return r, buyer.ID
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateOrderRelaysDescriptor(t *testing.T) {
	router, _ := newPaymentRouter(t, &fakeGateway{})

	rec := post(router, "/create-order", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "order_1", body["id"])
	assert.Equal(t, "order", body["entity"])
	assert.Equal(t, float64(50000), body["amount"])
}

func TestHandlerCreateOrderGatewayError(t *testing.T) {
	router, _ := newPaymentRouter(t, &fakeGateway{err: &GatewayError{StatusCode: 401, Description: "Authentication failed"}})

	rec := post(router, "/create-order", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body httputil.UpstreamErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Error creating order", body.Message)
	assert.Equal(t, "Authentication failed", body.Error)
}

func TestHandlerVerify(t *testing.T) {
	router, _ := newPaymentRouter(t, &fakeGateway{})
	require.Equal(t, http.StatusOK, post(router, "/create-order", "").Code)

	bad := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"deadbeef"}`
	rec := post(router, "/verify", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
	assert.Equal(t, "Invalid signature", errBody.Error)

	rec = post(router, "/verify", `{"razorpay_order_id":"order_1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	good := `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"` +
		Sign(testSecret, "order_1", "pay_1") + `","amount":1,"currency":"USD"}`
	rec = post(router, "/verify", good)
	require.Equal(t, http.StatusOK, rec.Code)
	var ok VerifyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ok))
	assert.Equal(t, "Payment successful", ok.Message)
	assert.True(t, ok.Upgraded)

	rec = post(router, "/verify", good)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ok))
	assert.False(t, ok.Upgraded)
}

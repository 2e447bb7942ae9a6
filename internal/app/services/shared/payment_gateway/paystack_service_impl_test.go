package payment_gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func newTestService(server *httptest.Server) *paystackService {
	return &paystackService{
		BaseUrl:    server.URL,
		SecretKey:  "sk_test",
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
		Log:        zap.NewNop(),
	}
}

func TestInitializeTransaction_SendsAmountAndIdempotencyKey(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.example/abc","access_code":"abc","reference":"TXN-1"}}`))
	}))
	defer server.Close()

	svc := newTestService(server)
	result, err := svc.InitializeTransaction(context.Background(), &requests.PaymentInitialization{
		Email:          "ada@example.com",
		AmountKobo:     250050,
		Reference:      "TXN-1",
		CallbackURL:    "http://localhost:3000/checkout/callback",
		IdempotencyKey: "idem-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/abc", result.AuthorizationURL)
	assert.Equal(t, "abc", result.AccessCode)
	assert.Equal(t, "TXN-1", result.Reference)

	assert.Equal(t, "Bearer sk_test", gotHeaders.Get(constvars.HeaderAuthorization))
	assert.Equal(t, "idem-1", gotHeaders.Get(constvars.HeaderIdempotencyKey))
	assert.Equal(t, int64(250050), gjson.GetBytes(gotBody, "amount").Int())
	assert.False(t, gjson.GetBytes(gotBody, "IdempotencyKey").Exists())
}

func TestInitializeTransaction_GatewayErrorIsBadGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer server.Close()

	_, err := newTestService(server).InitializeTransaction(context.Background(), &requests.PaymentInitialization{Reference: "TXN-2"})
	require.Error(t, err)
	customErr, ok := err.(*exceptions.CustomError)
	require.True(t, ok)
	assert.Equal(t, constvars.StatusBadGateway, customErr.StatusCode)
	assert.Contains(t, customErr.DevMessage, "Invalid key")
}

func TestVerifyTransaction_ParsesData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/TXN-3", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"reference":"TXN-3","status":"success","amount":10000,"currency":"NGN","paid_at":"2024-06-01T10:00:00Z"}}`))
	}))
	defer server.Close()

	result, err := newTestService(server).VerifyTransaction(context.Background(), "TXN-3")
	require.NoError(t, err)
	assert.True(t, result.IsSuccessful())
	assert.Equal(t, int64(10000), result.AmountKobo)
	assert.Equal(t, "NGN", result.Currency)
}

func TestVerifyTransaction_EnvelopeStatusFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	}))
	defer server.Close()

	_, err := newTestService(server).VerifyTransaction(context.Background(), "TXN-4")
	assert.Error(t, err)
}

func TestVerifyTransaction_DeadlineExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestService(server).VerifyTransaction(ctx, "TXN-5")
	assert.Equal(t, context.DeadlineExceeded, err)
}

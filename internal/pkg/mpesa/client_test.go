package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Client{
		ConsumerKey:    "test-key",
		ConsumerSecret: "test-secret",
		ShortCode:      "174379",
		Passkey:        "test-passkey",
		CallbackURL:    "https://example.test/billing/mpesa/callback",
		TokenURL:       server.URL + "/oauth/v1/generate",
		STKPushURL:     server.URL + "/mpesa/stkpush/v1/processrequest",
		HTTPClient:     server.Client(),
		Now: func() time.Time {
			return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		},
	}, server
}

func TestClientPassword(t *testing.T) {
	c := &Client{ShortCode: "174379", Passkey: "secret"}
	timestamp := "20250301120000"

	want := base64.StdEncoding.EncodeToString([]byte("174379" + "secret" + timestamp))
	assert.Equal(t, want, c.Password(timestamp))
}

func TestClientSTKPush_Accepted(t *testing.T) {
	var gotPush stkPushRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "test-key", user)
		assert.Equal(t, "test-secret", pass)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "token-123",
			"expires_in":   "3599",
		})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPush))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"MerchantRequestID":   "29115-34620561-1",
			"CheckoutRequestID":   "ws_CO_191220191020363925",
			"ResponseCode":        "0",
			"ResponseDescription": "Success. Request accepted for processing",
			"CustomerMessage":     "Success. Request accepted for processing",
		})
	})

	c, _ := newTestClient(t, mux)

	resp, err := c.STKPush(context.Background(), "254712345678", decimal.RequireFromString("1500.00"), "INV-7", "Invoice payment")
	require.NoError(t, err)
	assert.True(t, resp.Accepted())
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)

	assert.Equal(t, "174379", gotPush.BusinessShortCode)
	assert.Equal(t, "20250301120000", gotPush.Timestamp)
	assert.Equal(t, c.Password("20250301120000"), gotPush.Password)
	assert.Equal(t, "CustomerPayBillOnline", gotPush.TransactionType)
	assert.Equal(t, "1500", gotPush.Amount)
	assert.Equal(t, "254712345678", gotPush.PhoneNumber)
	assert.Equal(t, "INV-7", gotPush.AccountReference)
}

func TestClientSTKPush_RejectsInvalidPhoneBeforeNetwork(t *testing.T) {
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	c, _ := newTestClient(t, handler)

	_, err := c.STKPush(context.Background(), "0712345678", decimal.RequireFromString("100"), "INV-1", "desc")
	assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
	assert.Zero(t, calls, "gateway must not be contacted for an invalid phone")
}

func TestClientSTKPush_GatewayError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "t", "expires_in": "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errorCode":"500.001.1001","errorMessage":"Unable to lock subscriber"}`))
	})

	c, _ := newTestClient(t, mux)

	_, err := c.STKPush(context.Background(), "254712345678", decimal.RequireFromString("100"), "INV-1", "desc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mpesa stk push failed")
}

func TestClientAccessToken_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorMessage":"Bad credentials"}`))
	})

	c, _ := newTestClient(t, handler)

	_, err := c.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mpesa token request failed")
}

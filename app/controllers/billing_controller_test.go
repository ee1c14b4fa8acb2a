package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/billing"
)

type stubBillingRepo struct {
	payment            *models.Payment
	invoiceStatus      string
	subscriptionStatus string
}

func (s *stubBillingRepo) GetInvoiceForCustomer(invoiceID, customerID uint) (*models.Invoice, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBillingRepo) CreatePayment(payment *models.Payment) error {
	s.payment = payment
	return nil
}

func (s *stubBillingRepo) GetPaymentByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error) {
	if s.payment != nil && s.payment.CheckoutRequestID == checkoutRequestID {
		return s.payment, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBillingRepo) SettlePayment(payment *models.Payment) error {
	s.payment = payment
	s.invoiceStatus = models.InvoiceStatusPaid
	s.subscriptionStatus = models.SubscriptionStatusActive
	return nil
}

func newCallbackTestApp(t *testing.T, repo *stubBillingRepo) *fiber.App {
	t.Helper()

	InitializeBillingController(billing.NewService(repo, nil))
	t.Cleanup(func() { InitializeBillingController(nil) })

	app := fiber.New()
	app.Post("/billing/mpesa/callback", HandleMpesaCallback)
	return app
}

func postCallback(t *testing.T, app *fiber.App, body string) (int, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, "/billing/mpesa/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

func TestHandleMpesaCallback_SettlesMatchedPayment(t *testing.T) {
	repo := &stubBillingRepo{
		payment: &models.Payment{
			ID:                1,
			InvoiceID:         7,
			AmountPaid:        decimal.RequireFromString("1500.00"),
			MpesaCode:         "PENDING-ws_CO_1",
			CheckoutRequestID: "ws_CO_1",
		},
		invoiceStatus:      models.InvoiceStatusPending,
		subscriptionStatus: models.SubscriptionStatusSuspended,
	}
	app := newCallbackTestApp(t, repo)

	status, out := postCallback(t, app, `{
		"Body": {"stkCallback": {
			"CheckoutRequestID": "ws_CO_1",
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"CallbackMetadata": {"Item": [
				{"Name": "Amount", "Value": 1500},
				{"Name": "MpesaReceiptNumber", "Value": "ABC123"}
			]}
		}}
	}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "ABC123", repo.payment.MpesaCode)
	assert.Equal(t, models.InvoiceStatusPaid, repo.invoiceStatus)
	assert.Equal(t, models.SubscriptionStatusActive, repo.subscriptionStatus)
}

func TestHandleMpesaCallback_UnknownTokenMutatesNothing(t *testing.T) {
	repo := &stubBillingRepo{invoiceStatus: models.InvoiceStatusPending}
	app := newCallbackTestApp(t, repo)

	status, out := postCallback(t, app, `{
		"Body": {"stkCallback": {
			"CheckoutRequestID": "ws_CO_unknown",
			"ResultCode": 0,
			"ResultDesc": "ok",
			"CallbackMetadata": {"Item": [
				{"Name": "Amount", "Value": 100},
				{"Name": "MpesaReceiptNumber", "Value": "ZZZ999"}
			]}
		}}
	}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "error", out["status"])
	assert.Equal(t, models.InvoiceStatusPending, repo.invoiceStatus)
}

func TestHandleMpesaCallback_FailedResultMutatesNothing(t *testing.T) {
	repo := &stubBillingRepo{
		payment: &models.Payment{
			CheckoutRequestID: "ws_CO_1",
			MpesaCode:         "PENDING-ws_CO_1",
		},
		invoiceStatus: models.InvoiceStatusPending,
	}
	app := newCallbackTestApp(t, repo)

	status, out := postCallback(t, app, `{
		"Body": {"stkCallback": {
			"CheckoutRequestID": "ws_CO_1",
			"ResultCode": 1032,
			"ResultDesc": "Request cancelled by user."
		}}
	}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "failed", out["status"])
	assert.Equal(t, "Request cancelled by user.", out["message"])
	assert.Equal(t, "PENDING-ws_CO_1", repo.payment.MpesaCode)
	assert.Equal(t, models.InvoiceStatusPending, repo.invoiceStatus)
}

func TestHandleMpesaCallback_MalformedBody(t *testing.T) {
	repo := &stubBillingRepo{}
	app := newCallbackTestApp(t, repo)

	status, out := postCallback(t, app, `{"not":"a callback"`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "error", out["status"])
	assert.Nil(t, repo.payment)
}

package billing

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/mpesa"
)

// Service implements the payment lifecycle: initiating an STK push for a
// pending invoice and reconciling the gateway's asynchronous callback
// against the recorded payment.
type Service struct {
	repo    Repository
	gateway Gateway
}

// NewService creates a billing service from injected collaborators.
func NewService(repo Repository, gateway Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// NewServiceFromDB creates a billing service from a GORM DB handle, using
// the env-configured M-Pesa client.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), mpesa.NewClientFromEnv())
}

// InitiatePayment validates the request, pushes the collection to the
// gateway and records the pending payment. The invoice stays PENDING until
// the callback settles it. On gateway failure no payment row is created.
func (s *Service) InitiatePayment(ctx context.Context, in InitiateInput) (*InitiateResult, error) {
	if err := mpesa.ValidatePhoneNumber(in.PhoneNumber); err != nil {
		return nil, err
	}

	invoice, err := s.repo.GetInvoiceForCustomer(in.InvoiceID, in.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if !invoice.IsPayable() {
		return nil, ErrInvoiceNotPayable
	}

	accountRef := fmt.Sprintf("INV-%d", invoice.ID)
	description := fmt.Sprintf("AdaKev invoice #%d", invoice.ID)

	resp, err := s.gateway.STKPush(ctx, in.PhoneNumber, invoice.Amount, accountRef, description)
	if err != nil {
		return nil, fmt.Errorf("stk push request failed: %w", err)
	}
	if !resp.Accepted() {
		return nil, &GatewayDeclinedError{Code: resp.ResponseCode, Description: resp.ResponseDescription}
	}

	payment := models.NewPendingPayment(invoice, in.PhoneNumber, resp.MerchantRequestID, resp.CheckoutRequestID)
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, err
	}

	return &InitiateResult{
		Payment:           payment,
		CheckoutRequestID: resp.CheckoutRequestID,
		CustomerMessage:   resp.CustomerMessage,
	}, nil
}

// SettleCallback applies a successful gateway callback: the pending payment
// matched by the correlation token is overwritten with the real receipt and
// amount, its invoice goes PENDING -> PAID and the subscription to ACTIVE.
// An unmatched token is ErrUnknownCorrelation with no side effects.
func (s *Service) SettleCallback(ctx context.Context, result *mpesa.CallbackResult) (*models.Payment, error) {
	_ = ctx
	if result == nil || !result.Success() {
		return nil, errors.New("settle requires a successful callback result")
	}

	payment, err := s.repo.GetPaymentByCheckoutRequestID(result.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCorrelation
		}
		return nil, err
	}

	amount := result.Amount
	if amount.IsZero() {
		amount = payment.AmountPaid
	}

	payment.Settle(result.ReceiptNumber, amount, result.TransactionDate)
	if result.PhoneNumber != "" {
		payment.PhoneNumber = result.PhoneNumber
	}

	if err := s.repo.SettlePayment(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

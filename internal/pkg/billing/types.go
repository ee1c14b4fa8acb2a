package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
	"github.com/ADAMSmugwe/adakev-isp/internal/pkg/mpesa"
)

// Gateway is the outbound payment collection surface the service depends on.
// *mpesa.Client satisfies it.
type Gateway interface {
	STKPush(ctx context.Context, phone string, amount decimal.Decimal, accountRef, description string) (*mpesa.STKPushResponse, error)
}

// InitiateInput carries a customer's request to collect one invoice.
type InitiateInput struct {
	CustomerID  uint
	InvoiceID   uint
	PhoneNumber string
}

// InitiateResult reports an accepted push back to the caller. The
// CheckoutRequestID is surfaced so the user can be told what to look for.
type InitiateResult struct {
	Payment           *models.Payment
	CheckoutRequestID string
	CustomerMessage   string
}

var (
	// ErrInvoiceNotFound covers both a missing invoice and one owned by
	// another customer; callers get no distinction.
	ErrInvoiceNotFound = errors.New("invoice not found or access denied")

	// ErrInvoiceNotPayable means the invoice is not in a PENDING state.
	ErrInvoiceNotPayable = errors.New("invoice is not awaiting payment")

	// ErrUnknownCorrelation means a callback referenced a CheckoutRequestID
	// no initiated payment carries.
	ErrUnknownCorrelation = errors.New("no pending payment matches the callback correlation token")
)

// GatewayDeclinedError carries the gateway's non-zero response to a push.
type GatewayDeclinedError struct {
	Code        string
	Description string
}

func (e *GatewayDeclinedError) Error() string {
	return fmt.Sprintf("gateway declined push: code=%s desc=%s", e.Code, e.Description)
}

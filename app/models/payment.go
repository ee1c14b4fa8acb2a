package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PendingCodePrefix marks a payment that has been pushed to the gateway but
// not yet confirmed by its callback. The placeholder embeds the gateway's
// CheckoutRequestID so the row stays unique until the real receipt arrives.
const PendingCodePrefix = "PENDING-"

// Payment is owned by exactly one invoice. A row is created when an STK push
// is accepted by the gateway and mutated in place when the callback settles
// it: the placeholder code and amount are overwritten, never deleted.
type Payment struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	InvoiceID         uint            `gorm:"not null;index" json:"invoice_id"`
	Invoice           Invoice         `gorm:"foreignKey:InvoiceID" json:"-"`
	AmountPaid        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	MpesaCode         string          `gorm:"type:varchar(40);not null;uniqueIndex" json:"mpesa_code"`
	CheckoutRequestID string          `gorm:"type:varchar(100);index" json:"checkout_request_id"`
	MerchantRequestID string          `gorm:"type:varchar(100)" json:"merchant_request_id"`
	PhoneNumber       string          `gorm:"type:varchar(15)" json:"phone_number"`
	TransactionDate   *time.Time      `gorm:"type:timestamp;default:null" json:"transaction_date,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewPendingPayment builds the INITIATED payment row for an accepted push.
func NewPendingPayment(invoice *Invoice, phone, merchantRequestID, checkoutRequestID string) *Payment {
	return &Payment{
		InvoiceID:         invoice.ID,
		AmountPaid:        invoice.Amount,
		MpesaCode:         PendingCodePrefix + checkoutRequestID,
		CheckoutRequestID: checkoutRequestID,
		MerchantRequestID: merchantRequestID,
		PhoneNumber:       phone,
	}
}

// IsSettled reports whether the payment carries a real gateway receipt code.
func (p *Payment) IsSettled() bool {
	return p.MpesaCode != "" && !strings.HasPrefix(p.MpesaCode, PendingCodePrefix)
}

// Settle overwrites the placeholder with the confirmed receipt and amount.
func (p *Payment) Settle(receiptCode string, amount decimal.Decimal, txDate *time.Time) {
	p.MpesaCode = receiptCode
	p.AmountPaid = amount
	p.TransactionDate = txDate
}

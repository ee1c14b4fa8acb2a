package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusPending = "PENDING"
	InvoiceStatusPaid    = "PAID"
	InvoiceStatusOverdue = "OVERDUE"
)

// Invoice is owned by exactly one subscription. Status is mutated only by
// payment settlement: PENDING -> PAID, with no reverse transition.
type Invoice struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	SubscriptionID uint            `gorm:"not null;index" json:"subscription_id"`
	Subscription   Subscription    `gorm:"foreignKey:SubscriptionID" json:"-"`
	Amount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status         string          `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"status"`
	DueDate        time.Time       `gorm:"type:date;not null" json:"due_date"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsPayable reports whether a payment may still be initiated for the invoice.
func (i *Invoice) IsPayable() bool {
	return i.Status == InvoiceStatusPending
}

// IsPastDue reports whether the invoice is unsettled and past its due date.
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.Status != InvoiceStatusPaid && now.After(i.DueDate)
}

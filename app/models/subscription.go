package models

import "time"

const (
	SubscriptionStatusNew       = "NEW"
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusSuspended = "SUSPENDED"
	SubscriptionStatusCancelled = "CANCELLED"
)

// Subscription associates a customer with a service plan. Billing status
// transitions mutate it: a successful payment reactivates it to ACTIVE.
type Subscription struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CustomerID uint        `gorm:"not null;index" json:"customer_id"`
	Customer   Customer    `gorm:"foreignKey:CustomerID" json:"-"`
	PlanID     uint        `gorm:"not null;index" json:"plan_id"`
	Plan       ServicePlan `gorm:"foreignKey:PlanID" json:"-"`
	Status     string      `gorm:"type:varchar(10);not null;default:'NEW';index" json:"status"`
	StartDate  time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate    *time.Time  `gorm:"type:date;default:null" json:"end_date,omitempty"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Activate marks the subscription ACTIVE.
func (s *Subscription) Activate() {
	s.Status = SubscriptionStatusActive
}

// IsActive reports whether the subscription currently entitles service.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ServicePlan is a sellable internet package (speed tier + monthly price).
type ServicePlan struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	SpeedMbps   int             `gorm:"not null" json:"speed_mbps" validate:"gt=0"`
	Description string          `gorm:"type:text" json:"description"`
	IsActive    bool            `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Label returns the display name used in plan listings.
func (p *ServicePlan) Label() string {
	return fmt.Sprintf("%s - %dMbps", p.Name, p.SpeedMbps)
}

package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Customer is the ISP customer profile linked 1:1 to a login account.
type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"-"`
	AccountNumber string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"account_number"`
	PhoneNumber   string    `gorm:"type:varchar(15);not null;index" json:"phone_number" validate:"required,min=10,max=15"`
	Address       string    `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	IDNumber      string    `gorm:"type:varchar(20);uniqueIndex" json:"id_number" validate:"required,min=6,max=20"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewCustomer builds a customer profile with a fresh account number.
func NewCustomer(userID uint, phoneNumber, address, idNumber string) (*Customer, error) {
	c := &Customer{
		UserID:        userID,
		AccountNumber: uuid.NewString(),
		PhoneNumber:   phoneNumber,
		Address:       address,
		IDNumber:      idNumber,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Customer) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

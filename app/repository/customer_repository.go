package repository

import (
	"gorm.io/gorm"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByUserID resolves the customer profile behind a login account
func (r *customerRepository) GetByUserID(userID uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

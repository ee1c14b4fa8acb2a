package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByCheckoutRequestID resolves the gateway correlation token to its
// pending payment row
func (r *paymentRepository) GetByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error) {
	trimmed := strings.TrimSpace(checkoutRequestID)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var payment models.Payment
	err := r.db.Where("checkout_request_id = ?", trimmed).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByCustomerID returns the customer's payment history across all invoices
func (r *paymentRepository) GetByCustomerID(customerID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Joins("JOIN subscriptions ON subscriptions.id = invoices.subscription_id").
		Where("subscriptions.customer_id = ?", customerID).
		Order("payments.created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) GetByInvoiceID(invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("invoice_id = ?", invoiceID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

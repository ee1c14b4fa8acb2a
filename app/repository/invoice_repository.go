package repository

import (
	"gorm.io/gorm"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
)

// invoiceRepository implements the InvoiceRepository interface
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository instance
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *invoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("Subscription").Preload("Subscription.Plan").First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetByCustomerID returns all invoices across the customer's subscriptions
func (r *invoiceRepository) GetByCustomerID(customerID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Joins("JOIN subscriptions ON subscriptions.id = invoices.subscription_id").
		Where("subscriptions.customer_id = ?", customerID).
		Order("invoices.created_at DESC").
		Preload("Subscription.Plan").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) GetPendingByCustomerID(customerID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.
		Joins("JOIN subscriptions ON subscriptions.id = invoices.subscription_id").
		Where("subscriptions.customer_id = ? AND invoices.status = ?", customerID, models.InvoiceStatusPending).
		Order("invoices.due_date ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Update(invoice *models.Invoice) error {
	return r.db.Save(invoice).Error
}

func (r *invoiceRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Invoice{}).Where("id = ?", id).Update("status", status).Error
}

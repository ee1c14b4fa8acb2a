package billing

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
)

// Repository provides the DB operations used by the billing service.
type Repository interface {
	GetInvoiceForCustomer(invoiceID, customerID uint) (*models.Invoice, error)
	CreatePayment(payment *models.Payment) error
	GetPaymentByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error)
	SettlePayment(payment *models.Payment) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// GetInvoiceForCustomer loads an invoice only if it belongs to one of the
// customer's subscriptions; anything else is gorm.ErrRecordNotFound.
func (r *gormRepository) GetInvoiceForCustomer(invoiceID, customerID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.
		Joins("JOIN subscriptions ON subscriptions.id = invoices.subscription_id").
		Where("invoices.id = ? AND subscriptions.customer_id = ?", invoiceID, customerID).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *gormRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *gormRepository) GetPaymentByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error) {
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

// SettlePayment writes the settled payment and transitions its invoice to
// PAID and the owning subscription to ACTIVE in a single transaction.
func (r *gormRepository) SettlePayment(payment *models.Payment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}

		var invoice models.Invoice
		if err := tx.First(&invoice, payment.InvoiceID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Invoice{}).
			Where("id = ?", invoice.ID).
			Update("status", models.InvoiceStatusPaid).Error; err != nil {
			return err
		}

		return tx.Model(&models.Subscription{}).
			Where("id = ?", invoice.SubscriptionID).
			Update("status", models.SubscriptionStatusActive).Error
	})
}

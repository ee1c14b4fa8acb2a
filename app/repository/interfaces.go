package repository

import (
	"github.com/ADAMSmugwe/adakev-isp/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// CustomerRepository defines the interface for customer profile operations
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id uint) (*models.Customer, error)
	GetByUserID(userID uint) (*models.Customer, error)
	Update(customer *models.Customer) error
}

// PlanRepository defines the interface for service plan operations
type PlanRepository interface {
	Create(plan *models.ServicePlan) error
	GetByID(id uint) (*models.ServicePlan, error)
	GetActive() ([]models.ServicePlan, error)
	GetAll() ([]models.ServicePlan, error)
	Update(plan *models.ServicePlan) error
}

// SubscriptionRepository defines the interface for subscription operations
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(id uint) (*models.Subscription, error)
	GetByCustomerID(customerID uint) ([]models.Subscription, error)
	Update(sub *models.Subscription) error
	UpdateStatus(id uint, status string) error
}

// InvoiceRepository defines the interface for invoice operations
type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	GetByID(id uint) (*models.Invoice, error)
	GetByCustomerID(customerID uint) ([]models.Invoice, error)
	GetPendingByCustomerID(customerID uint) ([]models.Invoice, error)
	Update(invoice *models.Invoice) error
	UpdateStatus(id uint, status string) error
}

// PaymentRepository defines the interface for payment operations.
// GetByCheckoutRequestID is the correlation-store lookup that ties an
// asynchronous gateway callback back to its initiated payment.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error)
	GetByCustomerID(customerID uint) ([]models.Payment, error)
	GetByInvoiceID(invoiceID uint) ([]models.Payment, error)
	Update(payment *models.Payment) error
}

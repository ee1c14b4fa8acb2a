package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository implementations
type Repositories struct {
	User         UserRepository
	Customer     CustomerRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Invoice      InvoiceRepository
	Payment      PaymentRepository
}

// NewRepositories creates all repository instances for the given DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Customer:     NewCustomerRepository(db),
		Plan:         NewPlanRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Invoice:      NewInvoiceRepository(db),
		Payment:      NewPaymentRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetCustomerRepository returns the customer repository instance
func (f *Factory) GetCustomerRepository() CustomerRepository {
	return f.GetRepositories().Customer
}

// GetPlanRepository returns the service plan repository instance
func (f *Factory) GetPlanRepository() PlanRepository {
	return f.GetRepositories().Plan
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetInvoiceRepository returns the invoice repository instance
func (f *Factory) GetInvoiceRepository() InvoiceRepository {
	return f.GetRepositories().Invoice
}

// GetPaymentRepository returns the payment repository instance
func (f *Factory) GetPaymentRepository() PaymentRepository {
	return f.GetRepositories().Payment
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory
func GetGlobalFactory() *Factory {
	return globalFactory
}

package repository

import (
	"gorm.io/gorm"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *subscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Preload("Plan").First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) GetByCustomerID(customerID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Preload("Plan").Where("customer_id = ?", customerID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *subscriptionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Subscription{}).Where("id = ?", id).Update("status", status).Error
}

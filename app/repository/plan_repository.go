package repository

import (
	"gorm.io/gorm"

	"github.com/ADAMSmugwe/adakev-isp/app/models"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new service plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(plan *models.ServicePlan) error {
	return r.db.Create(plan).Error
}

func (r *planRepository) GetByID(id uint) (*models.ServicePlan, error) {
	var plan models.ServicePlan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetActive returns the plans currently offered for subscription
func (r *planRepository) GetActive() ([]models.ServicePlan, error) {
	var plans []models.ServicePlan
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) GetAll() ([]models.ServicePlan, error) {
	var plans []models.ServicePlan
	err := r.db.Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) Update(plan *models.ServicePlan) error {
	return r.db.Save(plan).Error
}

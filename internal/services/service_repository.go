package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceRepository persists catalog services.
type ServiceRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	FindByServiceID(ctx context.Context, serviceID string) (*models.Service, error)
	Create(ctx context.Context, svc *models.Service) error
	Save(ctx context.Context, svc *models.Service) error
	Count(ctx context.Context) (int64, error)
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// List returns every service, newest first.
func (r *GormServiceRepository) List(ctx context.Context) ([]models.Service, error) {
	var svcs []models.Service
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&svcs).Error; err != nil {
		return nil, err
	}
	return svcs, nil
}

func (r *GormServiceRepository) FindByServiceID(ctx context.Context, serviceID string) (*models.Service, error) {
	var svc models.Service
	err := r.db.WithContext(ctx).Where("service_id = ?", serviceID).First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *GormServiceRepository) Create(ctx context.Context, svc *models.Service) error {
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(svc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateServiceID
	}
	return err
}

func (r *GormServiceRepository) Save(ctx context.Context, svc *models.Service) error {
	return r.db.WithContext(ctx).Save(svc).Error
}

func (r *GormServiceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Service{}).Count(&n).Error
	return n, err
}

package repository

import (
	"healthcare_booking/internal/domain/catalog/model"
	"healthcare_booking/internal/pkg/sequence"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	Create(item *model.ServiceTest) error
	GetByID(id string) (*model.ServiceTest, error)
	GetByIDs(ids []string) ([]model.ServiceTest, error)
	GetList(offset, limit int) ([]model.ServiceTest, int64, error)
	Update(item *model.ServiceTest) error
	MaxServiceID() (string, error)

	Transaction(fn func(txRepo CatalogRepository) error) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Create(item *model.ServiceTest) error {
	return r.db.Create(item).Error
}

func (r *catalogRepository) GetByID(id string) (*model.ServiceTest, error) {
	var item model.ServiceTest
	if err := r.db.Where("service_id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) GetByIDs(ids []string) ([]model.ServiceTest, error) {
	var items []model.ServiceTest
	err := r.db.Where("service_id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *catalogRepository) GetList(offset, limit int) ([]model.ServiceTest, int64, error) {
	var items []model.ServiceTest
	var total int64

	query := r.db.Model(&model.ServiceTest{}).Where("active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("service_id").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *catalogRepository) Update(item *model.ServiceTest) error {
	return r.db.Save(item).Error
}

func (r *catalogRepository) MaxServiceID() (string, error) {
	var id string
	err := r.db.Model(&model.ServiceTest{}).
		Where("service_id LIKE ?", sequence.PrefixService+"%").
		Select("COALESCE(MAX(service_id), '')").
		Scan(&id).Error
	return id, err
}

func (r *catalogRepository) Transaction(fn func(txRepo CatalogRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&catalogRepository{db: tx})
	})
}

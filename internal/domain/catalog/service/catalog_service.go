package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthcare_booking/internal/domain/catalog/model"
	"healthcare_booking/internal/domain/catalog/repository"
	"healthcare_booking/internal/pkg/sequence"
	"healthcare_booking/pkg/apperr"
	"healthcare_booking/pkg/cache"
	"healthcare_booking/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	serviceListCacheKeyPrefix = "service_list:"
	serviceListCacheTTL       = time.Minute * 30
)

// CatalogService 检验/服务目录服务接口
type CatalogService interface {
	CreateService(name, description string, price float64) (*model.ServiceTest, error)
	GetService(id string) (*model.ServiceTest, error)
	GetServices(page, limit int) ([]model.ServiceTest, int64, error)
	UpdateService(id, name, description string, price float64, active bool) (*model.ServiceTest, error)
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache cache.CacheService
}

func NewCatalogService(repo repository.CatalogRepository, cacheService cache.CacheService) CatalogService {
	return &catalogService{repo: repo, cache: cacheService}
}

func (s *catalogService) invalidateListCache() {
	if err := s.cache.InvalidatePattern(context.Background(), serviceListCacheKeyPrefix+"*"); err != nil {
		logger.Log.Warn("Failed to invalidate service list cache", zap.Error(err))
	}
}

// CreateService 创建目录项 (仅管理员)
func (s *catalogService) CreateService(name, description string, price float64) (*model.ServiceTest, error) {
	if price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}

	var item *model.ServiceTest
	err := s.repo.Transaction(func(txRepo repository.CatalogRepository) error {
		maxID, err := txRepo.MaxServiceID()
		if err != nil {
			return err
		}
		item = &model.ServiceTest{
			ServiceID:   sequence.Next(sequence.PrefixService, maxID, sequence.DefaultWidth),
			Name:        name,
			Description: description,
			Price:       price,
			Active:      true,
		}
		return txRepo.Create(item)
	})
	if err != nil {
		return nil, apperr.Internal("failed to create service", err)
	}

	s.invalidateListCache()
	return item, nil
}

// GetService 获取目录项
func (s *catalogService) GetService(id string) (*model.ServiceTest, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, apperr.Internal("failed to query service", err)
	}
	return item, nil
}

// GetServices 获取目录列表（带缓存）
func (s *catalogService) GetServices(page, limit int) ([]model.ServiceTest, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("%s%d:%d", serviceListCacheKeyPrefix, page, limit)

	var cached struct {
		Services []model.ServiceTest `json:"services"`
		Total    int64               `json:"total"`
	}
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached.Services, cached.Total, nil
	}

	offset := (page - 1) * limit
	items, total, err := s.repo.GetList(offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list services", err)
	}

	cached.Services = items
	cached.Total = total
	if err := s.cache.Set(ctx, cacheKey, cached, serviceListCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache service list", zap.Error(err))
	}

	return items, total, nil
}

// UpdateService 更新目录项 (仅管理员)
func (s *catalogService) UpdateService(id, name, description string, price float64, active bool) (*model.ServiceTest, error) {
	item, err := s.GetService(id)
	if err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}

	item.Name = name
	item.Description = description
	item.Price = price
	item.Active = active

	if err := s.repo.Update(item); err != nil {
		return nil, apperr.Internal("failed to update service", err)
	}

	s.invalidateListCache()
	return item, nil
}

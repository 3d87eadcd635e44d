package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthcare_booking/internal/domain/doctor/model"
	"healthcare_booking/internal/domain/doctor/repository"
	"healthcare_booking/internal/pkg/sequence"
	"healthcare_booking/pkg/apperr"
	"healthcare_booking/pkg/cache"
	"healthcare_booking/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 缓存键
const (
	doctorCacheKeyPrefix     = "doctor:"
	doctorListCacheKeyPrefix = "doctor_list:"
	doctorCacheTTL           = time.Hour
	doctorListCacheTTL       = time.Minute * 30
)

// DoctorService 医生服务接口
type DoctorService interface {
	CreateDoctor(userID, specialty, bio string, price float64) (*model.Doctor, error)
	GetDoctor(id string) (*model.Doctor, error)
	GetDoctors(page, limit int) ([]model.Doctor, int64, error)
	UpdateDoctor(id, specialty, bio string, price float64, active bool) (*model.Doctor, error)
	CreateTimeslot(doctorID string, start, end time.Time) (*model.Timeslot, error)
	GetTimeslots(doctorID string) ([]model.Timeslot, error)
}

type doctorService struct {
	repo  repository.DoctorRepository
	cache cache.CacheService
}

// NewDoctorService 创建医生服务
func NewDoctorService(repo repository.DoctorRepository, cacheService cache.CacheService) DoctorService {
	return &doctorService{repo: repo, cache: cacheService}
}

// invalidateDoctorCache 写操作提交后清除医生相关缓存
func (s *doctorService) invalidateDoctorCache(doctorID string) {
	ctx := context.Background()
	if doctorID != "" {
		if err := s.cache.Delete(ctx, doctorCacheKeyPrefix+doctorID); err != nil {
			logger.Log.Warn("Failed to invalidate doctor cache", zap.Error(err))
		}
	}
	if err := s.cache.InvalidatePattern(ctx, doctorListCacheKeyPrefix+"*"); err != nil {
		logger.Log.Warn("Failed to invalidate doctor list cache", zap.Error(err))
	}
}

// CreateDoctor 创建医生档案 (仅管理员)
func (s *doctorService) CreateDoctor(userID, specialty, bio string, price float64) (*model.Doctor, error) {
	if price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}

	var doctor *model.Doctor
	err := s.repo.Transaction(func(txRepo repository.DoctorRepository) error {
		maxID, err := txRepo.MaxDoctorID()
		if err != nil {
			return err
		}
		doctor = &model.Doctor{
			DoctorID:  sequence.Next(sequence.PrefixDoctor, maxID, sequence.DefaultWidth),
			UserID:    userID,
			Specialty: specialty,
			Bio:       bio,
			Price:     price,
			Active:    true,
		}
		return txRepo.Create(doctor)
	})
	if err != nil {
		return nil, apperr.Internal("failed to create doctor", err)
	}

	s.invalidateDoctorCache("")
	return doctor, nil
}

// GetDoctor 获取医生档案（带缓存）
func (s *doctorService) GetDoctor(id string) (*model.Doctor, error) {
	ctx := context.Background()
	cacheKey := doctorCacheKeyPrefix + id

	var cached model.Doctor
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	doctor, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, apperr.Internal("failed to query doctor", err)
	}

	if err := s.cache.Set(ctx, cacheKey, doctor, doctorCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache doctor", zap.Error(err))
	}
	return doctor, nil
}

// GetDoctors 获取医生列表（带缓存）
func (s *doctorService) GetDoctors(page, limit int) ([]model.Doctor, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("%s%d:%d", doctorListCacheKeyPrefix, page, limit)

	var cached struct {
		Doctors []model.Doctor `json:"doctors"`
		Total   int64          `json:"total"`
	}
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached.Doctors, cached.Total, nil
	}

	offset := (page - 1) * limit
	doctors, total, err := s.repo.GetList(offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list doctors", err)
	}

	cached.Doctors = doctors
	cached.Total = total
	if err := s.cache.Set(ctx, cacheKey, cached, doctorListCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache doctor list", zap.Error(err))
	}

	return doctors, total, nil
}

// UpdateDoctor 更新医生档案 (仅管理员)
func (s *doctorService) UpdateDoctor(id, specialty, bio string, price float64, active bool) (*model.Doctor, error) {
	doctor, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, apperr.Internal("failed to query doctor", err)
	}

	doctor.Specialty = specialty
	doctor.Bio = bio
	doctor.Price = price
	doctor.Active = active

	if err := s.repo.Update(doctor); err != nil {
		return nil, apperr.Internal("failed to update doctor", err)
	}

	s.invalidateDoctorCache(id)
	return doctor, nil
}

// CreateTimeslot 为医生创建可预约时段
func (s *doctorService) CreateTimeslot(doctorID string, start, end time.Time) (*model.Timeslot, error) {
	if !end.After(start) {
		return nil, apperr.Validation("timeslot end must be after start")
	}

	if _, err := s.GetDoctor(doctorID); err != nil {
		return nil, err
	}

	var slot *model.Timeslot
	err := s.repo.Transaction(func(txRepo repository.DoctorRepository) error {
		maxID, err := txRepo.MaxTimeslotID()
		if err != nil {
			return err
		}
		slot = &model.Timeslot{
			TimeslotID: sequence.Next(sequence.PrefixTimeslot, maxID, sequence.DefaultWidth),
			DoctorID:   doctorID,
			StartTime:  start,
			EndTime:    end,
			Available:  true,
		}
		return txRepo.CreateTimeslot(slot)
	})
	if err != nil {
		return nil, apperr.Internal("failed to create timeslot", err)
	}

	return slot, nil
}

// GetTimeslots 获取医生的可预约时段
func (s *doctorService) GetTimeslots(doctorID string) ([]model.Timeslot, error) {
	slots, err := s.repo.GetTimeslotsByDoctor(doctorID)
	if err != nil {
		return nil, apperr.Internal("failed to list timeslots", err)
	}
	return slots, nil
}

package service

import (
	"context"
	"time"

	"healthcare_booking/internal/domain/record/model"
	"healthcare_booking/internal/domain/record/repository"
	"healthcare_booking/pkg/apperr"
)

const (
	defaultCycleLength  = 28
	defaultPeriodLength = 5

	minCycleLength  = 21
	maxCycleLength  = 45
	minPeriodLength = 1
	maxPeriodLength = 10

	// 排卵日按下次经期前14天估算
	lutealPhaseDays = 14
)

// RecordService 健康记录服务接口
type RecordService interface {
	CreateCycleRecord(ctx context.Context, userID string, lastPeriod time.Time, cycleLength, periodLength int) (*model.CycleRecord, error)
	GetCycleRecords(ctx context.Context, userID string) ([]model.CycleRecord, error)

	CreateTemplate(ctx context.Context, serviceID, title, content string) (*model.TestTemplate, error)
	GetTemplates(ctx context.Context, serviceID string) ([]model.TestTemplate, error)
}

type recordService struct {
	repo repository.RecordRepository
}

func NewRecordService(repo repository.RecordRepository) RecordService {
	return &recordService{repo: repo}
}

// CreateCycleRecord 记录生理周期并计算下次经期和排卵日预测
// 周期和经期长度为 0 时取默认值
func (s *recordService) CreateCycleRecord(ctx context.Context, userID string, lastPeriod time.Time, cycleLength, periodLength int) (*model.CycleRecord, error) {
	if cycleLength == 0 {
		cycleLength = defaultCycleLength
	}
	if periodLength == 0 {
		periodLength = defaultPeriodLength
	}
	if cycleLength < minCycleLength || cycleLength > maxCycleLength {
		return nil, apperr.Validation("cycle length must be between 21 and 45 days")
	}
	if periodLength < minPeriodLength || periodLength > maxPeriodLength {
		return nil, apperr.Validation("period length must be between 1 and 10 days")
	}
	if lastPeriod.After(time.Now()) {
		return nil, apperr.Validation("last period date cannot be in the future")
	}

	nextPeriod := lastPeriod.AddDate(0, 0, cycleLength)
	record := &model.CycleRecord{
		UserID:         userID,
		LastPeriodDate: lastPeriod,
		CycleLength:    cycleLength,
		PeriodLength:   periodLength,
		CreatedAt:      time.Now(),
		NextPeriodDate: nextPeriod,
		OvulationDate:  nextPeriod.AddDate(0, 0, -lutealPhaseDays),
	}

	if err := s.repo.InsertCycle(ctx, record); err != nil {
		return nil, apperr.Internal("failed to save cycle record", err)
	}
	return record, nil
}

func (s *recordService) GetCycleRecords(ctx context.Context, userID string) ([]model.CycleRecord, error) {
	records, err := s.repo.FindCyclesByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list cycle records", err)
	}
	return records, nil
}

// CreateTemplate 创建检验结果模板 (仅管理员)
func (s *recordService) CreateTemplate(ctx context.Context, serviceID, title, content string) (*model.TestTemplate, error) {
	if title == "" || content == "" {
		return nil, apperr.Validation("template title and content are required")
	}

	template := &model.TestTemplate{
		ServiceID: serviceID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.InsertTemplate(ctx, template); err != nil {
		return nil, apperr.Internal("failed to save template", err)
	}
	return template, nil
}

func (s *recordService) GetTemplates(ctx context.Context, serviceID string) ([]model.TestTemplate, error) {
	templates, err := s.repo.FindTemplates(ctx, serviceID)
	if err != nil {
		return nil, apperr.Internal("failed to list templates", err)
	}
	return templates, nil
}

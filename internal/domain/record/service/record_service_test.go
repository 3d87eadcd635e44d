package service

import (
	"context"
	"testing"
	"time"

	"healthcare_booking/internal/domain/record/model"
	"healthcare_booking/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRecordRepository is a mock of RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) InsertCycle(ctx context.Context, record *model.CycleRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) FindCyclesByUser(ctx context.Context, userID string) ([]model.CycleRecord, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.CycleRecord), args.Error(1)
}

func (m *MockRecordRepository) InsertTemplate(ctx context.Context, template *model.TestTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockRecordRepository) FindTemplates(ctx context.Context, serviceID string) ([]model.TestTemplate, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).([]model.TestTemplate), args.Error(1)
}

func TestCreateCycleRecord_Prediction(t *testing.T) {
	repo := new(MockRecordRepository)
	repo.On("InsertCycle", mock.Anything, mock.AnythingOfType("*model.CycleRecord")).Return(nil)
	svc := NewRecordService(repo)

	lastPeriod := time.Now().AddDate(0, 0, -10).Truncate(24 * time.Hour)
	record, err := svc.CreateCycleRecord(context.Background(), "US000001", lastPeriod, 28, 5)

	assert.NoError(t, err)
	assert.Equal(t, lastPeriod.AddDate(0, 0, 28), record.NextPeriodDate)
	// 排卵日 = 下次经期前14天
	assert.Equal(t, lastPeriod.AddDate(0, 0, 14), record.OvulationDate)
}

func TestCreateCycleRecord_DefaultLengths(t *testing.T) {
	repo := new(MockRecordRepository)
	repo.On("InsertCycle", mock.Anything, mock.AnythingOfType("*model.CycleRecord")).Return(nil)
	svc := NewRecordService(repo)

	lastPeriod := time.Now().AddDate(0, 0, -3)
	record, err := svc.CreateCycleRecord(context.Background(), "US000001", lastPeriod, 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, 28, record.CycleLength)
	assert.Equal(t, 5, record.PeriodLength)
}

func TestCreateCycleRecord_RejectsOutOfRange(t *testing.T) {
	svc := NewRecordService(new(MockRecordRepository))

	_, err := svc.CreateCycleRecord(context.Background(), "US000001", time.Now().AddDate(0, 0, -1), 60, 5)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.CreateCycleRecord(context.Background(), "US000001", time.Now().AddDate(0, 0, -1), 28, 15)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateCycleRecord_RejectsFutureDate(t *testing.T) {
	svc := NewRecordService(new(MockRecordRepository))

	_, err := svc.CreateCycleRecord(context.Background(), "US000001", time.Now().AddDate(0, 0, 7), 28, 5)

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateTemplate_RequiresTitleAndContent(t *testing.T) {
	svc := NewRecordService(new(MockRecordRepository))

	_, err := svc.CreateTemplate(context.Background(), "SV000001", "", "body")

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

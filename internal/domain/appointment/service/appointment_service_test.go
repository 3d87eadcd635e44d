package service

import (
	"testing"
	"time"

	"healthcare_booking/internal/domain/appointment/model"
	"healthcare_booking/internal/domain/appointment/repository"
	catalogModel "healthcare_booking/internal/domain/catalog/model"
	catalogRepo "healthcare_booking/internal/domain/catalog/repository"
	doctorModel "healthcare_booking/internal/domain/doctor/model"
	doctorRepo "healthcare_booking/internal/domain/doctor/repository"
	userModel "healthcare_booking/internal/domain/user/model"
	userRepo "healthcare_booking/internal/domain/user/repository"
	"healthcare_booking/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAppointmentRepository is a mock of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(apm *model.Appointment) error {
	args := m.Called(apm)
	return args.Error(0)
}

func (m *MockAppointmentRepository) CreateDetail(detail *model.DetailAppointmentTest) error {
	args := m.Called(detail)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(id string) (*model.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) GetByUser(userID string, offset, limit int) ([]model.Appointment, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]model.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentRepository) GetByDoctor(doctorID string, offset, limit int) ([]model.Appointment, int64, error) {
	args := m.Called(doctorID, offset, limit)
	return args.Get(0).([]model.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentRepository) MaxAppointmentID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAppointmentRepository) MaxDetailID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatusIf(id, expected, target string) (int64, error) {
	args := m.Called(id, expected, target)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) HoldTimeslot(id string, hold bool) (int64, error) {
	args := m.Called(id, hold)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) GetDueForReminder(until time.Time) ([]repository.ReminderTarget, error) {
	args := m.Called(until)
	return args.Get(0).([]repository.ReminderTarget), args.Error(1)
}

func (m *MockAppointmentRepository) MarkReminderSent(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Transaction(fn func(txRepo repository.AppointmentRepository) error) error {
	return fn(m)
}

// MockDoctorRepository is a mock of DoctorRepository
type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(doctor *doctorModel.Doctor) error {
	args := m.Called(doctor)
	return args.Error(0)
}

func (m *MockDoctorRepository) GetByID(id string) (*doctorModel.Doctor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctorModel.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) GetList(offset, limit int) ([]doctorModel.Doctor, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]doctorModel.Doctor), args.Get(1).(int64), args.Error(2)
}

func (m *MockDoctorRepository) Update(doctor *doctorModel.Doctor) error {
	args := m.Called(doctor)
	return args.Error(0)
}

func (m *MockDoctorRepository) MaxDoctorID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockDoctorRepository) CreateTimeslot(slot *doctorModel.Timeslot) error {
	args := m.Called(slot)
	return args.Error(0)
}

func (m *MockDoctorRepository) GetTimeslot(id string) (*doctorModel.Timeslot, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*doctorModel.Timeslot), args.Error(1)
}

func (m *MockDoctorRepository) GetTimeslotsByDoctor(doctorID string) ([]doctorModel.Timeslot, error) {
	args := m.Called(doctorID)
	return args.Get(0).([]doctorModel.Timeslot), args.Error(1)
}

func (m *MockDoctorRepository) MarkTimeslotAvailability(id string, available bool) error {
	args := m.Called(id, available)
	return args.Error(0)
}

func (m *MockDoctorRepository) MaxTimeslotID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockDoctorRepository) Transaction(fn func(txRepo doctorRepo.DoctorRepository) error) error {
	return fn(m)
}

// MockCatalogRepository is a mock of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Create(item *catalogModel.ServiceTest) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetByID(id string) (*catalogModel.ServiceTest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogModel.ServiceTest), args.Error(1)
}

func (m *MockCatalogRepository) GetByIDs(ids []string) ([]catalogModel.ServiceTest, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogModel.ServiceTest), args.Error(1)
}

func (m *MockCatalogRepository) GetList(offset, limit int) ([]catalogModel.ServiceTest, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]catalogModel.ServiceTest), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) Update(item *catalogModel.ServiceTest) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCatalogRepository) MaxServiceID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockCatalogRepository) Transaction(fn func(txRepo catalogRepo.CatalogRepository) error) error {
	return fn(m)
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *userModel.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*userModel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*userModel.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]userModel.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]userModel.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *userModel.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) MaxUserID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) Transaction(fn func(txRepo userRepo.UserRepository) error) error {
	return fn(m)
}

func newTestService() (AppointmentService, *MockAppointmentRepository, *MockDoctorRepository, *MockCatalogRepository) {
	apms := new(MockAppointmentRepository)
	doctors := new(MockDoctorRepository)
	catalog := new(MockCatalogRepository)
	users := new(MockUserRepository)
	svc := NewAppointmentService(apms, doctors, catalog, users, nil)
	return svc, apms, doctors, catalog
}

func TestCreateAppointment_WithServicesAndTimeslot(t *testing.T) {
	svc, apms, doctors, catalog := newTestService()

	doctors.On("GetByID", "DR000001").Return(&doctorModel.Doctor{
		DoctorID: "DR000001",
		Price:    50,
		Active:   true,
	}, nil)
	doctors.On("GetTimeslot", "TS000001").Return(&doctorModel.Timeslot{
		TimeslotID: "TS000001",
		DoctorID:   "DR000001",
		Available:  true,
	}, nil)
	catalog.On("GetByIDs", []string{"SV000001"}).Return([]catalogModel.ServiceTest{
		{ServiceID: "SV000001", Name: "Blood test", Price: 30, Active: true},
	}, nil)
	apms.On("MaxAppointmentID").Return("AP000004", nil)
	apms.On("MaxDetailID").Return("", nil)
	apms.On("Create", mock.AnythingOfType("*model.Appointment")).Return(nil)
	apms.On("CreateDetail", mock.AnythingOfType("*model.DetailAppointmentTest")).Return(nil)
	apms.On("HoldTimeslot", "TS000001", true).Return(int64(1), nil)

	apm, err := svc.CreateAppointment("US000001", "DR000001", "TS000001", model.ConsultantTypeOffline, []string{"SV000001"})

	assert.NoError(t, err)
	assert.Equal(t, "AP000005", apm.AppointmentID)
	assert.Equal(t, model.StatusPending, apm.Status)
	assert.Equal(t, 80.0, apm.PriceApm) // 咨询费50 + 检验30
	assert.Len(t, apm.Details, 1)
	assert.Equal(t, "DT000001", apm.Details[0].AppointmentTestID)
	apms.AssertExpectations(t)
}

func TestCreateAppointment_TimeslotTaken(t *testing.T) {
	svc, apms, doctors, _ := newTestService()

	doctors.On("GetByID", "DR000001").Return(&doctorModel.Doctor{
		DoctorID: "DR000001",
		Active:   true,
	}, nil)
	doctors.On("GetTimeslot", "TS000001").Return(&doctorModel.Timeslot{
		TimeslotID: "TS000001",
		DoctorID:   "DR000001",
		Available:  true,
	}, nil)
	apms.On("MaxAppointmentID").Return("", nil)
	apms.On("MaxDetailID").Return("", nil)
	apms.On("Create", mock.AnythingOfType("*model.Appointment")).Return(nil)
	// 并发抢占：条件更新0行生效
	apms.On("HoldTimeslot", "TS000001", true).Return(int64(0), nil)

	apm, err := svc.CreateAppointment("US000001", "DR000001", "TS000001", model.ConsultantTypeOnline, nil)

	assert.Nil(t, apm)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateAppointment_InactiveDoctor(t *testing.T) {
	svc, _, doctors, _ := newTestService()

	doctors.On("GetByID", "DR000001").Return(&doctorModel.Doctor{
		DoctorID: "DR000001",
		Active:   false,
	}, nil)

	apm, err := svc.CreateAppointment("US000001", "DR000001", "", model.ConsultantTypeOnline, nil)

	assert.Nil(t, apm)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateAppointment_InvalidConsultantType(t *testing.T) {
	svc, _, _, _ := newTestService()

	apm, err := svc.CreateAppointment("US000001", "DR000001", "", "video", nil)

	assert.Nil(t, apm)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateStatus_PendingToConfirmed(t *testing.T) {
	svc, apms, _, _ := newTestService()

	apms.On("GetByID", "AP000001").Return(&model.Appointment{
		AppointmentID: "AP000001",
		UserID:        "US000001",
		Status:        model.StatusPending,
	}, nil)
	apms.On("UpdateStatusIf", "AP000001", model.StatusPending, model.StatusConfirmed).Return(int64(1), nil)

	apm, err := svc.UpdateStatus("AP000001", model.StatusConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, apm.Status)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	svc, apms, _, _ := newTestService()

	apms.On("GetByID", "AP000001").Return(&model.Appointment{
		AppointmentID: "AP000001",
		Status:        model.StatusPending,
	}, nil)

	apm, err := svc.UpdateStatus("AP000001", model.StatusCompleted)

	assert.Nil(t, apm)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	apms.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_ReleasesTimeslotOnCancel(t *testing.T) {
	svc, apms, _, _ := newTestService()

	slotID := "TS000001"
	apms.On("GetByID", "AP000001").Return(&model.Appointment{
		AppointmentID: "AP000001",
		UserID:        "US000001",
		TimeslotID:    &slotID,
		Status:        model.StatusConfirmed,
	}, nil)
	apms.On("UpdateStatusIf", "AP000001", model.StatusConfirmed, model.StatusCancelled).Return(int64(1), nil)
	apms.On("HoldTimeslot", "TS000001", false).Return(int64(1), nil)

	apm, err := svc.UpdateStatus("AP000001", model.StatusCancelled)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, apm.Status)
	apms.AssertCalled(t, "HoldTimeslot", "TS000001", false)
}

func TestCancelAppointment_OwnershipEnforced(t *testing.T) {
	svc, apms, _, _ := newTestService()

	apms.On("GetByID", "AP000001").Return(&model.Appointment{
		AppointmentID: "AP000001",
		UserID:        "US000002",
		Status:        model.StatusPending,
	}, nil)

	apm, err := svc.CancelAppointment("AP000001", "US000001")

	assert.Nil(t, apm)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestBulkApprove_ReportsPerItemResults(t *testing.T) {
	svc, apms, _, _ := newTestService()

	apms.On("GetByID", "AP000001").Return(&model.Appointment{
		AppointmentID: "AP000001",
		Status:        model.StatusPending,
	}, nil)
	apms.On("UpdateStatusIf", "AP000001", model.StatusPending, model.StatusConfirmed).Return(int64(1), nil)

	// 已取消的预约不能确认
	apms.On("GetByID", "AP000002").Return(&model.Appointment{
		AppointmentID: "AP000002",
		Status:        model.StatusCancelled,
	}, nil)

	results := svc.BulkApprove([]string{"AP000001", "AP000002"})

	assert.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, "AP000002", results[1].ID)
}

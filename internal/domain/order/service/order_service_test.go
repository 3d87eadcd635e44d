package service

import (
	"context"
	"errors"
	"testing"
	"time"

	apmModel "healthcare_booking/internal/domain/appointment/model"
	apmRepo "healthcare_booking/internal/domain/appointment/repository"
	catalogModel "healthcare_booking/internal/domain/catalog/model"
	catalogRepo "healthcare_booking/internal/domain/catalog/repository"
	"healthcare_booking/internal/domain/order/model"
	"healthcare_booking/internal/domain/order/repository"
	"healthcare_booking/pkg/apperr"
	"healthcare_booking/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateDetail(detail *model.OrderDetail) error {
	args := m.Called(detail)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByUser(userID string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) GetPendingByUser(userID string) ([]model.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) MaxOrderID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) MaxOrderDetailID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatusIf(id, expected, target string) (int64, error) {
	args := m.Called(id, expected, target)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Transaction(fn func(txRepo repository.OrderRepository) error) error {
	return fn(m)
}

// MockAppointmentRepository is a mock of appointment repository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(apm *apmModel.Appointment) error {
	args := m.Called(apm)
	return args.Error(0)
}

func (m *MockAppointmentRepository) CreateDetail(detail *apmModel.DetailAppointmentTest) error {
	args := m.Called(detail)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(id string) (*apmModel.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apmModel.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) GetByUser(userID string, offset, limit int) ([]apmModel.Appointment, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]apmModel.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentRepository) GetByDoctor(doctorID string, offset, limit int) ([]apmModel.Appointment, int64, error) {
	args := m.Called(doctorID, offset, limit)
	return args.Get(0).([]apmModel.Appointment), args.Get(1).(int64), args.Error(2)
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

func (m *MockAppointmentRepository) GetDueForReminder(until time.Time) ([]apmRepo.ReminderTarget, error) {
	args := m.Called(until)
	return args.Get(0).([]apmRepo.ReminderTarget), args.Error(1)
}

func (m *MockAppointmentRepository) MarkReminderSent(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Transaction(fn func(txRepo apmRepo.AppointmentRepository) error) error {
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

// stubCache 总是未命中，写入和失效都成功，测试只关心仓储路径
type stubCache struct{}

func (stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (stubCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (stubCache) Delete(ctx context.Context, key string) error { return nil }

func (stubCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func (stubCache) InvalidatePattern(ctx context.Context, pattern string) error { return nil }

func twoServices() []catalogModel.ServiceTest {
	return []catalogModel.ServiceTest{
		{ServiceID: "SV000001", Name: "Blood test", Price: 30, Active: true},
		{ServiceID: "SV000002", Name: "X-ray", Price: 70, Active: true},
	}
}

func TestBookServices_FirstBooking(t *testing.T) {
	orders := new(MockOrderRepository)
	apms := new(MockAppointmentRepository)
	catalog := new(MockCatalogRepository)
	svc := NewOrderService(orders, apms, catalog, stubCache{})

	catalog.On("GetByIDs", []string{"SV000001", "SV000002"}).Return(twoServices(), nil)
	orders.On("GetPendingByUser", "US000001").Return([]model.Order{}, nil)
	orders.On("MaxOrderID").Return("", nil)
	orders.On("MaxOrderDetailID").Return("", nil)
	orders.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)
	orders.On("CreateDetail", mock.AnythingOfType("*model.OrderDetail")).Return(nil)

	result, err := svc.BookServices("US000001", []string{"SV000001", "SV000002"}, "alipay", "")

	assert.NoError(t, err)
	assert.Equal(t, "OD000001", result.Order.OrderID)
	assert.Equal(t, model.OrderTypeDirectly, result.Order.OrderType)
	assert.Equal(t, model.StatusPending, result.Order.Status)
	assert.Len(t, result.Order.Details, 2)
	assert.Equal(t, "ODT000001", result.Order.Details[0].OrderDetailID)
	assert.Equal(t, "ODT000002", result.Order.Details[1].OrderDetailID)
	assert.Empty(t, result.Skipped)
	orders.AssertExpectations(t)
}

func TestBookServices_RepeatBookingAllSkipped(t *testing.T) {
	orders := new(MockOrderRepository)
	apms := new(MockAppointmentRepository)
	catalog := new(MockCatalogRepository)
	svc := NewOrderService(orders, apms, catalog, stubCache{})

	catalog.On("GetByIDs", []string{"SV000001", "SV000002"}).Return(twoServices(), nil)
	pending := []model.Order{
		{
			OrderID: "OD000001",
			UserID:  "US000001",
			Status:  model.StatusPending,
			Details: []model.OrderDetail{
				{OrderDetailID: "ODT000001", ServiceID: "SV000001"},
				{OrderDetailID: "ODT000002", ServiceID: "SV000002"},
			},
		},
	}
	orders.On("GetPendingByUser", "US000001").Return(pending, nil)

	result, err := svc.BookServices("US000001", []string{"SV000001", "SV000002"}, "alipay", "")

	assert.Nil(t, result)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "no new services")
	orders.AssertNotCalled(t, "Create", mock.Anything)
	orders.AssertNotCalled(t, "CreateDetail", mock.Anything)
}

func TestBookServices_PartialSkip(t *testing.T) {
	orders := new(MockOrderRepository)
	apms := new(MockAppointmentRepository)
	catalog := new(MockCatalogRepository)
	svc := NewOrderService(orders, apms, catalog, stubCache{})

	catalog.On("GetByIDs", []string{"SV000001", "SV000002"}).Return(twoServices(), nil)
	pending := []model.Order{
		{
			OrderID: "OD000001",
			Status:  model.StatusPending,
			Details: []model.OrderDetail{{OrderDetailID: "ODT000001", ServiceID: "SV000001"}},
		},
	}
	orders.On("GetPendingByUser", "US000001").Return(pending, nil)
	orders.On("MaxOrderID").Return("OD000001", nil)
	orders.On("MaxOrderDetailID").Return("ODT000001", nil)
	orders.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)
	orders.On("CreateDetail", mock.AnythingOfType("*model.OrderDetail")).Return(nil)

	result, err := svc.BookServices("US000001", []string{"SV000001", "SV000002"}, "wechat", "")

	assert.NoError(t, err)
	assert.Equal(t, "OD000002", result.Order.OrderID)
	assert.Equal(t, []string{"SV000001"}, result.Skipped)
	assert.Len(t, result.Order.Details, 1)
	assert.Equal(t, "ODT000002", result.Order.Details[0].OrderDetailID)
	assert.Equal(t, "SV000002", result.Order.Details[0].ServiceID)
}

func TestBookServices_ConsultantOrderRequiresCompletedAppointment(t *testing.T) {
	orders := new(MockOrderRepository)
	apms := new(MockAppointmentRepository)
	catalog := new(MockCatalogRepository)
	svc := NewOrderService(orders, apms, catalog, stubCache{})

	apms.On("GetByID", "AP000005").Return(&apmModel.Appointment{
		AppointmentID: "AP000005",
		UserID:        "US000001",
		Status:        apmModel.StatusPending,
	}, nil)

	result, err := svc.BookServices("US000001", []string{"SV000001"}, "alipay", "AP000005")

	assert.Nil(t, result)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "completed")
	orders.AssertNotCalled(t, "Create", mock.Anything)
}

func TestBookServices_ConsultantOrderSetsType(t *testing.T) {
	orders := new(MockOrderRepository)
	apms := new(MockAppointmentRepository)
	catalog := new(MockCatalogRepository)
	svc := NewOrderService(orders, apms, catalog, stubCache{})

	apms.On("GetByID", "AP000003").Return(&apmModel.Appointment{
		AppointmentID: "AP000003",
		UserID:        "US000001",
		Status:        apmModel.StatusCompleted,
	}, nil)
	catalog.On("GetByIDs", []string{"SV000001"}).Return(twoServices()[:1], nil)
	orders.On("GetPendingByUser", "US000001").Return([]model.Order{}, nil)
	orders.On("MaxOrderID").Return("OD000009", nil)
	orders.On("MaxOrderDetailID").Return("ODT000011", nil)
	orders.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)
	orders.On("CreateDetail", mock.AnythingOfType("*model.OrderDetail")).Return(nil)

	result, err := svc.BookServices("US000001", []string{"SV000001"}, "alipay", "AP000003")

	assert.NoError(t, err)
	assert.Equal(t, model.OrderTypeWithConsultant, result.Order.OrderType)
	assert.Equal(t, "OD000010", result.Order.OrderID)
	assert.NotNil(t, result.Order.AppointmentID)
	assert.Equal(t, "AP000003", *result.Order.AppointmentID)
	assert.NotNil(t, result.Order.Details[0].AppointmentID)
}

func TestBookServices_DetailFailureAbortsBooking(t *testing.T) {
	orders := new(MockOrderRepository)
	apms := new(MockAppointmentRepository)
	catalog := new(MockCatalogRepository)
	svc := NewOrderService(orders, apms, catalog, stubCache{})

	catalog.On("GetByIDs", []string{"SV000001", "SV000002"}).Return(twoServices(), nil)
	orders.On("GetPendingByUser", "US000001").Return([]model.Order{}, nil)
	orders.On("MaxOrderID").Return("", nil)
	orders.On("MaxOrderDetailID").Return("", nil)
	orders.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)
	orders.On("CreateDetail", mock.AnythingOfType("*model.OrderDetail")).Return(errors.New("insert failed"))

	result, err := svc.BookServices("US000001", []string{"SV000001", "SV000002"}, "alipay", "")

	// 事务回调返回错误意味着整体回滚，调用方只看到失败
	assert.Nil(t, result)
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
}

func TestBookServices_UnknownService(t *testing.T) {
	orders := new(MockOrderRepository)
	apms := new(MockAppointmentRepository)
	catalog := new(MockCatalogRepository)
	svc := NewOrderService(orders, apms, catalog, stubCache{})

	catalog.On("GetByIDs", []string{"SV999999"}).Return([]catalogModel.ServiceTest{}, nil)

	result, err := svc.BookServices("US000001", []string{"SV999999"}, "alipay", "")

	assert.Nil(t, result)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestBookServices_EmptyRequest(t *testing.T) {
	svc := NewOrderService(new(MockOrderRepository), new(MockAppointmentRepository), new(MockCatalogRepository), stubCache{})

	result, err := svc.BookServices("US000001", nil, "alipay", "")

	assert.Nil(t, result)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPartition(t *testing.T) {
	pending := map[string]struct{}{
		"SV000002": {},
	}

	toBook, skipped := Partition([]string{"SV000001", "SV000002", "SV000003"}, pending)

	assert.Equal(t, []string{"SV000001", "SV000003"}, toBook)
	assert.Equal(t, []string{"SV000002"}, skipped)
	// 两组合并后与输入项数一致
	assert.Equal(t, 3, len(toBook)+len(skipped))
}

func TestPartition_EmptyPendingSet(t *testing.T) {
	toBook, skipped := Partition([]string{"SV000001"}, map[string]struct{}{})

	assert.Equal(t, []string{"SV000001"}, toBook)
	assert.Empty(t, skipped)
}

func TestUpdateStatus_LegalTransition(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockAppointmentRepository), new(MockCatalogRepository), stubCache{})

	orders.On("GetByID", "OD000001").Return(&model.Order{
		OrderID: "OD000001",
		Status:  model.StatusPaid,
	}, nil)
	orders.On("UpdateStatusIf", "OD000001", model.StatusPaid, model.StatusCompleted).Return(int64(1), nil)

	order, err := svc.UpdateStatus("OD000001", model.StatusCompleted)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, order.Status)
}

func TestUpdateStatus_PaidOrderCannotBeCancelled(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockAppointmentRepository), new(MockCatalogRepository), stubCache{})

	orders.On("GetByID", "OD000001").Return(&model.Order{
		OrderID: "OD000001",
		Status:  model.StatusPaid,
	}, nil)

	order, err := svc.UpdateStatus("OD000001", model.StatusCancelled)

	assert.Nil(t, order)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	orders.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_ConcurrentTransitionConflict(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockAppointmentRepository), new(MockCatalogRepository), stubCache{})

	orders.On("GetByID", "OD000001").Return(&model.Order{
		OrderID: "OD000001",
		Status:  model.StatusPending,
	}, nil)
	// 条件更新0行生效：另一请求已经改过状态
	orders.On("UpdateStatusIf", "OD000001", model.StatusPending, model.StatusPaid).Return(int64(0), nil)

	order, err := svc.UpdateStatus("OD000001", model.StatusPaid)

	assert.Nil(t, order)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUpdateStatus_NumericAlias(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockAppointmentRepository), new(MockCatalogRepository), stubCache{})

	orders.On("GetByID", "OD000001").Return(&model.Order{
		OrderID: "OD000001",
		Status:  model.StatusPending,
	}, nil)
	orders.On("UpdateStatusIf", "OD000001", model.StatusPending, model.StatusPaid).Return(int64(1), nil)

	// 历史数字状态 "1" 作为 paid 的别名接受
	order, err := svc.UpdateStatus("OD000001", "1")

	assert.NoError(t, err)
	assert.Equal(t, model.StatusPaid, order.Status)
}

func TestCancelOrder_OwnershipEnforced(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockAppointmentRepository), new(MockCatalogRepository), stubCache{})

	orders.On("GetByID", "OD000001").Return(&model.Order{
		OrderID: "OD000001",
		UserID:  "US000002",
		Status:  model.StatusPending,
	}, nil)

	order, err := svc.CancelOrder("OD000001", "US000001")

	assert.Nil(t, order)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestGetOrder_NotFound(t *testing.T) {
	orders := new(MockOrderRepository)
	svc := NewOrderService(orders, new(MockAppointmentRepository), new(MockCatalogRepository), stubCache{})

	orders.On("GetByID", "OD999999").Return(nil, gorm.ErrRecordNotFound)

	order, err := svc.GetOrder("OD999999", "US000001", "user")

	assert.Nil(t, order)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apmModel "healthcare_booking/internal/domain/appointment/model"
	apmRepo "healthcare_booking/internal/domain/appointment/repository"
	catalogRepo "healthcare_booking/internal/domain/catalog/repository"
	"healthcare_booking/internal/domain/order/model"
	"healthcare_booking/internal/domain/order/repository"
	userModel "healthcare_booking/internal/domain/user/model"
	"healthcare_booking/internal/pkg/sequence"
	"healthcare_booking/pkg/apperr"
	"healthcare_booking/pkg/cache"
	"healthcare_booking/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 缓存键
const (
	orderListCacheKeyPrefix = "order_list:"
	orderListCacheTTL       = time.Minute * 5
)

// BookingResult 下单结果：新建订单及其明细，以及因已有待支付订单而跳过的服务
type BookingResult struct {
	Order   *model.Order `json:"order"`
	Skipped []string     `json:"skipped"`
}

// OrderService 订单服务接口
type OrderService interface {
	BookServices(userID string, serviceIDs []string, paymentMethod, appointmentID string) (*BookingResult, error)
	GetOrder(id, requesterID, role string) (*model.Order, error)
	GetUserOrders(userID string, page, limit int) ([]model.Order, int64, error)
	UpdateStatus(id, target string) (*model.Order, error)
	CancelOrder(id, requesterID string) (*model.Order, error)
}

type orderService struct {
	repo         repository.OrderRepository
	appointments apmRepo.AppointmentRepository
	catalog      catalogRepo.CatalogRepository
	cache        cache.CacheService
}

// NewOrderService 创建订单服务
func NewOrderService(
	repo repository.OrderRepository,
	appointments apmRepo.AppointmentRepository,
	catalog catalogRepo.CatalogRepository,
	cacheService cache.CacheService,
) OrderService {
	return &orderService{
		repo:         repo,
		appointments: appointments,
		catalog:      catalog,
		cache:        cacheService,
	}
}

// invalidateOrderCache 写操作提交后清除该用户的订单列表缓存
func (s *orderService) invalidateOrderCache(userID string) {
	if err := s.cache.InvalidatePattern(context.Background(), orderListCacheKeyPrefix+userID+":*"); err != nil {
		logger.Log.Warn("Failed to invalidate order list cache", zap.Error(err))
	}
}

// Partition 把请求的服务按是否已有待支付订单分为两组
// toBook 保持输入顺序，toBook 与 skipped 合并后与输入逐项相等
func Partition(requested []string, pending map[string]struct{}) (toBook, skipped []string) {
	toBook = make([]string, 0, len(requested))
	skipped = make([]string, 0)
	for _, id := range requested {
		if _, ok := pending[id]; ok {
			skipped = append(skipped, id)
		} else {
			toBook = append(toBook, id)
		}
	}
	return toBook, skipped
}

// BookServices 预订检验服务
// 在一个事务内完成重复过滤、订单ID和明细ID分配、订单与明细写入，
// 任何一步失败全部回滚；全部服务都已在待支付订单中时拒绝创建空订单
func (s *orderService) BookServices(userID string, serviceIDs []string, paymentMethod, appointmentID string) (*BookingResult, error) {
	if len(serviceIDs) == 0 {
		return nil, apperr.Validation("service list must not be empty")
	}
	if paymentMethod == "" {
		return nil, apperr.Validation("payment method is required")
	}

	// 经咨询下单必须关联一个已完成的预约
	orderType := model.OrderTypeDirectly
	var apmID *string
	if appointmentID != "" {
		apm, err := s.appointments.GetByID(appointmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation("appointment not found")
			}
			return nil, apperr.Internal("failed to query appointment", err)
		}
		if apm.UserID != userID {
			return nil, apperr.Forbidden("appointment belongs to another user")
		}
		if apm.Status != apmModel.StatusCompleted {
			return nil, apperr.Validation("appointment must be completed before ordering services")
		}
		orderType = model.OrderTypeWithConsultant
		apmID = &apm.AppointmentID
	}

	// 校验服务并取价
	catalogItems, err := s.catalog.GetByIDs(serviceIDs)
	if err != nil {
		return nil, apperr.Internal("failed to query services", err)
	}
	byID := make(map[string]int, len(catalogItems))
	for i, item := range catalogItems {
		byID[item.ServiceID] = i
	}
	for _, id := range serviceIDs {
		idx, ok := byID[id]
		if !ok {
			return nil, apperr.NotFound(fmt.Sprintf("service %s not found", id))
		}
		if !catalogItems[idx].Active {
			return nil, apperr.Validation(fmt.Sprintf("service %s is not available", id))
		}
	}

	var result *BookingResult
	err = s.repo.Transaction(func(txRepo repository.OrderRepository) error {
		// 1. 事务内重新检查待支付订单，过滤重复服务
		pendingOrders, err := txRepo.GetPendingByUser(userID)
		if err != nil {
			return err
		}
		pending := make(map[string]struct{})
		for _, order := range pendingOrders {
			for _, detail := range order.Details {
				pending[detail.ServiceID] = struct{}{}
			}
		}

		toBook, skipped := Partition(serviceIDs, pending)
		if len(toBook) == 0 {
			return apperr.Validation("no new services to book")
		}

		// 2. 分配订单ID并写入订单
		maxOrderID, err := txRepo.MaxOrderID()
		if err != nil {
			return err
		}
		order := &model.Order{
			OrderID:       sequence.Next(sequence.PrefixOrder, maxOrderID, sequence.DefaultWidth),
			UserID:        userID,
			AppointmentID: apmID,
			OrderType:     orderType,
			PaymentMethod: paymentMethod,
			Status:        model.StatusPending,
		}
		if err := txRepo.Create(order); err != nil {
			return err
		}

		// 3. 逐项分配明细ID并写入明细
		maxDetailID, err := txRepo.MaxOrderDetailID()
		if err != nil {
			return err
		}
		nextDetailID := maxDetailID
		for _, serviceID := range toBook {
			item := catalogItems[byID[serviceID]]
			nextDetailID = sequence.Next(sequence.PrefixOrderDetail, nextDetailID, sequence.DefaultWidth)
			detail := &model.OrderDetail{
				OrderDetailID: nextDetailID,
				OrderID:       order.OrderID,
				ServiceID:     item.ServiceID,
				AppointmentID: apmID,
				Name:          item.Name,
				Price:         item.Price,
			}
			if err := txRepo.CreateDetail(detail); err != nil {
				return err
			}
			order.Details = append(order.Details, *detail)
		}

		result = &BookingResult{Order: order, Skipped: skipped}
		return nil
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindValidation) {
			return nil, err
		}
		return nil, apperr.Internal("failed to book services", err)
	}

	s.invalidateOrderCache(userID)
	return result, nil
}

// GetOrder 获取订单详情，普通用户只能查看自己的订单
func (s *orderService) GetOrder(id, requesterID, role string) (*model.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("failed to query order", err)
	}
	if role == userModel.RoleUser && order.UserID != requesterID {
		return nil, apperr.Forbidden("not allowed to view this order")
	}
	return order, nil
}

// GetUserOrders 获取用户订单列表（带缓存）
func (s *orderService) GetUserOrders(userID string, page, limit int) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("%s%s:%d:%d", orderListCacheKeyPrefix, userID, page, limit)

	var cached struct {
		Orders []model.Order `json:"orders"`
		Total  int64         `json:"total"`
	}
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached.Orders, cached.Total, nil
	}

	orders, total, err := s.repo.GetByUser(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list orders", err)
	}

	cached.Orders = orders
	cached.Total = total
	if err := s.cache.Set(ctx, cacheKey, cached, orderListCacheTTL); err != nil {
		logger.Log.Warn("Failed to cache order list", zap.Error(err))
	}

	return orders, total, nil
}

// UpdateStatus 订单状态迁移
// 条件更新 WHERE status = <读取到的当前状态>，0 行生效说明存在并发迁移，报冲突
func (s *orderService) UpdateStatus(id, target string) (*model.Order, error) {
	canonical, ok := model.ParseStatus(target)
	if !ok {
		return nil, apperr.Validation("unknown order status: " + target)
	}

	order, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("failed to query order", err)
	}

	if !model.CanTransition(order.Status, canonical) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot change order status from %s to %s", order.Status, canonical))
	}

	rows, err := s.repo.UpdateStatusIf(id, order.Status, canonical)
	if err != nil {
		return nil, apperr.Internal("failed to update order status", err)
	}
	if rows == 0 {
		return nil, apperr.Conflict("order status changed concurrently, please retry")
	}

	order.Status = canonical
	s.invalidateOrderCache(order.UserID)
	return order, nil
}

// CancelOrder 用户取消自己的待支付订单
func (s *orderService) CancelOrder(id, requesterID string) (*model.Order, error) {
	order, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("failed to query order", err)
	}
	if order.UserID != requesterID {
		return nil, apperr.Forbidden("not allowed to cancel this order")
	}

	return s.UpdateStatus(id, model.StatusCancelled)
}

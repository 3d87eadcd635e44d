package repository

import (
	"healthcare_booking/internal/domain/order/model"
	"healthcare_booking/internal/pkg/sequence"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	CreateDetail(detail *model.OrderDetail) error
	GetByID(id string) (*model.Order, error)
	GetByUser(userID string, offset, limit int) ([]model.Order, int64, error)

	// GetPendingByUser 查询用户所有待支付订单，预加载明细，供重复服务过滤使用
	GetPendingByUser(userID string) ([]model.Order, error)

	MaxOrderID() (string, error)
	MaxOrderDetailID() (string, error)

	// UpdateStatusIf 条件更新状态：仅当当前状态等于 expected 时生效
	// 返回受影响行数，0 行表示并发状态冲突，由调用方转换为冲突错误
	UpdateStatusIf(id, expected, target string) (int64, error)

	Transaction(fn func(txRepo OrderRepository) error) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) CreateDetail(detail *model.OrderDetail) error {
	return r.db.Create(detail).Error
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Preload("Details").Where("order_id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByUser(userID string, offset, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	if err := r.db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Details").
		Where("user_id = ?", userID).
		Order("order_id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) GetPendingByUser(userID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Details").
		Where("user_id = ? AND status = ?", userID, model.StatusPending).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) MaxOrderID() (string, error) {
	var id string
	err := r.db.Model(&model.Order{}).
		Where("order_id LIKE ?", sequence.PrefixOrder+"%").
		Select("COALESCE(MAX(order_id), '')").
		Scan(&id).Error
	return id, err
}

func (r *orderRepository) MaxOrderDetailID() (string, error) {
	var id string
	err := r.db.Model(&model.OrderDetail{}).
		Where("order_detail_id LIKE ?", sequence.PrefixOrderDetail+"%").
		Select("COALESCE(MAX(order_detail_id), '')").
		Scan(&id).Error
	return id, err
}

func (r *orderRepository) UpdateStatusIf(id, expected, target string) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("order_id = ? AND status = ?", id, expected).
		Update("status", target)
	return result.RowsAffected, result.Error
}

func (r *orderRepository) Transaction(fn func(txRepo OrderRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&orderRepository{db: tx})
	})
}

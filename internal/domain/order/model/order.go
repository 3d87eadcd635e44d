package model

import (
	baseModel "healthcare_booking/pkg/model"
)

// 订单状态，规范表示为字符串
// 历史数据中存在数字状态 (0/1)，仅在反序列化时作为别名接受，见 ParseStatus
const (
	StatusPending    = "pending"
	StatusPaid       = "paid"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// 订单类型：直接下单 / 经已完成的咨询预约下单
const (
	OrderTypeDirectly       = "directly"
	OrderTypeWithConsultant = "with_consultant"
)

// orderTransitions 订单状态机的合法迁移
// 已支付订单不允许取消，退款需走线下流程
var orderTransitions = map[string][]string{
	StatusPending:    {StatusPaid, StatusCancelled},
	StatusPaid:       {StatusProcessing, StatusCompleted},
	StatusProcessing: {StatusCompleted},
}

// CanTransition 判断 from → to 是否为合法状态迁移
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus 解析状态值，接受历史数字别名，返回规范字符串表示
func ParseStatus(raw string) (string, bool) {
	switch raw {
	case StatusPending, StatusPaid, StatusProcessing, StatusCompleted, StatusCancelled:
		return raw, true
	case "0":
		return StatusPending, true
	case "1":
		return StatusPaid, true
	default:
		return "", false
	}
}

// Order 检验服务订单
// order_id 为带前缀的顺序业务主键 (OD000001)
type Order struct {
	OrderID       string  `gorm:"column:order_id;primaryKey" json:"orderId"`
	UserID        string  `gorm:"index;not null" json:"userId"`
	AppointmentID *string `gorm:"index" json:"appointmentId,omitempty"`
	OrderType     string  `gorm:"type:varchar(20);not null" json:"orderType"`
	PaymentMethod string  `gorm:"type:varchar(20)" json:"paymentMethod"`
	Status        string  `gorm:"type:varchar(20);default:'pending'" json:"status"`
	baseModel.Timestamps

	Details []OrderDetail `gorm:"foreignKey:OrderID;references:OrderID" json:"details,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderDetail 订单下的单项检验服务
type OrderDetail struct {
	OrderDetailID string  `gorm:"column:order_detail_id;primaryKey" json:"orderDetailId"`
	OrderID       string  `gorm:"index;not null" json:"orderId"`
	ServiceID     string  `gorm:"index;not null" json:"serviceId"`
	AppointmentID *string `gorm:"index" json:"appointmentId,omitempty"`
	Name          string  `gorm:"type:varchar(200)" json:"name"`
	Price         float64 `gorm:"not null" json:"price"`
	baseModel.Timestamps
}

func (OrderDetail) TableName() string {
	return "order_details"
}

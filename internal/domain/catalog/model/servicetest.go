package model

import (
	baseModel "healthcare_booking/pkg/model"
)

// ServiceTest 检验/服务目录项
// 只被订单明细和预约检验明细引用，从不被它们拥有
type ServiceTest struct {
	ServiceID   string  `gorm:"column:service_id;primaryKey" json:"serviceId"`
	Name        string  `gorm:"type:varchar(200);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`
	baseModel.Timestamps
}

func (ServiceTest) TableName() string {
	return "service_tests"
}

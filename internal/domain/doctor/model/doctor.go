package model

import (
	"time"

	baseModel "healthcare_booking/pkg/model"
)

// Doctor 医生档案
// 与 users 表的账号一一对应，doctor_id 为带前缀的顺序业务主键 (DR000001)
type Doctor struct {
	DoctorID  string  `gorm:"column:doctor_id;primaryKey" json:"doctorId"`
	UserID    string  `gorm:"index;not null" json:"userId"`
	Specialty string  `gorm:"type:varchar(100)" json:"specialty"`
	Bio       string  `gorm:"type:text" json:"bio"`
	Price     float64 `gorm:"not null;default:0" json:"price"` // 咨询费
	Active    bool    `gorm:"default:true" json:"active"`
	baseModel.Timestamps
}

func (Doctor) TableName() string {
	return "doctors"
}

// Timeslot 医生的可预约时段
type Timeslot struct {
	TimeslotID string    `gorm:"column:timeslot_id;primaryKey" json:"timeslotId"`
	DoctorID   string    `gorm:"index;not null" json:"doctorId"`
	StartTime  time.Time `gorm:"not null" json:"startTime"`
	EndTime    time.Time `gorm:"not null" json:"endTime"`
	Available  bool      `gorm:"default:true" json:"available"`
	baseModel.Timestamps
}

func (Timeslot) TableName() string {
	return "timeslots"
}

package model

import (
	baseModel "healthcare_booking/pkg/model"
)

// 预约状态，规范表示为字符串
// 历史数据中存在数字状态 (0/1)，仅在反序列化时作为别名接受，见 ParseStatus
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// 咨询类型
const (
	ConsultantTypeOnline  = "online"
	ConsultantTypeOffline = "offline"
)

// appointmentTransitions 预约状态机的合法迁移
var appointmentTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition 判断 from → to 是否为合法状态迁移
func CanTransition(from, to string) bool {
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus 解析状态值，接受历史数字别名，返回规范字符串表示
func ParseStatus(raw string) (string, bool) {
	switch raw {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusRejected, StatusCancelled:
		return raw, true
	case "0":
		return StatusPending, true
	case "1":
		return StatusConfirmed, true
	default:
		return "", false
	}
}

// Appointment 预约
// appointment_id 为带前缀的顺序业务主键 (AP000001)
type Appointment struct {
	AppointmentID  string  `gorm:"column:appointment_id;primaryKey" json:"appointmentId"`
	UserID         string  `gorm:"index;not null" json:"userId"`
	DoctorID       string  `gorm:"index;not null" json:"doctorId"`
	TimeslotID     *string `gorm:"index" json:"timeslotId,omitempty"`
	Status         string  `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PriceApm       float64 `gorm:"not null;default:0" json:"priceApm"`
	ConsultantType string  `gorm:"type:varchar(20)" json:"consultantType"`
	ReminderSent   bool    `gorm:"default:false" json:"reminderSent"`
	baseModel.Timestamps

	Details []DetailAppointmentTest `gorm:"foreignKey:AppointmentID;references:AppointmentID" json:"details,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// DetailAppointmentTest 预约下的检验明细
// 只随所属预约存在，不单独创建或删除
type DetailAppointmentTest struct {
	AppointmentTestID string  `gorm:"column:appointment_test_id;primaryKey" json:"appointmentTestId"`
	AppointmentID     string  `gorm:"index;not null" json:"appointmentId"`
	ServiceID         string  `gorm:"not null" json:"serviceId"`
	Name              string  `gorm:"type:varchar(200)" json:"name"`
	Price             float64 `gorm:"not null" json:"price"`
	baseModel.Timestamps
}

func (DetailAppointmentTest) TableName() string {
	return "detail_appointment_tests"
}

package repository

import (
	"time"

	"healthcare_booking/internal/domain/appointment/model"
	"healthcare_booking/internal/pkg/sequence"

	"gorm.io/gorm"
)

// ReminderTarget 待提醒预约及联系信息
type ReminderTarget struct {
	AppointmentID string    `json:"appointmentId"`
	UserEmail     string    `json:"userEmail"`
	UserName      string    `json:"userName"`
	StartTime     time.Time `json:"startTime"`
}

type AppointmentRepository interface {
	Create(apm *model.Appointment) error
	CreateDetail(detail *model.DetailAppointmentTest) error
	GetByID(id string) (*model.Appointment, error)
	GetByUser(userID string, offset, limit int) ([]model.Appointment, int64, error)
	GetByDoctor(doctorID string, offset, limit int) ([]model.Appointment, int64, error)
	MaxAppointmentID() (string, error)
	MaxDetailID() (string, error)

	// UpdateStatusIf 条件更新状态：仅当当前状态等于 expected 时生效
	// 返回受影响行数，0 行表示并发状态冲突，由调用方转换为冲突错误
	UpdateStatusIf(id, expected, target string) (int64, error)

	// HoldTimeslot 占用或释放时段
	// 占用是条件更新 WHERE available = true，0 行表示时段已被抢占
	HoldTimeslot(id string, hold bool) (int64, error)

	// 提醒扫描
	GetDueForReminder(until time.Time) ([]ReminderTarget, error)
	MarkReminderSent(id string) error

	Transaction(fn func(txRepo AppointmentRepository) error) error
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(apm *model.Appointment) error {
	return r.db.Create(apm).Error
}

func (r *appointmentRepository) CreateDetail(detail *model.DetailAppointmentTest) error {
	return r.db.Create(detail).Error
}

func (r *appointmentRepository) GetByID(id string) (*model.Appointment, error) {
	var apm model.Appointment
	if err := r.db.Preload("Details").Where("appointment_id = ?", id).First(&apm).Error; err != nil {
		return nil, err
	}
	return &apm, nil
}

func (r *appointmentRepository) GetByUser(userID string, offset, limit int) ([]model.Appointment, int64, error) {
	return r.listBy("user_id", userID, offset, limit)
}

func (r *appointmentRepository) GetByDoctor(doctorID string, offset, limit int) ([]model.Appointment, int64, error) {
	return r.listBy("doctor_id", doctorID, offset, limit)
}

func (r *appointmentRepository) listBy(column, value string, offset, limit int) ([]model.Appointment, int64, error) {
	var apms []model.Appointment
	var total int64

	query := r.db.Model(&model.Appointment{}).Where(column+" = ?", value)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Details").
		Where(column+" = ?", value).
		Order("appointment_id DESC").
		Offset(offset).Limit(limit).
		Find(&apms).Error
	return apms, total, err
}

func (r *appointmentRepository) MaxAppointmentID() (string, error) {
	var id string
	err := r.db.Model(&model.Appointment{}).
		Where("appointment_id LIKE ?", sequence.PrefixAppointment+"%").
		Select("COALESCE(MAX(appointment_id), '')").
		Scan(&id).Error
	return id, err
}

func (r *appointmentRepository) MaxDetailID() (string, error) {
	var id string
	err := r.db.Model(&model.DetailAppointmentTest{}).
		Where("appointment_test_id LIKE ?", sequence.PrefixAppointmentTest+"%").
		Select("COALESCE(MAX(appointment_test_id), '')").
		Scan(&id).Error
	return id, err
}

func (r *appointmentRepository) UpdateStatusIf(id, expected, target string) (int64, error) {
	result := r.db.Model(&model.Appointment{}).
		Where("appointment_id = ? AND status = ?", id, expected).
		Update("status", target)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) HoldTimeslot(id string, hold bool) (int64, error) {
	query := r.db.Table("timeslots").Where("timeslot_id = ?", id)
	if hold {
		query = query.Where("available = ?", true)
	}
	result := query.Update("available", !hold)
	return result.RowsAffected, result.Error
}

// GetDueForReminder 查询即将开始且未提醒的已确认预约
func (r *appointmentRepository) GetDueForReminder(until time.Time) ([]ReminderTarget, error) {
	var targets []ReminderTarget
	err := r.db.Table("appointments").
		Select("appointments.appointment_id, users.email AS user_email, users.full_name AS user_name, timeslots.start_time").
		Joins("JOIN timeslots ON timeslots.timeslot_id = appointments.timeslot_id").
		Joins("JOIN users ON users.user_id = appointments.user_id").
		Where("appointments.status = ?", model.StatusConfirmed).
		Where("appointments.reminder_sent = ?", false).
		Where("timeslots.start_time BETWEEN ? AND ?", time.Now(), until).
		Scan(&targets).Error
	return targets, err
}

func (r *appointmentRepository) MarkReminderSent(id string) error {
	return r.db.Model(&model.Appointment{}).
		Where("appointment_id = ?", id).
		Update("reminder_sent", true).Error
}

func (r *appointmentRepository) Transaction(fn func(txRepo AppointmentRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&appointmentRepository{db: tx})
	})
}

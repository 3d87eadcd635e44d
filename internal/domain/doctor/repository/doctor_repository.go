package repository

import (
	"healthcare_booking/internal/domain/doctor/model"
	"healthcare_booking/internal/pkg/sequence"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(doctor *model.Doctor) error
	GetByID(id string) (*model.Doctor, error)
	GetList(offset, limit int) ([]model.Doctor, int64, error)
	Update(doctor *model.Doctor) error
	MaxDoctorID() (string, error)

	CreateTimeslot(slot *model.Timeslot) error
	GetTimeslot(id string) (*model.Timeslot, error)
	GetTimeslotsByDoctor(doctorID string) ([]model.Timeslot, error)
	MarkTimeslotAvailability(id string, available bool) error
	MaxTimeslotID() (string, error)

	Transaction(fn func(txRepo DoctorRepository) error) error
}

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(doctor *model.Doctor) error {
	return r.db.Create(doctor).Error
}

func (r *doctorRepository) GetByID(id string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.Where("doctor_id = ?", id).First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) GetList(offset, limit int) ([]model.Doctor, int64, error) {
	var doctors []model.Doctor
	var total int64

	query := r.db.Model(&model.Doctor{}).Where("active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("doctor_id").Offset(offset).Limit(limit).Find(&doctors).Error
	return doctors, total, err
}

func (r *doctorRepository) Update(doctor *model.Doctor) error {
	return r.db.Save(doctor).Error
}

func (r *doctorRepository) MaxDoctorID() (string, error) {
	var id string
	err := r.db.Model(&model.Doctor{}).
		Where("doctor_id LIKE ?", sequence.PrefixDoctor+"%").
		Select("COALESCE(MAX(doctor_id), '')").
		Scan(&id).Error
	return id, err
}

func (r *doctorRepository) CreateTimeslot(slot *model.Timeslot) error {
	return r.db.Create(slot).Error
}

func (r *doctorRepository) GetTimeslot(id string) (*model.Timeslot, error) {
	var slot model.Timeslot
	if err := r.db.Where("timeslot_id = ?", id).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *doctorRepository) GetTimeslotsByDoctor(doctorID string) ([]model.Timeslot, error) {
	var slots []model.Timeslot
	err := r.db.Where("doctor_id = ? AND available = ?", doctorID, true).
		Order("start_time").Find(&slots).Error
	return slots, err
}

func (r *doctorRepository) MarkTimeslotAvailability(id string, available bool) error {
	return r.db.Model(&model.Timeslot{}).
		Where("timeslot_id = ?", id).
		Update("available", available).Error
}

func (r *doctorRepository) MaxTimeslotID() (string, error) {
	var id string
	err := r.db.Model(&model.Timeslot{}).
		Where("timeslot_id LIKE ?", sequence.PrefixTimeslot+"%").
		Select("COALESCE(MAX(timeslot_id), '')").
		Scan(&id).Error
	return id, err
}

func (r *doctorRepository) Transaction(fn func(txRepo DoctorRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&doctorRepository{db: tx})
	})
}

package service

import (
	"errors"
	"fmt"

	"healthcare_booking/internal/domain/appointment/model"
	"healthcare_booking/internal/domain/appointment/repository"
	catalogRepo "healthcare_booking/internal/domain/catalog/repository"
	doctorRepo "healthcare_booking/internal/domain/doctor/repository"
	userModel "healthcare_booking/internal/domain/user/model"
	userRepo "healthcare_booking/internal/domain/user/repository"
	"healthcare_booking/internal/pkg/mailer"
	"healthcare_booking/internal/pkg/sequence"
	"healthcare_booking/pkg/apperr"
	"healthcare_booking/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemResult 批量操作的单项结果
type ItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AppointmentService 预约服务接口
type AppointmentService interface {
	CreateAppointment(userID, doctorID, timeslotID, consultantType string, serviceIDs []string) (*model.Appointment, error)
	GetAppointment(id, requesterID, role string) (*model.Appointment, error)
	GetUserAppointments(userID string, page, limit int) ([]model.Appointment, int64, error)
	GetDoctorAppointments(doctorID string, page, limit int) ([]model.Appointment, int64, error)
	UpdateStatus(id, target string) (*model.Appointment, error)
	CancelAppointment(id, requesterID string) (*model.Appointment, error)
	BulkApprove(ids []string) []ItemResult
}

type appointmentService struct {
	repo    repository.AppointmentRepository
	doctors doctorRepo.DoctorRepository
	catalog catalogRepo.CatalogRepository
	users   userRepo.UserRepository
	mailer  *mailer.Mailer
}

// NewAppointmentService 创建预约服务
func NewAppointmentService(
	repo repository.AppointmentRepository,
	doctors doctorRepo.DoctorRepository,
	catalog catalogRepo.CatalogRepository,
	users userRepo.UserRepository,
	m *mailer.Mailer,
) AppointmentService {
	return &appointmentService{
		repo:    repo,
		doctors: doctors,
		catalog: catalog,
		users:   users,
		mailer:  m,
	}
}

// CreateAppointment 创建预约及其检验明细
// 预约ID和明细ID都在同一个事务内分配和插入，任何一步失败整体回滚，
// 并发读取看不到半成品预约
func (s *appointmentService) CreateAppointment(userID, doctorID, timeslotID, consultantType string, serviceIDs []string) (*model.Appointment, error) {
	if consultantType != model.ConsultantTypeOnline && consultantType != model.ConsultantTypeOffline {
		return nil, apperr.Validation("consultant type must be online or offline")
	}

	// 1. 校验医生
	doctor, err := s.doctors.GetByID(doctorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("doctor not found")
		}
		return nil, apperr.Internal("failed to query doctor", err)
	}
	if !doctor.Active {
		return nil, apperr.Validation("doctor is not accepting appointments")
	}

	// 2. 校验时段（可选）
	var slotID *string
	if timeslotID != "" {
		slot, err := s.doctors.GetTimeslot(timeslotID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("timeslot not found")
			}
			return nil, apperr.Internal("failed to query timeslot", err)
		}
		if slot.DoctorID != doctorID {
			return nil, apperr.Validation("timeslot does not belong to this doctor")
		}
		if !slot.Available {
			return nil, apperr.Conflict("timeslot is no longer available")
		}
		slotID = &slot.TimeslotID
	}

	// 3. 校验所选服务并计算总价
	price := doctor.Price
	var items []struct {
		ServiceID string
		Name      string
		Price     float64
	}
	if len(serviceIDs) > 0 {
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
			item := catalogItems[idx]
			if !item.Active {
				return nil, apperr.Validation(fmt.Sprintf("service %s is not available", id))
			}
			items = append(items, struct {
				ServiceID string
				Name      string
				Price     float64
			}{item.ServiceID, item.Name, item.Price})
			price += item.Price
		}
	}

	// 4. 事务：分配ID、写预约和明细、占用时段
	var apm *model.Appointment
	err = s.repo.Transaction(func(txRepo repository.AppointmentRepository) error {
		maxID, err := txRepo.MaxAppointmentID()
		if err != nil {
			return err
		}
		apm = &model.Appointment{
			AppointmentID:  sequence.Next(sequence.PrefixAppointment, maxID, sequence.DefaultWidth),
			UserID:         userID,
			DoctorID:       doctorID,
			TimeslotID:     slotID,
			Status:         model.StatusPending,
			PriceApm:       price,
			ConsultantType: consultantType,
		}
		if err := txRepo.Create(apm); err != nil {
			return err
		}

		maxDetailID, err := txRepo.MaxDetailID()
		if err != nil {
			return err
		}
		nextDetailID := maxDetailID
		for _, item := range items {
			nextDetailID = sequence.Next(sequence.PrefixAppointmentTest, nextDetailID, sequence.DefaultWidth)
			detail := &model.DetailAppointmentTest{
				AppointmentTestID: nextDetailID,
				AppointmentID:     apm.AppointmentID,
				ServiceID:         item.ServiceID,
				Name:              item.Name,
				Price:             item.Price,
			}
			if err := txRepo.CreateDetail(detail); err != nil {
				return err
			}
			apm.Details = append(apm.Details, *detail)
		}

		if slotID != nil {
			rows, err := txRepo.HoldTimeslot(*slotID, true)
			if err != nil {
				return err
			}
			if rows == 0 {
				return apperr.Conflict("timeslot is no longer available")
			}
		}
		return nil
	})
	if err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, err
		}
		return nil, apperr.Internal("failed to create appointment", err)
	}

	return apm, nil
}

// GetAppointment 获取预约详情，普通用户只能查看自己的预约
func (s *appointmentService) GetAppointment(id, requesterID, role string) (*model.Appointment, error) {
	apm, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, apperr.Internal("failed to query appointment", err)
	}

	if role == userModel.RoleUser && apm.UserID != requesterID {
		return nil, apperr.Forbidden("not allowed to view this appointment")
	}
	return apm, nil
}

func (s *appointmentService) GetUserAppointments(userID string, page, limit int) ([]model.Appointment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	apms, total, err := s.repo.GetByUser(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list appointments", err)
	}
	return apms, total, nil
}

func (s *appointmentService) GetDoctorAppointments(doctorID string, page, limit int) ([]model.Appointment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	apms, total, err := s.repo.GetByDoctor(doctorID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list appointments", err)
	}
	return apms, total, nil
}

// UpdateStatus 预约状态迁移
// 条件更新 WHERE status = <读取到的当前状态>，0 行生效说明存在并发迁移，报冲突
func (s *appointmentService) UpdateStatus(id, target string) (*model.Appointment, error) {
	canonical, ok := model.ParseStatus(target)
	if !ok {
		return nil, apperr.Validation("unknown appointment status: " + target)
	}

	apm, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, apperr.Internal("failed to query appointment", err)
	}

	if !model.CanTransition(apm.Status, canonical) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot change appointment status from %s to %s", apm.Status, canonical))
	}

	rows, err := s.repo.UpdateStatusIf(id, apm.Status, canonical)
	if err != nil {
		return nil, apperr.Internal("failed to update appointment status", err)
	}
	if rows == 0 {
		return nil, apperr.Conflict("appointment status changed concurrently, please retry")
	}

	// 取消或拒绝时释放时段
	if (canonical == model.StatusCancelled || canonical == model.StatusRejected) && apm.TimeslotID != nil {
		if _, err := s.repo.HoldTimeslot(*apm.TimeslotID, false); err != nil {
			logger.Log.Warn("failed to release timeslot",
				zap.String("timeslot_id", *apm.TimeslotID),
				zap.Error(err))
		}
	}

	apm.Status = canonical

	// 确认后通知用户，fire-and-forget
	if canonical == model.StatusConfirmed {
		s.notifyStatus(apm, "Your appointment has been confirmed")
	}

	return apm, nil
}

// CancelAppointment 用户取消自己的预约
func (s *appointmentService) CancelAppointment(id, requesterID string) (*model.Appointment, error) {
	apm, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, apperr.Internal("failed to query appointment", err)
	}
	if apm.UserID != requesterID {
		return nil, apperr.Forbidden("not allowed to cancel this appointment")
	}

	return s.UpdateStatus(id, model.StatusCancelled)
}

// BulkApprove 批量确认预约，逐项执行并报告每项结果，单项失败不影响其他项
func (s *appointmentService) BulkApprove(ids []string) []ItemResult {
	results := make([]ItemResult, 0, len(ids))
	for _, id := range ids {
		if _, err := s.UpdateStatus(id, model.StatusConfirmed); err != nil {
			results = append(results, ItemResult{ID: id, Success: false, Message: apperr.From(err).Message})
			continue
		}
		results = append(results, ItemResult{ID: id, Success: true, Message: "confirmed"})
	}
	return results
}

// notifyStatus 给预约用户发送状态通知邮件
func (s *appointmentService) notifyStatus(apm *model.Appointment, subject string) {
	if s.mailer == nil {
		return
	}
	user, err := s.users.GetByID(apm.UserID)
	if err != nil {
		return
	}
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>%s.</p><p>Appointment ID: <b>%s</b></p>",
		user.FullName, subject, apm.AppointmentID,
	)
	s.mailer.SendAsync(user.Email, subject, body)
}

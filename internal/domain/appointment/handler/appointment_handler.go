package handler

import (
	"net/http"

	"healthcare_booking/internal/domain/appointment/service"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/pkg/response"
	"healthcare_booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler 预约处理器
type AppointmentHandler struct {
	service service.AppointmentService
}

func NewAppointmentHandler(service service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// CreateAppointmentInput 预约创建输入
type CreateAppointmentInput struct {
	DoctorID       string   `json:"doctorId" binding:"required"`
	TimeslotID     string   `json:"timeslotId"`
	ConsultantType string   `json:"consultantType" binding:"required"`
	ServiceIDs     []string `json:"serviceIds"`
}

// UpdateStatusInput 状态迁移输入
type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// BulkApproveInput 批量确认输入
type BulkApproveInput struct {
	AppointmentIDs []string `json:"appointmentIds" binding:"required,min=1"`
}

// CreateAppointment 创建预约
// @Summary 创建预约
// @Tags Appointment
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	apm, err := h.service.CreateAppointment(
		middleware.CurrentUserID(c),
		input.DoctorID,
		input.TimeslotID,
		input.ConsultantType,
		input.ServiceIDs,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "appointment created", apm)
}

// GetMyAppointments 我的预约列表
// @Summary 我的预约列表
// @Tags Appointment
// @Router /appointments/me [get]
func (h *AppointmentHandler) GetMyAppointments(c *gin.Context) {
	p := utils.ParsePagination(c)
	apms, total, err := h.service.GetUserAppointments(middleware.CurrentUserID(c), p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", gin.H{
		"appointments": apms,
		"total":        total,
	})
}

// GetDoctorAppointments 医生名下预约列表
// @Summary 医生预约列表
// @Tags Appointment
// @Router /appointments/doctor/:id [get]
func (h *AppointmentHandler) GetDoctorAppointments(c *gin.Context) {
	p := utils.ParsePagination(c)
	apms, total, err := h.service.GetDoctorAppointments(c.Param("id"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", gin.H{
		"appointments": apms,
		"total":        total,
	})
}

// GetAppointment 预约详情
// @Summary 预约详情
// @Tags Appointment
// @Router /appointments/:id [get]
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	apm, err := h.service.GetAppointment(
		c.Param("id"),
		middleware.CurrentUserID(c),
		middleware.CurrentRole(c),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", apm)
}

// UpdateStatus 预约状态迁移 (医生/管理员)
// @Summary 更新预约状态
// @Tags Appointment
// @Router /appointments/:id/status [put]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	apm, err := h.service.UpdateStatus(c.Param("id"), input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "appointment status updated", apm)
}

// CancelAppointment 用户取消自己的预约
// @Summary 取消预约
// @Tags Appointment
// @Router /appointments/:id/cancel [put]
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	apm, err := h.service.CancelAppointment(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "appointment cancelled", apm)
}

// BulkApprove 批量确认预约 (医生/管理员)
// @Summary 批量确认预约
// @Tags Appointment
// @Router /appointments/bulk-approve [post]
func (h *AppointmentHandler) BulkApprove(c *gin.Context) {
	var input BulkApproveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	results := h.service.BulkApprove(input.AppointmentIDs)
	response.Success(c, "bulk approve completed", results)
}

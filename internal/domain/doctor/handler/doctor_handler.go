package handler

import (
	"net/http"
	"time"

	"healthcare_booking/internal/domain/doctor/service"
	"healthcare_booking/pkg/response"
	"healthcare_booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DoctorHandler 医生处理器
type DoctorHandler struct {
	service service.DoctorService
}

func NewDoctorHandler(service service.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// CreateDoctorInput 医生创建输入
type CreateDoctorInput struct {
	UserID    string  `json:"userId" binding:"required"`
	Specialty string  `json:"specialty" binding:"required"`
	Bio       string  `json:"bio"`
	Price     float64 `json:"price" binding:"min=0"`
}

// UpdateDoctorInput 医生更新输入
type UpdateDoctorInput struct {
	Specialty string  `json:"specialty" binding:"required"`
	Bio       string  `json:"bio"`
	Price     float64 `json:"price" binding:"min=0"`
	Active    *bool   `json:"active" binding:"required"`
}

// CreateTimeslotInput 时段创建输入
type CreateTimeslotInput struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
}

// CreateDoctor 创建医生档案 (仅管理员)
// @Summary 创建医生
// @Tags Doctor
// @Router /doctors [post]
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var input CreateDoctorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	doctor, err := h.service.CreateDoctor(input.UserID, input.Specialty, input.Bio, input.Price)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "doctor created", doctor)
}

// GetDoctors 医生列表
// @Summary 医生列表
// @Tags Doctor
// @Router /doctors [get]
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	p := utils.ParsePagination(c)
	doctors, total, err := h.service.GetDoctors(p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", gin.H{
		"doctors": doctors,
		"total":   total,
	})
}

// GetDoctor 医生详情
// @Summary 医生详情
// @Tags Doctor
// @Router /doctors/:id [get]
func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	doctor, err := h.service.GetDoctor(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", doctor)
}

// UpdateDoctor 更新医生档案 (仅管理员)
// @Summary 更新医生
// @Tags Doctor
// @Router /doctors/:id [put]
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var input UpdateDoctorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	doctor, err := h.service.UpdateDoctor(c.Param("id"), input.Specialty, input.Bio, input.Price, *input.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "doctor updated", doctor)
}

// CreateTimeslot 创建可预约时段 (仅管理员)
// @Summary 创建时段
// @Tags Doctor
// @Router /doctors/:id/timeslots [post]
func (h *DoctorHandler) CreateTimeslot(c *gin.Context) {
	var input CreateTimeslotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	slot, err := h.service.CreateTimeslot(c.Param("id"), input.StartTime, input.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "timeslot created", slot)
}

// GetTimeslots 医生可预约时段列表
// @Summary 时段列表
// @Tags Doctor
// @Router /doctors/:id/timeslots [get]
func (h *DoctorHandler) GetTimeslots(c *gin.Context) {
	slots, err := h.service.GetTimeslots(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", slots)
}

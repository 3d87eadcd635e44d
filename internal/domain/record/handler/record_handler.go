package handler

import (
	"net/http"
	"time"

	"healthcare_booking/internal/domain/record/service"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/pkg/response"

	"github.com/gin-gonic/gin"
)

// RecordHandler 健康记录处理器
type RecordHandler struct {
	service service.RecordService
}

func NewRecordHandler(service service.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// CreateCycleInput 周期记录输入
type CreateCycleInput struct {
	LastPeriodDate time.Time `json:"lastPeriodDate" binding:"required"`
	CycleLength    int       `json:"cycleLength"`
	PeriodLength   int       `json:"periodLength"`
}

// CreateTemplateInput 模板创建输入
type CreateTemplateInput struct {
	ServiceID string `json:"serviceId"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// CreateCycleRecord 记录生理周期
// @Summary 记录生理周期
// @Tags Record
// @Router /records/cycles [post]
func (h *RecordHandler) CreateCycleRecord(c *gin.Context) {
	var input CreateCycleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.service.CreateCycleRecord(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		input.LastPeriodDate,
		input.CycleLength,
		input.PeriodLength,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "cycle record created", record)
}

// GetCycleRecords 我的周期记录
// @Summary 我的周期记录
// @Tags Record
// @Router /records/cycles [get]
func (h *RecordHandler) GetCycleRecords(c *gin.Context) {
	records, err := h.service.GetCycleRecords(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", records)
}

// CreateTemplate 创建检验结果模板 (仅管理员)
// @Summary 创建检验结果模板
// @Tags Record
// @Router /records/templates [post]
func (h *RecordHandler) CreateTemplate(c *gin.Context) {
	var input CreateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	template, err := h.service.CreateTemplate(c.Request.Context(), input.ServiceID, input.Title, input.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "template created", template)
}

// GetTemplates 检验结果模板列表，可按服务过滤
// @Summary 模板列表
// @Tags Record
// @Router /records/templates [get]
func (h *RecordHandler) GetTemplates(c *gin.Context) {
	templates, err := h.service.GetTemplates(c.Request.Context(), c.Query("serviceId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", templates)
}

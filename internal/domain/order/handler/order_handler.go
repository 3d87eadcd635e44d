package handler

import (
	"net/http"

	"healthcare_booking/internal/domain/order/service"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/pkg/response"
	"healthcare_booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// BookServicesInput 预订服务输入
type BookServicesInput struct {
	ServiceIDs    []string `json:"serviceIds" binding:"required,min=1"`
	PaymentMethod string   `json:"paymentMethod" binding:"required"`
	AppointmentID string   `json:"appointmentId"`
}

// UpdateStatusInput 状态迁移输入
type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// BookServices 预订检验服务
// @Summary 预订检验服务
// @Tags Order
// @Router /orders [post]
func (h *OrderHandler) BookServices(c *gin.Context) {
	var input BookServicesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.BookServices(
		middleware.CurrentUserID(c),
		input.ServiceIDs,
		input.PaymentMethod,
		input.AppointmentID,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "order created", result)
}

// GetMyOrders 我的订单列表
// @Summary 我的订单列表
// @Tags Order
// @Router /orders/me [get]
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	p := utils.ParsePagination(c)
	orders, total, err := h.service.GetUserOrders(middleware.CurrentUserID(c), p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", gin.H{
		"orders": orders,
		"total":  total,
	})
}

// GetOrder 订单详情
// @Summary 订单详情
// @Tags Order
// @Router /orders/:id [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(
		c.Param("id"),
		middleware.CurrentUserID(c),
		middleware.CurrentRole(c),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", order)
}

// UpdateStatus 订单状态迁移 (仅管理员)
// @Summary 更新订单状态
// @Tags Order
// @Router /orders/:id/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Param("id"), input.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "order status updated", order)
}

// CancelOrder 用户取消自己的待支付订单
// @Summary 取消订单
// @Tags Order
// @Router /orders/:id/cancel [put]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.service.CancelOrder(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "order cancelled", order)
}

package handler

import (
	"net/http"

	"healthcare_booking/internal/domain/payment/service"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler 支付处理器
type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

// CheckoutInput 发起支付输入
type CheckoutInput struct {
	OrderID string `json:"orderId" binding:"required"`
	Channel string `json:"channel" binding:"required,oneof=alipay wechat"`
}

// CreateCheckout 对订单发起支付
// @Summary 发起支付
// @Tags Payment
// @Router /payments/checkout [post]
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.CreateCheckout(input.OrderID, middleware.CurrentUserID(c), input.Channel)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "checkout created", result)
}

// AlipayNotify 支付宝回调
// @Summary 支付宝回调
// @Tags Payment
// @Router /payments/notify/alipay [post]
func (h *PaymentHandler) AlipayNotify(c *gin.Context) {
	// 支付宝回调是 POST Form 格式
	c.Request.ParseForm()
	if err := h.service.HandleNotify("alipay", c.Request.Form); err != nil {
		c.String(http.StatusOK, "fail") // 告诉支付宝处理失败，它会重试
		return
	}
	c.String(http.StatusOK, "success")
}

// WechatNotify 微信支付回调
// @Summary 微信支付回调
// @Tags Payment
// @Router /payments/notify/wechat [post]
func (h *PaymentHandler) WechatNotify(c *gin.Context) {
	// 微信支付回调是 JSON 格式，且需要从 Header 获取签名信息
	// 传递 *http.Request 给 Strategy 处理
	if err := h.service.HandleNotify("wechat", c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

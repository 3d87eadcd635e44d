package payment

import (
	apmRepo "healthcare_booking/internal/domain/appointment/repository"
	catalogRepo "healthcare_booking/internal/domain/catalog/repository"
	orderRepo "healthcare_booking/internal/domain/order/repository"
	orderService "healthcare_booking/internal/domain/order/service"
	"healthcare_booking/internal/domain/payment/handler"
	"healthcare_booking/internal/domain/payment/service"
	"healthcare_booking/internal/domain/payment/strategy"
	userRepo "healthcare_booking/internal/domain/user/repository"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/internal/pkg/registry"
	"healthcare_booking/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentModule 支付模块
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// 支付模块依赖订单模块，优先级较低
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	orders := orderService.NewOrderService(
		orderRepo.NewOrderRepository(ctx.DB),
		apmRepo.NewAppointmentRepository(ctx.DB),
		catalogRepo.NewCatalogRepository(ctx.DB),
		ctx.Cache,
	)
	svc := service.NewPaymentService(orders, userRepo.NewUserRepository(ctx.DB), ctx.Mailer)

	// 注册支付策略，配置缺失的渠道不注册
	if ctx.Config.Alipay.AppID != "" {
		alipayStrategy, err := strategy.NewAlipayStrategy(ctx.Config.Alipay)
		if err != nil {
			logger.Log.Error("Failed to init Alipay strategy", zap.Error(err))
		} else {
			svc.RegisterStrategy("alipay", alipayStrategy)
		}
	}
	if ctx.Config.Wechat.MchID != "" {
		wechatStrategy, err := strategy.NewWechatStrategy(ctx.Config.Wechat)
		if err != nil {
			logger.Log.Error("Failed to init Wechat strategy", zap.Error(err))
		} else {
			svc.RegisterStrategy("wechat", wechatStrategy)
		}
	}

	h := handler.NewPaymentHandler(svc)
	setupRoutes(ctx.Router, h, ctx.Config.JWT.Secret)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler, jwtSecret string) {
	g := r.Group("/payments")

	// 支付回调 (无需鉴权，但需验签)
	g.POST("/notify/alipay", h.AlipayNotify)
	g.POST("/notify/wechat", h.WechatNotify)

	// 需要鉴权的接口
	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware(jwtSecret))
	{
		auth.POST("/checkout", h.CreateCheckout)
	}
}

package order

import (
	apmRepo "healthcare_booking/internal/domain/appointment/repository"
	catalogRepo "healthcare_booking/internal/domain/catalog/repository"
	"healthcare_booking/internal/domain/order/handler"
	"healthcare_booking/internal/domain/order/repository"
	"healthcare_booking/internal/domain/order/service"
	userModel "healthcare_booking/internal/domain/user/model"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 15
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewOrderRepository(ctx.DB)
	svc := service.NewOrderService(
		repo,
		apmRepo.NewAppointmentRepository(ctx.DB),
		catalogRepo.NewCatalogRepository(ctx.DB),
		ctx.Cache,
	)
	h := handler.NewOrderHandler(svc)

	setupRoutes(ctx.Router, h, ctx.Config.JWT.Secret)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler, jwtSecret string) {
	g := r.Group("/orders")
	g.Use(middleware.AuthMiddleware(jwtSecret))
	{
		g.POST("", h.BookServices)
		g.GET("/me", h.GetMyOrders)
		g.GET("/:id", h.GetOrder)
		g.PUT("/:id/cancel", h.CancelOrder)
	}

	// 管理员接口
	admin := g.Group("")
	admin.Use(middleware.RequireRoles(userModel.RoleManager))
	{
		admin.PUT("/:id/status", h.UpdateStatus)
	}
}

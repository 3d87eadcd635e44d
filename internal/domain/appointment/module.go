package appointment

import (
	"healthcare_booking/internal/domain/appointment/handler"
	"healthcare_booking/internal/domain/appointment/repository"
	"healthcare_booking/internal/domain/appointment/service"
	catalogRepo "healthcare_booking/internal/domain/catalog/repository"
	doctorRepo "healthcare_booking/internal/domain/doctor/repository"
	userModel "healthcare_booking/internal/domain/user/model"
	userRepo "healthcare_booking/internal/domain/user/repository"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AppointmentModule 预约模块
type AppointmentModule struct{}

func init() {
	registry.Register(&AppointmentModule{})
}

func (m *AppointmentModule) Name() string {
	return "appointment"
}

func (m *AppointmentModule) Priority() int {
	return 10
}

func (m *AppointmentModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewAppointmentRepository(ctx.DB)
	svc := service.NewAppointmentService(
		repo,
		doctorRepo.NewDoctorRepository(ctx.DB),
		catalogRepo.NewCatalogRepository(ctx.DB),
		userRepo.NewUserRepository(ctx.DB),
		ctx.Mailer,
	)
	h := handler.NewAppointmentHandler(svc)

	setupRoutes(ctx.Router, h, ctx.Config.JWT.Secret)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AppointmentHandler, jwtSecret string) {
	g := r.Group("/appointments")
	g.Use(middleware.AuthMiddleware(jwtSecret))
	{
		g.POST("", h.CreateAppointment)
		g.GET("/me", h.GetMyAppointments)
		g.GET("/:id", h.GetAppointment)
		g.PUT("/:id/cancel", h.CancelAppointment)
	}

	// 医生和管理员接口
	staff := g.Group("")
	staff.Use(middleware.RequireRoles(userModel.RoleDoctor, userModel.RoleManager))
	{
		staff.GET("/doctor/:id", h.GetDoctorAppointments)
		staff.PUT("/:id/status", h.UpdateStatus)
		staff.POST("/bulk-approve", h.BulkApprove)
	}
}

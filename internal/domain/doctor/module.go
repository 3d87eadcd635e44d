package doctor

import (
	"healthcare_booking/internal/domain/doctor/handler"
	"healthcare_booking/internal/domain/doctor/repository"
	"healthcare_booking/internal/domain/doctor/service"
	userModel "healthcare_booking/internal/domain/user/model"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// DoctorModule 医生模块
type DoctorModule struct{}

func init() {
	registry.Register(&DoctorModule{})
}

func (m *DoctorModule) Name() string {
	return "doctor"
}

func (m *DoctorModule) Priority() int {
	return 5
}

func (m *DoctorModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewDoctorRepository(ctx.DB)
	svc := service.NewDoctorService(repo, ctx.Cache)
	h := handler.NewDoctorHandler(svc)

	setupRoutes(ctx.Router, h, ctx.Config.JWT.Secret)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.DoctorHandler, jwtSecret string) {
	g := r.Group("/doctors")

	// 公开接口
	g.GET("", h.GetDoctors)
	g.GET("/:id", h.GetDoctor)
	g.GET("/:id/timeslots", h.GetTimeslots)

	// 管理员接口
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRoles(userModel.RoleManager))
	{
		admin.POST("", h.CreateDoctor)
		admin.PUT("/:id", h.UpdateDoctor)
		admin.POST("/:id/timeslots", h.CreateTimeslot)
	}
}

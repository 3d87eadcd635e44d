package record

import (
	"healthcare_booking/internal/domain/record/handler"
	"healthcare_booking/internal/domain/record/repository"
	"healthcare_booking/internal/domain/record/service"
	userModel "healthcare_booking/internal/domain/user/model"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// RecordModule 健康记录模块，数据存放在文档库
type RecordModule struct{}

func init() {
	registry.Register(&RecordModule{})
}

func (m *RecordModule) Name() string {
	return "record"
}

func (m *RecordModule) Priority() int {
	return 25
}

func (m *RecordModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewRecordRepository(ctx.Mongo)
	svc := service.NewRecordService(repo)
	h := handler.NewRecordHandler(svc)

	setupRoutes(ctx.Router, h, ctx.Config.JWT.Secret)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.RecordHandler, jwtSecret string) {
	g := r.Group("/records")
	g.Use(middleware.AuthMiddleware(jwtSecret))
	{
		g.POST("/cycles", h.CreateCycleRecord)
		g.GET("/cycles", h.GetCycleRecords)
		g.GET("/templates", h.GetTemplates)
	}

	// 管理员接口
	admin := g.Group("")
	admin.Use(middleware.RequireRoles(userModel.RoleManager))
	{
		admin.POST("/templates", h.CreateTemplate)
	}
}

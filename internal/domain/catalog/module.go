package catalog

import (
	"healthcare_booking/internal/domain/catalog/handler"
	"healthcare_booking/internal/domain/catalog/repository"
	"healthcare_booking/internal/domain/catalog/service"
	userModel "healthcare_booking/internal/domain/user/model"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CatalogModule 检验/服务目录模块
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 5
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCatalogRepository(ctx.DB)
	svc := service.NewCatalogService(repo, ctx.Cache)
	h := handler.NewCatalogHandler(svc)

	setupRoutes(ctx.Router, h, ctx.Config.JWT.Secret)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CatalogHandler, jwtSecret string) {
	g := r.Group("/services")

	// 公开接口
	g.GET("", h.GetServices)
	g.GET("/:id", h.GetService)

	// 管理员接口
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRoles(userModel.RoleManager))
	{
		admin.POST("", h.CreateService)
		admin.PUT("/:id", h.UpdateService)
	}
}

package user

import (
	"healthcare_booking/internal/domain/user/handler"
	"healthcare_booking/internal/domain/user/model"
	"healthcare_booking/internal/domain/user/repository"
	"healthcare_booking/internal/domain/user/service"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，因为其他模块可能依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(userRepo, ctx.Config.JWT)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler, ctx.Config.JWT.Secret)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler, jwtSecret string) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// 受保护的路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware(jwtSecret))
	{
		userGroup.GET("/me", h.GetProfile)
		userGroup.PUT("/me", h.UpdateProfile)

		// 管理员接口
		userGroup.GET("", middleware.RequireRoles(model.RoleManager), h.GetUsers)
		userGroup.DELETE("/:id", middleware.RequireRoles(model.RoleManager), h.DeleteUser)
	}
}

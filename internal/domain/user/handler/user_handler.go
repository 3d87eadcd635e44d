package handler

import (
	"net/http"

	"healthcare_booking/internal/domain/user/service"
	"healthcare_booking/internal/pkg/middleware"
	"healthcare_booking/pkg/response"
	"healthcare_booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput 资料更新输入
type UpdateProfileInput struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
}

// Register 处理注册请求
// @Summary 注册账号
// @Tags User
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(input.Email, input.Password, input.FullName, input.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "registration successful", user)
}

// Login 处理登录请求
// @Summary 登录
// @Tags User
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// GetUsers 获取用户列表 (仅管理员)
// @Summary 用户列表
// @Tags User
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	p := utils.ParsePagination(c)
	users, total, err := h.service.GetUsers(p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", gin.H{
		"users": users,
		"total": total,
	})
}

// GetProfile 获取当前登录用户资料
// @Summary 当前用户资料
// @Tags User
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.service.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", user)
}

// UpdateProfile 更新当前登录用户资料
// @Summary 更新资料
// @Tags User
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(middleware.CurrentUserID(c), input.FullName, input.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "profile updated", user)
}

// DeleteUser 删除用户 (仅管理员)
// @Summary 删除用户
// @Tags User
// @Router /users/:id [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "user deleted", nil)
}

package handler

import (
	"net/http"

	"healthcare_booking/internal/domain/catalog/service"
	"healthcare_booking/pkg/response"
	"healthcare_booking/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 目录处理器
type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(service service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ServiceInput 目录项输入
type ServiceInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Active      *bool   `json:"active"`
}

// CreateService 创建目录项 (仅管理员)
// @Summary 创建服务
// @Tags Catalog
// @Router /services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var input ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.CreateService(input.Name, input.Description, input.Price)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "service created", item)
}

// GetServices 目录列表
// @Summary 服务列表
// @Tags Catalog
// @Router /services [get]
func (h *CatalogHandler) GetServices(c *gin.Context) {
	p := utils.ParsePagination(c)
	items, total, err := h.service.GetServices(p.Page, p.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", gin.H{
		"services": items,
		"total":    total,
	})
}

// GetService 目录项详情
// @Summary 服务详情
// @Tags Catalog
// @Router /services/:id [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	item, err := h.service.GetService(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "success", item)
}

// UpdateService 更新目录项 (仅管理员)
// @Summary 更新服务
// @Tags Catalog
// @Router /services/:id [put]
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var input ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	item, err := h.service.UpdateService(c.Param("id"), input.Name, input.Description, input.Price, active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "service updated", item)
}

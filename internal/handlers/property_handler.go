package handlers

import (
	"strconv"

	"pmp/internal/middleware"
	"pmp/internal/models"
	"pmp/internal/services"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertyService   *services.PropertyService
	assignmentService *services.AssignmentService
}

func NewPropertyHandler(propertyService *services.PropertyService, assignmentService *services.AssignmentService) *PropertyHandler {
	return &PropertyHandler{
		propertyService:   propertyService,
		assignmentService: assignmentService,
	}
}

type CreatePropertyRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Units   int    `json:"units" binding:"required,gt=0"`
	OwnerID uint   `json:"owner_id"` // 仅管理员代建时有效
}

// Create 创建物业
// 业主只能为自己创建；管理员可以指定业主
func (h *PropertyHandler) Create(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	ownerID := profile.ID
	if profile.Role == models.RoleAdmin {
		if req.OwnerID == 0 {
			response.BadRequest(c, "管理员创建物业必须指定业主")
			return
		}
		ownerID = req.OwnerID
	}

	property, err := h.propertyService.Create(ownerID, req.Name, req.Address, req.Units)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "物业创建成功", property)
}

// GetAll 物业列表
// 租客：全部（入住选择用）；业主：名下；管理员：全部含统计
func (h *PropertyHandler) GetAll(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var properties []*models.Property
	var err error

	switch profile.Role {
	case models.RoleOwner:
		properties, err = h.propertyService.GetByOwner(profile.ID)
	default:
		properties, err = h.propertyService.GetAll()
	}
	if err != nil {
		response.ServerError(c, "查询物业列表失败")
		return
	}

	if profile.Role == models.RoleOwner || profile.Role == models.RoleAdmin {
		for _, property := range properties {
			h.propertyService.WithStats(property)
		}
	}

	response.Success(c, properties)
}

// GetByID 物业详情（业主本人或管理员）
func (h *PropertyHandler) GetByID(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "物业ID格式错误")
		return
	}

	property, err := h.propertyService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "物业不存在")
		return
	}

	if profile.Role != models.RoleAdmin && property.OwnerID != profile.ID {
		response.Forbidden(c, "无权查看其他业主的物业")
		return
	}

	h.propertyService.WithStats(property)

	tenants, err := h.assignmentService.GetByProperty(property.ID)
	if err != nil {
		response.ServerError(c, "查询入住记录失败")
		return
	}

	response.Success(c, gin.H{
		"property": property,
		"tenants":  tenants,
	})
}

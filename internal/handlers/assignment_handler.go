package handlers

import (
	"pmp/internal/middleware"
	"pmp/internal/services"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

// AssignmentHandler 租客入住登记
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	propertyService   *services.PropertyService
}

func NewAssignmentHandler(assignmentService *services.AssignmentService, propertyService *services.PropertyService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		propertyService:   propertyService,
	}
}

type CreateAssignmentRequest struct {
	PropertyID uint   `json:"property_id" binding:"required"`
	UnitNumber string `json:"unit_number" binding:"required"`
}

// Get 查询入住状态
// 未登记返回物业选择列表，这是正常状态而不是错误
func (h *AssignmentHandler) Get(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	assignment, err := h.assignmentService.GetByTenant(profile.ID)
	if err != nil {
		response.ServerError(c, "查询入住记录失败")
		return
	}

	if assignment == nil {
		properties, err := h.propertyService.GetAll()
		if err != nil {
			response.ServerError(c, "查询物业列表失败")
			return
		}
		response.Success(c, gin.H{
			"assigned":   false,
			"properties": properties,
		})
		return
	}

	response.Success(c, gin.H{
		"assigned":   true,
		"assignment": assignment,
	})
}

// Create 登记入住
func (h *AssignmentHandler) Create(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	assignment, err := h.assignmentService.Create(profile.ID, req.PropertyID, req.UnitNumber)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "入住登记成功", assignment)
}

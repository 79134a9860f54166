package handlers

import (
	"strconv"

	"pmp/internal/middleware"
	"pmp/internal/services"
	"pmp/pkg/pagination"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceService *services.MaintenanceService
}

func NewMaintenanceHandler(maintenanceService *services.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

type CreateMaintenanceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create 租客提交维修申请
func (h *MaintenanceHandler) Create(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var req CreateMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	request, err := h.maintenanceService.Create(profile.ID, req.Title, req.Description)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "维修申请已提交", request)
}

// GetAll 按调用方权限范围分页查询
func (h *MaintenanceHandler) GetAll(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")

	requests, total, err := h.maintenanceService.GetScopedWithPage(profile, status, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询维修申请失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, requests, pageInfo)
}

// UpdateStatus 业主/管理员流转状态
func (h *MaintenanceHandler) UpdateStatus(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "申请ID格式错误")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	request, err := h.maintenanceService.UpdateStatus(profile, uint(id), req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "状态已更新", request)
}

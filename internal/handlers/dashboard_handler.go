package handlers

import (
	"pmp/internal/middleware"
	"pmp/internal/models"
	"pmp/internal/services"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 角色路由入口：每个角色看到自己的仪表盘载荷
type DashboardHandler struct {
	propertyService   *services.PropertyService
	assignmentService *services.AssignmentService
	statsService      *services.StatsService
}

func NewDashboardHandler(propertyService *services.PropertyService, assignmentService *services.AssignmentService, statsService *services.StatsService) *DashboardHandler {
	return &DashboardHandler{
		propertyService:   propertyService,
		assignmentService: assignmentService,
		statsService:      statsService,
	}
}

// Get 按角色返回仪表盘
// 未知/未分配角色返回unassigned视图，永远不报错
func (h *DashboardHandler) Get(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	if profile == nil {
		response.Unauthorized(c, "未登录")
		return
	}

	variant := models.DashboardFor(profile.Role)

	switch variant {
	case models.DashboardTenant:
		h.tenantDashboard(c, profile)
	case models.DashboardOwner:
		h.ownerDashboard(c, profile)
	case models.DashboardAdmin:
		h.adminDashboard(c)
	default:
		response.Success(c, gin.H{
			"dashboard": models.DashboardUnassigned,
			"message":   "账号尚未分配角色，请联系管理员",
		})
	}
}

// tenantDashboard 租客视图：未登记时给出选择列表，不加载维修/缴费数据
func (h *DashboardHandler) tenantDashboard(c *gin.Context, profile *models.Profile) {
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
			"dashboard":  models.DashboardTenant,
			"assigned":   false,
			"properties": properties,
		})
		return
	}

	response.Success(c, gin.H{
		"dashboard":  models.DashboardTenant,
		"assigned":   true,
		"assignment": assignment,
	})
}

// ownerDashboard 业主视图：名下物业及统计
func (h *DashboardHandler) ownerDashboard(c *gin.Context, profile *models.Profile) {
	properties, err := h.propertyService.GetByOwner(profile.ID)
	if err != nil {
		response.ServerError(c, "查询物业列表失败")
		return
	}
	for _, property := range properties {
		h.propertyService.WithStats(property)
	}

	response.Success(c, gin.H{
		"dashboard":  models.DashboardOwner,
		"properties": properties,
	})
}

// adminDashboard 管理员视图：全局聚合统计
func (h *DashboardHandler) adminDashboard(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats()
	if err != nil {
		response.ServerError(c, "查询统计数据失败")
		return
	}

	response.Success(c, gin.H{
		"dashboard": models.DashboardAdmin,
		"stats":     stats,
	})
}

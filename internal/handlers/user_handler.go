package handlers

import (
	"strconv"

	"pmp/internal/middleware"
	"pmp/internal/services"
	"pmp/pkg/pagination"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 管理员的用户管理入口
type UserHandler struct {
	profileService *services.ProfileService
}

func NewUserHandler(profileService *services.ProfileService) *UserHandler {
	return &UserHandler{profileService: profileService}
}

type RoleTransitionRequest struct {
	Role string `json:"role" binding:"required"`
}

// GetAll 用户列表（角色/状态/关键字过滤 + 分页）
func (h *UserHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)
	role := c.Query("role")
	status := c.Query("status")
	keyword := c.Query("keyword")

	profiles, total, err := h.profileService.GetWithFiltersAndPage(role, status, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询用户列表失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, profiles, pageInfo)
}

// GetByID 用户详情
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "用户ID格式错误")
		return
	}

	profile, err := h.profileService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	response.Success(c, profile)
}

// UpdateStatus 变更用户状态
// suspended在目标用户下次会话解析时生效，不强制下线
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	actor := middleware.CurrentProfile(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "用户ID格式错误")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	profile, err := h.profileService.UpdateStatus(actor.ID, uint(id), req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "状态已更新", profile)
}

// UpdateRole 变更用户角色
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actor := middleware.CurrentProfile(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "用户ID格式错误")
		return
	}

	var req RoleTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	profile, err := h.profileService.UpdateRole(actor.ID, uint(id), req.Role)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "角色已更新", profile)
}

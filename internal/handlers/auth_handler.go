package handlers

import (
	"time"

	"pmp/internal/middleware"
	"pmp/internal/models"
	"pmp/internal/services"
	"pmp/pkg/jwt"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	profileService *services.ProfileService
	jwtManager     *jwt.JWTManager
}

func NewAuthHandler(profileService *services.ProfileService) *AuthHandler {
	return &AuthHandler{
		profileService: profileService,
		jwtManager:     jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=6"`
	FullName    string  `json:"full_name" binding:"required"`
	Role        string  `json:"role"` // tenant或owner，留空为未分配
	PhoneNumber *string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	Profile   ProfileInfo `json:"profile"`
}

type ProfileInfo struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	Phone     *string `json:"phone_number,omitempty"`
	Dashboard string  `json:"dashboard"`
}

func profileInfo(p *models.Profile) ProfileInfo {
	return ProfileInfo{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		Status:    p.Status,
		Phone:     p.PhoneNumber,
		Dashboard: models.DashboardFor(p.Role),
	}
}

// Register 用户注册 - 身份与档案同事务创建
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	profile, err := h.profileService.Register(req.Email, req.Password, req.FullName, req.Role, req.PhoneNumber)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.jwtManager.GenerateToken(profile.ID, profile.Email, profile.Role)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	response.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile:   profileInfo(profile),
	})
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	profile, err := h.profileService.GetByEmail(req.Email)
	if err != nil {
		response.Unauthorized(c, "邮箱或密码错误")
		return
	}

	if !profile.CheckPassword(req.Password) {
		response.Unauthorized(c, "邮箱或密码错误")
		return
	}

	// suspended档案永远不会获得可用会话
	if profile.IsSuspended() {
		response.Unauthorized(c, "账号已被停用")
		return
	}

	token, err := h.jwtManager.GenerateToken(profile.ID, profile.Email, profile.Role)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	response.Success(c, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Profile:   profileInfo(profile),
	})
}

// Logout 用户登出
// Token到期自动失效，前端删除本地token即可
func (h *AuthHandler) Logout(c *gin.Context) {
	response.SuccessWithMessage(c, "登出成功", nil)
}

// RefreshToken 刷新Token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || len(authHeader) < 8 {
		response.Unauthorized(c, "缺少认证头")
		return
	}
	tokenString := authHeader[7:] // 去掉 "Bearer "

	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		response.Unauthorized(c, "Token无效")
		return
	}

	// 重新加载档案，角色变更后的新token要反映最新角色
	profile, err := h.profileService.GetByID(claims.ProfileID)
	if err != nil {
		response.Unauthorized(c, "档案不存在，请重新登录")
		return
	}
	if profile.IsSuspended() {
		response.Unauthorized(c, "账号已被停用")
		return
	}

	newToken, err := h.jwtManager.GenerateToken(profile.ID, profile.Email, profile.Role)
	if err != nil {
		response.ServerError(c, "生成新Token失败")
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	response.Success(c, gin.H{
		"token":      newToken,
		"expires_at": expiresAt,
	})
}

// Me 获取当前登录用户的档案和仪表盘变体
func (h *AuthHandler) Me(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	if profile == nil {
		response.Unauthorized(c, "未登录")
		return
	}

	response.Success(c, profileInfo(profile))
}

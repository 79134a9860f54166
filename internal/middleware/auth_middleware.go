package middleware

import (
	"strings"

	"pmp/internal/models"
	"pmp/internal/services"
	"pmp/pkg/jwt"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 会话解析与权限中间件
type AuthMiddleware struct {
	profileService *services.ProfileService
	jwtManager     *jwt.JWTManager
}

func NewAuthMiddleware(profileService *services.ProfileService) *AuthMiddleware {
	return &AuthMiddleware{
		profileService: profileService,
		jwtManager:     jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// RequireLogin 会话解析
// 令牌有效但档案缺失视为不可恢复，客户端应强制登出；
// 档案为suspended时永远不会产生可用会话
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从Authorization头获取JWT token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 检查Bearer格式
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		tokenString := authHeader[7:] // 去掉 "Bearer "

		// 验证token
		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		// 加载档案：缺失说明数据已损坏，不尝试修复
		profile, err := m.profileService.GetByID(claims.ProfileID)
		if err != nil {
			response.Unauthorized(c, "档案不存在，请重新登录")
			c.Abort()
			return
		}

		// 只有suspended会阻断会话，inactive不影响登录
		if profile.IsSuspended() {
			response.Unauthorized(c, "账号已被停用")
			c.Abort()
			return
		}

		// 将档案信息保存到上下文，后续组件不再各自查询
		c.Set("profile", profile)
		c.Set("profile_id", profile.ID)
		c.Set("role", profile.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireRole 要求特定角色
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, exists := c.Get("profile")
		if !exists {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		role := profile.(*models.Profile).Role
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "当前角色无权访问")
		c.Abort()
	}
}

// RequireAdmin 要求管理员
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(models.RoleAdmin)
}

// CurrentProfile 从上下文取当前档案
func CurrentProfile(c *gin.Context) *models.Profile {
	profile, exists := c.Get("profile")
	if !exists {
		return nil
	}
	return profile.(*models.Profile)
}

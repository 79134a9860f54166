package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pmp/internal/models"
	"pmp/internal/services"
	"pmp/pkg/errors"
	"pmp/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))

	auth := NewAuthMiddleware(services.NewProfileService(db, nil))

	router := gin.New()
	router.GET("/protected", auth.RequireLogin(), func(c *gin.Context) {
		profile := CurrentProfile(c)
		c.JSON(http.StatusOK, gin.H{"code": errors.CodeSuccess, "email": profile.Email, "role": profile.Role})
	})
	router.GET("/admin-only", auth.RequireLogin(), auth.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": errors.CodeSuccess})
	})

	return router, db
}

func createTestProfile(t *testing.T, db *gorm.DB, email, role, status string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		Email:    email,
		FullName: "测试用户",
		Role:     role,
		Status:   status,
	}
	require.NoError(t, profile.SetPassword("password123"))
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func tokenFor(t *testing.T, profile *models.Profile) string {
	t.Helper()
	token, err := jwt.GetJWTManager().GenerateToken(profile.ID, profile.Email, profile.Role)
	require.NoError(t, err)
	return token
}

// bodyCode 读取统一返回格式中的业务码
func bodyCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func doGet(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRequireLoginMissingHeader(t *testing.T) {
	router, _ := setupAuthTest(t)

	w := doGet(router, "/protected", "")
	assert.Equal(t, errors.CodeUnauthorized, bodyCode(t, w))
}

func TestRequireLoginBadToken(t *testing.T) {
	router, _ := setupAuthTest(t)

	w := doGet(router, "/protected", "not-a-real-token")
	assert.Equal(t, errors.CodeUnauthorized, bodyCode(t, w))
}

func TestRequireLoginValidToken(t *testing.T) {
	router, db := setupAuthTest(t)
	profile := createTestProfile(t, db, "tenant@test.com", models.RoleTenant, models.ProfileStatusActive)

	w := doGet(router, "/protected", tokenFor(t, profile))
	assert.Equal(t, errors.CodeSuccess, bodyCode(t, w))
	assert.Contains(t, w.Body.String(), "tenant@test.com")
}

func TestRequireLoginProfileMissing(t *testing.T) {
	router, db := setupAuthTest(t)
	profile := createTestProfile(t, db, "gone@test.com", models.RoleTenant, models.ProfileStatusActive)
	token := tokenFor(t, profile)

	// 令牌有效但档案已不存在：不可恢复，要求重新登录
	require.NoError(t, db.Delete(&models.Profile{}, profile.ID).Error)

	w := doGet(router, "/protected", token)
	assert.Equal(t, errors.CodeUnauthorized, bodyCode(t, w))
}

func TestRequireLoginSuspendedProfile(t *testing.T) {
	router, db := setupAuthTest(t)
	profile := createTestProfile(t, db, "blocked@test.com", models.RoleTenant, models.ProfileStatusSuspended)

	w := doGet(router, "/protected", tokenFor(t, profile))
	assert.Equal(t, errors.CodeUnauthorized, bodyCode(t, w))
}

func TestRequireLoginInactiveProfileAllowed(t *testing.T) {
	router, db := setupAuthTest(t)
	profile := createTestProfile(t, db, "idle@test.com", models.RoleTenant, models.ProfileStatusInactive)

	// 只有suspended会阻断会话
	w := doGet(router, "/protected", tokenFor(t, profile))
	assert.Equal(t, errors.CodeSuccess, bodyCode(t, w))
}

func TestRequireAdmin(t *testing.T) {
	router, db := setupAuthTest(t)
	tenant := createTestProfile(t, db, "tenant@test.com", models.RoleTenant, models.ProfileStatusActive)
	admin := createTestProfile(t, db, "admin@test.com", models.RoleAdmin, models.ProfileStatusActive)

	w := doGet(router, "/admin-only", tokenFor(t, tenant))
	assert.Equal(t, errors.CodeForbidden, bodyCode(t, w))

	w = doGet(router, "/admin-only", tokenFor(t, admin))
	assert.Equal(t, errors.CodeSuccess, bodyCode(t, w))
}

package services

import (
	"testing"

	"pmp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	service := NewProfileService(db, nil)

	phone := "13800138000"
	profile, err := service.Register("tenant@test.com", "secret123", "张三", models.RoleTenant, &phone)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileStatusActive, profile.Status)
	assert.True(t, profile.CheckPassword("secret123"))
	require.NotNil(t, profile.PhoneNumber)
	assert.Equal(t, phone, *profile.PhoneNumber)

	// 邮箱重复
	_, err = service.Register("tenant@test.com", "secret123", "李四", models.RoleTenant, nil)
	assert.Error(t, err)

	// 注册时角色可以为空（未分配状态）
	unassigned, err := service.Register("later@test.com", "secret123", "王五", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardUnassigned, models.DashboardFor(unassigned.Role))
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	service := NewProfileService(db, nil)

	tests := []struct {
		name     string
		email    string
		password string
		fullName string
		role     string
	}{
		{"邮箱格式错误", "not-an-email", "secret123", "张三", models.RoleTenant},
		{"密码太短", "a@test.com", "12345", "张三", models.RoleTenant},
		{"姓名为空", "a@test.com", "secret123", "  ", models.RoleTenant},
		{"不允许注册为管理员", "a@test.com", "secret123", "张三", models.RoleAdmin},
		{"未知角色", "a@test.com", "secret123", "张三", "landlord"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(tt.email, tt.password, tt.fullName, tt.role, nil)
			assert.Error(t, err)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	service := NewProfileService(db, nil)

	admin := createProfile(t, db, "admin@test.com", models.RoleAdmin)
	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)

	// 枚举校验先于任何写入
	_, err := service.UpdateStatus(admin.ID, tenant.ID, "banned")
	assert.Error(t, err)

	// 不能变更自己的状态
	_, err = service.UpdateStatus(admin.ID, admin.ID, models.ProfileStatusSuspended)
	assert.Error(t, err)

	updated, err := service.UpdateStatus(admin.ID, tenant.ID, models.ProfileStatusSuspended)
	require.NoError(t, err)
	assert.True(t, updated.IsSuspended())

	// 审计日志留痕
	var logCount int64
	db.Model(&models.OperationLog{}).Where("action = ?", models.ActionStatusTransition).Count(&logCount)
	assert.Equal(t, int64(1), logCount)
}

func TestUpdateRole(t *testing.T) {
	db := newTestDB(t)
	service := NewProfileService(db, nil)

	admin := createProfile(t, db, "admin@test.com", models.RoleAdmin)
	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)

	// 枚举校验先于任何写入
	_, err := service.UpdateRole(admin.ID, tenant.ID, "superuser")
	assert.Error(t, err)

	// 不能变更自己的角色
	_, err = service.UpdateRole(admin.ID, admin.ID, models.RoleTenant)
	assert.Error(t, err)

	updated, err := service.UpdateRole(admin.ID, tenant.ID, models.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, updated.Role)
	assert.Equal(t, models.DashboardOwner, models.DashboardFor(updated.Role))
}

func TestGetWithFiltersAndPage(t *testing.T) {
	db := newTestDB(t)
	service := NewProfileService(db, nil)

	createProfile(t, db, "admin@test.com", models.RoleAdmin)
	createProfile(t, db, "owner@test.com", models.RoleOwner)
	tenant := createProfile(t, db, "zhang.san@test.com", models.RoleTenant)
	tenant.Status = models.ProfileStatusSuspended
	require.NoError(t, db.Save(tenant).Error)

	// 角色过滤
	profiles, total, err := service.GetWithFiltersAndPage(models.RoleTenant, "", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, profiles, 1)
	assert.Equal(t, "zhang.san@test.com", profiles[0].Email)

	// 状态过滤
	_, total, err = service.GetWithFiltersAndPage("", models.ProfileStatusActive, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// 关键字匹配邮箱
	_, total, err = service.GetWithFiltersAndPage("", "", "zhang.san", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

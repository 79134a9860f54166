package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDashboardFor(t *testing.T) {
	tests := []struct {
		name string
		role string
		want string
	}{
		{"租客角色", RoleTenant, DashboardTenant},
		{"业主角色", RoleOwner, DashboardOwner},
		{"管理员角色", RoleAdmin, DashboardAdmin},
		{"空角色", "", DashboardUnassigned},
		{"未知角色", "superuser", DashboardUnassigned},
		{"大小写敏感", "Tenant", DashboardUnassigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DashboardFor(tt.role))
		})
	}
}

func TestSetAndCheckPassword(t *testing.T) {
	profile := &Profile{}

	err := profile.SetPassword("secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, profile.PasswordHash)
	assert.NotEqual(t, "secret123", profile.PasswordHash)

	assert.True(t, profile.CheckPassword("secret123"))
	assert.False(t, profile.CheckPassword("wrong-password"))
	assert.False(t, profile.CheckPassword(""))
}

func TestIsSuspended(t *testing.T) {
	assert.False(t, (&Profile{Status: ProfileStatusActive}).IsSuspended())
	assert.False(t, (&Profile{Status: ProfileStatusInactive}).IsSuspended())
	assert.True(t, (&Profile{Status: ProfileStatusSuspended}).IsSuspended())
}

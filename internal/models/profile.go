package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Profile 用户档案模型 - 认证身份与档案一对一，注册时同事务创建
type Profile struct {
	BaseModel
	Email        string  `json:"email" gorm:"unique;not null;size:100;index"`
	PasswordHash string  `json:"-" gorm:"not null;size:255"`
	FullName     string  `json:"full_name" gorm:"not null;size:100"`
	Role         string  `json:"role" gorm:"size:20;index"` // 可能为空（未分配）
	Status       string  `json:"status" gorm:"default:'active';size:20"`
	PhoneNumber  *string `json:"phone_number" gorm:"size:20"`
}

// TableName 表名
func (p *Profile) TableName() string {
	return "profiles"
}

// 角色常量
const (
	RoleTenant = "tenant"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

// 档案状态常量
const (
	ProfileStatusActive    = "active"
	ProfileStatusInactive  = "inactive"
	ProfileStatusSuspended = "suspended"
)

// ProfileStatuses 档案状态枚举集合
var ProfileStatuses = []string{ProfileStatusActive, ProfileStatusInactive, ProfileStatusSuspended}

// ProfileRoles 角色枚举集合
var ProfileRoles = []string{RoleTenant, RoleOwner, RoleAdmin}

// 仪表盘变体
const (
	DashboardTenant     = "tenant"
	DashboardOwner      = "owner"
	DashboardAdmin      = "admin"
	DashboardUnassigned = "unassigned"
)

// DashboardFor 根据角色选择仪表盘变体
// 纯映射：未知或空角色一律落到unassigned，不报错
func DashboardFor(role string) string {
	switch role {
	case RoleTenant:
		return DashboardTenant
	case RoleOwner:
		return DashboardOwner
	case RoleAdmin:
		return DashboardAdmin
	default:
		return DashboardUnassigned
	}
}

// SetPassword 设置密码
func (p *Profile) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (p *Profile) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
	return err == nil
}

// IsSuspended 是否已停用
func (p *Profile) IsSuspended() bool {
	return p.Status == ProfileStatusSuspended
}

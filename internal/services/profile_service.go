package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pmp/internal/models"
	"pmp/pkg/events"

	"gorm.io/gorm"
)

// ProfileService 用户档案服务
type ProfileService struct {
	db    *gorm.DB
	sink  EventSink
	oplog *OperationLogService
}

func NewProfileService(db *gorm.DB, sink EventSink) *ProfileService {
	return &ProfileService{
		db:    db,
		sink:  sink,
		oplog: NewOperationLogService(db),
	}
}

// ========== 基础CRUD方法 ==========

// Register 注册：身份与档案同事务创建，保证一一对应
// 注册时只允许tenant/owner角色，admin只能通过种子数据产生
func (s *ProfileService) Register(email, password, fullName, role string, phone *string) (*models.Profile, error) {
	if err := s.ValidateRegisterParams(email, password, fullName, role); err != nil {
		return nil, err
	}

	// 检查邮箱是否重复
	var emailCount int64
	s.db.Model(&models.Profile{}).Where("email = ?", email).Count(&emailCount)
	if emailCount > 0 {
		return nil, fmt.Errorf("邮箱已存在")
	}

	profile := &models.Profile{
		Email:       email,
		FullName:    fullName,
		Role:        role,
		Status:      models.ProfileStatusActive,
		PhoneNumber: phone,
	}

	if err := profile.SetPassword(password); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	if err := s.db.Create(profile).Error; err != nil {
		return nil, err
	}

	return profile, nil
}

// GetByID 根据ID获取档案
func (s *ProfileService) GetByID(id uint) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByEmail 根据邮箱获取档案
func (s *ProfileService) GetByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Where("email = ?", email).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// IsActive 档案是否可用
func (s *ProfileService) IsActive(profile *models.Profile) bool {
	return profile.Status == models.ProfileStatusActive
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *ProfileService) GetWithFiltersAndPage(role, status, keyword string, page, pageSize int) ([]*models.Profile, int64, error) {
	var profiles []*models.Profile
	var total int64

	query := s.db.Model(&models.Profile{})

	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("email LIKE ? OR full_name LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// ========== 状态/角色流转 ==========

// UpdateStatus 管理员变更档案状态
// 枚举校验先于任何写入；停用在下次会话解析时才生效，不强制下线
func (s *ProfileService) UpdateStatus(actorID, id uint, status string) (*models.Profile, error) {
	if !valueAllowed(status, models.ProfileStatuses) {
		return nil, fmt.Errorf("无效的档案状态: %s", status)
	}
	if actorID == id {
		return nil, fmt.Errorf("不能变更自己的状态")
	}

	var profile models.Profile
	if err := s.db.First(&profile, id).Error; err != nil {
		return nil, err
	}

	oldStatus := profile.Status
	profile.Status = status
	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err
	}

	s.oplog.Append(actorID, models.ActionStatusTransition, events.KindProfile, profile.ID, map[string]interface{}{
		"old": oldStatus,
		"new": status,
	})
	publishEvent(s.sink, events.Event{
		Event:    events.EventTransition,
		Kind:     events.KindProfile,
		RecordID: profile.ID,
		Data:     map[string]string{"status": status},
	})

	return &profile, nil
}

// UpdateRole 管理员变更档案角色
func (s *ProfileService) UpdateRole(actorID, id uint, role string) (*models.Profile, error) {
	if !valueAllowed(role, models.ProfileRoles) {
		return nil, fmt.Errorf("无效的角色: %s", role)
	}
	if actorID == id {
		return nil, fmt.Errorf("不能变更自己的角色")
	}

	var profile models.Profile
	if err := s.db.First(&profile, id).Error; err != nil {
		return nil, err
	}

	oldRole := profile.Role
	profile.Role = role
	if err := s.db.Save(&profile).Error; err != nil {
		return nil, err
	}

	s.oplog.Append(actorID, models.ActionRoleTransition, events.KindProfile, profile.ID, map[string]interface{}{
		"old": oldRole,
		"new": role,
	})
	publishEvent(s.sink, events.Event{
		Event:    events.EventTransition,
		Kind:     events.KindProfile,
		RecordID: profile.ID,
		Data:     map[string]string{"role": role},
	})

	return &profile, nil
}

// ========== 参数验证 ==========

// ValidateRegisterParams 验证注册参数
func (s *ProfileService) ValidateRegisterParams(email, password, fullName, role string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("邮箱格式错误")
	}
	if utf8.RuneCountInString(password) < 6 {
		return fmt.Errorf("密码长度不能少于6位")
	}
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("姓名不能为空")
	}
	// 角色可以为空（未分配状态），但不允许直接注册为admin
	if role != "" && role != models.RoleTenant && role != models.RoleOwner {
		return fmt.Errorf("无效的注册角色: %s", role)
	}
	return nil
}

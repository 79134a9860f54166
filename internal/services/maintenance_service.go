package services

import (
	"fmt"
	"strings"

	"pmp/internal/models"
	"pmp/pkg/events"

	"gorm.io/gorm"
)

// MaintenanceService 维修申请服务
type MaintenanceService struct {
	db          *gorm.DB
	sink        EventSink
	assignments *AssignmentService
	oplog       *OperationLogService
}

func NewMaintenanceService(db *gorm.DB, sink EventSink) *MaintenanceService {
	return &MaintenanceService{
		db:          db,
		sink:        sink,
		assignments: NewAssignmentService(db, sink),
		oplog:       NewOperationLogService(db),
	}
}

// Create 租客提交维修申请
// 状态强制为pending，物业取自入住记录，调用方无法指定
func (s *MaintenanceService) Create(tenantID uint, title, description string) (*models.MaintenanceRequest, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("标题不能为空")
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("描述不能为空")
	}

	assignment, err := s.assignments.GetByTenant(tenantID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, fmt.Errorf("尚未完成入住登记")
	}

	request := &models.MaintenanceRequest{
		TenantID:    tenantID,
		PropertyID:  assignment.PropertyID,
		Title:       title,
		Description: description,
		Status:      models.MaintenanceStatusPending,
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, err
	}

	publishEvent(s.sink, events.Event{
		Event:      events.EventCreated,
		Kind:       events.KindMaintenance,
		RecordID:   request.ID,
		PropertyID: request.PropertyID,
	})

	return request, nil
}

// GetScopedWithPage 按调用方权限范围分页查询
// 租客：本人记录；业主：名下物业的记录；管理员：全部
func (s *MaintenanceService) GetScopedWithPage(viewer *models.Profile, status string, page, pageSize int) ([]*models.MaintenanceRequest, int64, error) {
	var requests []*models.MaintenanceRequest
	var total int64

	query := s.db.Model(&models.MaintenanceRequest{})

	switch viewer.Role {
	case models.RoleTenant:
		query = query.Where("tenant_id = ?", viewer.ID)
	case models.RoleOwner:
		query = query.Where("property_id IN (?)",
			s.db.Model(&models.Property{}).Select("id").Where("owner_id = ?", viewer.ID))
	case models.RoleAdmin:
		// 不限定范围
	default:
		return nil, 0, fmt.Errorf("当前角色无权查看维修申请")
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Tenant").Preload("Property").
		Order("created_at DESC").Offset(offset).Limit(pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// UpdateStatus 业主/管理员流转维修申请状态
// 枚举校验先于任何数据库操作；业主只能操作名下物业的申请
func (s *MaintenanceService) UpdateStatus(actor *models.Profile, id uint, status string) (*models.MaintenanceRequest, error) {
	if !valueAllowed(status, models.MaintenanceStatuses) {
		return nil, fmt.Errorf("无效的维修申请状态: %s", status)
	}

	var request models.MaintenanceRequest
	if err := s.db.First(&request, id).Error; err != nil {
		return nil, err
	}

	if err := s.checkAuthority(actor, request.PropertyID); err != nil {
		return nil, err
	}

	oldStatus := request.Status
	request.Status = status
	if err := s.db.Save(&request).Error; err != nil {
		return nil, err
	}

	s.oplog.Append(actor.ID, models.ActionStatusTransition, events.KindMaintenance, request.ID, map[string]interface{}{
		"old": oldStatus,
		"new": status,
	})
	publishEvent(s.sink, events.Event{
		Event:      events.EventTransition,
		Kind:       events.KindMaintenance,
		RecordID:   request.ID,
		PropertyID: request.PropertyID,
		Data:       map[string]string{"status": status},
	})

	return &request, nil
}

// checkAuthority 校验操作权限：管理员不限，业主限名下物业
func (s *MaintenanceService) checkAuthority(actor *models.Profile, propertyID uint) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role != models.RoleOwner {
		return fmt.Errorf("当前角色无权流转状态")
	}

	var count int64
	s.db.Model(&models.Property{}).
		Where("id = ? AND owner_id = ?", propertyID, actor.ID).
		Count(&count)
	if count == 0 {
		return fmt.Errorf("无权操作其他业主物业的记录")
	}
	return nil
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"pmp/internal/models"
	"pmp/pkg/events"

	"gorm.io/gorm"
)

// AssignmentService 租客入住登记服务
// 入住记录只增不改：没有换房或退租入口，读取时以最早一条为准
type AssignmentService struct {
	db   *gorm.DB
	sink EventSink
}

func NewAssignmentService(db *gorm.DB, sink EventSink) *AssignmentService {
	return &AssignmentService{db: db, sink: sink}
}

// GetByTenant 查询租客的入住记录
// 未登记返回(nil, nil)：这是合法状态而不是错误
func (s *AssignmentService) GetByTenant(tenantID uint) (*models.TenantUnit, error) {
	var unit models.TenantUnit
	err := s.db.Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Preload("Property").
		First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

// Create 登记入住
// 不做唯一性约束：重复提交会产生多条记录，读取侧取最早一条
func (s *AssignmentService) Create(tenantID, propertyID uint, unitNumber string) (*models.TenantUnit, error) {
	if propertyID == 0 {
		return nil, fmt.Errorf("必须选择物业")
	}
	if strings.TrimSpace(unitNumber) == "" {
		return nil, fmt.Errorf("单元号不能为空")
	}

	var propertyCount int64
	s.db.Model(&models.Property{}).Where("id = ?", propertyID).Count(&propertyCount)
	if propertyCount == 0 {
		return nil, fmt.Errorf("物业不存在")
	}

	unit := &models.TenantUnit{
		TenantID:   tenantID,
		PropertyID: propertyID,
		UnitNumber: unitNumber,
	}

	if err := s.db.Create(unit).Error; err != nil {
		return nil, err
	}

	publishEvent(s.sink, events.Event{
		Event:      events.EventCreated,
		Kind:       events.KindTenantUnit,
		RecordID:   unit.ID,
		PropertyID: propertyID,
	})

	return unit, nil
}

// GetByProperty 获取物业下的全部入住记录
func (s *AssignmentService) GetByProperty(propertyID uint) ([]*models.TenantUnit, error) {
	var units []*models.TenantUnit
	err := s.db.Where("property_id = ?", propertyID).
		Preload("Tenant").
		Order("created_at ASC").
		Find(&units).Error
	return units, err
}

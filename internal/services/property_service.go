package services

import (
	"fmt"
	"strings"

	"pmp/internal/models"
	"pmp/pkg/events"

	"gorm.io/gorm"
)

// PropertyService 物业服务
type PropertyService struct {
	db   *gorm.DB
	sink EventSink
}

func NewPropertyService(db *gorm.DB, sink EventSink) *PropertyService {
	return &PropertyService{db: db, sink: sink}
}

// Create 创建物业
// ownerID必须指向owner角色的档案（管理员代建时同样校验）
func (s *PropertyService) Create(ownerID uint, name, address string, units int) (*models.Property, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("物业名称不能为空")
	}
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("物业地址不能为空")
	}
	if units <= 0 {
		return nil, fmt.Errorf("单元数必须为正整数")
	}

	var owner models.Profile
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		return nil, fmt.Errorf("业主不存在")
	}
	if owner.Role != models.RoleOwner {
		return nil, fmt.Errorf("指定档案不是业主角色")
	}

	property := &models.Property{
		Name:    name,
		Address: address,
		Units:   units,
		OwnerID: ownerID,
	}

	if err := s.db.Create(property).Error; err != nil {
		return nil, err
	}

	publishEvent(s.sink, events.Event{
		Event:      events.EventCreated,
		Kind:       events.KindProperty,
		RecordID:   property.ID,
		PropertyID: property.ID,
	})

	return property, nil
}

// GetByID 根据ID获取物业
func (s *PropertyService) GetByID(id uint) (*models.Property, error) {
	var property models.Property
	err := s.db.Preload("Owner").First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// GetAll 获取全部物业（租客选择入住时使用）
func (s *PropertyService) GetAll() ([]*models.Property, error) {
	var properties []*models.Property
	err := s.db.Order("created_at DESC").Find(&properties).Error
	return properties, err
}

// GetByOwner 获取某业主名下的物业
func (s *PropertyService) GetByOwner(ownerID uint) ([]*models.Property, error) {
	var properties []*models.Property
	err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&properties).Error
	return properties, err
}

// OwnsProperty 检查物业是否属于指定业主
func (s *PropertyService) OwnsProperty(ownerID, propertyID uint) bool {
	var count int64
	s.db.Model(&models.Property{}).
		Where("id = ? AND owner_id = ?", propertyID, ownerID).
		Count(&count)
	return count > 0
}

// AvailableUnits 计算物业剩余可入住单元数
func (s *PropertyService) AvailableUnits(propertyID uint) (int, error) {
	var property models.Property
	if err := s.db.First(&property, propertyID).Error; err != nil {
		return 0, err
	}

	var assigned int64
	s.db.Model(&models.TenantUnit{}).Where("property_id = ?", propertyID).Count(&assigned)

	available := property.Units - int(assigned)
	if available < 0 {
		available = 0
	}
	return available, nil
}

// WithStats 填充物业的统计字段
func (s *PropertyService) WithStats(property *models.Property) {
	var tenantCount int64
	s.db.Model(&models.TenantUnit{}).Where("property_id = ?", property.ID).Count(&tenantCount)
	property.TenantCount = tenantCount

	available := property.Units - int(tenantCount)
	if available < 0 {
		available = 0
	}
	property.AvailableUnits = available
}

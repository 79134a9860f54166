package models

// TenantUnit 租客单元分配记录
// 租客入住登记时创建；没有变更或解除入口，最早一条为准
type TenantUnit struct {
	BaseModel
	TenantID   uint   `json:"tenant_id" gorm:"not null;index"`
	PropertyID uint   `json:"property_id" gorm:"not null;index"`
	UnitNumber string `json:"unit_number" gorm:"not null;size:50"`

	Tenant   *Profile  `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// TableName 表名
func (t *TenantUnit) TableName() string {
	return "tenant_units"
}

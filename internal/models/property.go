package models

// Property 物业模型 - 贫血模型，只包含数据结构
type Property struct {
	BaseModel
	Name    string `json:"name" gorm:"not null;size:100"`
	Address string `json:"address" gorm:"not null;size:255"`
	Units   int    `json:"units" gorm:"not null"` // 单元容量，正整数
	OwnerID uint   `json:"owner_id" gorm:"not null;index"`

	Owner *Profile `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`

	// 统计字段，不存储在数据库中
	TenantCount    int64 `json:"tenant_count,omitempty" gorm:"-"`
	AvailableUnits int   `json:"available_units,omitempty" gorm:"-"`
}

// TableName 表名
func (p *Property) TableName() string {
	return "properties"
}

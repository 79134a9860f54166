package models

// MaintenanceRequest 维修申请
type MaintenanceRequest struct {
	BaseModel
	TenantID    uint   `json:"tenant_id" gorm:"not null;index"`
	PropertyID  uint   `json:"property_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"not null;type:text"`
	Status      string `json:"status" gorm:"default:'pending';size:20;index"`

	Tenant   *Profile  `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// TableName 表名
func (m *MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// 维修申请状态常量
const (
	MaintenanceStatusPending    = "pending"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
)

// MaintenanceStatuses 维修申请状态枚举集合
// 无序枚举：任意状态间可互相流转
var MaintenanceStatuses = []string{MaintenanceStatusPending, MaintenanceStatusInProgress, MaintenanceStatusCompleted}

package models

import (
	"time"
)

// Payment 租金缴纳记录
type Payment struct {
	BaseModel
	TenantID    uint      `json:"tenant_id" gorm:"not null;index"`
	PropertyID  uint      `json:"property_id" gorm:"not null;index"`
	Amount      float64   `json:"amount" gorm:"not null;type:decimal(10,2)"`
	Status      string    `json:"status" gorm:"default:'pending';size:20;index"`
	Reference   string    `json:"reference" gorm:"size:36;index"` // 服务端生成的UUID凭证号
	PaymentDate time.Time `json:"payment_date"`

	Tenant   *Profile  `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// TableName 表名
func (p *Payment) TableName() string {
	return "payments"
}

// 缴费状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusRejected  = "rejected"
)

// PaymentStatuses 缴费状态枚举集合
var PaymentStatuses = []string{PaymentStatusPending, PaymentStatusConfirmed, PaymentStatusRejected}

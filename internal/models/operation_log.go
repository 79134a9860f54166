package models

import (
	"time"

	"gorm.io/datatypes"
)

// OperationLog 操作审计日志
// 状态/角色流转和种子数据操作都会落一条记录
type OperationLog struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	ActorID   uint           `json:"actor_id" gorm:"not null;index"` // 操作人，0表示系统
	Action    string         `json:"action" gorm:"not null;size:50"`
	Kind      string         `json:"kind" gorm:"not null;size:50;index"` // 记录类型
	RecordID  uint           `json:"record_id" gorm:"index"`
	Detail    datatypes.JSON `json:"detail"` // 旧值/新值等附加信息
	CreatedAt time.Time      `json:"created_at"`
}

// TableName 表名
func (o *OperationLog) TableName() string {
	return "operation_logs"
}

// 操作类型常量
const (
	ActionStatusTransition = "status_transition"
	ActionRoleTransition   = "role_transition"
	ActionSeedAdmin        = "seed_admin"
)

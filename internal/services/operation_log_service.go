package services

import (
	"encoding/json"

	"pmp/internal/models"
	"pmp/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OperationLogService 操作审计日志服务
type OperationLogService struct {
	db *gorm.DB
}

func NewOperationLogService(db *gorm.DB) *OperationLogService {
	return &OperationLogService{db: db}
}

// Append 追加一条审计记录，失败只记日志不影响主流程
func (s *OperationLogService) Append(actorID uint, action, kind string, recordID uint, detail map[string]interface{}) {
	var detailJSON datatypes.JSON
	if detail != nil {
		data, err := json.Marshal(detail)
		if err != nil {
			logger.GetLogger().Errorf("序列化审计详情失败: %v", err)
		} else {
			detailJSON = data
		}
	}

	entry := &models.OperationLog{
		ActorID:  actorID,
		Action:   action,
		Kind:     kind,
		RecordID: recordID,
		Detail:   detailJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.GetLogger().Errorf("写入审计日志失败 action=%s kind=%s: %v", action, kind, err)
	}
}

// GetWithPage 分页查询审计日志（按时间倒序）
func (s *OperationLogService) GetWithPage(page, pageSize int) ([]*models.OperationLog, int64, error) {
	var logs []*models.OperationLog
	var total int64

	if err := s.db.Model(&models.OperationLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := s.db.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

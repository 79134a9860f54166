package services

import (
	"fmt"

	"pmp/internal/models"
	"pmp/pkg/events"
	"pmp/pkg/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderScheduler 待办提醒调度器
// 定时统计各物业的待处理维修和缴费，推送reminder事件让业主端刷新
type ReminderScheduler struct {
	db      *gorm.DB
	sink    EventSink
	cron    *cron.Cron
	spec    string
	running bool
}

// NewReminderScheduler 创建提醒调度器
func NewReminderScheduler(db *gorm.DB, sink EventSink, spec string) *ReminderScheduler {
	return &ReminderScheduler{
		db:   db,
		sink: sink,
		cron: cron.New(),
		spec: spec,
	}
}

// Start 启动调度器
func (s *ReminderScheduler) Start() error {
	if s.running {
		return fmt.Errorf("调度器已经在运行")
	}

	if _, err := s.cron.AddFunc(s.spec, s.publishReminders); err != nil {
		return fmt.Errorf("无效的cron表达式 %s: %v", s.spec, err)
	}

	s.cron.Start()
	s.running = true

	logger.GetLogger().Infof("待办提醒调度器启动成功，cron表达式: %s", s.spec)
	return nil
}

// Stop 停止调度器
func (s *ReminderScheduler) Stop() {
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	logger.GetLogger().Info("待办提醒调度器已停止")
}

// reminderRow 按物业聚合的待办数量
type reminderRow struct {
	PropertyID uint
	Count      int64
}

// publishReminders 只读统计并推送，不做任何写入
func (s *ReminderScheduler) publishReminders() {
	appLogger := logger.GetLogger()

	var maintenanceRows []reminderRow
	err := s.db.Model(&models.MaintenanceRequest{}).
		Select("property_id, COUNT(*) as count").
		Where("status = ?", models.MaintenanceStatusPending).
		Group("property_id").
		Scan(&maintenanceRows).Error
	if err != nil {
		appLogger.Errorf("统计待处理维修失败: %v", err)
		return
	}

	var paymentRows []reminderRow
	err = s.db.Model(&models.Payment{}).
		Select("property_id, COUNT(*) as count").
		Where("status = ?", models.PaymentStatusPending).
		Group("property_id").
		Scan(&paymentRows).Error
	if err != nil {
		appLogger.Errorf("统计待处理缴费失败: %v", err)
		return
	}

	pending := make(map[uint]map[string]int64)
	for _, row := range maintenanceRows {
		if pending[row.PropertyID] == nil {
			pending[row.PropertyID] = make(map[string]int64)
		}
		pending[row.PropertyID]["pending_maintenance"] = row.Count
	}
	for _, row := range paymentRows {
		if pending[row.PropertyID] == nil {
			pending[row.PropertyID] = make(map[string]int64)
		}
		pending[row.PropertyID]["pending_payments"] = row.Count
	}

	for propertyID, counts := range pending {
		publishEvent(s.sink, events.Event{
			Event:      events.EventReminder,
			Kind:       events.KindProperty,
			RecordID:   propertyID,
			PropertyID: propertyID,
			Data:       counts,
		})
	}

	appLogger.Infof("待办提醒推送完成，涉及 %d 个物业", len(pending))
}

package services

import (
	"pmp/pkg/events"
	"pmp/pkg/logger"
)

// EventSink 变更通知出口，由Redis事件总线实现
// 测试中可注入记录器或留空
type EventSink interface {
	Publish(event events.Event) error
}

// publishEvent 发布事件，失败只记日志不影响主流程
func publishEvent(sink EventSink, event events.Event) {
	if sink == nil {
		return
	}
	if err := sink.Publish(event); err != nil {
		logger.GetLogger().Errorf("发布事件失败 kind=%s record=%d: %v", event.Kind, event.RecordID, err)
	}
}

// valueAllowed 检查值是否在枚举集合内
func valueAllowed(value string, allowed []string) bool {
	for _, v := range allowed {
		if v == value {
			return true
		}
	}
	return false
}

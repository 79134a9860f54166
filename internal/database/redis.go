package database

import (
	"sync"

	"pmp/pkg/config"
	"pmp/pkg/events"
)

var (
	eventBusInstance *events.RedisBus
	eventBusOnce     sync.Once
)

// GetEventBus 获取事件总线的单例实例
func GetEventBus() *events.RedisBus {
	eventBusOnce.Do(func() {
		cfg := config.GetConfig()
		eventBusInstance = events.NewRedisBus(&events.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	})
	return eventBusInstance
}

// CloseEventBus 关闭Redis连接
func CloseEventBus() error {
	if eventBusInstance != nil {
		return eventBusInstance.Close()
	}
	return nil
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 事件类型常量
const (
	EventCreated    = "created"
	EventTransition = "transition"
	EventReminder   = "reminder"
)

// 记录类型常量（与持久化表一一对应）
const (
	KindProperty    = "property"
	KindTenantUnit  = "tenant_unit"
	KindMaintenance = "maintenance_request"
	KindPayment     = "payment"
	KindProfile     = "profile"
)

// Event 变更通知消息
type Event struct {
	Event      string      `json:"event"`                 // created / transition / reminder
	Kind       string      `json:"kind"`                  // 记录类型
	RecordID   uint        `json:"record_id,omitempty"`   // 记录ID
	PropertyID uint        `json:"property_id,omitempty"` // 所属物业，0表示全局
	Data       interface{} `json:"data,omitempty"`        // 附加数据
	At         int64       `json:"at"`                    // 事件时间戳
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// RedisBus 基于Redis pub/sub的事件总线
type RedisBus struct {
	client *redis.Client
	prefix string
}

// NewRedisBus 创建事件总线实例
func NewRedisBus(config *Config) *RedisBus {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "pmp:events"
	}

	return &RedisBus{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (b *RedisBus) Close() error {
	return b.client.Close()
}

// Ping 测试Redis连接
func (b *RedisBus) Ping() error {
	ctx := context.Background()
	return b.client.Ping(ctx).Err()
}

// GetClient 获取底层Redis客户端（供WebSocket订阅使用）
func (b *RedisBus) GetClient() *redis.Client {
	return b.client
}

// AllChannel 全局频道（管理员订阅）
func (b *RedisBus) AllChannel() string {
	return b.prefix + ":all"
}

// PropertyChannel 物业维度频道（业主/租客订阅）
func (b *RedisBus) PropertyChannel(propertyID uint) string {
	return fmt.Sprintf("%s:property:%d", b.prefix, propertyID)
}

// Publish 发布事件到全局频道；propertyID不为0时同时发布到物业频道
func (b *RedisBus) Publish(event Event) error {
	if event.At == 0 {
		event.At = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %v", err)
	}

	ctx := context.Background()
	if err := b.client.Publish(ctx, b.AllChannel(), data).Err(); err != nil {
		return fmt.Errorf("发布事件失败: %v", err)
	}

	if event.PropertyID != 0 {
		if err := b.client.Publish(ctx, b.PropertyChannel(event.PropertyID), data).Err(); err != nil {
			return fmt.Errorf("发布物业频道事件失败: %v", err)
		}
	}

	return nil
}

// Subscribe 订阅一个或多个频道，调用方负责Close
func (b *RedisBus) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return b.client.Subscribe(ctx, channels...)
}

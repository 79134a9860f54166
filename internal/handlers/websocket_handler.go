package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pmp/internal/database"
	"pmp/internal/models"
	"pmp/internal/services"
	"pmp/pkg/config"
	"pmp/pkg/events"
	"pmp/pkg/jwt"
	"pmp/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHandler 变更通知推送
// 管理员订阅全局频道，业主订阅名下物业频道，租客订阅入住物业频道
type WebSocketHandler struct {
	upgrader          websocket.Upgrader
	bus               *events.RedisBus
	log               *logrus.Logger
	jwtManager        *jwt.JWTManager
	profileService    *services.ProfileService
	propertyService   *services.PropertyService
	assignmentService *services.AssignmentService
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(profileService *services.ProfileService, propertyService *services.PropertyService, assignmentService *services.AssignmentService) *WebSocketHandler {
	cfg := config.GetConfig()
	allowedOrigins := cfg.CORS.AllowOrigins

	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				for _, allowed := range allowedOrigins {
					if allowed == "*" {
						return true
					}
				}

				// Origin为空（同源请求）时允许
				if origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if matchOrigin(origin, allowed) {
						return true
					}
				}

				logger.GetLogger().Warnf("WebSocket连接被拒绝，非法Origin: %s", origin)
				return false
			},
			ReadBufferSize:  1024 * 8,
			WriteBufferSize: 1024 * 8,
		},
		bus:               database.GetEventBus(),
		log:               logger.GetLogger(),
		jwtManager:        jwt.GetJWTManager(), // 使用全局JWT管理器
		profileService:    profileService,
		propertyService:   propertyService,
		assignmentService: assignmentService,
	}
}

// Events 变更事件推送连接
// WebSocket不支持自定义header，token从查询参数获取
func (h *WebSocketHandler) Events(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少认证令牌"})
		return
	}

	claims, err := h.jwtManager.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的令牌"})
		return
	}

	profile, err := h.profileService.GetByID(claims.ProfileID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "档案不存在"})
		return
	}
	if profile.IsSuspended() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "账号已被停用"})
		return
	}

	channels, err := h.channelsFor(profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "解析订阅范围失败"})
		return
	}
	if len(channels) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "当前账号没有可订阅的事件范围"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	h.log.WithFields(logrus.Fields{
		"profile_id": profile.ID,
		"role":       profile.Role,
		"channels":   len(channels),
	}).Info("WebSocket connection established")

	h.handleEventConnection(conn, channels)
}

// channelsFor 计算角色对应的订阅频道集合
func (h *WebSocketHandler) channelsFor(profile *models.Profile) ([]string, error) {
	switch profile.Role {
	case models.RoleAdmin:
		return []string{h.bus.AllChannel()}, nil

	case models.RoleOwner:
		properties, err := h.propertyService.GetByOwner(profile.ID)
		if err != nil {
			return nil, err
		}
		var channels []string
		for _, property := range properties {
			channels = append(channels, h.bus.PropertyChannel(property.ID))
		}
		return channels, nil

	case models.RoleTenant:
		assignment, err := h.assignmentService.GetByTenant(profile.ID)
		if err != nil {
			return nil, err
		}
		if assignment == nil {
			return nil, nil
		}
		return []string{h.bus.PropertyChannel(assignment.PropertyID)}, nil

	default:
		return nil, nil
	}
}

// handleEventConnection 转发Redis事件到客户端
// 订阅保证在任何退出路径上恰好释放一次
func (h *WebSocketHandler) handleEventConnection(conn *websocket.Conn, channels []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.bus.Subscribe(ctx, channels...)
	defer pubsub.Close()

	// 等待订阅成功
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.WithError(err).Error("Failed to subscribe to Redis channels")
		return
	}

	// 处理客户端消息（主要是ping/pong）
	go h.readPump(conn, cancel)

	ch := pubsub.Channel()

	const writeTimeout = 10 * time.Second

	// 每60秒发送一次ping保持连接
	pingTicker := time.NewTicker(60 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.WithError(err).Error("Failed to send ping")
				return
			}

		case msg := <-ch:
			if msg == nil {
				return
			}

			var event map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.log.WithError(err).Error("Failed to parse event message")
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				h.log.WithError(err).Error("Failed to send event to client")
				return
			}
		}
	}
}

// readPump 处理客户端消息
func (h *WebSocketHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	pongWait := 300 * time.Second
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Error("WebSocket unexpected close")
			}
			break
		}
	}
}

// matchOrigin 检查origin是否匹配allowed模式
// 支持精确匹配和通配符匹配（如 *.example.com）
func matchOrigin(origin, allowed string) bool {
	if origin == allowed {
		return true
	}

	if strings.HasPrefix(allowed, "*.") {
		domain := allowed[2:]

		originHost := origin
		if idx := strings.Index(origin, "://"); idx != -1 {
			originHost = origin[idx+3:]
		}
		if idx := strings.Index(originHost, ":"); idx != -1 {
			originHost = originHost[:idx]
		}

		if originHost == domain {
			return true
		}
		if strings.HasSuffix(originHost, "."+domain) {
			return true
		}
	}

	return false
}

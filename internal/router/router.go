package router

import (
	"time"

	"pmp/internal/database"
	"pmp/internal/handlers"
	"pmp/internal/middleware"
	"pmp/internal/services"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	registerValidators()

	// 注册路由
	registerRoutes(router)
	return router
}

// registerValidators 注册自定义校验规则
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// currency: 金额最多保留两位小数
		v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return services.ValidateAmount(fl.Field().Float()) == nil
		})
	}
}

// 注册所有路由
func registerRoutes(router *gin.Engine) {

	db := database.GetDB()
	bus := database.GetEventBus()

	profileService := services.NewProfileService(db, bus)
	propertyService := services.NewPropertyService(db, bus)
	assignmentService := services.NewAssignmentService(db, bus)
	maintenanceService := services.NewMaintenanceService(db, bus)
	paymentService := services.NewPaymentService(db, bus)
	statsService := services.NewStatsService(db)
	operationLogService := services.NewOperationLogService(db)

	auth := middleware.NewAuthMiddleware(profileService)

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// JWT认证路由（无需认证）
		authHandler := handlers.NewAuthHandler(profileService)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)    // 用户注册
			authGroup.POST("/login", authHandler.Login)          // 用户登录
			authGroup.POST("/logout", authHandler.Logout)        // 用户登出
			authGroup.POST("/refresh", authHandler.RefreshToken) // 刷新Token

			// 获取当前用户完整信息
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 角色分流入口：按档案角色返回对应工作台数据
		dashboardHandler := handlers.NewDashboardHandler(propertyService, assignmentService, statsService)
		api.GET("/dashboard", auth.RequireLogin(), dashboardHandler.Get)

		// 入住登记（仅租客）
		assignmentHandler := handlers.NewAssignmentHandler(assignmentService, propertyService)
		assignments := api.Group("/assignment")
		assignments.Use(auth.RequireLogin(), auth.RequireRole("tenant"))
		{
			assignments.GET("", assignmentHandler.Get)     // 当前入住信息
			assignments.POST("", assignmentHandler.Create) // 登记入住
		}

		// 物业管理
		propertyHandler := handlers.NewPropertyHandler(propertyService, assignmentService)
		properties := api.Group("/properties")
		properties.Use(auth.RequireLogin())
		{
			properties.GET("", propertyHandler.GetAll)
			properties.GET("/:id", propertyHandler.GetByID)
			properties.POST("", auth.RequireRole("owner", "admin"), propertyHandler.Create)
		}

		// 维修申请
		maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService)
		maintenances := api.Group("/maintenance-requests")
		maintenances.Use(auth.RequireLogin())
		{
			maintenances.GET("", maintenanceHandler.GetAll)
			maintenances.POST("", auth.RequireRole("tenant"), maintenanceHandler.Create)
			maintenances.PUT("/:id/status", auth.RequireRole("owner", "admin"), maintenanceHandler.UpdateStatus)
		}

		// 缴费记录
		paymentHandler := handlers.NewPaymentHandler(paymentService)
		payments := api.Group("/payments")
		payments.Use(auth.RequireLogin())
		{
			payments.GET("", paymentHandler.GetAll)
			payments.POST("", auth.RequireRole("tenant"), paymentHandler.Create)
			payments.PUT("/:id/status", auth.RequireRole("owner", "admin"), paymentHandler.UpdateStatus)
		}

		// 用户管理（仅管理员）
		userHandler := handlers.NewUserHandler(profileService)
		users := api.Group("/users")
		users.Use(auth.RequireLogin(), auth.RequireAdmin())
		{
			users.GET("", userHandler.GetAll)
			users.GET("/:id", userHandler.GetByID)
			users.PUT("/:id/status", userHandler.UpdateStatus)
			users.PUT("/:id/role", userHandler.UpdateRole)
		}

		// 审计日志（仅管理员）
		operationLogHandler := handlers.NewOperationLogHandler(operationLogService)
		api.GET("/operation-logs", auth.RequireLogin(), auth.RequireAdmin(), operationLogHandler.GetAll)

		// 变更事件推送（token在查询参数中认证）
		wsHandler := handlers.NewWebSocketHandler(profileService, propertyService, assignmentService)
		api.GET("/ws/events", wsHandler.Events)
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "PMP",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}

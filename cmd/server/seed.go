package main

import (
	"fmt"

	"pmp/internal/database"
	"pmp/internal/models"
	"pmp/internal/services"
	"pmp/pkg/config"
	"pmp/pkg/events"
	"pmp/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
// 仅在SEED_ADMIN=true时执行，正常请求路径不会触发
func seedData(cfg *config.Config) error {
	appLogger := logger.GetLogger()

	if !cfg.Seed.SeedAdmin {
		appLogger.Info("Seed data initialization disabled, skipping")
		return nil
	}

	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	if err := createDefaultAdmin(db, cfg); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// createDefaultAdmin 创建默认管理员档案
func createDefaultAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Seed.AdminPassword == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD未配置")
	}

	var count int64
	db.Model(&models.Profile{}).Where("email = ?", cfg.Seed.AdminEmail).Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认管理员已存在，跳过创建")
		return nil
	}

	admin := &models.Profile{
		Email:    cfg.Seed.AdminEmail,
		FullName: "系统管理员",
		Role:     models.RoleAdmin,
		Status:   models.ProfileStatusActive,
	}
	if err := admin.SetPassword(cfg.Seed.AdminPassword); err != nil {
		return err
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	// 记录审计日志
	services.NewOperationLogService(db).Append(admin.ID, models.ActionSeedAdmin, events.KindProfile, admin.ID, map[string]interface{}{
		"email": admin.Email,
	})

	logger.GetLogger().Infof("默认管理员创建成功: %s", admin.Email)
	return nil
}

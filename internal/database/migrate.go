package database

import (
	"pmp/internal/models"
	"pmp/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := DB.AutoMigrate(
		&models.Profile{},
		&models.Property{},
		&models.TenantUnit{},
		&models.MaintenanceRequest{},
		&models.Payment{},
		&models.OperationLog{},
	)

	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}

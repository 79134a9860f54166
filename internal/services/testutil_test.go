package services

import (
	"testing"

	"pmp/internal/models"
	"pmp/pkg/events"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 打开内存数据库并完成迁移，每个用例独立
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Profile{},
		&models.Property{},
		&models.TenantUnit{},
		&models.MaintenanceRequest{},
		&models.Payment{},
		&models.OperationLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// recordingSink 收集发布的事件供断言
type recordingSink struct {
	published []events.Event
}

func (r *recordingSink) Publish(event events.Event) error {
	r.published = append(r.published, event)
	return nil
}

// createProfile 创建测试档案
func createProfile(t *testing.T, db *gorm.DB, email, role string) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		Email:    email,
		FullName: "测试用户",
		Role:     role,
		Status:   models.ProfileStatusActive,
	}
	if err := profile.SetPassword("password123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return profile
}

// createProperty 创建测试物业
func createProperty(t *testing.T, db *gorm.DB, ownerID uint, name string, units int) *models.Property {
	t.Helper()

	property := &models.Property{
		Name:    name,
		Address: "测试路1号",
		Units:   units,
		OwnerID: ownerID,
	}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("failed to create property: %v", err)
	}
	return property
}

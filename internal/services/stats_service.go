package services

import (
	"pmp/internal/models"

	"gorm.io/gorm"
)

// SystemStats 管理员仪表盘聚合统计
type SystemStats struct {
	TotalProperties          int64 `json:"total_properties"`
	TotalTenants             int64 `json:"total_tenants"`
	TotalOwners              int64 `json:"total_owners"`
	TotalMaintenanceRequests int64 `json:"total_maintenance_requests"`
	PendingMaintenance       int64 `json:"pending_maintenance"`
	TotalPayments            int64 `json:"total_payments"`
	PendingPayments          int64 `json:"pending_payments"`
}

// StatsService 聚合统计服务
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// GetSystemStats 全局统计（管理员视角，不限定范围）
func (s *StatsService) GetSystemStats() (*SystemStats, error) {
	stats := &SystemStats{}

	if err := s.db.Model(&models.Property{}).Count(&stats.TotalProperties).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Profile{}).Where("role = ?", models.RoleTenant).Count(&stats.TotalTenants).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Profile{}).Where("role = ?", models.RoleOwner).Count(&stats.TotalOwners).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.MaintenanceRequest{}).Count(&stats.TotalMaintenanceRequests).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.MaintenanceRequest{}).Where("status = ?", models.MaintenanceStatusPending).Count(&stats.PendingMaintenance).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Payment{}).Count(&stats.TotalPayments).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusPending).Count(&stats.PendingPayments).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

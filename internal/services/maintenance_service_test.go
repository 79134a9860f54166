package services

import (
	"testing"

	"pmp/internal/models"
	"pmp/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceCreateRequiresAssignment(t *testing.T) {
	db := newTestDB(t)
	service := NewMaintenanceService(db, nil)

	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)

	_, err := service.Create(tenant.ID, "水管漏水", "厨房水管接口渗水")
	assert.Error(t, err, "未完成入住登记不能提交维修申请")
}

func TestMaintenanceCreateForcesPendingAndProperty(t *testing.T) {
	db := newTestDB(t)
	sink := &recordingSink{}
	service := NewMaintenanceService(db, sink)

	owner := createProfile(t, db, "owner@test.com", models.RoleOwner)
	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)
	property := createProperty(t, db, owner.ID, "阳光花园", 20)

	_, err := NewAssignmentService(db, nil).Create(tenant.ID, property.ID, "1-101")
	require.NoError(t, err)

	request, err := service.Create(tenant.ID, "水管漏水", "厨房水管接口渗水")
	require.NoError(t, err)

	// 状态和物业由服务端决定，调用方无法指定
	assert.Equal(t, models.MaintenanceStatusPending, request.Status)
	assert.Equal(t, property.ID, request.PropertyID)
	assert.Equal(t, tenant.ID, request.TenantID)

	require.Len(t, sink.published, 1)
	assert.Equal(t, events.EventCreated, sink.published[0].Event)
	assert.Equal(t, events.KindMaintenance, sink.published[0].Kind)
}

func TestMaintenanceCreateValidation(t *testing.T) {
	db := newTestDB(t)
	service := NewMaintenanceService(db, nil)

	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)

	_, err := service.Create(tenant.ID, "  ", "描述")
	assert.Error(t, err, "空标题应报错")

	_, err = service.Create(tenant.ID, "标题", "")
	assert.Error(t, err, "空描述应报错")
}

func TestMaintenanceUpdateStatusEnumGuard(t *testing.T) {
	db := newTestDB(t)
	service := NewMaintenanceService(db, nil)

	owner := createProfile(t, db, "owner@test.com", models.RoleOwner)
	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)
	property := createProperty(t, db, owner.ID, "阳光花园", 20)

	request := &models.MaintenanceRequest{
		TenantID:    tenant.ID,
		PropertyID:  property.ID,
		Title:       "水管漏水",
		Description: "厨房水管接口渗水",
		Status:      models.MaintenanceStatusPending,
	}
	require.NoError(t, db.Create(request).Error)

	admin := createProfile(t, db, "admin@test.com", models.RoleAdmin)

	// 枚举校验先于任何写入
	_, err := service.UpdateStatus(admin, request.ID, "done")
	assert.Error(t, err)

	var reloaded models.MaintenanceRequest
	require.NoError(t, db.First(&reloaded, request.ID).Error)
	assert.Equal(t, models.MaintenanceStatusPending, reloaded.Status, "非法状态不应落库")
}

func TestMaintenanceUpdateStatusAuthority(t *testing.T) {
	db := newTestDB(t)
	sink := &recordingSink{}
	service := NewMaintenanceService(db, sink)

	owner := createProfile(t, db, "owner@test.com", models.RoleOwner)
	otherOwner := createProfile(t, db, "other@test.com", models.RoleOwner)
	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)
	admin := createProfile(t, db, "admin@test.com", models.RoleAdmin)
	property := createProperty(t, db, owner.ID, "阳光花园", 20)

	request := &models.MaintenanceRequest{
		TenantID:    tenant.ID,
		PropertyID:  property.ID,
		Title:       "水管漏水",
		Description: "厨房水管接口渗水",
		Status:      models.MaintenanceStatusPending,
	}
	require.NoError(t, db.Create(request).Error)

	// 租客不能流转状态
	_, err := service.UpdateStatus(tenant, request.ID, models.MaintenanceStatusInProgress)
	assert.Error(t, err)

	// 其他业主不能操作非名下物业的记录
	_, err = service.UpdateStatus(otherOwner, request.ID, models.MaintenanceStatusInProgress)
	assert.Error(t, err)

	// 名下物业的业主可以流转
	updated, err := service.UpdateStatus(owner, request.ID, models.MaintenanceStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusInProgress, updated.Status)

	// 管理员不受物业范围限制
	updated, err = service.UpdateStatus(admin, request.ID, models.MaintenanceStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusCompleted, updated.Status)

	// 每次成功流转都发布transition事件并写审计日志
	require.Len(t, sink.published, 2)
	assert.Equal(t, events.EventTransition, sink.published[0].Event)

	var logCount int64
	db.Model(&models.OperationLog{}).Where("action = ?", models.ActionStatusTransition).Count(&logCount)
	assert.Equal(t, int64(2), logCount)
}

func TestMaintenanceGetScopedWithPage(t *testing.T) {
	db := newTestDB(t)
	service := NewMaintenanceService(db, nil)

	owner := createProfile(t, db, "owner@test.com", models.RoleOwner)
	otherOwner := createProfile(t, db, "other@test.com", models.RoleOwner)
	tenantA := createProfile(t, db, "a@test.com", models.RoleTenant)
	tenantB := createProfile(t, db, "b@test.com", models.RoleTenant)
	admin := createProfile(t, db, "admin@test.com", models.RoleAdmin)

	propertyA := createProperty(t, db, owner.ID, "阳光花园", 20)
	propertyB := createProperty(t, db, otherOwner.ID, "翠湖苑", 10)

	require.NoError(t, db.Create(&models.MaintenanceRequest{
		TenantID: tenantA.ID, PropertyID: propertyA.ID,
		Title: "申请A", Description: "描述A", Status: models.MaintenanceStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.MaintenanceRequest{
		TenantID: tenantB.ID, PropertyID: propertyB.ID,
		Title: "申请B", Description: "描述B", Status: models.MaintenanceStatusPending,
	}).Error)

	// 租客只能看到本人记录
	requests, total, err := service.GetScopedWithPage(tenantA, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	assert.Equal(t, "申请A", requests[0].Title)

	// 业主只能看到名下物业的记录
	requests, total, err = service.GetScopedWithPage(owner, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, requests, 1)
	assert.Equal(t, propertyA.ID, requests[0].PropertyID)

	// 管理员看到全部
	_, total, err = service.GetScopedWithPage(admin, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// 未分配角色无权查看
	unassigned := createProfile(t, db, "nobody@test.com", "")
	_, _, err = service.GetScopedWithPage(unassigned, "", 1, 10)
	assert.Error(t, err)
}

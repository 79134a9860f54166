package services

import (
	"testing"
	"time"

	"pmp/internal/models"
	"pmp/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentGetByTenantUnregistered(t *testing.T) {
	db := newTestDB(t)
	service := NewAssignmentService(db, nil)

	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)

	unit, err := service.GetByTenant(tenant.ID)
	assert.NoError(t, err)
	assert.Nil(t, unit, "未登记时应返回nil而不是错误")
}

func TestAssignmentCreate(t *testing.T) {
	db := newTestDB(t)
	sink := &recordingSink{}
	service := NewAssignmentService(db, sink)

	owner := createProfile(t, db, "owner@test.com", models.RoleOwner)
	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)
	property := createProperty(t, db, owner.ID, "阳光花园", 20)

	unit, err := service.Create(tenant.ID, property.ID, "3-201")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, unit.TenantID)
	assert.Equal(t, property.ID, unit.PropertyID)
	assert.Equal(t, "3-201", unit.UnitNumber)

	// 登记成功后发布created事件到对应物业
	require.Len(t, sink.published, 1)
	assert.Equal(t, events.EventCreated, sink.published[0].Event)
	assert.Equal(t, events.KindTenantUnit, sink.published[0].Kind)
	assert.Equal(t, property.ID, sink.published[0].PropertyID)
}

func TestAssignmentCreateValidation(t *testing.T) {
	db := newTestDB(t)
	service := NewAssignmentService(db, nil)

	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)

	_, err := service.Create(tenant.ID, 0, "1-101")
	assert.Error(t, err, "缺少物业应报错")

	owner := createProfile(t, db, "owner@test.com", models.RoleOwner)
	property := createProperty(t, db, owner.ID, "阳光花园", 20)

	_, err = service.Create(tenant.ID, property.ID, "   ")
	assert.Error(t, err, "空单元号应报错")

	_, err = service.Create(tenant.ID, property.ID+999, "1-101")
	assert.Error(t, err, "不存在的物业应报错")
}

func TestAssignmentOldestRecordWins(t *testing.T) {
	db := newTestDB(t)
	service := NewAssignmentService(db, nil)

	owner := createProfile(t, db, "owner@test.com", models.RoleOwner)
	tenant := createProfile(t, db, "tenant@test.com", models.RoleTenant)
	first := createProperty(t, db, owner.ID, "阳光花园", 20)
	second := createProperty(t, db, owner.ID, "翠湖苑", 10)

	// 没有唯一性约束，重复登记会产生多条记录
	older := &models.TenantUnit{TenantID: tenant.ID, PropertyID: first.ID, UnitNumber: "1-101"}
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(older).Error)

	_, err := service.Create(tenant.ID, second.ID, "2-202")
	require.NoError(t, err)

	var count int64
	db.Model(&models.TenantUnit{}).Where("tenant_id = ?", tenant.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	// 读取侧始终取最早一条
	unit, err := service.GetByTenant(tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, unit)
	assert.Equal(t, first.ID, unit.PropertyID)
	assert.Equal(t, "1-101", unit.UnitNumber)
	require.NotNil(t, unit.Property)
	assert.Equal(t, "阳光花园", unit.Property.Name)
}

func TestAssignmentGetByProperty(t *testing.T) {
	db := newTestDB(t)
	service := NewAssignmentService(db, nil)

	owner := createProfile(t, db, "owner@test.com", models.RoleOwner)
	tenantA := createProfile(t, db, "a@test.com", models.RoleTenant)
	tenantB := createProfile(t, db, "b@test.com", models.RoleTenant)
	property := createProperty(t, db, owner.ID, "阳光花园", 20)
	other := createProperty(t, db, owner.ID, "翠湖苑", 10)

	_, err := service.Create(tenantA.ID, property.ID, "1-101")
	require.NoError(t, err)
	_, err = service.Create(tenantB.ID, other.ID, "2-202")
	require.NoError(t, err)

	units, err := service.GetByProperty(property.ID)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, tenantA.ID, units[0].TenantID)
}

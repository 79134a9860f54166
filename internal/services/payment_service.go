package services

import (
	"fmt"
	"math"
	"time"

	"pmp/internal/models"
	"pmp/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentService 租金缴纳服务
type PaymentService struct {
	db          *gorm.DB
	sink        EventSink
	assignments *AssignmentService
	oplog       *OperationLogService
}

func NewPaymentService(db *gorm.DB, sink EventSink) *PaymentService {
	return &PaymentService{
		db:          db,
		sink:        sink,
		assignments: NewAssignmentService(db, sink),
		oplog:       NewOperationLogService(db),
	}
}

// Create 租客提交缴费记录
// 状态强制为pending，物业取自入住记录，凭证号由服务端生成
func (s *PaymentService) Create(tenantID uint, amount float64, paymentDate *time.Time) (*models.Payment, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	assignment, err := s.assignments.GetByTenant(tenantID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, fmt.Errorf("尚未完成入住登记")
	}

	date := time.Now()
	if paymentDate != nil {
		date = *paymentDate
	}

	payment := &models.Payment{
		TenantID:    tenantID,
		PropertyID:  assignment.PropertyID,
		Amount:      amount,
		Status:      models.PaymentStatusPending,
		Reference:   uuid.NewString(),
		PaymentDate: date,
	}

	if err := s.db.Create(payment).Error; err != nil {
		return nil, err
	}

	publishEvent(s.sink, events.Event{
		Event:      events.EventCreated,
		Kind:       events.KindPayment,
		RecordID:   payment.ID,
		PropertyID: payment.PropertyID,
	})

	return payment, nil
}

// GetScopedWithPage 按调用方权限范围分页查询
func (s *PaymentService) GetScopedWithPage(viewer *models.Profile, status string, page, pageSize int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := s.db.Model(&models.Payment{})

	switch viewer.Role {
	case models.RoleTenant:
		query = query.Where("tenant_id = ?", viewer.ID)
	case models.RoleOwner:
		query = query.Where("property_id IN (?)",
			s.db.Model(&models.Property{}).Select("id").Where("owner_id = ?", viewer.ID))
	case models.RoleAdmin:
		// 不限定范围
	default:
		return nil, 0, fmt.Errorf("当前角色无权查看缴费记录")
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Tenant").Preload("Property").
		Order("created_at DESC").Offset(offset).Limit(pageSize).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// UpdateStatus 业主/管理员流转缴费状态
// 枚举校验先于任何数据库操作
func (s *PaymentService) UpdateStatus(actor *models.Profile, id uint, status string) (*models.Payment, error) {
	if !valueAllowed(status, models.PaymentStatuses) {
		return nil, fmt.Errorf("无效的缴费状态: %s", status)
	}

	var payment models.Payment
	if err := s.db.First(&payment, id).Error; err != nil {
		return nil, err
	}

	if err := s.checkAuthority(actor, payment.PropertyID); err != nil {
		return nil, err
	}

	oldStatus := payment.Status
	payment.Status = status
	if err := s.db.Save(&payment).Error; err != nil {
		return nil, err
	}

	s.oplog.Append(actor.ID, models.ActionStatusTransition, events.KindPayment, payment.ID, map[string]interface{}{
		"old": oldStatus,
		"new": status,
	})
	publishEvent(s.sink, events.Event{
		Event:      events.EventTransition,
		Kind:       events.KindPayment,
		RecordID:   payment.ID,
		PropertyID: payment.PropertyID,
		Data:       map[string]string{"status": status},
	})

	return &payment, nil
}

// checkAuthority 校验操作权限：管理员不限，业主限名下物业
func (s *PaymentService) checkAuthority(actor *models.Profile, propertyID uint) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.Role != models.RoleOwner {
		return fmt.Errorf("当前角色无权流转状态")
	}

	var count int64
	s.db.Model(&models.Property{}).
		Where("id = ? AND owner_id = ?", propertyID, actor.ID).
		Count(&count)
	if count == 0 {
		return fmt.Errorf("无权操作其他业主物业的记录")
	}
	return nil
}

// ValidateAmount 金额必须为正且最多两位小数
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("金额必须大于0")
	}
	cents := amount * 100
	if math.Abs(cents-math.Round(cents)) > 1e-9 {
		return fmt.Errorf("金额最多保留两位小数")
	}
	return nil
}

package handlers

import (
	"strconv"
	"time"

	"pmp/internal/middleware"
	"pmp/internal/services"
	"pmp/pkg/pagination"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type CreatePaymentRequest struct {
	Amount      float64    `json:"amount" binding:"required,gt=0,currency"`
	PaymentDate *time.Time `json:"payment_date"`
}

// Create 租客提交缴费记录
func (h *PaymentHandler) Create(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	payment, err := h.paymentService.Create(profile.ID, req.Amount, req.PaymentDate)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "缴费记录已提交", payment)
}

// GetAll 按调用方权限范围分页查询
func (h *PaymentHandler) GetAll(c *gin.Context) {
	profile := middleware.CurrentProfile(c)
	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")

	payments, total, err := h.paymentService.GetScopedWithPage(profile, status, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询缴费记录失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, payments, pageInfo)
}

// UpdateStatus 业主/管理员流转状态
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	profile := middleware.CurrentProfile(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "缴费ID格式错误")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	payment, err := h.paymentService.UpdateStatus(profile, uint(id), req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "状态已更新", payment)
}

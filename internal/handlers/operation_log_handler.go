package handlers

import (
	"pmp/internal/services"
	"pmp/pkg/pagination"
	"pmp/pkg/response"

	"github.com/gin-gonic/gin"
)

// OperationLogHandler 审计日志查询（仅管理员）
type OperationLogHandler struct {
	operationLogService *services.OperationLogService
}

func NewOperationLogHandler(operationLogService *services.OperationLogService) *OperationLogHandler {
	return &OperationLogHandler{operationLogService: operationLogService}
}

// GetAll 分页查询审计日志
func (h *OperationLogHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)

	logs, total, err := h.operationLogService.GetWithPage(pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询审计日志失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, logs, pageInfo)
}

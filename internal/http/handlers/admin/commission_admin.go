package admin

import (
	"strconv"

	"github.com/fenxiao-next/internal/http/response"
	"github.com/fenxiao-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCommissions 分页查询当前租户佣金记录
func (h *Handler) ListCommissions(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	orderID, _ := strconv.ParseUint(c.Query("order_id"), 10, 64)
	beneficiaryID, _ := strconv.ParseUint(c.Query("beneficiary_id"), 10, 64)

	rows, total, err := h.CommissionService.List(repository.CommissionListFilter{
		Page:          page,
		PageSize:      pageSize,
		TenantID:      tenantID,
		OrderID:       uint(orderID),
		BeneficiaryID: uint(beneficiaryID),
		Status:        c.Query("status"),
	})
	if err != nil {
		response.Internal(c, "查询佣金记录失败")
		return
	}

	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// GetOrderCommissions 查询指定订单名下佣金记录
func (h *Handler) GetOrderCommissions(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	orderID, ok := getPathID(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(orderID)
	if err != nil || order.TenantID != tenantID {
		response.NotFound(c, "订单不存在")
		return
	}

	rows, err := h.CommissionService.ListByOrder(orderID)
	if err != nil {
		response.Internal(c, "查询佣金记录失败")
		return
	}
	response.Success(c, rows)
}

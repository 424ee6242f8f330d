package admin

import (
	"errors"
	"strconv"

	"github.com/fenxiao-next/internal/http/response"
	"github.com/fenxiao-next/internal/repository"
	"github.com/fenxiao-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders 分页查询当前租户订单
func (h *Handler) ListOrders(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		TenantID: tenantID,
		Status:   c.Query("status"),
	})
	if err != nil {
		response.Internal(c, "查询订单失败")
		return
	}
	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// GetOrder 查询订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return
	}
	orderID, ok := getPathID(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "订单不存在")
			return
		}
		response.Internal(c, "查询订单失败")
		return
	}
	if order.TenantID != tenantID {
		response.NotFound(c, "订单不存在")
		return
	}
	response.Success(c, order)
}

// loadTenantOrder 校验订单归属后返回订单 ID
func (h *Handler) loadTenantOrder(c *gin.Context) (uint, bool) {
	tenantID, ok := getTenantID(c)
	if !ok {
		return 0, false
	}
	orderID, ok := getPathID(c, "id")
	if !ok {
		return 0, false
	}
	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "订单不存在")
			return 0, false
		}
		response.Internal(c, "查询订单失败")
		return 0, false
	}
	if order.TenantID != tenantID {
		response.NotFound(c, "订单不存在")
		return 0, false
	}
	return orderID, true
}

// MarkOrderPaid 订单支付入账（上游支付回调 / 管理端补账）
func (h *Handler) MarkOrderPaid(c *gin.Context) {
	orderID, ok := h.loadTenantOrder(c)
	if !ok {
		return
	}
	if err := h.OrderService.MarkPaid(orderID); err != nil {
		if errors.Is(err, service.ErrOrderStatusInvalid) {
			response.Error(c, response.CodeConflict, "订单状态不允许支付入账")
			return
		}
		if service.IsValidationError(err) {
			response.BadRequest(c, "分销配置或订单数据不合法")
			return
		}
		response.Internal(c, "支付入账失败")
		return
	}
	response.SuccessWithMsg(c, "支付入账成功", nil)
}

// ConfirmOrderReceipt 确认收货，推进佣金结算
func (h *Handler) ConfirmOrderReceipt(c *gin.Context) {
	orderID, ok := h.loadTenantOrder(c)
	if !ok {
		return
	}
	if err := h.OrderService.ConfirmReceipt(orderID); err != nil {
		if errors.Is(err, service.ErrOrderStatusInvalid) {
			response.Error(c, response.CodeConflict, "订单状态不允许确认收货")
			return
		}
		response.Internal(c, "确认收货失败")
		return
	}
	response.SuccessWithMsg(c, "确认收货成功", nil)
}

// ForceVerifyOrder 强制核销，推进佣金结算
func (h *Handler) ForceVerifyOrder(c *gin.Context) {
	orderID, ok := h.loadTenantOrder(c)
	if !ok {
		return
	}
	if err := h.OrderService.ForceVerify(orderID); err != nil {
		if errors.Is(err, service.ErrOrderStatusInvalid) {
			response.Error(c, response.CodeConflict, "订单状态不允许核销")
			return
		}
		response.Internal(c, "强制核销失败")
		return
	}
	response.SuccessWithMsg(c, "核销成功", nil)
}

// RefundOrder 订单全额退款，取消名下佣金
func (h *Handler) RefundOrder(c *gin.Context) {
	orderID, ok := h.loadTenantOrder(c)
	if !ok {
		return
	}
	if err := h.OrderService.Refund(orderID); err != nil {
		if errors.Is(err, service.ErrOrderStatusInvalid) {
			response.Error(c, response.CodeConflict, "订单状态不允许退款")
			return
		}
		response.Internal(c, "退款处理失败")
		return
	}
	response.SuccessWithMsg(c, "退款处理成功", nil)
}

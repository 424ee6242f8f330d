package public

import (
	"strconv"

	"github.com/fenxiao-next/internal/http/response"
	"github.com/fenxiao-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetMemberWallet 查询会员在指定租户下的钱包账户
func (h *Handler) GetMemberWallet(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	tenantID, _ := strconv.ParseUint(c.Query("tenant_id"), 10, 64)
	if tenantID == 0 {
		response.BadRequest(c, "租户 ID 非法")
		return
	}

	account, err := h.WalletService.GetOrInitAccount(memberID, uint(tenantID))
	if err != nil {
		response.Internal(c, "查询钱包失败")
		return
	}
	response.Success(c, account)
}

// GetMemberWalletTransactions 分页查询会员钱包流水
func (h *Handler) GetMemberWalletTransactions(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	tenantID, _ := strconv.ParseUint(c.Query("tenant_id"), 10, 64)

	transactions, total, err := h.WalletService.ListTransactions(repository.WalletTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		MemberID: memberID,
		TenantID: uint(tenantID),
		Type:     c.Query("type"),
	})
	if err != nil {
		response.Internal(c, "查询钱包流水失败")
		return
	}

	response.SuccessWithPage(c, transactions, response.BuildPagination(page, pageSize, total))
}

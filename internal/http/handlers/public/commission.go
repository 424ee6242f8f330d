package public

import (
	"strconv"

	"github.com/fenxiao-next/internal/constants"
	"github.com/fenxiao-next/internal/http/response"
	"github.com/fenxiao-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetMemberCommissions 分页查询会员名下佣金记录
func (h *Handler) GetMemberCommissions(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rows, total, err := h.CommissionService.List(repository.CommissionListFilter{
		Page:          page,
		PageSize:      pageSize,
		BeneficiaryID: memberID,
		Status:        c.Query("status"),
	})
	if err != nil {
		response.Internal(c, "查询佣金记录失败")
		return
	}

	response.SuccessWithPage(c, rows, response.BuildPagination(page, pageSize, total))
}

// GetMemberCommissionSummary 汇总会员各状态佣金金额
func (h *Handler) GetMemberCommissionSummary(c *gin.Context) {
	memberID, ok := getMemberID(c)
	if !ok {
		return
	}

	frozen, err := h.CommissionService.SumByBeneficiary(memberID, []string{constants.CommissionStatusFrozen})
	if err != nil {
		response.Internal(c, "查询佣金汇总失败")
		return
	}
	settled, err := h.CommissionService.SumByBeneficiary(memberID, []string{constants.CommissionStatusSettled})
	if err != nil {
		response.Internal(c, "查询佣金汇总失败")
		return
	}

	response.Success(c, gin.H{
		"member_id": memberID,
		"frozen":    frozen.StringFixed(2),
		"settled":   settled.StringFixed(2),
	})
}

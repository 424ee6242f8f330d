package public

import (
	"strconv"

	"github.com/fenxiao-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getMemberID 从路径参数取出会员 ID，非法时直接响应 400
func getMemberID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("member_id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "会员 ID 非法")
		return 0, false
	}
	return uint(id), true
}

func normalizePagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

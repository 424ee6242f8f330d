package admin

import (
	"strconv"

	"github.com/fenxiao-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getTenantID 从鉴权上下文取出租户 ID，缺失时直接响应 401
func getTenantID(c *gin.Context) (uint, bool) {
	value, ok := c.Get("admin_tenant_id")
	if ok {
		if tenantID, ok := value.(uint); ok && tenantID != 0 {
			return tenantID, true
		}
	}
	response.Unauthorized(c, "租户信息缺失")
	return 0, false
}

// getPathID 解析路径中的数字 ID
func getPathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "ID 非法")
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

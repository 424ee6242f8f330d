package public

import "github.com/fenxiao-next/internal/provider"

// Handler 会员侧接口处理器入口
// 会员身份由上游网关注入路径参数，本服务不承载会员登录态。
type Handler struct {
	*provider.Container
}

// New 创建会员侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

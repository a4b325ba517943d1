package admin

import "github.com/suhome/internal/provider"

// Handler 员工后台接口处理器入口
// 说明：该处理器仅用于员工侧 API（产品经理、销售经理等），权限由服务层判定。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

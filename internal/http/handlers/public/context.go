package public

import (
	"strings"

	handlershared "github.com/suhome/internal/http/handlers/shared"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
)

// GuestTokenHeader 游客购物车令牌请求头
const GuestTokenHeader = "X-Guest-Token"

func getActor(c *gin.Context) (service.Actor, bool) {
	return handlershared.GetActor(c)
}

func getOptionalActor(c *gin.Context) service.Actor {
	return handlershared.OptionalActor(c)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParseIDParam(c, name)
}

// getCartOwner 已登录用户使用账号购物车，否则使用游客令牌
func getCartOwner(c *gin.Context) service.CartOwner {
	actor := getOptionalActor(c)
	if actor.UserID != 0 {
		return service.CartOwner{UserID: actor.UserID}
	}
	return service.CartOwner{GuestToken: strings.TrimSpace(c.GetHeader(GuestTokenHeader))}
}

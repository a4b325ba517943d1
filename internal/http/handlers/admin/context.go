package admin

import (
	handlershared "github.com/suhome/internal/http/handlers/shared"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
)

func getActor(c *gin.Context) (service.Actor, bool) {
	return handlershared.GetActor(c)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParseIDParam(c, name)
}

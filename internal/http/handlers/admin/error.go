package admin

import (
	handlershared "github.com/suhome/internal/http/handlers/shared"
	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

var productErrorRules = []handlershared.MappedError{
	{Target: service.ErrUnauthorized, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrInvalidProduct, Code: response.CodeBadRequest, Key: "error.product_invalid"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
}

var deliveryErrorRules = []handlershared.MappedError{
	{Target: service.ErrUnauthorized, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrInvalidDelivery, Code: response.CodeBadRequest, Key: "error.delivery_invalid"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusConflict, Code: response.CodeConflict, Key: "error.order_status_conflict"},
}

package public

import (
	handlershared "github.com/suhome/internal/http/handlers/shared"
	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError = handlershared.MappedError

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// 权限类错误，所有需要登录的接口共用
var accessErrorRules = []mappedHandlerError{
	{Target: service.ErrUnauthorized, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
}

var catalogErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrCatalogUnavailable, Code: response.CodeServiceUnavailable, Key: "error.catalog_unavailable"},
}

var cartErrorRules = concatMappedHandlerErrors(catalogErrorRules, []mappedHandlerError{
	{Target: service.ErrGuestTokenMissing, Code: response.CodeBadRequest, Key: "error.guest_token_missing"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrInsufficientStock, Code: response.CodeConflict, Key: "error.insufficient_stock"},
})

var checkoutErrorRules = concatMappedHandlerErrors(accessErrorRules, catalogErrorRules, []mappedHandlerError{
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrInvalidAddress, Code: response.CodeBadRequest, Key: "error.address_invalid"},
	{Target: service.ErrInvalidIdempotencyKey, Code: response.CodeBadRequest, Key: "error.idempotency_key_invalid"},
	{Target: service.ErrCheckoutInProgress, Code: response.CodeConflict, Key: "error.checkout_in_progress"},
})

var orderReadErrorRules = concatMappedHandlerErrors(accessErrorRules, []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
})

var invoiceEmailErrorRules = concatMappedHandlerErrors(orderReadErrorRules, []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrMailUnavailable, Code: response.CodeServiceUnavailable, Key: "error.mail_unavailable"},
})

var paymentErrorRules = concatMappedHandlerErrors(orderReadErrorRules, []mappedHandlerError{
	{Target: service.ErrInvalidPayment, Code: response.CodeBadRequest, Key: "error.payment_invalid"},
})

var reviewErrorRules = []mappedHandlerError{
	{Target: service.ErrUnauthorized, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.review_forbidden"},
	{Target: service.ErrInvalidRating, Code: response.CodeBadRequest, Key: "error.rating_invalid"},
	{Target: service.ErrInvalidReview, Code: response.CodeBadRequest, Key: "error.review_invalid"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
}

var authErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrPasswordTooShort, Code: response.CodeBadRequest, Key: "error.password_too_short"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
}

package public

import (
	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ensureCartOwner 游客首次操作购物车时签发令牌，通过响应头返回
func ensureCartOwner(c *gin.Context) service.CartOwner {
	owner := getCartOwner(c)
	if owner.UserID == 0 && owner.GuestToken == "" {
		owner.GuestToken = uuid.NewString()
		c.Header(GuestTokenHeader, owner.GuestToken)
	}
	return owner
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	owner := getCartOwner(c)
	if owner.UserID == 0 && owner.GuestToken == "" {
		response.Success(c, &service.CartView{Lines: []service.CartLine{}})
		return
	}
	cart, err := h.CartService.GetCart(c.Request.Context(), owner)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_failed")
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加入购物车（数量累加）
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.CartService.AddItem(c.Request.Context(), ensureCartOwner(c), req.ProductID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_failed")
		return
	}
	response.Success(c, cart)
}

// UpdateCartItem 修改购物车商品数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	cart, err := h.CartService.SetQuantity(c.Request.Context(), getCartOwner(c), productID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_failed")
		return
	}
	response.Success(c, cart)
}

// RemoveCartItem 移除购物车商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	cart, err := h.CartService.RemoveItem(c.Request.Context(), getCartOwner(c), productID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_failed")
		return
	}
	response.Success(c, cart)
}

// MergeCart 登录后合并游客购物车
func (h *Handler) MergeCart(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	cart, err := h.CartService.Merge(c.Request.Context(), c.GetHeader(GuestTokenHeader), actor.UserID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_failed")
		return
	}
	response.Success(c, cart)
}

package public

import (
	"github.com/suhome/internal/http/handlers/shared"
	"github.com/suhome/internal/http/response"

	"github.com/gin-gonic/gin"
)

// SubmitCommentRequest 评价请求
type SubmitCommentRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
}

// ListComments 商品评价列表
func (h *Handler) ListComments(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, pageSize := shared.ParsePagination(c)
	comments, total, err := h.ReviewService.ListByProduct(c.Request.Context(), productID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.SuccessWithPage(c, comments, response.BuildPagination(page, pageSize, total))
}

// CanComment 当前用户能否评价该商品
func (h *Handler) CanComment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	allowed, err := h.ReviewService.CanReview(c.Request.Context(), actor.UserID, productID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"can_comment": allowed})
}

// SubmitComment 提交评价（同一用户重复提交覆盖原评价）
func (h *Handler) SubmitComment(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	var req SubmitCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	comment, err := h.ReviewService.SubmitReview(c.Request.Context(), actor, req.ProductID, req.Rating, req.Content)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_failed")
		return
	}
	response.Success(c, comment)
}

package shared

import (
	"strconv"
	"strings"

	"github.com/suhome/internal/http/response"
	"github.com/suhome/internal/service"

	"github.com/gin-gonic/gin"
)

// 鉴权中间件写入的上下文键
const (
	ContextUserIDKey   = "user_id"
	ContextUserRoleKey = "user_role"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		if v == 0 {
			RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return 0, false
		}
		return v, true
	case int:
		if v <= 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v <= 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetActor 读取当前登录用户（未登录时写入 401 响应）
func GetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := GetContextUintWithKeys(c, ContextUserIDKey, "error.user_id_invalid", "error.user_id_type_invalid")
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: c.GetString(ContextUserRoleKey)}, true
}

// OptionalActor 读取当前用户，未登录返回匿名身份
func OptionalActor(c *gin.Context) service.Actor {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return service.Actor{}
	}
	userID, ok := value.(uint)
	if !ok {
		return service.Actor{}
	}
	return service.Actor{UserID: userID, Role: c.GetString(ContextUserRoleKey)}
}

// ParseIDParam 解析路径中的正整数 ID
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

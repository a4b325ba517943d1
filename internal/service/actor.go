package service

import (
	"context"
	"time"

	"github.com/suhome/internal/authz"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/logger"
)

// Actor 当前操作人（由认证层注入）
type Actor struct {
	UserID uint
	Role   string
}

// IsAnonymous 是否未登录
func (a Actor) IsAnonymous() bool {
	return a.UserID == 0
}

// Authorizer 角色-操作判定
type Authorizer interface {
	Allow(role string, op authz.Operation) (bool, error)
}

// authorize 判定失败一律视为未授权
func authorize(authorizer Authorizer, actor Actor, op authz.Operation) error {
	if authorizer == nil || actor.IsAnonymous() {
		return ErrUnauthorized
	}
	role := actor.Role
	if role == "" {
		role = constants.RoleCustomer
	}
	allowed, err := authorizer.Allow(role, op)
	if err != nil {
		logger.Warnw("authz_check_failed", "user_id", actor.UserID, "role", role, "operation", op.String(), "error", err)
		return ErrUnauthorized
	}
	if !allowed {
		return ErrUnauthorized
	}
	return nil
}

// can 判定但不返回错误
func can(authorizer Authorizer, actor Actor, op authz.Operation) bool {
	return authorize(authorizer, actor, op) == nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

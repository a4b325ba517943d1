package cache

import (
	"context"
	"fmt"
	"time"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 用户鉴权快照
// 角色变更后由服务端主动失效，避免每次请求查库
type UserAuthState struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	UpdatedAt int64  `json:"updated_at"`
}

// GetUserAuthState 获取用户鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入用户鉴权快照
func SetUserAuthState(ctx context.Context, state UserAuthState) error {
	if state.UserID == 0 {
		return nil
	}
	state.UpdatedAt = time.Now().Unix()
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateCacheTTL)
}

// DelUserAuthState 删除用户鉴权快照
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userAuthStateKey(userID))
}

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

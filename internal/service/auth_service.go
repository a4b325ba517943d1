package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/suhome/internal/cache"
	"github.com/suhome/internal/config"
	"github.com/suhome/internal/constants"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/models"
	"github.com/suhome/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthService 用户认证服务（签发 JWT，供路由层注入身份）
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// UserClaims JWT 声明
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	claims := UserClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*UserClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid && claims.UserID != 0 {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register 注册顾客账号
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	ctx, cancel := withTimeout(ctx, s.cfg.Database.QueryTimeout())
	defer cancel()

	userRepo := s.userRepo.WithContext(ctx)
	existing, err := userRepo.GetByEmail(email)
	if err != nil {
		return nil, persistenceError(err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}
	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         constants.RoleCustomer,
	}
	if err := userRepo.Create(user); err != nil {
		return nil, persistenceError(err)
	}
	logger.Infow("user_registered", "user_id", user.ID)
	return user, nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*models.User, string, time.Time, error) {
	email, err := normalizeEmail(emailAddr)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	ctx, cancel := withTimeout(ctx, s.cfg.Database.QueryTimeout())
	defer cancel()

	userRepo := s.userRepo.WithContext(ctx)
	user, err := userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, persistenceError(err)
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	if err := userRepo.UpdateLastLogin(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		logger.Warnw("user_update_last_login_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	if err := cache.SetUserAuthState(ctx, cache.UserAuthState{UserID: user.ID, Role: user.Role, Active: true}); err != nil {
		logger.Warnw("user_auth_state_cache_failed", "user_id", user.ID, "error", err)
	}
	return user, token, expiresAt, nil
}

// ResolveAuthState 获取用户当前鉴权状态（缓存优先）
// 用户被删除时 Active 为 false
func (s *AuthService) ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	if state, hit, err := cache.GetUserAuthState(ctx, userID); err == nil && hit && state != nil {
		return state, nil
	}
	ctx, cancel := withTimeout(ctx, s.cfg.Database.QueryTimeout())
	defer cancel()

	user, err := s.userRepo.WithContext(ctx).GetByID(userID)
	if err != nil {
		return nil, persistenceError(err)
	}
	state := cache.UserAuthState{UserID: userID}
	if user != nil {
		state.Role = user.Role
		state.Active = true
	}
	if err := cache.SetUserAuthState(ctx, state); err != nil {
		logger.Warnw("user_auth_state_cache_failed", "user_id", userID, "error", err)
	}
	return &state, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

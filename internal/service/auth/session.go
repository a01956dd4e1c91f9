/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 会话管理服务
 * @func:
 * 1.登录(密码校验+签发访问令牌)
 * 2.注销(令牌JTI入黑名单)
 * 3.令牌校验(签名+黑名单)
 */
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chainmaster/internal/model"
	"chainmaster/internal/pkg/auth"
	"chainmaster/internal/pkg/logger"
	"chainmaster/internal/repository/redis"
)

// SessionService 会话管理服务
type SessionService struct {
	userService     *UserService
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	tokenRepo       *redis.TokenRepository
	userRepo        userLoginRecorder
}

// userLoginRecorder 登录痕迹记录接口
// 只依赖更新最后登录信息的能力，便于测试替换
type userLoginRecorder interface {
	UpdateLastLogin(ctx context.Context, userID uint, clientIP string) error
}

// NewSessionService 创建会话服务实例
func NewSessionService(
	userService *UserService,
	passwordManager *auth.PasswordManager,
	jwtManager *auth.JWTManager,
	tokenRepo *redis.TokenRepository,
	userRepo userLoginRecorder,
) *SessionService {
	return &SessionService{
		userService:     userService,
		passwordManager: passwordManager,
		jwtManager:      jwtManager,
		tokenRepo:       tokenRepo,
		userRepo:        userRepo,
	}
}

// Login 用户登录
// 校验用户名密码，签发访问令牌并记录登录痕迹
func (s *SessionService) Login(ctx context.Context, req *model.LoginRequest, clientIP string) (*model.LoginResponse, error) {
	if req == nil || req.Username == "" || req.Password == "" {
		return nil, errors.New("username and password are required")
	}

	user, err := s.userService.GetUserByUsername(ctx, req.Username)
	if err != nil {
		logger.LogError(err, "", 0, clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "login",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, errors.New("invalid username or password")
	}
	if user == nil {
		logger.LogBusinessOperation("user_login", 0, req.Username, clientIP, "", "failed", "用户不存在", nil)
		return nil, errors.New("invalid username or password")
	}

	if !user.IsEnabled() {
		logger.LogBusinessOperation("user_login", user.ID, user.Username, clientIP, "", "failed", "账号已禁用", nil)
		return nil, errors.New("user account is disabled")
	}

	valid, err := s.passwordManager.VerifyPassword(req.Password, user.Password)
	if err != nil {
		logger.LogError(err, "", user.ID, clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "login",
			"username":  user.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, errors.New("invalid username or password")
	}
	if !valid {
		logger.LogBusinessOperation("user_login", user.ID, user.Username, clientIP, "", "failed", "密码错误", nil)
		return nil, errors.New("invalid username or password")
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// 登录痕迹更新失败不影响登录
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, clientIP); err != nil {
		logger.LogError(err, "", user.ID, clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "update_last_login",
			"timestamp": logger.NowFormatted(),
		})
	}

	logger.LogBusinessOperation("user_login", user.ID, user.Username, clientIP, "", "success", "登录成功", nil)
	return &model.LoginResponse{
		User: &model.UserInfo{
			ID:          user.ID,
			Username:    user.Username,
			Nickname:    user.Nickname,
			Status:      user.Status,
			LastLoginAt: user.LastLoginAt,
			CreatedAt:   user.CreatedAt,
		},
		AccessToken: token,
		ExpiresIn:   int64(s.jwtManager.AccessTokenTTL().Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// Logout 用户注销
// 将令牌JTI加入黑名单，TTL取令牌剩余有效期
func (s *SessionService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.ValidateAccessToken(tokenString)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	ttl := time.Duration(0)
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := s.tokenRepo.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.LogBusinessOperation("user_logout", claims.UserID, claims.Username, "", "", "success", "注销成功", nil)
	return nil
}

// ValidateToken 校验访问令牌
// 验证签名与有效期后检查黑名单，已注销的令牌视为无效
func (s *SessionService) ValidateToken(ctx context.Context, tokenString string) (*auth.JWTClaims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokenRepo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, errors.New("token has been revoked")
	}

	return claims, nil
}

/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: 操作员用户服务
 * @func:
 * 1.用户查询
 * 2.用户创建(密码哈希)
 * 3.修改密码
 */
package auth

import (
	"context"
	"errors"
	"fmt"

	"chainmaster/internal/model"
	"chainmaster/internal/pkg/auth"
	"chainmaster/internal/pkg/logger"
	"chainmaster/internal/repository/mysql"
)

// UserService 操作员用户服务
type UserService struct {
	userRepo        *mysql.UserRepository
	passwordManager *auth.PasswordManager
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo *mysql.UserRepository, passwordManager *auth.PasswordManager) *UserService {
	return &UserService{
		userRepo:        userRepo,
		passwordManager: passwordManager,
	}
}

// GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

// GetUserByUsername 根据用户名获取用户
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepo.GetUserByUsername(ctx, username)
}

// CreateUser 创建用户(密码在此处哈希)
func (s *UserService) CreateUser(ctx context.Context, username, password, nickname string) (*model.User, error) {
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return nil, fmt.Errorf("password too weak: %w", err)
	}

	existing, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username already exists: %s", username)
	}

	hashed, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: username,
		Password: hashed,
		Nickname: nickname,
		Status:   model.UserStatusEnabled,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.LogBusinessOperation("user_create", user.ID, user.Username, "", "", "success", "操作员创建成功", nil)
	return user, nil
}

// ChangePassword 修改密码(校验旧密码)
func (s *UserService) ChangePassword(ctx context.Context, userID uint, req *model.ChangePasswordRequest) error {
	if req == nil {
		return errors.New("change password request cannot be nil")
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return errors.New("user not found")
	}

	valid, err := s.passwordManager.VerifyPassword(req.OldPassword, user.Password)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return errors.New("old password is incorrect")
	}

	if err := auth.ValidatePasswordStrength(req.NewPassword); err != nil {
		return fmt.Errorf("password too weak: %w", err)
	}

	hashed, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdateUserFields(ctx, userID, map[string]interface{}{
		"password": hashed,
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.LogBusinessOperation("change_password", userID, user.Username, "", "", "success", "密码修改成功", nil)
	return nil
}

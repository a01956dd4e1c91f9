package auth

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"chainmaster/internal/model"
	"chainmaster/internal/pkg/auth"
	"chainmaster/internal/repository/mysql"
)

func newTestUserService(t *testing.T) (*UserService, *mysql.UserRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	userRepo := mysql.NewUserRepository(db)
	passwordManager := auth.NewPasswordManager(auth.DefaultPasswordConfig)
	return NewUserService(userRepo, passwordManager), userRepo
}

func TestUserService_CreateUser(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "alice", "Passw0rd", "Alice")
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.IsEnabled())
	// 密码按argon2id哈希存储
	assert.NotEqual(t, "Passw0rd", user.Password)
	assert.Contains(t, user.Password, "$argon2id$")

	// 用户名重复
	_, err = svc.CreateUser(ctx, "alice", "Passw0rd", "Alice")
	assert.Error(t, err)

	// 弱密码:无数字
	_, err = svc.CreateUser(ctx, "bob", "password", "Bob")
	assert.Error(t, err)

	// 弱密码:过短
	_, err = svc.CreateUser(ctx, "bob", "p1", "Bob")
	assert.Error(t, err)
}

func TestUserService_ChangePassword(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "alice", "Passw0rd", "Alice")
	assert.NoError(t, err)

	// 旧密码错误
	err = svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		OldPassword: "Wrong0ld",
		NewPassword: "NewPass1",
	})
	assert.Error(t, err)

	// 修改成功后新密码可通过校验
	err = svc.ChangePassword(ctx, user.ID, &model.ChangePasswordRequest{
		OldPassword: "Passw0rd",
		NewPassword: "NewPass1",
	})
	assert.NoError(t, err)

	updated, err := svc.GetUserByID(ctx, user.ID)
	assert.NoError(t, err)
	passwordManager := auth.NewPasswordManager(auth.DefaultPasswordConfig)
	valid, err := passwordManager.VerifyPassword("NewPass1", updated.Password)
	assert.NoError(t, err)
	assert.True(t, valid)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chainmaster/internal/model"
	"chainmaster/internal/pkg/auth"
)

// recordedLogin 记录UpdateLastLogin调用的测试替身
type recordedLogin struct {
	userID   uint
	clientIP string
	calls    int
}

func (r *recordedLogin) UpdateLastLogin(_ context.Context, userID uint, clientIP string) error {
	r.userID = userID
	r.clientIP = clientIP
	r.calls++
	return nil
}

func newTestSessionService(t *testing.T) (*SessionService, *UserService, *recordedLogin) {
	t.Helper()
	userSvc, _ := newTestUserService(t)
	passwordManager := auth.NewPasswordManager(auth.DefaultPasswordConfig)
	jwtManager := auth.NewJWTManager("test-session-secret", "chainmaster", 2*time.Hour)
	recorder := &recordedLogin{}
	// 登录路径不触达令牌黑名单,tokenRepo留空
	svc := NewSessionService(userSvc, passwordManager, jwtManager, nil, recorder)
	return svc, userSvc, recorder
}

func TestSessionService_Login(t *testing.T) {
	svc, userSvc, recorder := newTestSessionService(t)
	ctx := context.Background()

	user, err := userSvc.CreateUser(ctx, "alice", "Passw0rd", "Alice")
	assert.NoError(t, err)

	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "alice", Password: "Passw0rd"}, "10.0.0.8")
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64((2 * time.Hour).Seconds()), resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.User.ID)

	// 登录痕迹已记录
	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, user.ID, recorder.userID)
	assert.Equal(t, "10.0.0.8", recorder.clientIP)

	// 令牌可被JWT管理器验证且携带用户身份
	jwtManager := auth.NewJWTManager("test-session-secret", "chainmaster", 2*time.Hour)
	claims, err := jwtManager.ValidateAccessToken(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestSessionService_Login_InvalidCredentials(t *testing.T) {
	svc, userSvc, recorder := newTestSessionService(t)
	ctx := context.Background()

	_, err := userSvc.CreateUser(ctx, "alice", "Passw0rd", "Alice")
	assert.NoError(t, err)

	// 密码错误与用户不存在返回同一错误信息,不泄露账号是否存在
	_, err = svc.Login(ctx, &model.LoginRequest{Username: "alice", Password: "Wrong0ne"}, "")
	assert.EqualError(t, err, "invalid username or password")

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "Passw0rd"}, "")
	assert.EqualError(t, err, "invalid username or password")

	assert.Zero(t, recorder.calls)
}

func TestSessionService_Login_DisabledUser(t *testing.T) {
	svc, userSvc, _ := newTestSessionService(t)
	ctx := context.Background()

	user, err := userSvc.CreateUser(ctx, "alice", "Passw0rd", "Alice")
	assert.NoError(t, err)

	err = userSvc.userRepo.UpdateUserFields(ctx, user.ID, map[string]interface{}{
		"status": model.UserStatusDisabled,
	})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "alice", Password: "Passw0rd"}, "")
	assert.EqualError(t, err, "user account is disabled")
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("unit-test-secret", "chainmaster", time.Hour)

	token, err := manager.GenerateAccessToken(42, "alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "chainmaster", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	// 每次签发的JTI不同
	token2, err := manager.GenerateAccessToken(42, "alice")
	assert.NoError(t, err)
	claims2, err := manager.ValidateAccessToken(token2)
	assert.NoError(t, err)
	assert.NotEqual(t, claims.ID, claims2.ID)
}

func TestJWTManager_ValidateAccessToken_WrongSecret(t *testing.T) {
	manager := NewJWTManager("unit-test-secret", "chainmaster", time.Hour)
	other := NewJWTManager("another-secret", "chainmaster", time.Hour)

	token, err := manager.GenerateAccessToken(1, "alice")
	assert.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	manager := NewJWTManager("unit-test-secret", "chainmaster", -time.Minute)

	token, err := manager.GenerateAccessToken(1, "alice")
	assert.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("Basic dXNlcjpwYXNz"))
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordManager_HashAndVerify(t *testing.T) {
	manager := NewPasswordManager(DefaultPasswordConfig)

	hash, err := manager.HashPassword("Passw0rd")
	assert.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	valid, err := manager.VerifyPassword("Passw0rd", hash)
	assert.NoError(t, err)
	assert.True(t, valid)

	valid, err = manager.VerifyPassword("wrong", hash)
	assert.NoError(t, err)
	assert.False(t, valid)

	// 相同明文每次加盐后哈希不同
	hash2, err := manager.HashPassword("Passw0rd")
	assert.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestPasswordManager_VerifyPassword_MalformedHash(t *testing.T) {
	manager := NewPasswordManager(DefaultPasswordConfig)

	_, err := manager.VerifyPassword("Passw0rd", "not-a-hash")
	assert.Error(t, err)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("Passw0rd"))
	assert.NoError(t, ValidatePasswordStrength("abc123"))

	// 过短
	assert.Error(t, ValidatePasswordStrength("a1"))
	// 无数字
	assert.Error(t, ValidatePasswordStrength("password"))
	// 无字母
	assert.Error(t, ValidatePasswordStrength("12345678"))
}

// nil配置回退默认参数
func TestNewPasswordManager_NilConfigFallsBackToDefault(t *testing.T) {
	manager := NewPasswordManager(nil)

	hash, err := manager.HashPassword("Passw0rd")
	assert.NoError(t, err)
	// 默认参数: m=65536,t=3,p=2
	assert.Contains(t, hash, "$argon2id$v=19$m=65536,t=3,p=2$")

	valid, err := manager.VerifyPassword("Passw0rd", hash)
	assert.NoError(t, err)
	assert.True(t, valid)
}

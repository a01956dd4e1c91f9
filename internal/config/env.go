/**
 * 配置:环境变量读取
 * @author: sun977
 * @date: 2026.03.19
 * @description: 带前缀的环境变量读取与.env文件加载，loader处理viper之外的环境变量时使用
 * @func:
 *   - EnvManager.GetString: 读取带前缀的环境变量
 *   - LoadEnvFile: 加载.env文件到进程环境
 */
package config

import (
	"fmt"
	"os"
	"strings"
)

// EnvManager 环境变量管理器
// 统一拼接CHAINMASTER_前缀，避免散落的os.Getenv硬编码键名
type EnvManager struct {
	prefix string
}

// NewEnvManager 创建环境变量管理器
func NewEnvManager(prefix string) *EnvManager {
	if prefix == "" {
		prefix = "CHAINMASTER"
	}
	return &EnvManager{
		prefix: prefix,
	}
}

// GetString 获取字符串类型环境变量，不存在或为空时返回默认值
func (em *EnvManager) GetString(key, defaultValue string) string {
	value := os.Getenv(em.buildEnvKey(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// buildEnvKey 构建环境变量键名
func (em *EnvManager) buildEnvKey(key string) string {
	if em.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", em.prefix, strings.ToUpper(key))
}

// DefaultEnvManager 默认环境变量管理器(CHAINMASTER_前缀)
var DefaultEnvManager = NewEnvManager("CHAINMASTER")

// GetEnvString 使用默认管理器获取字符串类型环境变量
func GetEnvString(key, defaultValue string) string {
	return DefaultEnvManager.GetString(key, defaultValue)
}

// LoadEnvFile 从.env文件加载环境变量
// 文件不存在时静默返回，已设置的键会被覆盖
func LoadEnvFile(filename string) error {
	if filename == "" {
		filename = ".env"
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read env file %s: %w", filename, err)
	}

	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)

		// 跳过空行和注释行
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid env line %d in file %s: %s", i+1, filename, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// 移除成对引号
		if len(value) >= 2 {
			if (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
				(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
				value = value[1 : len(value)-1]
			}
		}

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set env variable %s: %w", key, err)
		}
	}

	return nil
}

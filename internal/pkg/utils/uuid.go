/*
 * @author: sun977
 * @date: 2026.03.19
 * @description: UUID生成工具
 * @func:
 */
package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateUUID 生成版本4的随机UUID
// 返回标准格式字符串，如：550e8400-e29b-41d4-a716-446655440000
func GenerateUUID() (string, error) {
	// 生成16字节的随机数
	uuid := make([]byte, 16)
	_, err := rand.Read(uuid)
	if err != nil {
		return "", fmt.Errorf("生成随机数失败: %v", err)
	}

	// 设置版本号（第7字节的高4位设为0100，表示版本4）
	uuid[6] = (uuid[6] & 0x0f) | 0x40

	// 设置变体（第9字节的高2位设为10）
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	// 格式化为标准UUID字符串
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:16]), nil
}

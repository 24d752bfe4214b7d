package store

import "fmt"

// 所有 KV 键在这里集中定义，调用方不得自行拼接键名

// TokenKey 访问令牌
func TokenKey() string { return "auth:access_token" }

// RefreshTokenKey 刷新令牌
func RefreshTokenKey() string { return "auth:refresh_token" }

// ProgressKey 某台设备的检验进度（JSON 序列化的检验会话）
func ProgressKey(serial string) string {
	return fmt.Sprintf("atm:progress:%s", serial)
}

// LockKey 某台设备的编辑声明
func LockKey(serial string) string {
	return fmt.Sprintf("atm:lock:%s", serial)
}

// ScannedKey 某个工单已扫描的设备序列号列表
func ScannedKey(requestID int64) string {
	return fmt.Sprintf("request:scanned:%d", requestID)
}

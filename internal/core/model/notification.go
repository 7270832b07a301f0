package model

// NotificationLevel 通知级别
type NotificationLevel string

const (
	LevelInfo  NotificationLevel = "INFO"
	LevelAlert NotificationLevel = "ALERT"
	LevelError NotificationLevel = "ERROR"
	LevelTrace NotificationLevel = "TRACE"
)

// Notification 用户可见通知
type Notification struct {
	// Message 文本
	Message string `json:"message"`
	// Level 级别
	Level NotificationLevel `json:"level"`
	// Local 是否由客户端本地生成（非服务端推送）
	Local bool `json:"local,omitempty"`
	// TimestampMs 生成时间（毫秒）
	TimestampMs int64 `json:"timestamp,omitempty"`
}

// StatusUpdate 服务端任务状态更新
type StatusUpdate struct {
	// RequestID 关联请求 ID
	RequestID string `json:"requestId"`
	// Status 状态: SUCCESS, FAILURE_TRANSIENT, FAILURE_PERMANENT
	Status string `json:"status"`
	// Cause 失败原因
	Cause string `json:"cause,omitempty"`
}

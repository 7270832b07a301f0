package action

import (
	"trading-dashboard-client/internal/core/model"
	"trading-dashboard-client/internal/util/timeutil"
)

// AddNotification 转发服务端通知
func AddNotification(n model.Notification) Action {
	return Action{Kind: KindAddNotification, Payload: n}
}

// LocalMessage 本地生成的提示消息
func LocalMessage(message string) Action {
	return Action{Kind: KindLocalMessage, Payload: model.Notification{
		Message:     message,
		Level:       model.LevelInfo,
		Local:       true,
		TimestampMs: timeutil.NowMs(),
	}}
}

// LocalError 本地生成的错误消息
func LocalError(message string) Action {
	return Action{Kind: KindLocalError, Payload: model.Notification{
		Message:     message,
		Level:       model.LevelError,
		Local:       true,
		TimestampMs: timeutil.NowMs(),
	}}
}

// StatusUpdate 转发服务端状态更新
func StatusUpdate(status model.StatusUpdate) Action {
	return Action{Kind: KindStatusUpdate, Payload: status}
}

// Package timeutil 提供时间相关的工具函数。
// 通知、订单更新与批次日志统一使用这里的时间戳。
package timeutil

import (
	"time"
)

var (
	// baseTime 进程启动时间点（带单调时钟读数）
	baseTime = time.Now()
	// baseUnixNs 启动时间点对应的 Unix 纳秒时间戳
	baseUnixNs = baseTime.UnixNano()
)

// NowNano 获取当前 Unix 纳秒时间戳
// 基于“启动时 Unix 时间 + 单调时钟流逝”，系统时间跳变时仍保持单调。
func NowNano() int64 {
	return baseUnixNs + time.Since(baseTime).Nanoseconds()
}

// NowMs 获取当前 Unix 毫秒时间戳
// 服务端推送的时间戳均为毫秒。
func NowMs() int64 {
	return NowNano() / 1_000_000
}

// Millis 将毫秒配置值转换为 time.Duration
// 参数 ms: 毫秒数；非正数返回 fallback
func Millis(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

package bridge

import (
	"go.uber.org/zap"

	"trading-dashboard-client/internal/core/action"
)

// ConnectionState 连接状态
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connected
)

// String 返回状态名称
func (s ConnectionState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Lifecycle 连接状态机，初始为 Disconnected
type Lifecycle struct {
	state ConnectionState
}

// State 当前状态
func (l *Lifecycle) State() ConnectionState {
	return l.state
}

// Transition 应用一次连接状态上报
// 返回: 状态是否变化；上报与当前状态相同时返回 false
func (l *Lifecycle) Transition(connected bool) bool {
	next := Disconnected
	if connected {
		next = Connected
	}
	if next == l.state {
		return false
	}
	l.state = next
	return true
}

// setConnectionState 处理适配器的连接状态上报
// 变为已连接时通知并完整重订阅；变为断开时只通知。
func (b *Bridge) setConnectionState(connected bool) {
	if !b.lifecycle.Transition(connected) {
		return
	}
	b.connected.Store(connected)
	b.logger.Info("连接状态变化", zap.Stringer("state", b.lifecycle.State()))

	if connected {
		b.dispatch(kindLifecycle, action.LocalMessage("Socket connected"))
		b.resubscribe()
		return
	}
	b.dispatch(kindLifecycle, action.LocalMessage("Socket disconnected"))
}

// setAuthorised 授权变为 true 时连接，由 true 变为 false 时断开
func (b *Bridge) setAuthorised(authorised bool) {
	if authorised == b.authorised {
		return
	}
	b.authorised = authorised

	if authorised {
		b.logger.Info("已授权，连接 socket")
		b.adapter.Connect()
		return
	}
	b.logger.Info("授权已撤销，断开 socket")
	b.adapter.Disconnect()
}

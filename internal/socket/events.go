// Package socket 实现行情/订单 socket 适配器。
// 服务端推送被解析为封闭的 Event 变体，再由 Registry 分发给已注册的回调。
package socket

import "trading-dashboard-client/internal/core/model"

// Event socket 推送事件（封闭变体，仅本包内类型实现）
type Event interface {
	isEvent()
}

// TickerEvent 行情更新
type TickerEvent struct {
	Coin   model.Coin
	Ticker model.Ticker
}

// BalanceEvent 余额更新
type BalanceEvent struct {
	Exchange string
	Currency string
	Balance  model.Balance
}

// OrderBookEvent 订单簿更新
type OrderBookEvent struct {
	Coin      model.Coin
	OrderBook *model.OrderBook
}

// TradeEvent 公共成交
type TradeEvent struct {
	Coin  model.Coin
	Trade model.Trade
}

// UserTradeEvent 用户成交
type UserTradeEvent struct {
	Coin  model.Coin
	Trade model.Trade
}

// OrderUpdateEvent 单笔订单状态变化
type OrderUpdateEvent struct {
	Coin        model.Coin
	Order       *model.Order
	TimestampMs int64
}

// OrdersSnapshotEvent 挂单全量快照
type OrdersSnapshotEvent struct {
	Coin        model.Coin
	Orders      []model.Order
	TimestampMs int64
}

// ConnectionStateEvent 连接状态变化（可能重复上报相同状态）
type ConnectionStateEvent struct {
	Connected bool
}

// ErrorEvent 适配器或服务端报告的错误
type ErrorEvent struct {
	Message string
}

// NotificationEvent 服务端通知
type NotificationEvent struct {
	Notification model.Notification
}

// StatusUpdateEvent 服务端状态更新
type StatusUpdateEvent struct {
	Status model.StatusUpdate
}

func (TickerEvent) isEvent() {}
func (BalanceEvent) isEvent() {}
func (OrderBookEvent) isEvent() {}
func (TradeEvent) isEvent() {}
func (UserTradeEvent) isEvent() {}
func (OrderUpdateEvent) isEvent() {}
func (OrdersSnapshotEvent) isEvent() {}
func (ConnectionStateEvent) isEvent() {}
func (ErrorEvent) isEvent() {}
func (NotificationEvent) isEvent() {}
func (StatusUpdateEvent) isEvent() {}

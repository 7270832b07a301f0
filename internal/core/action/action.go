// Package action 定义 store 消费的带标签动作记录及其工厂函数。
// Action 创建后不可变；工厂函数均为纯函数。
package action

import (
	"time"

	"github.com/google/uuid"

	"trading-dashboard-client/internal/core/model"
)

// Kind 动作类型标签
type Kind string

const (
	KindSetTicker       Kind = "SET_TICKER"
	KindSetBalance      Kind = "SET_BALANCE"
	KindClearBalances   Kind = "CLEAR_BALANCES"
	KindSetOrderBook    Kind = "SET_ORDERBOOK"
	KindAddTrade        Kind = "ADD_TRADE"
	KindClearTrades     Kind = "CLEAR_TRADES"
	KindAddUserTrade    Kind = "ADD_USER_TRADE"
	KindSetUserTrades   Kind = "SET_USER_TRADES"
	KindClearUserTrades Kind = "CLEAR_USER_TRADES"
	KindOrderUpdated    Kind = "ORDER_UPDATED"
	KindSetOrders       Kind = "SET_ORDERS"
	KindAddOrder        Kind = "ADD_ORDER"
	KindClearOrders     Kind = "CLEAR_ORDERS"
	KindCancelOrder     Kind = "CANCEL_ORDER"
	KindSetCoins        Kind = "SET_COINS"
	KindAddCoin         Kind = "ADD_COIN"
	KindRemoveCoin      Kind = "REMOVE_COIN"
	KindLocationChanged Kind = "LOCATION_CHANGED"

	KindAddNotification Kind = "ADD_NOTIFICATION"
	KindLocalMessage    Kind = "LOCAL_MESSAGE"
	KindLocalError      Kind = "LOCAL_ERROR"
	KindStatusUpdate    Kind = "STATUS_UPDATE"
)

// Action 带标签的状态变更记录
// Payload 的具体类型由 Kind 决定，见各工厂函数。
type Action struct {
	// Kind 动作类型
	Kind Kind `json:"type"`
	// Payload 动作负载，可为 nil
	Payload any `json:"payload,omitempty"`
}

// TickerPayload SET_TICKER 负载
type TickerPayload struct {
	Coin   model.Coin   `json:"coin"`
	Ticker model.Ticker `json:"ticker"`
}

// BalancePayload SET_BALANCE 负载
type BalancePayload struct {
	Exchange string        `json:"exchange"`
	Currency string        `json:"currency"`
	Balance  model.Balance `json:"balance"`
}

// OrderUpdatePayload ORDER_UPDATED 负载
// Order 为 nil 表示“当前没有挂单”。
type OrderUpdatePayload struct {
	Order       *model.Order `json:"order"`
	TimestampMs int64        `json:"timestamp"`
}

// Batch 一次性派发给 store 的动作批次
type Batch struct {
	// ID 批次唯一标识
	ID string `json:"id"`
	// CreatedAt 批次生成时间
	CreatedAt time.Time `json:"created_at"`
	// Actions 按派发顺序排列的动作
	Actions []Action `json:"actions"`
}

// NewBatch 构造动作批次
func NewBatch(actions []Action) Batch {
	return Batch{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Actions:   actions,
	}
}

// Len 批次中的动作数
func (b Batch) Len() int {
	return len(b.Actions)
}

package model

import "github.com/shopspring/decimal"

// OrderStatus 订单状态
type OrderStatus string

const (
	StatusPendingNew      OrderStatus = "PENDING_NEW"
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusPendingCancel   OrderStatus = "PENDING_CANCEL"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// IsTerminal 判断订单是否已结束（不再出现在挂单列表）
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusCanceled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// OrderType 订单方向
type OrderType string

const (
	// OrderBid 买单
	OrderBid OrderType = "BID"
	// OrderAsk 卖单
	OrderAsk OrderType = "ASK"
)

// Order 用户挂单
// 快照对账时，未出现在快照中的已知订单视为已撤销。
type Order struct {
	// ID 订单 ID
	ID string `json:"id"`
	// Status 订单状态
	Status OrderStatus `json:"status"`
	// Type 方向
	Type OrderType `json:"type,omitempty"`
	// LimitPrice 限价
	LimitPrice decimal.Decimal `json:"limitPrice"`
	// OriginalAmount 下单数量
	OriginalAmount decimal.Decimal `json:"originalAmount"`
	// CumulativeAmount 已成交数量
	CumulativeAmount decimal.Decimal `json:"cumulativeAmount"`
	// TimestampMs 下单时间（毫秒）
	TimestampMs int64 `json:"timestamp"`
}

// CanceledOrder 构造仅含 ID 与 CANCELED 状态的合成订单
// 用于快照对账中的隐式撤单。
func CanceledOrder(id string) *Order {
	return &Order{ID: id, Status: StatusCanceled}
}

package model

import "github.com/shopspring/decimal"

// Ticker 行情快照
type Ticker struct {
	// Bid 买一价
	Bid decimal.Decimal `json:"bid"`
	// Ask 卖一价
	Ask decimal.Decimal `json:"ask"`
	// Last 最新成交价
	Last decimal.Decimal `json:"last"`
	// Open 开盘价
	Open decimal.Decimal `json:"open"`
	// High 最高价
	High decimal.Decimal `json:"high"`
	// Low 最低价
	Low decimal.Decimal `json:"low"`
	// Volume 成交量
	Volume decimal.Decimal `json:"volume"`
	// TimestampMs 交易所时间戳（毫秒）
	TimestampMs int64 `json:"timestamp"`
}

// Balance 单币种余额
type Balance struct {
	// Total 总额
	Total decimal.Decimal `json:"total"`
	// Available 可用额
	Available decimal.Decimal `json:"available"`
}

// PriceLevel 订单簿档位
type PriceLevel struct {
	// Price 价格
	Price decimal.Decimal `json:"limitPrice"`
	// Amount 数量
	Amount decimal.Decimal `json:"originalAmount"`
}

// OrderBook 订单簿快照
type OrderBook struct {
	// Bids 买盘（价格降序）
	Bids []PriceLevel `json:"bids"`
	// Asks 卖盘（价格升序）
	Asks []PriceLevel `json:"asks"`
}

// TradeSide 成交方向
type TradeSide string

const (
	// SideBid 买
	SideBid TradeSide = "BID"
	// SideAsk 卖
	SideAsk TradeSide = "ASK"
)

// Trade 公共成交或用户成交
type Trade struct {
	// ID 成交 ID
	ID string `json:"id"`
	// Side 方向
	Side TradeSide `json:"type"`
	// Price 成交价
	Price decimal.Decimal `json:"price"`
	// Amount 成交量
	Amount decimal.Decimal `json:"originalAmount"`
	// Fee 手续费（仅用户成交）
	Fee decimal.Decimal `json:"feeAmount"`
	// FeeCurrency 手续费币种（仅用户成交）
	FeeCurrency string `json:"feeCurrency,omitempty"`
	// OrderID 关联订单 ID（仅用户成交）
	OrderID string `json:"orderId,omitempty"`
	// TimestampMs 成交时间（毫秒）
	TimestampMs int64 `json:"timestamp"`
}

package socket

import (
	json "github.com/goccy/go-json"

	"trading-dashboard-client/internal/core/model"
	"trading-dashboard-client/internal/stats/latency"
)

// Command 客户端 → 服务端命令
type Command string

const (
	CommandChangeTickers       Command = "CHANGE_TICKERS"
	CommandChangeOpenOrders    Command = "CHANGE_OPEN_ORDERS"
	CommandChangeOrderBook     Command = "CHANGE_ORDER_BOOK"
	CommandChangeTrades        Command = "CHANGE_TRADES"
	CommandChangeUserTrades    Command = "CHANGE_USER_TRADES"
	CommandChangeBalance       Command = "CHANGE_BALANCE"
	CommandUpdateSubscriptions Command = "UPDATE_SUBSCRIPTIONS"
)

// Nature 服务端 → 客户端消息类型
type Nature string

const (
	NatureTicker       Nature = "TICKER"
	NatureBalance      Nature = "BALANCE"
	NatureOrderBook    Nature = "ORDERBOOK"
	NatureTrade        Nature = "TRADE"
	NatureUserTrade    Nature = "USER_TRADE"
	NatureOrderUpdate  Nature = "ORDER_STATUS_CHANGE"
	NatureOpenOrders   Nature = "OPEN_ORDERS"
	NatureError        Nature = "ERROR"
	NatureNotification Nature = "NOTIFICATION"
	NatureStatusUpdate Nature = "STATUS_UPDATE"
)

// Request 订阅命令
type Request struct {
	// Command 命令
	Command Command `json:"command"`
	// Tickers 命令作用的交易对
	Tickers []model.Coin `json:"tickers,omitempty"`
	// RequestID 请求 ID，服务端在 STATUS_UPDATE 中回传
	RequestID string `json:"requestId"`
}

// Envelope 服务端推送外层结构
type Envelope struct {
	// Nature 消息类型
	Nature Nature `json:"nature"`
	// Data 消息体，结构由 Nature 决定
	Data json.RawMessage `json:"data"`
	// CorrelationID 关联的请求 ID
	CorrelationID string `json:"correlationId,omitempty"`
}

type tickerData struct {
	Spec   model.Coin   `json:"spec"`
	Ticker model.Ticker `json:"ticker"`
}

type balanceData struct {
	Exchange string        `json:"exchange"`
	Currency string        `json:"currency"`
	Balance  model.Balance `json:"balance"`
}

type orderBookData struct {
	Spec      model.Coin       `json:"spec"`
	OrderBook *model.OrderBook `json:"orderBook"`
}

type tradeData struct {
	Spec  model.Coin  `json:"spec"`
	Trade model.Trade `json:"trade"`
}

type orderUpdateData struct {
	Spec      model.Coin   `json:"spec"`
	Order     *model.Order `json:"order"`
	Timestamp int64        `json:"timestamp"`
}

type openOrdersData struct {
	Spec      model.Coin    `json:"spec"`
	Orders    []model.Order `json:"orders"`
	Timestamp int64         `json:"timestamp"`
}

// ConnectionMetrics 连接质量指标
type ConnectionMetrics struct {
	// Connected 当前是否已连接
	Connected bool `json:"connected"`
	// ReconnectCount 重连次数
	ReconnectCount int64 `json:"reconnect_count"`
	// ParseErrorCount 解析错误次数
	ParseErrorCount int64 `json:"parse_error_count"`
	// MessageCount 收到的消息总数
	MessageCount int64 `json:"message_count"`
	// CommandCount 发出的命令总数
	CommandCount int64 `json:"command_count"`
	// LastMessageAgeMs 最后消息距今时间（毫秒）
	LastMessageAgeMs int64 `json:"last_message_age_ms"`
	// RttMs 最近一次 ping/pong 往返（毫秒）
	RttMs int64 `json:"rtt_ms"`
	// RTT 往返时延窗口统计
	RTT latency.RTTStats `json:"rtt"`
}

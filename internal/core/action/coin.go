package action

import "trading-dashboard-client/internal/core/model"

// SetTicker 更新交易对行情
func SetTicker(coin model.Coin, ticker model.Ticker) Action {
	return Action{Kind: KindSetTicker, Payload: TickerPayload{Coin: coin, Ticker: ticker}}
}

// SetBalance 更新单币种余额
func SetBalance(exchange, currency string, balance model.Balance) Action {
	return Action{Kind: KindSetBalance, Payload: BalancePayload{Exchange: exchange, Currency: currency, Balance: balance}}
}

// ClearBalances 清空余额
func ClearBalances() Action {
	return Action{Kind: KindClearBalances}
}

// SetOrderBook 替换订单簿；nil 表示清空
func SetOrderBook(book *model.OrderBook) Action {
	return Action{Kind: KindSetOrderBook, Payload: book}
}

// AddTrade 追加公共成交
func AddTrade(trade model.Trade) Action {
	return Action{Kind: KindAddTrade, Payload: trade}
}

// ClearTrades 清空公共成交
func ClearTrades() Action {
	return Action{Kind: KindClearTrades}
}

// AddUserTrade 追加用户成交
func AddUserTrade(trade model.Trade) Action {
	return Action{Kind: KindAddUserTrade, Payload: trade}
}

// SetUserTrades 替换用户成交列表
func SetUserTrades(trades []model.Trade) Action {
	return Action{Kind: KindSetUserTrades, Payload: trades}
}

// ClearUserTrades 清空用户成交
func ClearUserTrades() Action {
	return Action{Kind: KindClearUserTrades}
}

// OrderUpdated 单笔订单更新；order 为 nil 表示没有挂单
func OrderUpdated(order *model.Order, timestampMs int64) Action {
	return Action{Kind: KindOrderUpdated, Payload: OrderUpdatePayload{Order: order, TimestampMs: timestampMs}}
}

// SetOrders 替换挂单列表
func SetOrders(orders []model.Order) Action {
	return Action{Kind: KindSetOrders, Payload: orders}
}

// AddOrder 新增挂单
func AddOrder(order model.Order) Action {
	return Action{Kind: KindAddOrder, Payload: order}
}

// ClearOrders 清空挂单（回到“未知”状态）
func ClearOrders() Action {
	return Action{Kind: KindClearOrders}
}

// CancelOrder 本地标记订单撤销中
func CancelOrder(orderID string) Action {
	return Action{Kind: KindCancelOrder, Payload: orderID}
}

// SetCoins 替换跟踪的交易对列表
func SetCoins(coins []model.Coin) Action {
	return Action{Kind: KindSetCoins, Payload: coins}
}

// AddCoin 新增跟踪交易对
func AddCoin(coin model.Coin) Action {
	return Action{Kind: KindAddCoin, Payload: coin}
}

// RemoveCoin 移除跟踪交易对
func RemoveCoin(coin model.Coin) Action {
	return Action{Kind: KindRemoveCoin, Payload: coin}
}

// LocationChanged 导航位置变化
func LocationChanged(location string) Action {
	return Action{Kind: KindLocationChanged, Payload: location}
}

package bridge

import (
	"context"

	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
)

// 指标与日志中使用的事件类型
const (
	kindTicker         = "ticker"
	kindBalance        = "balance"
	kindOrderBook      = "orderbook"
	kindTrade          = "trade"
	kindUserTrade      = "user_trade"
	kindOrderUpdate    = "order_update"
	kindOrdersSnapshot = "orders_snapshot"
	kindError          = "error"
	kindNotification   = "notification"
	kindStatusUpdate   = "status_update"
	kindSubscription   = "subscription"
	kindLifecycle      = "lifecycle"
)

func (b *Bridge) received(kind string) {
	b.metrics.EventReceived(context.Background(), kind)
}

func (b *Bridge) filtered(kind string) {
	b.metrics.EventFiltered(context.Background(), kind)
}

// matchesSelection 事件交易对是否为当前选中交易对
func (b *Bridge) matchesSelection(kind string, coin model.Coin) bool {
	if model.SameCoin(&coin, b.selectedCoin()) {
		return true
	}
	b.filtered(kind)
	return false
}

// handleTicker 所有交易对的行情都缓冲，按交易对去重
func (b *Bridge) handleTicker(coin model.Coin, ticker model.Ticker) {
	b.received(kindTicker)
	b.buffer.BufferLatest(keyTicker+"/"+coin.Key(), action.SetTicker(coin, ticker))
}

// handleBalance 只缓冲选中交易对所在交易所、且属于其基础币或计价币的余额
func (b *Bridge) handleBalance(exchange, currency string, balance model.Balance) {
	b.received(kindBalance)
	coin := b.selectedCoin()
	if coin == nil || coin.Exchange != exchange || !coin.HasCurrency(currency) {
		b.filtered(kindBalance)
		return
	}
	b.buffer.BufferLatest(keyBalance+"/"+exchange+"/"+currency, action.SetBalance(exchange, currency, balance))
}

func (b *Bridge) handleOrderBook(coin model.Coin, book *model.OrderBook) {
	b.received(kindOrderBook)
	if b.matchesSelection(kindOrderBook, coin) {
		b.buffer.BufferLatest(keyOrderBook, action.SetOrderBook(book))
	}
}

func (b *Bridge) handleTrade(coin model.Coin, trade model.Trade) {
	b.received(kindTrade)
	if b.matchesSelection(kindTrade, coin) {
		b.buffer.BufferAll(action.AddTrade(trade))
	}
}

func (b *Bridge) handleUserTrade(coin model.Coin, trade model.Trade) {
	b.received(kindUserTrade)
	if b.matchesSelection(kindUserTrade, coin) {
		b.buffer.BufferAll(action.AddUserTrade(trade))
	}
}

// handleOrderUpdate 订单更新不缓冲，直接派发
func (b *Bridge) handleOrderUpdate(coin model.Coin, order *model.Order, timestampMs int64) {
	b.received(kindOrderUpdate)
	if b.matchesSelection(kindOrderUpdate, coin) {
		b.dispatch(kindOrderUpdate, action.OrderUpdated(order, timestampMs))
	}
}

// handleOrdersSnapshot 挂单快照对账
// 快照中的订单逐一派发更新；快照为空时派发一次 nil 更新表示没有挂单；
// store 中已知但快照中缺失的订单以 CANCELED 派发。全部使用快照时间戳。
func (b *Bridge) handleOrdersSnapshot(coin model.Coin, orders []model.Order, timestampMs int64) {
	b.received(kindOrdersSnapshot)
	if !b.matchesSelection(kindOrdersSnapshot, coin) {
		return
	}

	present := make(map[string]struct{}, len(orders))
	if len(orders) == 0 {
		b.dispatch(kindOrdersSnapshot, action.OrderUpdated(nil, timestampMs))
	}
	for i := range orders {
		o := orders[i]
		present[o.ID] = struct{}{}
		b.dispatch(kindOrdersSnapshot, action.OrderUpdated(&o, timestampMs))
	}

	for _, known := range b.store.GetState().Coin.Orders {
		if _, ok := present[known.ID]; ok {
			continue
		}
		b.dispatch(kindOrdersSnapshot, action.OrderUpdated(model.CanceledOrder(known.ID), timestampMs))
	}
}

// handleError 服务端错误以本地错误通知派发
func (b *Bridge) handleError(message string) {
	b.received(kindError)
	b.dispatch(kindError, action.LocalError(message))
}

func (b *Bridge) handleNotification(n model.Notification) {
	b.received(kindNotification)
	b.dispatch(kindNotification, action.AddNotification(n))
}

func (b *Bridge) handleStatusUpdate(s model.StatusUpdate) {
	b.received(kindStatusUpdate)
	b.dispatch(kindStatusUpdate, action.StatusUpdate(s))
}

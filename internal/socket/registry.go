package socket

import (
	"fmt"
	"sync"

	"trading-dashboard-client/internal/core/model"
)

// 回调类型，每类事件最多注册一个回调（后注册者替换先注册者）
type (
	TickerHandler          func(coin model.Coin, ticker model.Ticker)
	BalanceHandler         func(exchange, currency string, balance model.Balance)
	OrderBookHandler       func(coin model.Coin, book *model.OrderBook)
	TradeHandler           func(coin model.Coin, trade model.Trade)
	OrderUpdateHandler     func(coin model.Coin, order *model.Order, timestampMs int64)
	OrdersSnapshotHandler  func(coin model.Coin, orders []model.Order, timestampMs int64)
	ConnectionStateHandler func(connected bool)
	MessageHandler         func(message string)
	NotificationHandler    func(n model.Notification)
	StatusUpdateHandler    func(status model.StatusUpdate)
)

// Subscription 回调注册句柄
// Close 注销回调，可重复调用。
type Subscription interface {
	Close()
}

type slot int

const (
	slotTicker slot = iota
	slotBalance
	slotOrderBook
	slotTrade
	slotUserTrade
	slotOrderUpdate
	slotOrdersSnapshot
	slotConnectionState
	slotError
	slotNotification
	slotStatusUpdate
	slotCount
)

type handle struct {
	r    *Registry
	slot slot
	gen  uint64
	once sync.Once
}

func (h *handle) Close() {
	h.once.Do(func() { h.r.release(h.slot, h.gen) })
}

// Registry 回调注册表
// 可被适配器实现嵌入，也可在测试中单独使用。
type Registry struct {
	mu       sync.RWMutex
	handlers [slotCount]any
	gens     [slotCount]uint64
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) register(s slot, fn any) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[s]++
	r.handlers[s] = fn
	return &handle{r: r, slot: s, gen: r.gens[s]}
}

// release 仅当该槽位仍是同一次注册时才清空
func (r *Registry) release(s slot, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gens[s] == gen {
		r.handlers[s] = nil
	}
}

func (r *Registry) get(s slot) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[s]
}

// OnTicker 注册行情回调
func (r *Registry) OnTicker(fn TickerHandler) Subscription { return r.register(slotTicker, fn) }

// OnBalance 注册余额回调
func (r *Registry) OnBalance(fn BalanceHandler) Subscription { return r.register(slotBalance, fn) }

// OnOrderBook 注册订单簿回调
func (r *Registry) OnOrderBook(fn OrderBookHandler) Subscription {
	return r.register(slotOrderBook, fn)
}

// OnTrade 注册公共成交回调
func (r *Registry) OnTrade(fn TradeHandler) Subscription { return r.register(slotTrade, fn) }

// OnUserTrade 注册用户成交回调
func (r *Registry) OnUserTrade(fn TradeHandler) Subscription { return r.register(slotUserTrade, fn) }

// OnOrderUpdate 注册订单更新回调
func (r *Registry) OnOrderUpdate(fn OrderUpdateHandler) Subscription {
	return r.register(slotOrderUpdate, fn)
}

// OnOrdersSnapshot 注册挂单快照回调
func (r *Registry) OnOrdersSnapshot(fn OrdersSnapshotHandler) Subscription {
	return r.register(slotOrdersSnapshot, fn)
}

// OnConnectionStateChange 注册连接状态回调
func (r *Registry) OnConnectionStateChange(fn ConnectionStateHandler) Subscription {
	return r.register(slotConnectionState, fn)
}

// OnError 注册错误回调
func (r *Registry) OnError(fn MessageHandler) Subscription { return r.register(slotError, fn) }

// OnNotification 注册通知回调
func (r *Registry) OnNotification(fn NotificationHandler) Subscription {
	return r.register(slotNotification, fn)
}

// OnStatusUpdate 注册状态更新回调
func (r *Registry) OnStatusUpdate(fn StatusUpdateHandler) Subscription {
	return r.register(slotStatusUpdate, fn)
}

// Emit 将事件分发给对应回调
// 未注册回调的事件被丢弃；回调内的 panic 不在此处捕获。
func (r *Registry) Emit(ev Event) {
	switch e := ev.(type) {
	case TickerEvent:
		if fn, _ := r.get(slotTicker).(TickerHandler); fn != nil {
			fn(e.Coin, e.Ticker)
		}
	case BalanceEvent:
		if fn, _ := r.get(slotBalance).(BalanceHandler); fn != nil {
			fn(e.Exchange, e.Currency, e.Balance)
		}
	case OrderBookEvent:
		if fn, _ := r.get(slotOrderBook).(OrderBookHandler); fn != nil {
			fn(e.Coin, e.OrderBook)
		}
	case TradeEvent:
		if fn, _ := r.get(slotTrade).(TradeHandler); fn != nil {
			fn(e.Coin, e.Trade)
		}
	case UserTradeEvent:
		if fn, _ := r.get(slotUserTrade).(TradeHandler); fn != nil {
			fn(e.Coin, e.Trade)
		}
	case OrderUpdateEvent:
		if fn, _ := r.get(slotOrderUpdate).(OrderUpdateHandler); fn != nil {
			fn(e.Coin, e.Order, e.TimestampMs)
		}
	case OrdersSnapshotEvent:
		if fn, _ := r.get(slotOrdersSnapshot).(OrdersSnapshotHandler); fn != nil {
			fn(e.Coin, e.Orders, e.TimestampMs)
		}
	case ConnectionStateEvent:
		if fn, _ := r.get(slotConnectionState).(ConnectionStateHandler); fn != nil {
			fn(e.Connected)
		}
	case ErrorEvent:
		if fn, _ := r.get(slotError).(MessageHandler); fn != nil {
			fn(e.Message)
		}
	case NotificationEvent:
		if fn, _ := r.get(slotNotification).(NotificationHandler); fn != nil {
			fn(e.Notification)
		}
	case StatusUpdateEvent:
		if fn, _ := r.get(slotStatusUpdate).(StatusUpdateHandler); fn != nil {
			fn(e.Status)
		}
	default:
		panic(fmt.Sprintf("socket: 未知事件类型 %T", ev))
	}
}

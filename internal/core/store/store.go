// Package store 实现看板客户端的集中式应用状态。
// 所有状态变更都通过 Dispatch / DispatchBatch 提交的 Action 完成。
package store

import (
	"sync"

	"go.uber.org/zap"

	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
)

const (
	// maxTrades 保留的公共成交与用户成交条数
	maxTrades = 50
	// maxNotifications 保留的通知条数
	maxNotifications = 100
)

// State 应用状态快照
// GetState 返回的是深拷贝，调用方可随意读取。
type State struct {
	// Coins 跟踪的交易对（订阅 ticker）
	Coins CoinsState
	// Coin 当前选中交易对相关的状态
	Coin CoinState
	// Router 导航状态
	Router RouterState
	// Tickers 按 Coin.Key 缓存的最新行情
	Tickers map[string]model.Ticker
	// Notifications 最近的通知（旧 → 新）
	Notifications []model.Notification
	// Statuses 按 RequestID 记录的服务端状态更新
	Statuses map[string]model.StatusUpdate
}

// CoinsState 跟踪交易对列表
type CoinsState struct {
	Coins []model.Coin
}

// CoinState 当前交易对的订单簿、成交、挂单与余额
type CoinState struct {
	// OrderBook 订单簿，nil 表示尚未收到
	OrderBook *model.OrderBook
	// Trades 公共成交（新 → 旧）
	Trades []model.Trade
	// UserTrades 用户成交（新 → 旧），nil 表示尚未收到
	UserTrades []model.Trade
	// Orders 挂单，nil 表示未知，空切片表示确认没有挂单
	Orders []model.Order
	// Balances 按币种记录余额
	Balances map[string]model.Balance

	// orderStamps 每笔订单最近一次更新的时间戳，用于丢弃过期更新
	orderStamps map[string]int64
}

// RouterState 导航状态
type RouterState struct {
	// Location 当前路径，如 /coin/binance/BTC/USDT
	Location string
}

// Store 集中式应用状态
type Store struct {
	mu     sync.RWMutex
	state  State
	logger *zap.Logger

	// dispatched 已处理动作计数
	dispatched int64
}

// New 创建空 store
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state: State{
			Tickers:  make(map[string]model.Ticker),
			Statuses: make(map[string]model.StatusUpdate),
			Coin: CoinState{
				Balances:    make(map[string]model.Balance),
				orderStamps: make(map[string]int64),
			},
		},
		logger: logger.Named("store"),
	}
}

// GetState 返回当前状态的拷贝
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Location 当前导航路径，不复制整个状态
func (s *Store) Location() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Router.Location
}

// Dispatch 应用单个动作
func (s *Store) Dispatch(a action.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reduce(a)
}

// DispatchBatch 按顺序应用一个批次的全部动作
// 批次在一次加锁内完成，读者不会看到应用了一半的批次。
func (s *Store) DispatchBatch(b action.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range b.Actions {
		s.reduce(a)
	}
}

// Dispatched 返回已处理的动作数
func (s *Store) Dispatched() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dispatched
}

func (st State) clone() State {
	out := State{
		Coins:         CoinsState{Coins: append([]model.Coin(nil), st.Coins.Coins...)},
		Router:        st.Router,
		Tickers:       make(map[string]model.Ticker, len(st.Tickers)),
		Notifications: append([]model.Notification(nil), st.Notifications...),
		Statuses:      make(map[string]model.StatusUpdate, len(st.Statuses)),
	}
	for k, v := range st.Tickers {
		out.Tickers[k] = v
	}
	for k, v := range st.Statuses {
		out.Statuses[k] = v
	}

	c := st.Coin
	out.Coin = CoinState{
		Trades:      append([]model.Trade(nil), c.Trades...),
		Balances:    make(map[string]model.Balance, len(c.Balances)),
		orderStamps: make(map[string]int64, len(c.orderStamps)),
	}
	if c.OrderBook != nil {
		book := model.OrderBook{
			Bids: append([]model.PriceLevel(nil), c.OrderBook.Bids...),
			Asks: append([]model.PriceLevel(nil), c.OrderBook.Asks...),
		}
		out.Coin.OrderBook = &book
	}
	if c.UserTrades != nil {
		out.Coin.UserTrades = append(make([]model.Trade, 0, len(c.UserTrades)), c.UserTrades...)
	}
	if c.Orders != nil {
		out.Coin.Orders = append(make([]model.Order, 0, len(c.Orders)), c.Orders...)
	}
	for k, v := range c.Balances {
		out.Coin.Balances[k] = v
	}
	for k, v := range c.orderStamps {
		out.Coin.orderStamps[k] = v
	}
	return out
}

// Package bridge 将 socket 客户端的事件桥接到 store。
// 负责事件缓冲与定时批量派发、选中交易对切换时的重订阅、连接状态的生命周期管理。
// 所有处理逻辑在 Run 所在的单个 goroutine 中执行，回调只负责投递。
package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
	"trading-dashboard-client/internal/core/nav"
	"trading-dashboard-client/internal/core/store"
	"trading-dashboard-client/internal/socket"
	"trading-dashboard-client/internal/telemetry"
)

// ErrAlreadyRunning Run 被重复调用
var ErrAlreadyRunning = errors.New("bridge 已在运行")

// Adapter bridge 依赖的 socket 客户端能力
// Connect / Disconnect / Resubscribe 不得阻塞。
type Adapter interface {
	Connect()
	Disconnect()
	ChangeSubscriptions(coins []model.Coin, selected *model.Coin)
	Resubscribe()

	OnError(fn socket.MessageHandler) socket.Subscription
	OnNotification(fn socket.NotificationHandler) socket.Subscription
	OnStatusUpdate(fn socket.StatusUpdateHandler) socket.Subscription
	OnConnectionStateChange(fn socket.ConnectionStateHandler) socket.Subscription
	OnTicker(fn socket.TickerHandler) socket.Subscription
	OnBalance(fn socket.BalanceHandler) socket.Subscription
	OnOrderBook(fn socket.OrderBookHandler) socket.Subscription
	OnTrade(fn socket.TradeHandler) socket.Subscription
	OnUserTrade(fn socket.TradeHandler) socket.Subscription
	OnOrderUpdate(fn socket.OrderUpdateHandler) socket.Subscription
	OnOrdersSnapshot(fn socket.OrdersSnapshotHandler) socket.Subscription
}

// Store bridge 读写的应用状态
type Store interface {
	GetState() store.State
	// Location 当前导航路径，事件路由的热路径只读取它
	Location() string
	Dispatch(a action.Action)
	DispatchBatch(b action.Batch)
}

// Navigator 导航事件源
type Navigator interface {
	Listen(l nav.Listener) (unlisten func())
}

// BatchJournal 批次落盘
type BatchJournal interface {
	WriteBatch(b action.Batch) error
}

// Options 可选参数
type Options struct {
	// FlushInterval 批量派发间隔，默认 1s
	FlushInterval time.Duration
	// InboxSize 投递队列容量，默认 4096
	InboxSize int
	// Journal 批次落盘，可为 nil
	Journal BatchJournal
	// Metrics 指标，可为 nil
	Metrics *telemetry.BridgeMetrics
	// Logger 日志记录器，可为 nil
	Logger *zap.Logger
}

// Bridge socket → store 桥接器
type Bridge struct {
	adapter  Adapter
	store    Store
	history  Navigator
	journal  BatchJournal
	metrics  *telemetry.BridgeMetrics
	logger   *zap.Logger
	interval time.Duration

	// 以下字段只由循环 goroutine 访问
	buffer       *ActionBuffer
	previousCoin *model.Coin
	lifecycle    Lifecycle
	authorised   bool
	subs         []socket.Subscription
	unlisten     func()

	// inbox 待执行的处理函数
	inbox chan func()
	// done Run 退出后关闭，之后的投递被丢弃
	done     chan struct{}
	doneOnce sync.Once
	started  atomic.Bool
	// connected 对外暴露的连接状态
	connected atomic.Bool
}

// New 创建桥接器，Run 之前不注册任何回调
// 参数 adapter: socket 客户端
// 参数 st: 应用状态
// 参数 history: 导航事件源
// 参数 opts: 可选参数
func New(adapter Adapter, st Store, history Navigator, opts Options) *Bridge {
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = time.Second
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = 4096
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Bridge{
		adapter:  adapter,
		store:    st,
		history:  history,
		journal:  opts.Journal,
		metrics:  opts.Metrics,
		logger:   opts.Logger.Named("bridge"),
		interval: opts.FlushInterval,
		buffer:   NewActionBuffer(),
		inbox:    make(chan func(), opts.InboxSize),
		done:     make(chan struct{}),
	}
}

// Run 注册回调并运行事件循环，直到 ctx 取消
// 任何退出路径都会注销回调、停止定时器并断开 socket；未派发的缓冲动作被丢弃。
func (b *Bridge) Run(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ticker := time.NewTicker(b.interval)
	defer b.teardown(ticker)

	b.attach()
	b.logger.Info("bridge 已启动", zap.Duration("flush_interval", b.interval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-b.inbox:
			fn()
		case <-ticker.C:
			b.flush()
		}
	}
}

// SetAuthorised 更新授权状态
// 变为 true 时连接，由 true 变为 false 时断开。
func (b *Bridge) SetAuthorised(authorised bool) {
	b.post(func() { b.setAuthorised(authorised) })
}

// Connected 当前连接状态
func (b *Bridge) Connected() bool {
	return b.connected.Load()
}

// Resubscribe 按当前跟踪与选中的交易对重新订阅
func (b *Bridge) Resubscribe() {
	b.post(b.resubscribe)
}

// post 将处理函数投递到循环；Run 退出后丢弃
func (b *Bridge) post(fn func()) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.inbox <- fn:
	case <-b.done:
	}
}

// attach 注册所有 socket 回调与导航监听
func (b *Bridge) attach() {
	a := b.adapter
	b.subs = []socket.Subscription{
		a.OnError(func(message string) {
			b.post(func() { b.handleError(message) })
		}),
		a.OnNotification(func(n model.Notification) {
			b.post(func() { b.handleNotification(n) })
		}),
		a.OnStatusUpdate(func(s model.StatusUpdate) {
			b.post(func() { b.handleStatusUpdate(s) })
		}),
		a.OnConnectionStateChange(func(connected bool) {
			b.post(func() { b.setConnectionState(connected) })
		}),
		a.OnTicker(func(coin model.Coin, ticker model.Ticker) {
			b.post(func() { b.handleTicker(coin, ticker) })
		}),
		a.OnBalance(func(exchange, currency string, balance model.Balance) {
			b.post(func() { b.handleBalance(exchange, currency, balance) })
		}),
		a.OnOrderBook(func(coin model.Coin, book *model.OrderBook) {
			b.post(func() { b.handleOrderBook(coin, book) })
		}),
		a.OnTrade(func(coin model.Coin, trade model.Trade) {
			b.post(func() { b.handleTrade(coin, trade) })
		}),
		a.OnUserTrade(func(coin model.Coin, trade model.Trade) {
			b.post(func() { b.handleUserTrade(coin, trade) })
		}),
		a.OnOrderUpdate(func(coin model.Coin, order *model.Order, timestampMs int64) {
			b.post(func() { b.handleOrderUpdate(coin, order, timestampMs) })
		}),
		a.OnOrdersSnapshot(func(coin model.Coin, orders []model.Order, timestampMs int64) {
			b.post(func() { b.handleOrdersSnapshot(coin, orders, timestampMs) })
		}),
	}

	b.previousCoin = b.selectedCoin()
	b.unlisten = b.history.Listen(func(location string) {
		b.post(func() { b.onLocationChange(location) })
	})
}

// teardown 释放 Run 持有的全部资源
func (b *Bridge) teardown(ticker *time.Ticker) {
	b.doneOnce.Do(func() { close(b.done) })
	ticker.Stop()

	for _, s := range b.subs {
		s.Close()
	}
	b.subs = nil
	if b.unlisten != nil {
		b.unlisten()
		b.unlisten = nil
	}

	b.adapter.Disconnect()
	b.connected.Store(false)

	if n := b.buffer.Len(); n > 0 {
		b.logger.Info("bridge 已停止，丢弃未派发动作", zap.Int("pending", n))
		return
	}
	b.logger.Info("bridge 已停止")
}

// flush 批量派发缓冲区内容
func (b *Bridge) flush() {
	actions := b.buffer.FlushAndClear()
	if len(actions) == 0 {
		return
	}

	batch := action.NewBatch(actions)
	b.store.DispatchBatch(batch)
	b.metrics.BatchFlushed(context.Background(), batch.Len())

	if b.journal != nil {
		if err := b.journal.WriteBatch(batch); err != nil {
			b.logger.Warn("写入批次日志失败", zap.String("batch", batch.ID), zap.Error(err))
		}
	}
}

// dispatch 绕过缓冲直接派发
func (b *Bridge) dispatch(kind string, a action.Action) {
	b.metrics.ImmediateDispatch(context.Background(), kind)
	b.store.Dispatch(a)
}

// selectedCoin 从 store 的导航状态推导当前选中的交易对
func (b *Bridge) selectedCoin() *model.Coin {
	return nav.LocationToCoin(b.store.Location())
}

// trackedCoins store 中跟踪的交易对
func (b *Bridge) trackedCoins() []model.Coin {
	return b.store.GetState().Coins.Coins
}

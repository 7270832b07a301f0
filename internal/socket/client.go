package socket

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-dashboard-client/internal/config"
	"trading-dashboard-client/internal/core/model"
	"trading-dashboard-client/internal/stats/latency"
	"trading-dashboard-client/internal/util/backoff"
	"trading-dashboard-client/internal/util/timeutil"
)

const (
	// writeTimeout 单次写入超时
	writeTimeout = 5 * time.Second
	// rttWindowSize 往返时延统计窗口
	rttWindowSize = 256
)

var (
	pingFrame = []byte("ping")
	pongFrame = []byte("pong")
)

// Client 交易后端 WebSocket 客户端
// 回调注册方法由内嵌的 Registry 提供；所有回调在读取 goroutine 中执行。
type Client struct {
	*Registry

	// cfg 连接配置
	cfg *config.SocketConfig
	// token 鉴权令牌
	token string
	// logger 日志记录器
	logger *zap.Logger
	// limiter 命令限速
	limiter *rate.Limiter
	// newID 请求 ID 生成函数
	newID func() string

	// mu 保护订阅集合与会话取消函数
	mu sync.Mutex
	// coins 跟踪的交易对
	coins []model.Coin
	// selected 当前选中的交易对
	selected *model.Coin
	// cancel 当前运行循环的取消函数，nil 表示未启动
	cancel context.CancelFunc
	// runDone 最近一次运行循环退出时关闭
	runDone chan struct{}
	// closed 是否已 Close
	closed bool

	// resubCh 重订阅信号，容量 1，多次请求合并为一次
	resubCh chan struct{}
	// wg 运行循环
	wg conc.WaitGroup
	// rtt 心跳往返时延统计
	rtt *latency.Tracker

	connected       atomic.Bool
	reconnectCount  atomic.Int64
	parseErrorCount atomic.Int64
	messageCount    atomic.Int64
	commandCount    atomic.Int64
	lastMsgNs       atomic.Int64
	lastPingSentNs  atomic.Int64
	lastPongRecvNs  atomic.Int64
	rttMs           atomic.Int64

	// parseErrSampleCount 解析错误计数（用于采样日志）
	parseErrSampleCount atomic.Uint64
	// lastParseErrLogNs 上次解析错误日志时间（纳秒）
	lastParseErrLogNs atomic.Int64
}

// NewClient 创建客户端，不建立连接
// 参数 cfg: 连接配置
// 参数 token: 鉴权令牌，为空时不发送 Authorization 头
// 参数 logger: 日志记录器
func NewClient(cfg *config.SocketConfig, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	burst := cfg.CommandBurst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.CommandRatePerSec > 0 {
		limit = rate.Limit(cfg.CommandRatePerSec)
	}
	return &Client{
		Registry: NewRegistry(),
		cfg:      cfg,
		token:    token,
		logger:   logger.Named("socket"),
		limiter:  rate.NewLimiter(limit, burst),
		newID:    uuid.NewString,
		resubCh:  make(chan struct{}, 1),
		rtt:      latency.NewTracker(rttWindowSize),
	}
}

// Connect 启动连接循环并立即返回
// 已在运行或已关闭时为空操作。断线后按退避策略自动重连。
// 上一次 Disconnect 的循环退出并上报断开之后，新循环才开始拨号。
func (c *Client) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Warn("客户端已关闭，忽略连接请求")
		return
	}
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	prev, done := c.runDone, make(chan struct{})
	c.runDone = done
	c.wg.Go(func() {
		defer close(done)
		if prev != nil {
			select {
			case <-prev:
			case <-ctx.Done():
				return
			}
		}
		c.run(ctx)
	})
}

// Disconnect 停止连接循环，不等待其退出
// 当前连接关闭后会上报一次 ConnectionStateEvent{Connected: false}。
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.logger.Info("断开连接")
}

// Close 断开连接并等待所有 goroutine 退出，之后不可再 Connect
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.Disconnect()
	c.wg.Wait()
	c.logger.Info("客户端已关闭")
	return nil
}

// ChangeSubscriptions 替换订阅集合，不发送命令
// 参数 coins: 跟踪的交易对，只订阅 ticker
// 参数 selected: 选中的交易对，可为 nil
func (c *Client) ChangeSubscriptions(coins []model.Coin, selected *model.Coin) {
	next := make([]model.Coin, len(coins))
	copy(next, coins)

	var sel *model.Coin
	if selected != nil {
		s := *selected
		sel = &s
	}

	c.mu.Lock()
	c.coins = next
	c.selected = sel
	c.mu.Unlock()
}

// Resubscribe 请求发送一次完整订阅
// 不阻塞；未连接时请求保留到连接建立后发送。
func (c *Client) Resubscribe() {
	if !c.connected.Load() {
		c.logger.Debug("未连接，订阅将在连接建立后发送")
	}
	select {
	case c.resubCh <- struct{}{}:
	default:
	}
}

// Metrics 获取连接指标快照
func (c *Client) Metrics() ConnectionMetrics {
	var ageMs int64
	if last := c.lastMsgNs.Load(); last > 0 {
		ageMs = (timeutil.NowNano() - last) / 1_000_000
	}
	return ConnectionMetrics{
		Connected:        c.connected.Load(),
		ReconnectCount:   c.reconnectCount.Load(),
		ParseErrorCount:  c.parseErrorCount.Load(),
		MessageCount:     c.messageCount.Load(),
		CommandCount:     c.commandCount.Load(),
		LastMessageAgeMs: ageMs,
		RttMs:            c.rttMs.Load(),
		RTT:              c.rtt.Stats(),
	}
}

// run 连接循环：建立会话，断开后退避重连，直到 ctx 取消
func (c *Client) run(ctx context.Context) {
	bo := backoff.NewFromMillis(c.cfg.BackoffBaseMs, c.cfg.BackoffMaxMs)

	for {
		err := c.session(ctx, bo)
		if ctx.Err() != nil {
			return
		}

		c.reconnectCount.Add(1)
		c.logger.Warn("连接中断，准备重连", zap.Error(err), zap.Int("attempt", bo.Attempt()))
		if bo.Wait(ctx) != nil {
			return
		}
	}
}

// session 建立一次连接并阻塞到连接结束
// 返回: 连接结束的原因
func (c *Client) session(ctx context.Context, bo *backoff.Backoff) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	bo.Reset()

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	// ctx 取消时关闭连接，使阻塞中的 ReadMessage 返回
	context.AfterFunc(sessCtx, func() { _ = conn.Close() })

	c.lastPingSentNs.Store(0)
	c.lastPongRecvNs.Store(0)
	c.connected.Store(true)
	c.logger.Info("WebSocket 连接成功", zap.String("url", c.cfg.URL))
	c.Emit(ConnectionStateEvent{Connected: true})

	defer func() {
		c.connected.Store(false)
		c.Emit(ConnectionStateEvent{Connected: false})
	}()

	var wg conc.WaitGroup
	wg.Go(func() { c.writeLoop(sessCtx, conn, cancel) })

	err = c.readLoop(sessCtx, conn)
	cancel()
	wg.Wait()
	return err
}

// dial 建立 WebSocket 连接
func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("User-Agent", "trading-dashboard-client/1.0")
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeutil.Millis(c.cfg.HandshakeTimeoutMs, 10*time.Second),
	}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return nil, fmt.Errorf("连接 WebSocket 失败: %w", err)
	}
	return conn, nil
}

// readLoop 读取循环
// 解析后的事件经 Registry 分发；解析失败只计数与采样记录。
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("读取消息失败: %w", err)
		}

		nowNs := timeutil.NowNano()
		c.lastMsgNs.Store(nowNs)

		if bytes.Equal(bytes.TrimSpace(data), pongFrame) {
			c.lastPongRecvNs.Store(nowNs)
			if lastPing := c.lastPingSentNs.Load(); lastPing > 0 {
				c.rttMs.Store((nowNs - lastPing) / 1_000_000)
				c.rtt.Add(nowNs - lastPing)
			}
			continue
		}

		c.messageCount.Add(1)
		ev, err := Parse(data)
		if err != nil {
			c.parseErrorCount.Add(1)
			c.maybeLogParseError(err, data)
			continue
		}
		c.Emit(ev)
	}
}

// writeLoop 写入循环，连接上唯一的写者
// 负责订阅命令与心跳；写失败或心跳超时时调用 cancel 结束会话。
func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	ticker := time.NewTicker(timeutil.Millis(c.cfg.PingIntervalMs, 25*time.Second))
	defer ticker.Stop()

	pongTimeout := timeutil.Millis(c.cfg.PongTimeoutMs, 10*time.Second)

	for {
		select {
		case <-ctx.Done():
			return

		case <-c.resubCh:
			if err := c.sendSubscriptions(ctx, conn); err != nil {
				if ctx.Err() == nil {
					c.logger.Warn("发送订阅失败", zap.Error(err))
					cancel()
				}
				return
			}

		case <-ticker.C:
			lastPing := c.lastPingSentNs.Load()
			lastPong := c.lastPongRecvNs.Load()
			if lastPing > 0 && lastPong < lastPing && timeutil.NowNano()-lastPing > pongTimeout.Nanoseconds() {
				c.logger.Warn("心跳超时，触发重连")
				cancel()
				return
			}

			c.lastPingSentNs.Store(timeutil.NowNano())
			if err := c.write(conn, pingFrame); err != nil {
				c.logger.Warn("发送 ping 失败", zap.Error(err))
				cancel()
				return
			}
		}
	}
}

// sendSubscriptions 按当前订阅集合发送完整命令序列
func (c *Client) sendSubscriptions(ctx context.Context, conn *websocket.Conn) error {
	c.mu.Lock()
	coins, selected := c.coins, c.selected
	c.mu.Unlock()

	reqs := BuildSubscriptionRequests(coins, selected, c.newID)
	for _, req := range reqs {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		data, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("序列化命令 %s 失败: %w", req.Command, err)
		}
		if err := c.write(conn, data); err != nil {
			return fmt.Errorf("发送命令 %s 失败: %w", req.Command, err)
		}
		c.commandCount.Add(1)
	}

	fields := []zap.Field{zap.Int("tickers", len(reqs[0].Tickers))}
	if selected != nil {
		fields = append(fields, zap.String("selected", selected.Key()))
	}
	c.logger.Info("订阅命令已发送", fields...)
	return nil
}

func (c *Client) write(conn *websocket.Conn, data []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// maybeLogParseError 采样记录解析错误原始消息
// 每 100 次错误记录 1 条，且两条日志至少间隔 1 分钟；第一次错误总是记录。
func (c *Client) maybeLogParseError(err error, data []byte) {
	count := c.parseErrSampleCount.Add(1)
	if count != 1 && count%100 != 0 {
		return
	}

	nowNs := timeutil.NowNano()
	last := c.lastParseErrLogNs.Load()
	if last > 0 && nowNs-last < int64(time.Minute) {
		return
	}
	c.lastParseErrLogNs.Store(nowNs)

	sample := data
	if len(sample) > 200 {
		sample = sample[:200]
	}
	c.logger.Warn("解析消息失败（采样）", zap.Error(err), zap.Uint64("count", count), zap.ByteString("data", sample))
}

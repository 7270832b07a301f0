// Package main 是交易看板客户端的入口点。
// 连接交易后端的 WebSocket，将行情、余额、订单与成交事件桥接到本地 store，
// 并可将派发批次与 store 快照记录为 JSONL。导航路径从标准输入读取。
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"trading-dashboard-client/internal/config"
	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/bridge"
	"trading-dashboard-client/internal/core/nav"
	"trading-dashboard-client/internal/core/store"
	"trading-dashboard-client/internal/output/jsonl"
	"trading-dashboard-client/internal/socket"
	"trading-dashboard-client/internal/telemetry"
	"trading-dashboard-client/internal/util/timeutil"
)

type stateSnapshot struct {
	// TsMs 快照时间（毫秒）
	TsMs int64 `json:"ts_ms"`
	// Connected bridge 视角的连接状态
	Connected bool `json:"connected"`
	// Socket 连接指标
	Socket socket.ConnectionMetrics `json:"socket"`
	// State store 状态
	State store.State `json:"state"`
}

func main() {
	var configPath, envPath string
	flag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	flag.StringVar(&envPath, "env", ".env", "环境变量文件，不存在时忽略")
	flag.Parse()

	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "加载环境变量文件失败: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 捕获 SIGINT/SIGTERM，触发优雅退出
	sigCh := make(chan os.Signal, 2)
	ossignal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("收到退出信号，开始优雅关闭")
		cancel()
	}()

	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		logger.Error("初始化遥测失败", zap.Error(err))
		os.Exit(1)
	}
	metrics, err := telemetry.NewBridgeMetrics(provider.Meter(cfg.App.Name + "/bridge"))
	if err != nil {
		logger.Error("注册 bridge 指标失败", zap.Error(err))
		os.Exit(1)
	}

	journal, err := jsonl.OpenJournal(cfg.Output)
	if err != nil {
		logger.Error("打开输出日志失败", zap.Error(err))
		os.Exit(1)
	}

	st := store.New(logger)
	tracked := cfg.TrackedCoins()
	st.Dispatch(action.SetCoins(tracked))

	history := nav.NewHistory(cfg.Bridge.StartLocation)
	unlisten := nav.SyncRouter(history, st)
	defer unlisten()

	client := socket.NewClient(&cfg.Socket, cfg.Auth.Token, logger)
	b := bridge.New(client, st, history, bridge.Options{
		FlushInterval: timeutil.Millis(cfg.Bridge.FlushIntervalMs, time.Second),
		InboxSize:     cfg.Bridge.InboxSize,
		Journal:       journal,
		Metrics:       metrics,
		Logger:        logger,
	})

	logger.Info("看板客户端启动",
		zap.String("url", cfg.Socket.URL),
		zap.Int("coins", len(tracked)),
		zap.String("location", history.Location()),
		zap.Bool("authorised", cfg.Authorised()),
	)
	if !cfg.Authorised() {
		logger.Warn("未配置访问令牌，不会连接 socket")
	}
	b.SetAuthorised(cfg.Authorised())

	var wg conc.WaitGroup
	wg.Go(func() {
		if err := b.Run(ctx); err != nil {
			logger.Error("bridge 退出", zap.Error(err))
		}
	})
	if journal.SnapshotsEnabled() {
		wg.Go(func() {
			runSnapshots(ctx, st, b, client, journal, timeutil.Millis(cfg.Output.SnapshotIntervalMs, 10*time.Second), logger)
		})
	}
	// 标准输入读取不可取消，不计入 wg
	go readCommands(ctx, os.Stdin, &commandTarget{history: history, store: st, bridge: b}, logger)

	<-ctx.Done()
	wg.Wait()

	if journal.SnapshotsEnabled() {
		_ = journal.WriteSnapshot(snapshotOf(st, b, client))
	}

	// 优雅关闭（10s 超时）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = client.Close()
		if err := journal.Close(); err != nil {
			logger.Warn("关闭输出日志失败", zap.Error(err))
		}
		js := journal.Stats()
		logger.Info("输出日志已关闭",
			zap.Int64("batches_written", js.BatchesWritten),
			zap.Int64("batches_dropped", js.BatchesDropped),
			zap.Int64("snapshots_written", js.SnapshotsWritten),
			zap.Int64("snapshots_dropped", js.SnapshotsDropped),
		)
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("关闭遥测失败", zap.Error(err))
		}
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("关闭超时，强制退出")
	case <-done:
		logger.Info("关闭完成", zap.Int64("dispatched", st.Dispatched()))
	}
}

// runSnapshots 定期记录 store 快照
func runSnapshots(ctx context.Context, st *store.Store, b *bridge.Bridge, client *socket.Client, journal *jsonl.Journal, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := journal.WriteSnapshot(snapshotOf(st, b, client)); err != nil {
				logger.Warn("写入快照失败", zap.Error(err))
			}
		}
	}
}

func snapshotOf(st *store.Store, b *bridge.Bridge, client *socket.Client) stateSnapshot {
	return stateSnapshot{
		TsMs:      timeutil.NowMs(),
		Connected: b.Connected(),
		Socket:    client.Metrics(),
		State:     st.GetState(),
	}
}

// readCommands 逐行读取命令直到输入结束或 ctx 取消
func readCommands(ctx context.Context, r io.Reader, target *commandTarget, logger *zap.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		if err := target.handle(sc.Text()); err != nil {
			logger.Warn("无效命令", zap.String("line", sc.Text()), zap.Error(err))
		}
	}
	if err := sc.Err(); err != nil {
		logger.Warn("读取标准输入失败", zap.Error(err))
	}
}

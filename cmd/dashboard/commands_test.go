package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"trading-dashboard-client/internal/config"
	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
)

type recorder struct {
	pushed      []string
	actions     []action.Action
	resubscribe int
}

func (r *recorder) Push(location string) { r.pushed = append(r.pushed, location) }
func (r *recorder) Dispatch(a action.Action) { r.actions = append(r.actions, a) }
func (r *recorder) Resubscribe() { r.resubscribe++ }

func TestCommandTarget_Handle(t *testing.T) {
	r := &recorder{}
	c := &commandTarget{history: r, store: r, bridge: r}

	for _, line := range []string{"", "  /coin/binance/BTC/USDT ", "+kraken/eth/eur", "-binance/BTC/USDT"} {
		if err := c.handle(line); err != nil {
			t.Fatalf("handle(%q) error = %v", line, err)
		}
	}

	if len(r.pushed) != 1 || r.pushed[0] != "/coin/binance/BTC/USDT" {
		t.Errorf("pushed = %v", r.pushed)
	}
	if len(r.actions) != 2 || r.actions[0].Kind != action.KindAddCoin || r.actions[1].Kind != action.KindRemoveCoin {
		t.Fatalf("actions = %+v", r.actions)
	}
	if got := r.actions[0].Payload.(model.Coin); got.Key() != "kraken/ETH/EUR" {
		t.Errorf("AddCoin = %s, want kraken/ETH/EUR", got.Key())
	}
	if r.resubscribe != 2 {
		t.Errorf("resubscribe = %d, want 2", r.resubscribe)
	}
}

func TestCommandTarget_Invalid(t *testing.T) {
	r := &recorder{}
	c := &commandTarget{history: r, store: r, bridge: r}

	if err := c.handle("hello"); !errors.Is(err, errUnknownCommand) {
		t.Errorf("handle(hello) = %v, want errUnknownCommand", err)
	}
	if err := c.handle("+binance/BTC"); err == nil {
		t.Error("不完整的交易对应返回错误")
	}
	if len(r.actions) != 0 || r.resubscribe != 0 {
		t.Error("无效命令不应产生副作用")
	}
}

func TestNewLogger_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")
	logger := newLogger(config.AppConfig{Name: "test", LogLevel: "debug", LogFile: path, LogMaxSizeMB: 1, LogMaxBackups: 1})
	logger.Debug("hello", zap.String("k", "v"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if len(data) == 0 {
		t.Error("日志文件为空")
	}
}

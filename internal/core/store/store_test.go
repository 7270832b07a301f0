// Package store 应用状态测试
package store

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
)

var btc = model.NewCoin("binance", "BTC", "USDT")

func TestStore_TickerAndBalance(t *testing.T) {
	s := New(nil)
	s.Dispatch(action.SetTicker(btc, model.Ticker{Last: decimal.NewFromInt(100)}))
	s.Dispatch(action.SetBalance("binance", "BTC", model.Balance{Total: decimal.NewFromInt(2), Available: decimal.NewFromInt(1)}))

	st := s.GetState()
	if !st.Tickers[btc.Key()].Last.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("ticker 未写入: %+v", st.Tickers)
	}
	bal, ok := st.Coin.Balances["BTC"]
	if !ok || !bal.Total.Equal(decimal.NewFromInt(2)) || !bal.Available.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("余额错误: %+v", st.Coin.Balances)
	}

	s.Dispatch(action.ClearBalances())
	if len(s.GetState().Coin.Balances) != 0 {
		t.Fatalf("ClearBalances 后余额应为空")
	}
}

func TestStore_OrderLifecycle(t *testing.T) {
	s := New(nil)
	if s.GetState().Coin.Orders != nil {
		t.Fatalf("初始挂单应为未知(nil)")
	}

	s.Dispatch(action.OrderUpdated(nil, 10))
	orders := s.GetState().Coin.Orders
	if orders == nil || len(orders) != 0 {
		t.Fatalf("nil 更新后应为空列表: %+v", orders)
	}

	s.Dispatch(action.OrderUpdated(&model.Order{ID: "1", Status: model.StatusNew}, 20))
	s.Dispatch(action.OrderUpdated(&model.Order{ID: "2", Status: model.StatusNew}, 20))
	if n := len(s.GetState().Coin.Orders); n != 2 {
		t.Fatalf("期望 2 笔挂单, 实际 %d", n)
	}

	// 过期更新被丢弃
	s.Dispatch(action.OrderUpdated(model.CanceledOrder("1"), 5))
	if n := len(s.GetState().Coin.Orders); n != 2 {
		t.Fatalf("过期撤单不应生效, 实际 %d", n)
	}

	s.Dispatch(action.OrderUpdated(model.CanceledOrder("1"), 30))
	orders = s.GetState().Coin.Orders
	if len(orders) != 1 || orders[0].ID != "2" {
		t.Fatalf("撤单后应只剩订单 2: %+v", orders)
	}

	// 未知 ID 的撤单不是错误
	s.Dispatch(action.OrderUpdated(model.CanceledOrder("404"), 30))
	if n := len(s.GetState().Coin.Orders); n != 1 {
		t.Fatalf("未知 ID 撤单不应改变列表, 实际 %d", n)
	}

	s.Dispatch(action.CancelOrder("2"))
	if st := s.GetState().Coin.Orders[0].Status; st != model.StatusPendingCancel {
		t.Fatalf("CancelOrder 应标记 PENDING_CANCEL, 实际 %s", st)
	}

	s.Dispatch(action.ClearOrders())
	if s.GetState().Coin.Orders != nil {
		t.Fatalf("ClearOrders 后应回到未知状态")
	}
}

func TestStore_OrderBookClear(t *testing.T) {
	s := New(nil)
	s.Dispatch(action.SetOrderBook(&model.OrderBook{Bids: []model.PriceLevel{{Price: decimal.NewFromInt(1)}}}))
	if s.GetState().Coin.OrderBook == nil {
		t.Fatalf("订单簿未写入")
	}
	s.Dispatch(action.SetOrderBook(nil))
	if s.GetState().Coin.OrderBook != nil {
		t.Fatalf("SetOrderBook(nil) 应清空订单簿")
	}
}

func TestStore_Coins(t *testing.T) {
	s := New(nil)
	eth := model.NewCoin("binance", "ETH", "USDT")
	s.Dispatch(action.SetCoins([]model.Coin{btc}))
	s.Dispatch(action.AddCoin(eth))
	s.Dispatch(action.AddCoin(eth))
	if n := len(s.GetState().Coins.Coins); n != 2 {
		t.Fatalf("重复 AddCoin 应去重, 实际 %d", n)
	}
	s.Dispatch(action.SetTicker(btc, model.Ticker{}))
	s.Dispatch(action.RemoveCoin(btc))
	st := s.GetState()
	if len(st.Coins.Coins) != 1 || st.Coins.Coins[0].Key() != eth.Key() {
		t.Fatalf("RemoveCoin 错误: %+v", st.Coins.Coins)
	}
	if _, ok := st.Tickers[btc.Key()]; ok {
		t.Fatalf("RemoveCoin 应同时删除行情")
	}
}

func TestStore_GetStateIsCopy(t *testing.T) {
	s := New(nil)
	s.Dispatch(action.AddTrade(model.Trade{ID: "a"}))
	st := s.GetState()
	st.Coin.Trades[0].ID = "mutated"
	if s.GetState().Coin.Trades[0].ID != "a" {
		t.Fatalf("GetState 返回值不应与内部状态共享")
	}
}

func TestStore_Location(t *testing.T) {
	s := New(nil)
	if got := s.Location(); got != "" {
		t.Errorf("初始 Location() = %q, want empty", got)
	}

	s.Dispatch(action.LocationChanged("/coin/binance/BTC/USDT"))
	if got := s.Location(); got != "/coin/binance/BTC/USDT" {
		t.Errorf("Location() = %q", got)
	}
	if got := s.GetState().Router.Location; got != s.Location() {
		t.Errorf("Router.Location = %q, want %q", got, s.Location())
	}
}

func TestStore_DispatchBatchOrder(t *testing.T) {
	s := New(nil)
	s.DispatchBatch(action.NewBatch([]action.Action{
		action.AddTrade(model.Trade{ID: "1"}),
		action.ClearTrades(),
		action.AddTrade(model.Trade{ID: "2"}),
	}))
	trades := s.GetState().Coin.Trades
	if len(trades) != 1 || trades[0].ID != "2" {
		t.Fatalf("批次应按顺序应用: %+v", trades)
	}
	if s.Dispatched() != 3 {
		t.Fatalf("期望处理 3 个动作, 实际 %d", s.Dispatched())
	}
}

// **Feature: trading-dashboard-client, Property 1: Bounded Trade History**

func TestStore_TradesBounded_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("公共成交最多保留 maxTrades 条且最新在前", prop.ForAll(
		func(n int) bool {
			s := New(nil)
			for i := 0; i < n; i++ {
				s.Dispatch(action.AddTrade(model.Trade{TimestampMs: int64(i)}))
			}
			trades := s.GetState().Coin.Trades
			if len(trades) != min(n, maxTrades) {
				return false
			}
			return n == 0 || trades[0].TimestampMs == int64(n-1)
		},
		gen.IntRange(0, 200),
	))

	properties.Property("用户成交最多保留 maxTrades 条且最新在前", prop.ForAll(
		func(n int) bool {
			s := New(nil)
			for i := 0; i < n; i++ {
				s.Dispatch(action.AddUserTrade(model.Trade{TimestampMs: int64(i)}))
				s.Dispatch(action.AddTrade(model.Trade{TimestampMs: int64(i)}))
			}
			st := s.GetState()
			if len(st.Coin.UserTrades) != min(n, maxTrades) || len(st.Coin.Trades) != min(n, maxTrades) {
				return false
			}
			if n == 0 {
				return st.Coin.UserTrades == nil
			}
			return st.Coin.UserTrades[0].TimestampMs == int64(n-1)
		},
		gen.IntRange(0, 200),
	))

	properties.Property("SetUserTrades 截断到 maxTrades 条", prop.ForAll(
		func(n int) bool {
			s := New(nil)
			s.Dispatch(action.SetUserTrades(make([]model.Trade, n)))
			trades := s.GetState().Coin.UserTrades
			return trades != nil && len(trades) == min(n, maxTrades)
		},
		gen.IntRange(0, 200),
	))

	properties.Property("通知最多保留 maxNotifications 条", prop.ForAll(
		func(n int) bool {
			s := New(nil)
			for i := 0; i < n; i++ {
				s.Dispatch(action.LocalMessage("m"))
			}
			return len(s.GetState().Notifications) == min(n, maxNotifications)
		},
		gen.IntRange(0, 300),
	))

	properties.TestingRun(t)
}

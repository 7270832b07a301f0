// Package socket 消息解析测试
package socket

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"trading-dashboard-client/internal/core/model"
)

// **Feature: trading-dashboard-client, Property 5: Socket Frame Parsing**

// TestParse_TickerRoundTrip 属性: 解析保留 ticker 价格并规范化交易对
func TestParse_TickerRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("解析保留价格与时间戳", prop.ForAll(
		func(bidCents, spread int64, ts int64) bool {
			bid := decimal.New(bidCents, -2)
			ask := bid.Add(decimal.New(spread, -2))
			frame := fmt.Sprintf(
				`{"nature":"TICKER","data":{"spec":{"exchange":"Binance","base":"btc","counter":"usdt"},"ticker":{"bid":"%s","ask":"%s","timestamp":%d}}}`,
				bid.String(), ask.String(), ts)

			ev, err := Parse([]byte(frame))
			if err != nil {
				return false
			}
			te, ok := ev.(TickerEvent)
			if !ok {
				return false
			}
			return te.Coin.Key() == "binance/BTC/USDT" &&
				te.Ticker.Bid.Equal(bid) &&
				te.Ticker.Ask.Equal(ask) &&
				te.Ticker.TimestampMs == ts
		},
		gen.Int64Range(1, 10_000_000),
		gen.Int64Range(0, 10_000),
		gen.Int64Range(0, 1<<41),
	))

	properties.TestingRun(t)
}

// TestParse_Natures 各消息类型解析为对应事件
func TestParse_Natures(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		check func(t *testing.T, ev Event)
	}{
		{
			name:  "balance",
			frame: `{"nature":"BALANCE","data":{"exchange":"Binance ","currency":"btc","balance":{"total":"1.5","available":"1"}}}`,
			check: func(t *testing.T, ev Event) {
				b := ev.(BalanceEvent)
				if b.Exchange != "binance" || b.Currency != "BTC" {
					t.Errorf("余额未规范化: %+v", b)
				}
				if !b.Balance.Total.Equal(decimal.RequireFromString("1.5")) || !b.Balance.Available.Equal(decimal.NewFromInt(1)) {
					t.Errorf("余额 = %+v, want 1.5/1", b.Balance)
				}
			},
		},
		{
			name:  "orderbook",
			frame: `{"nature":"ORDERBOOK","data":{"spec":{"exchange":"kraken","base":"ETH","counter":"EUR"},"orderBook":{"bids":[{"limitPrice":"100","originalAmount":"2"}],"asks":[]}}}`,
			check: func(t *testing.T, ev Event) {
				ob := ev.(OrderBookEvent)
				if ob.OrderBook == nil || len(ob.OrderBook.Bids) != 1 {
					t.Fatalf("订单簿解析错误: %+v", ob)
				}
			},
		},
		{
			name:  "trade",
			frame: `{"nature":"TRADE","data":{"spec":{"exchange":"kraken","base":"ETH","counter":"EUR"},"trade":{"id":"t1","type":"BID","price":"10","originalAmount":"1"}}}`,
			check: func(t *testing.T, ev Event) {
				if tr := ev.(TradeEvent); tr.Trade.ID != "t1" {
					t.Errorf("Trade.ID = %s, want t1", tr.Trade.ID)
				}
			},
		},
		{
			name:  "user trade",
			frame: `{"nature":"USER_TRADE","data":{"spec":{"exchange":"kraken","base":"ETH","counter":"EUR"},"trade":{"id":"u1","type":"ASK","price":"10","originalAmount":"1"}}}`,
			check: func(t *testing.T, ev Event) {
				if tr := ev.(UserTradeEvent); tr.Trade.ID != "u1" {
					t.Errorf("Trade.ID = %s, want u1", tr.Trade.ID)
				}
			},
		},
		{
			name:  "order update",
			frame: `{"nature":"ORDER_STATUS_CHANGE","data":{"spec":{"exchange":"kraken","base":"ETH","counter":"EUR"},"order":{"id":"o1","status":"NEW"},"timestamp":42}}`,
			check: func(t *testing.T, ev Event) {
				ou := ev.(OrderUpdateEvent)
				if ou.Order == nil || ou.Order.ID != "o1" || ou.TimestampMs != 42 {
					t.Errorf("订单更新解析错误: %+v", ou)
				}
			},
		},
		{
			name:  "open orders",
			frame: `{"nature":"OPEN_ORDERS","data":{"spec":{"exchange":"kraken","base":"ETH","counter":"EUR"},"orders":[{"id":"o1","status":"NEW"},{"id":"o2","status":"NEW"}],"timestamp":7}}`,
			check: func(t *testing.T, ev Event) {
				os := ev.(OrdersSnapshotEvent)
				if len(os.Orders) != 2 || os.TimestampMs != 7 {
					t.Errorf("挂单快照解析错误: %+v", os)
				}
			},
		},
		{
			name:  "error",
			frame: `{"nature":"ERROR","data":"boom"}`,
			check: func(t *testing.T, ev Event) {
				if e := ev.(ErrorEvent); e.Message != "boom" {
					t.Errorf("Message = %s, want boom", e.Message)
				}
			},
		},
		{
			name:  "notification",
			frame: `{"nature":"NOTIFICATION","data":{"message":"filled","level":"ALERT"}}`,
			check: func(t *testing.T, ev Event) {
				n := ev.(NotificationEvent)
				if n.Notification.Level != model.LevelAlert {
					t.Errorf("Level = %s, want ALERT", n.Notification.Level)
				}
			},
		},
		{
			name:  "status update falls back to correlation id",
			frame: `{"nature":"STATUS_UPDATE","data":{"status":"SUCCESS"},"correlationId":"req-1"}`,
			check: func(t *testing.T, ev Event) {
				if s := ev.(StatusUpdateEvent); s.Status.RequestID != "req-1" {
					t.Errorf("RequestID = %s, want req-1", s.Status.RequestID)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Parse([]byte(tt.frame))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.check(t, ev)
		})
	}
}

// TestParse_Invalid 非法消息返回错误
func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte(`{"nature":"WHATEVER","data":{}}`)); !errors.Is(err, ErrUnknownNature) {
		t.Errorf("未知类型应返回 ErrUnknownNature, got %v", err)
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Error("非 JSON 应返回错误")
	}
	if _, err := Parse([]byte(`{"nature":"TICKER"}`)); err == nil {
		t.Error("缺少 data 应返回错误")
	}
}

// TestBuildSubscriptionRequests 订阅命令序列
func TestBuildSubscriptionRequests(t *testing.T) {
	btc := model.NewCoin("binance", "BTC", "USDT")
	eth := model.NewCoin("kraken", "ETH", "EUR")
	sol := model.NewCoin("binance", "SOL", "USDT")

	n := 0
	newID := func() string {
		n++
		return "req-" + strconv.Itoa(n)
	}

	reqs := BuildSubscriptionRequests([]model.Coin{btc, eth, btc}, &sol, newID)
	if len(reqs) != 7 {
		t.Fatalf("len(reqs) = %d, want 7", len(reqs))
	}
	if reqs[0].Command != CommandChangeTickers || len(reqs[0].Tickers) != 3 {
		t.Errorf("ticker 订阅应去重并包含选中交易对: %+v", reqs[0])
	}
	for _, r := range reqs[1:6] {
		if len(r.Tickers) != 1 || r.Tickers[0] != sol {
			t.Errorf("%s 应只作用于选中交易对: %+v", r.Command, r.Tickers)
		}
	}
	if reqs[6].Command != CommandUpdateSubscriptions {
		t.Errorf("最后一条命令应为 UPDATE_SUBSCRIPTIONS, got %s", reqs[6].Command)
	}
	if reqs[6].RequestID != "req-7" {
		t.Errorf("RequestID = %s, want req-7", reqs[6].RequestID)
	}

	none := BuildSubscriptionRequests([]model.Coin{btc}, nil, newID)
	for _, r := range none[1:6] {
		if len(r.Tickers) != 0 {
			t.Errorf("未选中交易对时 %s 不应带交易对", r.Command)
		}
	}

	data, err := json.Marshal(none[1])
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	if string(data) != `{"command":"CHANGE_OPEN_ORDERS","requestId":"req-9"}` {
		t.Errorf("序列化结果 = %s", data)
	}
}

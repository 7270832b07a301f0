package socket

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"trading-dashboard-client/internal/core/model"
)

// ErrUnknownNature 未知消息类型
var ErrUnknownNature = errors.New("未知消息类型")

// Parse 解析服务端推送
// 参数 data: 原始消息字节
// 返回: 对应的 Event 变体
func Parse(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("解析消息外层失败: %w", err)
	}

	switch env.Nature {
	case NatureTicker:
		var d tickerData
		if err := decode(env, &d); err != nil {
			return nil, err
		}
		return TickerEvent{Coin: normalize(d.Spec), Ticker: d.Ticker}, nil

	case NatureBalance:
		var d balanceData
		if err := decode(env, &d); err != nil {
			return nil, err
		}
		return BalanceEvent{
			Exchange: strings.ToLower(strings.TrimSpace(d.Exchange)),
			Currency: strings.ToUpper(strings.TrimSpace(d.Currency)),
			Balance:  d.Balance,
		}, nil

	case NatureOrderBook:
		var d orderBookData
		if err := decode(env, &d); err != nil {
			return nil, err
		}
		return OrderBookEvent{Coin: normalize(d.Spec), OrderBook: d.OrderBook}, nil

	case NatureTrade:
		var d tradeData
		if err := decode(env, &d); err != nil {
			return nil, err
		}
		return TradeEvent{Coin: normalize(d.Spec), Trade: d.Trade}, nil

	case NatureUserTrade:
		var d tradeData
		if err := decode(env, &d); err != nil {
			return nil, err
		}
		return UserTradeEvent{Coin: normalize(d.Spec), Trade: d.Trade}, nil

	case NatureOrderUpdate:
		var d orderUpdateData
		if err := decode(env, &d); err != nil {
			return nil, err
		}
		return OrderUpdateEvent{Coin: normalize(d.Spec), Order: d.Order, TimestampMs: d.Timestamp}, nil

	case NatureOpenOrders:
		var d openOrdersData
		if err := decode(env, &d); err != nil {
			return nil, err
		}
		return OrdersSnapshotEvent{Coin: normalize(d.Spec), Orders: d.Orders, TimestampMs: d.Timestamp}, nil

	case NatureError:
		var msg string
		if err := decode(env, &msg); err != nil {
			return nil, err
		}
		return ErrorEvent{Message: msg}, nil

	case NatureNotification:
		var n model.Notification
		if err := decode(env, &n); err != nil {
			return nil, err
		}
		return NotificationEvent{Notification: n}, nil

	case NatureStatusUpdate:
		var s model.StatusUpdate
		if err := decode(env, &s); err != nil {
			return nil, err
		}
		if s.RequestID == "" {
			s.RequestID = env.CorrelationID
		}
		return StatusUpdateEvent{Status: s}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownNature, env.Nature)
}

func decode(env Envelope, v any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("%s 消息缺少 data", env.Nature)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("解析 %s 消息失败: %w", env.Nature, err)
	}
	return nil
}

// normalize 统一交易所/币种大小写，保证 Key 可比较
func normalize(c model.Coin) model.Coin {
	return model.NewCoin(c.Exchange, c.Base, c.Counter)
}

// BuildSubscriptionRequests 构建一次完整重订阅的命令序列
// 所有跟踪交易对订阅 ticker；选中交易对额外订阅挂单、订单簿、成交、用户成交与余额。
// 参数 newID: 请求 ID 生成函数
func BuildSubscriptionRequests(coins []model.Coin, selected *model.Coin, newID func() string) []Request {
	tickers := make([]model.Coin, 0, len(coins)+1)
	seen := make(map[string]struct{}, len(coins)+1)
	add := func(c model.Coin) {
		if _, ok := seen[c.Key()]; ok {
			return
		}
		seen[c.Key()] = struct{}{}
		tickers = append(tickers, c)
	}
	for _, c := range coins {
		add(c)
	}

	var focus []model.Coin
	if selected != nil {
		add(*selected)
		focus = []model.Coin{*selected}
	}

	return []Request{
		{Command: CommandChangeTickers, Tickers: tickers, RequestID: newID()},
		{Command: CommandChangeOpenOrders, Tickers: focus, RequestID: newID()},
		{Command: CommandChangeOrderBook, Tickers: focus, RequestID: newID()},
		{Command: CommandChangeTrades, Tickers: focus, RequestID: newID()},
		{Command: CommandChangeUserTrades, Tickers: focus, RequestID: newID()},
		{Command: CommandChangeBalance, Tickers: focus, RequestID: newID()},
		{Command: CommandUpdateSubscriptions, RequestID: newID()},
	}
}

package store

import (
	"go.uber.org/zap"

	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
)

// reduce 应用单个动作，调用方须持有写锁
func (s *Store) reduce(a action.Action) {
	s.dispatched++
	st := &s.state

	switch a.Kind {
	case action.KindSetTicker:
		p := a.Payload.(action.TickerPayload)
		st.Tickers[p.Coin.Key()] = p.Ticker

	case action.KindSetBalance:
		p := a.Payload.(action.BalancePayload)
		st.Coin.Balances[p.Currency] = p.Balance
	case action.KindClearBalances:
		st.Coin.Balances = make(map[string]model.Balance)

	case action.KindSetOrderBook:
		st.Coin.OrderBook, _ = a.Payload.(*model.OrderBook)

	case action.KindAddTrade:
		st.Coin.Trades = prependTrade(st.Coin.Trades, a.Payload.(model.Trade))
	case action.KindClearTrades:
		st.Coin.Trades = nil
	case action.KindAddUserTrade:
		st.Coin.UserTrades = prependTrade(st.Coin.UserTrades, a.Payload.(model.Trade))
	case action.KindSetUserTrades:
		trades := a.Payload.([]model.Trade)
		st.Coin.UserTrades = append(make([]model.Trade, 0, min(len(trades), maxTrades)), trades[:min(len(trades), maxTrades)]...)
	case action.KindClearUserTrades:
		st.Coin.UserTrades = nil

	case action.KindOrderUpdated:
		s.orderUpdated(a.Payload.(action.OrderUpdatePayload))
	case action.KindSetOrders:
		orders := a.Payload.([]model.Order)
		st.Coin.Orders = append(make([]model.Order, 0, len(orders)), orders...)
		st.Coin.orderStamps = make(map[string]int64, len(orders))
	case action.KindAddOrder:
		order := a.Payload.(model.Order)
		st.Coin.Orders = upsertOrder(st.Coin.Orders, order)
	case action.KindClearOrders:
		st.Coin.Orders = nil
		st.Coin.orderStamps = make(map[string]int64)
	case action.KindCancelOrder:
		id := a.Payload.(string)
		for i := range st.Coin.Orders {
			if st.Coin.Orders[i].ID == id {
				st.Coin.Orders[i].Status = model.StatusPendingCancel
			}
		}

	case action.KindSetCoins:
		st.Coins.Coins = append([]model.Coin(nil), a.Payload.([]model.Coin)...)
	case action.KindAddCoin:
		coin := a.Payload.(model.Coin)
		for _, c := range st.Coins.Coins {
			if c.Key() == coin.Key() {
				return
			}
		}
		st.Coins.Coins = append(st.Coins.Coins, coin)
	case action.KindRemoveCoin:
		key := a.Payload.(model.Coin).Key()
		kept := st.Coins.Coins[:0]
		for _, c := range st.Coins.Coins {
			if c.Key() != key {
				kept = append(kept, c)
			}
		}
		st.Coins.Coins = kept
		delete(st.Tickers, key)

	case action.KindLocationChanged:
		st.Router.Location = a.Payload.(string)

	case action.KindAddNotification, action.KindLocalMessage, action.KindLocalError:
		st.Notifications = appendNotification(st.Notifications, a.Payload.(model.Notification))
	case action.KindStatusUpdate:
		status := a.Payload.(model.StatusUpdate)
		st.Statuses[status.RequestID] = status

	default:
		s.logger.Warn("未知动作类型，已忽略", zap.String("kind", string(a.Kind)))
	}
}

// orderUpdated 处理单笔订单更新
// 规则：
// - order 为 nil：确认没有挂单，未知状态变为空列表
// - 时间戳早于该订单上次更新：丢弃
// - 终结状态：从列表移除（未知 ID 直接忽略）
// - 其他：插入或替换
func (s *Store) orderUpdated(p action.OrderUpdatePayload) {
	c := &s.state.Coin
	if p.Order == nil {
		if c.Orders == nil {
			c.Orders = []model.Order{}
		}
		return
	}

	order := *p.Order
	if last, ok := c.orderStamps[order.ID]; ok && p.TimestampMs < last {
		return
	}
	c.orderStamps[order.ID] = p.TimestampMs

	if order.Status.IsTerminal() {
		c.Orders = removeOrder(c.Orders, order.ID)
		return
	}
	c.Orders = upsertOrder(c.Orders, order)
}

func upsertOrder(orders []model.Order, order model.Order) []model.Order {
	for i := range orders {
		if orders[i].ID == order.ID {
			orders[i] = order
			return orders
		}
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return append(orders, order)
}

func removeOrder(orders []model.Order, id string) []model.Order {
	if orders == nil {
		return nil
	}
	kept := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	return kept
}

func prependTrade(trades []model.Trade, trade model.Trade) []model.Trade {
	out := make([]model.Trade, 0, min(len(trades)+1, maxTrades))
	out = append(out, trade)
	for _, t := range trades {
		if len(out) >= maxTrades {
			break
		}
		out = append(out, t)
	}
	return out
}

func appendNotification(list []model.Notification, n model.Notification) []model.Notification {
	list = append(list, n)
	if len(list) > maxNotifications {
		list = append([]model.Notification(nil), list[len(list)-maxNotifications:]...)
	}
	return list
}

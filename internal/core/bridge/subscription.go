package bridge

import (
	"go.uber.org/zap"

	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
	"trading-dashboard-client/internal/core/nav"
)

// onLocationChange 导航变化时检测选中交易对是否变化
// 变化时重订阅并清理上一个交易对的状态：余额与订单簿的待派发条目被替换，
// 用户成交、成交、余额的清空动作排入缓冲，挂单立即清空。
func (b *Bridge) onLocationChange(location string) {
	coin := nav.LocationToCoin(location)
	if model.SameSelection(b.previousCoin, coin) {
		return
	}
	b.previousCoin = coin
	b.logger.Info("选中交易对变化，重新订阅", zap.String("coin", coinKey(coin)))

	b.adapter.ChangeSubscriptions(b.trackedCoins(), coin)
	b.adapter.Resubscribe()

	b.buffer.ClearPrefix(keyBalance)
	b.buffer.BufferLatest(keyOrderBook, action.SetOrderBook(nil))
	b.buffer.BufferAll(action.ClearUserTrades())
	b.dispatch(kindSubscription, action.ClearOrders())
	b.buffer.BufferAll(action.ClearTrades())
	b.buffer.BufferAll(action.ClearBalances())
}

// resubscribe 按 store 中跟踪与选中的交易对完整重订阅
func (b *Bridge) resubscribe() {
	b.adapter.ChangeSubscriptions(b.trackedCoins(), b.selectedCoin())
	b.adapter.Resubscribe()
}

func coinKey(c *model.Coin) string {
	if c == nil {
		return ""
	}
	return c.Key()
}

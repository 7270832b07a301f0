// Package nav 提供进程内导航历史与位置选择器。
// 位置格式: /coin/{exchange}/{base}/{counter}
package nav

import (
	"strings"
	"sync"

	"trading-dashboard-client/internal/core/action"
	"trading-dashboard-client/internal/core/model"
)

// coinPrefix 交易对页面路径前缀
const coinPrefix = "/coin/"

// LocationToCoin 将导航位置映射为交易对
// 非交易对页面或路径不完整时返回 nil。
func LocationToCoin(location string) *model.Coin {
	path := location
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, coinPrefix) {
		return nil
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, coinPrefix), "/"), "/")
	if len(parts) != 3 {
		return nil
	}
	for _, p := range parts {
		if p == "" {
			return nil
		}
	}
	coin := model.NewCoin(parts[0], parts[1], parts[2])
	return &coin
}

// CoinLocation 返回交易对页面的导航位置
func CoinLocation(coin model.Coin) string {
	return coinPrefix + coin.Exchange + "/" + coin.Base + "/" + coin.Counter
}

// Listener 导航变化回调
type Listener func(location string)

// History 进程内导航历史
// Push 会按注册顺序同步调用所有监听者。
type History struct {
	mu        sync.Mutex
	location  string
	listeners map[int]Listener
	order     []int
	nextID    int
}

// NewHistory 创建导航历史
// 参数 initial: 初始位置
func NewHistory(initial string) *History {
	return &History{
		location:  initial,
		listeners: make(map[int]Listener),
	}
}

// Location 返回当前位置
func (h *History) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

// Push 跳转到新位置并通知监听者
func (h *History) Push(location string) {
	h.mu.Lock()
	h.location = location
	listeners := make([]Listener, 0, len(h.order))
	for _, id := range h.order {
		if l, ok := h.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	h.mu.Unlock()

	for _, l := range listeners {
		l(location)
	}
}

// Listen 注册监听者
// 返回: 取消监听函数（可重复调用）
func (h *History) Listen(l Listener) (unlisten func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	h.order = append(h.order, id)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.listeners, id)
			for i, v := range h.order {
				if v == id {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Dispatcher store 的派发能力
type Dispatcher interface {
	Dispatch(a action.Action)
}

// SyncRouter 将导航位置同步到 store 的路由状态
// 须在其它依赖路由状态的监听者之前注册。
func SyncRouter(h *History, d Dispatcher) (unlisten func()) {
	d.Dispatch(action.LocationChanged(h.Location()))
	return h.Listen(func(location string) {
		d.Dispatch(action.LocationChanged(location))
	})
}

package bridge

import (
	"strings"

	"trading-dashboard-client/internal/core/action"
)

// 去重缓冲区键前缀
const (
	keyTicker    = "ticker"
	keyBalance   = "balance"
	keyOrderBook = "orderbook"
)

// ActionBuffer 待派发动作缓冲区
// latest 每个键只保留最新一条；all 按到达顺序保留全部。
// 非并发安全，只由 bridge 循环 goroutine 访问。
type ActionBuffer struct {
	latest map[string]action.Action
	all    []action.Action
}

// NewActionBuffer 创建空缓冲区
func NewActionBuffer() *ActionBuffer {
	return &ActionBuffer{latest: make(map[string]action.Action)}
}

// BufferLatest 写入或覆盖 key 对应的待派发动作
func (b *ActionBuffer) BufferLatest(key string, a action.Action) {
	b.latest[key] = a
}

// BufferAll 追加一条不去重的动作
func (b *ActionBuffer) BufferAll(a action.Action) {
	b.all = append(b.all, a)
}

// ClearPrefix 删除所有以 prefix 开头的去重条目
// 返回: 删除的条目数
func (b *ActionBuffer) ClearPrefix(prefix string) int {
	n := 0
	for key := range b.latest {
		if strings.HasPrefix(key, prefix) {
			delete(b.latest, key)
			n++
		}
	}
	return n
}

// FlushAndClear 取出全部待派发动作并清空缓冲区
// 返回: 先去重条目（顺序不定），后全量条目（到达顺序）
func (b *ActionBuffer) FlushAndClear() []action.Action {
	if len(b.latest) == 0 && len(b.all) == 0 {
		return nil
	}

	out := make([]action.Action, 0, len(b.latest)+len(b.all))
	for _, a := range b.latest {
		out = append(out, a)
	}
	out = append(out, b.all...)

	b.latest = make(map[string]action.Action, len(b.latest))
	b.all = nil
	return out
}

// Len 待派发动作数
func (b *ActionBuffer) Len() int {
	return len(b.latest) + len(b.all)
}

// Package latency 维护心跳往返时延的滚动窗口统计。
package latency

import (
	"sort"
	"sync"
)

// RTTStats 往返时延统计快照（滚动窗口）
// 单位：毫秒。
type RTTStats struct {
	// Count 样本总数（累计）
	Count int64 `json:"count"`
	// LastMs 最近一次样本
	LastMs float64 `json:"last_ms"`
	// P50Ms 窗口内 P50
	P50Ms float64 `json:"p50_ms"`
	// P90Ms 窗口内 P90
	P90Ms float64 `json:"p90_ms"`
	// P99Ms 窗口内 P99
	P99Ms float64 `json:"p99_ms"`
}

// Tracker 往返时延追踪器，并发安全
type Tracker struct {
	mu    sync.Mutex
	size  int
	buf   []int64
	pos   int
	count int64
	last  int64
}

// NewTracker 创建追踪器
// 参数 windowSize: 滚动窗口大小，<=0 时只计数不保留样本
func NewTracker(windowSize int) *Tracker {
	if windowSize < 0 {
		windowSize = 0
	}
	return &Tracker{size: windowSize, buf: make([]int64, 0, windowSize)}
}

// Add 记录一次往返时延（纳秒），负值被忽略
func (t *Tracker) Add(rttNs int64) {
	if rttNs < 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	t.last = rttNs
	if t.size == 0 {
		return
	}
	if len(t.buf) < t.size {
		t.buf = append(t.buf, rttNs)
		return
	}
	t.buf[t.pos] = rttNs
	t.pos = (t.pos + 1) % t.size
}

// Stats 获取统计快照
func (t *Tracker) Stats() RTTStats {
	t.mu.Lock()
	count, last := t.count, t.last
	tmp := make([]int64, len(t.buf))
	copy(tmp, t.buf)
	t.mu.Unlock()

	stats := RTTStats{Count: count, LastMs: nsToMs(last)}
	if len(tmp) == 0 {
		return stats
	}

	sort.Slice(tmp, func(i, j int) bool { return tmp[i] < tmp[j] })
	stats.P50Ms = nsToMs(quantile(tmp, 0.50))
	stats.P90Ms = nsToMs(quantile(tmp, 0.90))
	stats.P99Ms = nsToMs(quantile(tmp, 0.99))
	return stats
}

// quantile 已排序样本的下取整分位数
func quantile(sorted []int64, q float64) int64 {
	n := len(sorted)
	switch {
	case q <= 0:
		return sorted[0]
	case q >= 1:
		return sorted[n-1]
	}
	idx := int(float64(n-1) * q)
	return sorted[idx]
}

func nsToMs(ns int64) float64 {
	return float64(ns) / 1_000_000.0
}

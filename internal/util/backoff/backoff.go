// Package backoff 计算 socket 断线重连的等待时间。
// 等待时间按指数增长并封顶，叠加随机抖动，避免多个客户端同时重连。
package backoff

import (
	"context"
	"math/rand"
	"time"
)

// maxShift 位移上限，防止 attempt 过大时 int64 溢出
const maxShift = 30

// Backoff 指数退避计算器
// 非并发安全，只应由重连循环所在的 goroutine 使用
type Backoff struct {
	// base 第一次重试的等待时间
	base time.Duration
	// max 等待时间上限（抖动前）
	max time.Duration
	// jitter 抖动比例（0-1）
	jitter float64
	// attempt 自上次 Reset 以来的重试次数
	attempt int
}

// New 创建退避计算器
// 参数 base: 基础等待时间
// 参数 max: 最大等待时间，小于 base 时按 base 处理
// 参数 jitter: 抖动比例，超出 [0, 1] 时截断
func New(base, max time.Duration, jitter float64) *Backoff {
	if max < base {
		max = base
	}
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	return &Backoff{base: base, max: max, jitter: jitter}
}

// NewFromMillis 按毫秒配置创建退避计算器，抖动固定 ±20%
func NewFromMillis(baseMs, maxMs int) *Backoff {
	return New(time.Duration(baseMs)*time.Millisecond, time.Duration(maxMs)*time.Millisecond, 0.2)
}

// Next 返回下一次重试前的等待时间并推进重试次数
// 计算方式: min(base * 2^attempt, max) * (1 ± jitter)
func (b *Backoff) Next() time.Duration {
	shift := b.attempt
	if shift > maxShift {
		shift = maxShift
	}
	delay := b.base * time.Duration(int64(1)<<shift)
	if delay > b.max || delay < 0 {
		delay = b.max
	}

	if b.jitter > 0 {
		factor := 1.0 + (rand.Float64()*2-1)*b.jitter
		delay = time.Duration(float64(delay) * factor)
	}

	b.attempt++
	return delay
}

// Wait 阻塞 Next() 返回的时长
// 返回: ctx 先结束时返回 ctx.Err()
func (b *Backoff) Wait(ctx context.Context) error {
	timer := time.NewTimer(b.Next())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reset 连接成功后调用，下次从 base 重新开始
func (b *Backoff) Reset() {
	b.attempt = 0
}

// Attempt 自上次 Reset 以来的重试次数
func (b *Backoff) Attempt() int {
	return b.attempt
}

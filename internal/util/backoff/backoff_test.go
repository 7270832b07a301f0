// Package backoff 退避算法测试
package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// **Feature: trading-dashboard-client, Property 8: Reconnect Backoff Bounds**

// TestBackoff_MonotonicUntilCap 无抖动时等待时间单调不减且不超过上限
func TestBackoff_MonotonicUntilCap(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("等待时间单调不减且封顶", prop.ForAll(
		func(baseMs int, maxMs int, attempts int) bool {
			base := time.Duration(baseMs) * time.Millisecond
			max := time.Duration(maxMs) * time.Millisecond
			b := New(base, max, 0)

			prev := time.Duration(0)
			for i := 0; i < attempts; i++ {
				delay := b.Next()
				if delay < prev || delay > max {
					return false
				}
				prev = delay
			}
			return b.Attempt() == attempts
		},
		gen.IntRange(100, 2000),
		gen.IntRange(5000, 60000),
		gen.IntRange(1, 80),
	))

	properties.TestingRun(t)
}

// TestBackoff_JitterBounds 抖动后的等待时间落在 base*(1±jitter) 内
func TestBackoff_JitterBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("抖动在指定范围内", prop.ForAll(
		func(jitterPercent int) bool {
			jitter := float64(jitterPercent) / 100.0
			b := New(time.Second, 30*time.Second, jitter)

			for i := 0; i < 50; i++ {
				b.Reset()
				delay := float64(b.Next())
				if delay < float64(time.Second)*(1-jitter) || delay > float64(time.Second)*(1+jitter) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

// TestBackoff_Reset 重置后从 base 重新开始
func TestBackoff_Reset(t *testing.T) {
	b := New(time.Second, 30*time.Second, 0)
	for i := 0; i < 7; i++ {
		b.Next()
	}
	b.Reset()
	if b.Attempt() != 0 {
		t.Fatalf("Attempt() = %d, want 0", b.Attempt())
	}
	if d := b.Next(); d != time.Second {
		t.Errorf("重置后 Next() = %v, want 1s", d)
	}
}

// TestBackoff_SpecificValues 无抖动时的具体数值
func TestBackoff_SpecificValues(t *testing.T) {
	b := NewFromMillis(1000, 30000)
	b.jitter = 0

	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Errorf("第 %d 次 Next() = %v, want %v", i, got, w)
		}
	}
}

// TestBackoff_NormalizesArguments 参数截断
func TestBackoff_NormalizesArguments(t *testing.T) {
	b := New(2*time.Second, time.Second, 3)
	if b.max != 2*time.Second {
		t.Errorf("max = %v, want 2s", b.max)
	}
	if b.jitter != 1 {
		t.Errorf("jitter = %v, want 1", b.jitter)
	}

	m := NewFromMillis(1000, 30000)
	if m.base != time.Second || m.max != 30*time.Second || m.jitter != 0.2 {
		t.Errorf("毫秒配置错误: %+v", m)
	}
}

// TestBackoff_WaitCancelled ctx 取消时 Wait 立即返回
func TestBackoff_WaitCancelled(t *testing.T) {
	b := New(time.Hour, time.Hour, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() = %v, want context.Canceled", err)
	}
}

// TestBackoff_WaitElapses 等待时间到期返回 nil
func TestBackoff_WaitElapses(t *testing.T) {
	b := New(time.Millisecond, time.Millisecond, 0)
	if err := b.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() = %v, want nil", err)
	}
}

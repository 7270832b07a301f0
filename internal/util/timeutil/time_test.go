package timeutil

import (
	"testing"
	"time"
)

func TestNowNano_Monotonic(t *testing.T) {
	prev := NowNano()
	for i := 0; i < 1000; i++ {
		now := NowNano()
		if now < prev {
			t.Fatalf("NowNano 回退: prev=%d now=%d", prev, now)
		}
		prev = now
	}
}

func TestMillis(t *testing.T) {
	if d := Millis(250, time.Second); d != 250*time.Millisecond {
		t.Fatalf("期望 250ms, 实际 %s", d)
	}
	if d := Millis(0, time.Second); d != time.Second {
		t.Fatalf("非正数应返回 fallback, 实际 %s", d)
	}
	if d := Millis(-5, 2*time.Second); d != 2*time.Second {
		t.Fatalf("非正数应返回 fallback, 实际 %s", d)
	}
}

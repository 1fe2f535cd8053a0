package batch

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testConfig(workers int) Config {
	logger := zerolog.Nop()
	return Config{MaxConcurrency: workers, Logger: &logger}
}

func TestMap_PreservesOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1}

	got := Map(context.Background(), testConfig(3), items, func(ctx context.Context, n int) int {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10
	})

	want := []int{50, 40, 30, 20, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMap_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	Map(context.Background(), testConfig(4), items, func(ctx context.Context, _ int) struct{} {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}
	})

	if got := peak.Load(); got > 4 {
		t.Errorf("peak concurrency = %d, want at most 4", got)
	}
}

func TestMap_Empty(t *testing.T) {
	got := Map(context.Background(), testConfig(4), []string(nil), func(ctx context.Context, s string) int {
		t.Fatal("fn should not be called")
		return 0
	})
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestMap_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	got := Map(ctx, testConfig(2), []int{1, 2, 3}, func(ctx context.Context, n int) int {
		calls.Add(1)
		return n
	})

	if calls.Load() != 0 {
		t.Errorf("fn called %d times after cancellation", calls.Load())
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("result[%d] = %d, want zero value", i, v)
		}
	}
}

func TestMap_ItemTimeout(t *testing.T) {
	cfg := testConfig(1)
	cfg.Timeout = 20 * time.Millisecond

	got := Map(context.Background(), cfg, []int{1}, func(ctx context.Context, _ int) bool {
		select {
		case <-ctx.Done():
			return true
		case <-time.After(time.Second):
			return false
		}
	})

	if !got[0] {
		t.Error("item context should expire after Timeout")
	}
}

func TestMap_ComponentLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel)
	cfg := Config{MaxConcurrency: 2, Logger: &logger}

	Map(context.Background(), cfg, []int{1, 2}, func(ctx context.Context, n int) int { return n })

	out := buf.String()
	if !strings.Contains(out, `"component":"batch"`) {
		t.Errorf("Expected component field, got %q", out)
	}
	if !strings.Contains(out, "Batch complete") {
		t.Errorf("Expected completion log, got %q", out)
	}
}

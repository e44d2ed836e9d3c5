package obslog_test

import (
	"io"
	"testing"

	"github.com/rs/zerolog"

	"aerox/internal/obslog"
)

func TestThrottledAllowsBurstThenLimits(t *testing.T) {
	log := zerolog.New(io.Discard)
	th := obslog.NewThrottled(log, 1, 2)

	if !th.Allow() {
		t.Fatal("expected the first call within burst to be allowed")
	}
	if !th.Allow() {
		t.Fatal("expected the second call within burst to be allowed")
	}
	if th.Allow() {
		t.Fatal("expected a call beyond the burst to be throttled")
	}
}

func TestThrottledWarnRespectsLimiter(t *testing.T) {
	log := zerolog.New(io.Discard)
	th := obslog.NewThrottled(log, 1, 1)

	th.Warn("first")
	if th.Allow() {
		t.Fatal("expected the limiter to be exhausted after the burst")
	}
}

package boardfx

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugStatsAndLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := DefaultConfig()
	cfg.Debug = true
	m := NewManualScheduler()
	e, err := NewEngine(newRecordSurface(0, 0), m, cfg, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}
	e.Particles().CreateMoneyEffect(0, 0, 1, true)
	e.Start()
	m.Step(20)

	frames := logs.FilterMessage("frame").All()
	if len(frames) != 1 {
		t.Fatalf("frame logs = %d, want 1", len(frames))
	}
	fields := frames[0].ContextMap()
	if fields["particles"] != int64(1) || fields["dt_ms"] != float64(20) {
		t.Errorf("fields = %v", fields)
	}
	if st := e.Stats(); st.AdvanceTime < 0 || st.RenderTime < 0 {
		t.Errorf("timings = %+v", st)
	}
}

func TestDebugOffSkipsLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, _, m := newTestEngine(t, WithLogger(zap.New(core)))
	e.Start()
	m.Step(16)
	if n := logs.FilterMessage("frame").Len(); n != 0 {
		t.Errorf("frame logs = %d with debug off", n)
	}
	if st := e.Stats(); st.AdvanceTime != 0 || st.RenderTime != 0 {
		t.Errorf("timings measured with debug off: %+v", st)
	}
}

package snake

import (
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/neonsnake/internal/core"
)

func TestEngineDeterminism(t *testing.T) {
	// Two engines with the same seed should produce identical snapshots
	e1 := NewEngine(DefaultRules(), rand.New(rand.NewSource(12345)))
	e2 := NewEngine(DefaultRules(), rand.New(rand.NewSource(12345)))

	e1.Handle(Start())
	e2.Handle(Start())

	for i := 0; i < 100; i++ {
		var cmd Command
		switch i {
		case 5:
			cmd = Move(core.DirDown)
		case 15:
			cmd = Move(core.DirLeft)
		case 25:
			cmd = Move(core.DirUp)
		}
		if cmd.Kind != 0 {
			e1.Handle(cmd)
			e2.Handle(cmd)
		}
		e1.Tick(100 * time.Millisecond)
		e2.Tick(100 * time.Millisecond)
	}

	s1, s2 := e1.Snapshot(), e2.Snapshot()
	if s1.DebugState() != s2.DebugState() {
		t.Errorf("snapshots differ:\n%s\nvs\n%s", s1.DebugState(), s2.DebugState())
	}
}

func TestEngineLifecycle(t *testing.T) {
	e := NewEngine(DefaultRules(), rand.New(rand.NewSource(1)))

	if e.Status() != StatusReady {
		t.Fatalf("new engine status = %v, expected ready", e.Status())
	}
	if events := e.Tick(time.Second); events != nil {
		t.Errorf("tick while ready emitted %v", events)
	}

	events := e.Handle(Start())
	if e.Status() != StatusPlaying || !hasEvent[Started](events) {
		t.Fatalf("after start: status=%v events=%v", e.Status(), events)
	}

	e.Tick(100 * time.Millisecond)
	if e.Ticks() != 1 {
		t.Errorf("Ticks() = %d, expected 1", e.Ticks())
	}

	e.Handle(Pause())
	e.Tick(100 * time.Millisecond)
	if e.Ticks() != 1 {
		t.Errorf("tick while paused should not count, Ticks() = %d", e.Ticks())
	}

	e.Handle(Restart())
	if e.Ticks() != 0 || e.Status() != StatusPlaying {
		t.Errorf("after restart: ticks=%d status=%v", e.Ticks(), e.Status())
	}
}

func TestEngineSnapshotIsolated(t *testing.T) {
	e := NewEngine(DefaultRules(), rand.New(rand.NewSource(3)))
	e.Handle(Start())

	snap := e.Snapshot()
	snap.Snake[0] = core.Pos(-5, -5)

	if e.Snapshot().Head() == core.Pos(-5, -5) {
		t.Error("mutating a snapshot leaked into the engine")
	}
}

func TestEngineBaseSpeedAppliesOnRestart(t *testing.T) {
	e := NewEngine(DefaultRules(), rand.New(rand.NewSource(3)))
	e.Handle(Start())

	e.SetBaseSpeed(40 * time.Millisecond)
	if e.Speed() != 100*time.Millisecond {
		t.Errorf("running game speed changed to %v", e.Speed())
	}

	e.Handle(Restart())
	if e.Speed() != 40*time.Millisecond {
		t.Errorf("speed after restart = %v, expected 40ms", e.Speed())
	}
}

func TestEngineGameOverResult(t *testing.T) {
	e := NewEngine(DefaultRules(), rand.New(rand.NewSource(5)))
	e.Handle(Start())

	// Heading right from (10,10) hits the wall at x=40 after 30 ticks.
	var over *GameOver
	for i := 0; i < 40 && over == nil; i++ {
		for _, ev := range e.Tick(100 * time.Millisecond) {
			if g, ok := ev.(GameOver); ok {
				over = &g
			}
		}
	}

	if over == nil {
		t.Fatal("expected a GameOver event")
	}
	if over.Result.Mode != ModeClassic {
		t.Errorf("Mode = %q, expected classic", over.Result.Mode)
	}
	if over.Result.Duration <= 0 {
		t.Errorf("Duration = %v, expected > 0", over.Result.Duration)
	}
	if e.Status() != StatusGameOver {
		t.Errorf("Status = %v, expected game over", e.Status())
	}
	if events := e.Tick(100 * time.Millisecond); len(events) != 0 {
		t.Errorf("tick after game over emitted %v", events)
	}
}

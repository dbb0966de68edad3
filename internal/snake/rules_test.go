package snake

import (
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/neonsnake/internal/core"
)

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// playing returns a playing state with the given body and heading.
func playing(body []core.Position, dir core.Direction, food core.Position) State {
	return State{
		Snake:         body,
		Food:          food,
		Direction:     dir,
		NextDirection: dir,
		Level:         1,
		Speed:         100 * time.Millisecond,
		BaseSpeed:     100 * time.Millisecond,
		Status:        StatusPlaying,
	}
}

func hasEvent[T Event](events []Event) bool {
	for _, ev := range events {
		if _, ok := ev.(T); ok {
			return true
		}
	}
	return false
}

func countEvents[T Event](events []Event) int {
	n := 0
	for _, ev := range events {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}

func TestStartLayout(t *testing.T) {
	rules := DefaultRules()
	s, events := rules.Start(newRNG())

	if s.Status != StatusPlaying {
		t.Errorf("Status = %v, expected playing", s.Status)
	}
	want := []core.Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}
	if len(s.Snake) != len(want) {
		t.Fatalf("snake length = %d, expected %d", len(s.Snake), len(want))
	}
	for i := range want {
		if s.Snake[i] != want[i] {
			t.Errorf("segment %d = %v, expected %v", i, s.Snake[i], want[i])
		}
	}
	if s.Score != 0 || s.Level != 1 || s.Speed != rules.BaseSpeed {
		t.Errorf("score/level/speed = %d/%d/%v, expected 0/1/%v", s.Score, s.Level, s.Speed, rules.BaseSpeed)
	}
	if s.Direction != core.DirRight {
		t.Errorf("Direction = %v, expected right", s.Direction)
	}
	if s.Occupies(s.Food) || !rules.Grid.Contains(s.Food) {
		t.Errorf("food %v must be a free in-bounds cell", s.Food)
	}
	if !hasEvent[Started](events) {
		t.Error("Start should emit Started")
	}
}

func TestStartLayoutFitsMinGrid(t *testing.T) {
	grid := MinGrid()
	if grid.Width != 12 || grid.Height != 11 {
		t.Errorf("MinGrid() = %dx%d, expected 12x11", grid.Width, grid.Height)
	}

	rules := DefaultRules()
	rules.Grid = grid
	s, _ := rules.Start(newRNG())
	for i, seg := range s.Snake {
		if !grid.Contains(seg) {
			t.Errorf("segment %d %v outside %dx%d grid", i, seg, grid.Width, grid.Height)
		}
	}

	next, events := rules.Tick(s, rules.BaseSpeed, newRNG())
	if next.Status != StatusPlaying || hasEvent[Collided](events) {
		t.Errorf("first tick on the minimum grid: status=%v events=%v, expected playing", next.Status, events)
	}
}

func TestWallCollision(t *testing.T) {
	rules := DefaultRules()
	before := playing([]core.Position{{X: 0, Y: 5}, {X: 1, Y: 5}, {X: 2, Y: 5}}, core.DirLeft, core.Pos(20, 20))

	after, events := rules.Tick(before, 100*time.Millisecond, newRNG())

	if after.Status != StatusGameOver {
		t.Fatalf("Status = %v, expected game over", after.Status)
	}
	for i := range before.Snake {
		if after.Snake[i] != before.Snake[i] {
			t.Errorf("snake changed at %d: %v -> %v", i, before.Snake[i], after.Snake[i])
		}
	}
	if len(events) != 2 {
		t.Fatalf("events = %v, expected collision and game over", events)
	}
	c, ok := events[0].(Collided)
	if !ok || c.Kind != CollisionWall {
		t.Errorf("first event = %#v, expected wall collision", events[0])
	}
	if _, ok := events[1].(GameOver); !ok {
		t.Errorf("second event = %#v, expected GameOver", events[1])
	}
}

func TestEatFood(t *testing.T) {
	rules := DefaultRules()
	before := playing([]core.Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}, core.DirRight, core.Pos(11, 10))

	after, events := rules.Tick(before, 100*time.Millisecond, newRNG())

	if after.Head() != core.Pos(11, 10) {
		t.Errorf("head = %v, expected (11,10)", after.Head())
	}
	if len(after.Snake) != 4 {
		t.Errorf("length = %d, expected 4", len(after.Snake))
	}
	if after.Score != 10 || after.Level != 1 {
		t.Errorf("score/level = %d/%d, expected 10/1", after.Score, after.Level)
	}
	if after.Occupies(after.Food) {
		t.Errorf("new food %v placed on the snake", after.Food)
	}
	if !hasEvent[AteFood](events) {
		t.Error("expected AteFood event")
	}
	if hasEvent[LeveledUp](events) {
		t.Error("no level-up expected at score 10")
	}
}

func TestLevelUpFiresOnce(t *testing.T) {
	rules := DefaultRules()
	before := playing([]core.Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}, core.DirRight, core.Pos(11, 10))
	before.Score = 90

	after, events := rules.Tick(before, 100*time.Millisecond, newRNG())

	if after.Score != 100 {
		t.Errorf("score = %d, expected 100", after.Score)
	}
	if after.Level != 2 {
		t.Errorf("level = %d, expected 2", after.Level)
	}
	if n := countEvents[LeveledUp](events); n != 1 {
		t.Errorf("LeveledUp count = %d, expected 1", n)
	}
	// Level 2 is still in the first speed band.
	if after.Speed != 100*time.Millisecond {
		t.Errorf("speed = %v, expected 100ms", after.Speed)
	}
}

func TestScoreUsesPreviousLevel(t *testing.T) {
	rules := DefaultRules()
	before := playing([]core.Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}, core.DirRight, core.Pos(11, 10))
	before.Score = 290
	before.Level = 3

	after, events := rules.Tick(before, 0, newRNG())

	if after.Score != 320 {
		t.Errorf("score = %d, expected 320", after.Score)
	}
	if after.Level != 4 {
		t.Errorf("level = %d, expected 4", after.Level)
	}
	if after.Speed != 90*time.Millisecond {
		t.Errorf("speed = %v, expected 90ms", after.Speed)
	}
	if ev, ok := events[1].(LeveledUp); !ok || ev.Level != 4 {
		t.Errorf("events[1] = %#v, expected LeveledUp{4}", events[1])
	}
}

func TestSpeedForLevel(t *testing.T) {
	tests := []struct {
		base     time.Duration
		level    int
		expected time.Duration
	}{
		{100 * time.Millisecond, 1, 100 * time.Millisecond},
		{100 * time.Millisecond, 2, 100 * time.Millisecond},
		{100 * time.Millisecond, 3, 90 * time.Millisecond},
		{100 * time.Millisecond, 5, 80 * time.Millisecond},
		{100 * time.Millisecond, 30, 30 * time.Millisecond},
		{40 * time.Millisecond, 3, 30 * time.Millisecond},
		{150 * time.Millisecond, 0, 150 * time.Millisecond},
	}

	for _, tc := range tests {
		got := SpeedForLevel(tc.base, DefaultMinSpeed, tc.level)
		if got != tc.expected {
			t.Errorf("SpeedForLevel(%v, %d) = %v, expected %v", tc.base, tc.level, got, tc.expected)
		}
	}
}

func TestSelfCollision(t *testing.T) {
	rules := DefaultRules()
	// Head at (5,5) turning down into its own body at (5,6).
	body := []core.Position{
		{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}, {X: 4, Y: 6},
	}
	before := playing(body, core.DirLeft, core.Pos(20, 20))
	before.NextDirection = core.DirDown

	after, events := rules.Tick(before, 0, newRNG())

	if after.Status != StatusGameOver {
		t.Fatalf("Status = %v, expected game over", after.Status)
	}
	c, ok := events[0].(Collided)
	if !ok || c.Kind != CollisionSelf || c.At != core.Pos(5, 6) {
		t.Errorf("events[0] = %#v, expected self collision at (5,6)", events[0])
	}
}

func TestMoveIntoVacatedTail(t *testing.T) {
	rules := DefaultRules()
	// A 2x2 loop: the head chases the tail cell, which moves away this tick.
	body := []core.Position{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}
	before := playing(body, core.DirLeft, core.Pos(20, 20))
	before.NextDirection = core.DirDown

	after, events := rules.Tick(before, 0, newRNG())

	if after.Status != StatusPlaying {
		t.Fatalf("Status = %v, expected playing (tail cell is vacated)", after.Status)
	}
	if len(events) != 0 {
		t.Errorf("events = %v, expected none", events)
	}
	if after.Head() != core.Pos(5, 6) {
		t.Errorf("head = %v, expected (5,6)", after.Head())
	}
}

func TestGrowingIntoTailCollides(t *testing.T) {
	rules := DefaultRules()
	// Food sits on the tail cell: growing keeps the tail, so entering it collides.
	body := []core.Position{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}
	before := playing(body, core.DirLeft, core.Pos(5, 6))
	before.NextDirection = core.DirDown

	after, _ := rules.Tick(before, 0, newRNG())

	if after.Status != StatusGameOver {
		t.Errorf("Status = %v, expected game over", after.Status)
	}
}

func TestMoveRejectsReversal(t *testing.T) {
	rules := DefaultRules()
	s := playing([]core.Position{{X: 10, Y: 10}, {X: 10, Y: 9}, {X: 10, Y: 8}}, core.DirDown, core.Pos(0, 0))

	after, events := rules.Apply(s, Move(core.DirUp), newRNG())

	if after.NextDirection != core.DirDown {
		t.Errorf("NextDirection = %v, expected down", after.NextDirection)
	}
	if len(events) != 0 {
		t.Errorf("events = %v, expected none", events)
	}
}

func TestMoveChecksAppliedHeading(t *testing.T) {
	rules := DefaultRules()
	s := playing(StartSnake(), core.DirRight, core.Pos(0, 0))

	s, _ = rules.Apply(s, Move(core.DirUp), newRNG())
	if s.NextDirection != core.DirUp {
		t.Fatalf("NextDirection = %v, expected up", s.NextDirection)
	}

	// Left is the reverse of the applied heading, even though up is pending.
	s, _ = rules.Apply(s, Move(core.DirLeft), newRNG())
	if s.NextDirection != core.DirUp {
		t.Errorf("NextDirection = %v, expected up", s.NextDirection)
	}

	s, _ = rules.Tick(s, 0, newRNG())
	if s.Direction != core.DirUp {
		t.Errorf("Direction = %v, expected up", s.Direction)
	}
}

func TestMoveIgnoredOutsidePlay(t *testing.T) {
	rules := DefaultRules()
	for _, status := range []Status{StatusReady, StatusPaused, StatusGameOver} {
		s := playing(StartSnake(), core.DirRight, core.Pos(0, 0))
		s.Status = status

		after, events := rules.Apply(s, Move(core.DirUp), newRNG())
		if after.NextDirection != core.DirRight || len(events) != 0 {
			t.Errorf("%v: move should be dropped, got next=%v events=%v", status, after.NextDirection, events)
		}
	}
}

func TestPauseResumeIdempotent(t *testing.T) {
	rules := DefaultRules()
	s := playing(StartSnake(), core.DirRight, core.Pos(0, 0))

	paused, events := rules.Apply(s, Pause(), newRNG())
	if paused.Status != StatusPaused || !hasEvent[Paused](events) {
		t.Fatalf("pause: status=%v events=%v", paused.Status, events)
	}

	again, events := rules.Apply(paused, Pause(), newRNG())
	if again.Status != StatusPaused || len(events) != 0 {
		t.Errorf("second pause: status=%v events=%v, expected unchanged", again.Status, events)
	}

	resumed, events := rules.Apply(again, Resume(), newRNG())
	if resumed.Status != StatusPlaying || !hasEvent[Resumed](events) {
		t.Fatalf("resume: status=%v events=%v", resumed.Status, events)
	}

	still, events := rules.Apply(resumed, Resume(), newRNG())
	if still.Status != StatusPlaying || len(events) != 0 {
		t.Errorf("second resume: status=%v events=%v, expected unchanged", still.Status, events)
	}
	if len(still.Snake) != len(s.Snake) || still.Head() != s.Head() {
		t.Error("pause/resume should not touch the snake")
	}
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	rules := DefaultRules()
	s := playing(StartSnake(), core.DirRight, core.Pos(0, 0))
	s.Status = StatusPaused

	after, events := rules.Tick(s, time.Second, newRNG())
	if after.Head() != s.Head() || after.Elapsed != 0 || len(events) != 0 {
		t.Errorf("paused tick changed state: head=%v elapsed=%v events=%v", after.Head(), after.Elapsed, events)
	}
}

func TestRestartFromAnyStatus(t *testing.T) {
	rules := DefaultRules()
	for _, status := range []Status{StatusReady, StatusPlaying, StatusPaused, StatusGameOver} {
		s := playing([]core.Position{{X: 3, Y: 3}, {X: 2, Y: 3}, {X: 1, Y: 3}, {X: 0, Y: 3}}, core.DirUp, core.Pos(7, 7))
		s.Status = status
		s.Score = 250
		s.Level = 3

		after, events := rules.Apply(s, Restart(), newRNG())

		if after.Status != StatusPlaying || after.Score != 0 || after.Level != 1 {
			t.Errorf("%v: restart gave status=%v score=%d level=%d", status, after.Status, after.Score, after.Level)
		}
		if len(after.Snake) != 3 || after.Head() != core.Pos(10, 10) {
			t.Errorf("%v: restart snake = %v", status, after.Snake)
		}
		if !hasEvent[Restarted](events) {
			t.Errorf("%v: expected Restarted event", status)
		}
	}
}

func TestStartOnlyFromReady(t *testing.T) {
	rules := DefaultRules()
	s := playing(StartSnake(), core.DirRight, core.Pos(0, 0))
	s.Score = 40

	after, events := rules.Apply(s, Start(), newRNG())
	if after.Score != 40 || len(events) != 0 {
		t.Errorf("start while playing should be a no-op, got score=%d events=%v", after.Score, events)
	}
}

func TestTickDoesNotAliasInput(t *testing.T) {
	rules := DefaultRules()
	before := playing([]core.Position{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}, core.DirRight, core.Pos(30, 20))
	orig := before.Clone()

	after, _ := rules.Tick(before, 0, newRNG())
	after.Snake[1] = core.Pos(0, 0)

	for i := range orig.Snake {
		if before.Snake[i] != orig.Snake[i] {
			t.Fatalf("input state mutated at %d: %v", i, before.Snake[i])
		}
	}
}

// TestRandomPlayInvariants drives many games with random commands and checks
// the bounds and no-reversal properties after every tick.
func TestRandomPlayInvariants(t *testing.T) {
	rules := DefaultRules()
	rng := rand.New(rand.NewSource(99))
	dirs := []core.Direction{core.DirUp, core.DirDown, core.DirLeft, core.DirRight}

	s, _ := rules.Start(rng)
	for i := 0; i < 5000; i++ {
		if rng.Intn(3) == 0 {
			s, _ = rules.Apply(s, Move(dirs[rng.Intn(len(dirs))]), rng)
		}

		before := s.Direction
		s, _ = rules.Tick(s, 50*time.Millisecond, rng)

		if s.Direction.IsOpposite(before) {
			t.Fatalf("tick %d reversed %v -> %v", i, before, s.Direction)
		}
		if s.Status != StatusGameOver {
			for _, seg := range s.Snake {
				if !rules.Grid.Contains(seg) {
					t.Fatalf("tick %d: segment %v out of bounds", i, seg)
				}
			}
			seen := make(map[core.Position]bool, len(s.Snake))
			for _, seg := range s.Snake {
				if seen[seg] {
					t.Fatalf("tick %d: duplicate segment %v", i, seg)
				}
				seen[seg] = true
			}
			if s.Occupies(s.Food) {
				t.Fatalf("tick %d: food %v under snake", i, s.Food)
			}
		} else {
			s, _ = rules.Apply(s, Restart(), rng)
		}
	}
}

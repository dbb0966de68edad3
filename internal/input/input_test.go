package input

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/neonsnake/internal/core"
	"github.com/vovakirdan/neonsnake/internal/snake"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(8)
	q.Push(snake.Move(core.DirUp))
	q.Push(snake.Pause())
	q.Push(snake.Move(core.DirLeft))

	got := q.Drain()
	want := []snake.Command{snake.Move(core.DirUp), snake.Pause(), snake.Move(core.DirLeft)}
	if len(got) != len(want) {
		t.Fatalf("Drain() returned %d commands, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Drain()[%d] = %v, expected %v", i, got[i], want[i])
		}
	}

	if q.Len() != 0 || q.Drain() != nil {
		t.Error("queue should be empty after Drain")
	}
}

func TestQueueCollapsesAndBounds(t *testing.T) {
	q := NewQueue(2)

	if !q.Push(snake.Move(core.DirUp)) {
		t.Fatal("first push should succeed")
	}
	if q.Push(snake.Move(core.DirUp)) {
		t.Error("identical consecutive command should collapse")
	}
	q.Push(snake.Move(core.DirLeft))
	if q.Push(snake.Restart()) {
		t.Error("push into a full queue should fail")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", q.Len())
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if j%2 == 0 {
					q.Push(snake.Pause())
				} else {
					q.Push(snake.Resume())
				}
			}
		}(i)
	}
	wg.Wait()

	if n := len(q.Drain()); n == 0 || n > 200 {
		t.Errorf("drained %d commands, expected between 1 and 200", n)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		action core.Action
		status snake.Status
		want   snake.Command
		ok     bool
	}{
		{"arrow moves", core.ActionUp, snake.StatusPlaying, snake.Move(core.DirUp), true},
		{"space starts", core.ActionPause, snake.StatusReady, snake.Start(), true},
		{"space pauses", core.ActionPause, snake.StatusPlaying, snake.Pause(), true},
		{"space resumes", core.ActionPause, snake.StatusPaused, snake.Resume(), true},
		{"space restarts", core.ActionPause, snake.StatusGameOver, snake.Restart(), true},
		{"r restarts", core.ActionRestart, snake.StatusPlaying, snake.Restart(), true},
		{"quit is not a command", core.ActionQuit, snake.StatusPlaying, snake.Command{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Resolve(tc.action, tc.status)
			if ok != tc.ok || got != tc.want {
				t.Errorf("Resolve(%v, %v) = %v, %v; expected %v, %v", tc.action, tc.status, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestMapperDebounce(t *testing.T) {
	m := NewMapper(150 * time.Millisecond)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, ok := m.Map(core.ActionUp, snake.StatusPlaying, t0); !ok {
		t.Fatal("first press should pass")
	}
	if _, ok := m.Map(core.ActionUp, snake.StatusPlaying, t0.Add(50*time.Millisecond)); ok {
		t.Error("repeat within 150ms should be dropped")
	}
	if _, ok := m.Map(core.ActionLeft, snake.StatusPlaying, t0.Add(60*time.Millisecond)); !ok {
		t.Error("a different key should not be debounced")
	}
	if _, ok := m.Map(core.ActionUp, snake.StatusPlaying, t0.Add(160*time.Millisecond)); !ok {
		t.Error("repeat after the delay should pass")
	}
}

func TestClassifySwipe(t *testing.T) {
	tests := []struct {
		name                   string
		fromX, fromY, toX, toY int
		want                   Gesture
	}{
		{"tap", 10, 10, 11, 10, Gesture{Tap: true}},
		{"right", 10, 10, 15, 11, Gesture{Dir: core.DirRight}},
		{"left", 10, 10, 4, 12, Gesture{Dir: core.DirLeft}},
		{"down", 10, 10, 11, 14, Gesture{Dir: core.DirDown}},
		{"up", 10, 10, 10, 7, Gesture{Dir: core.DirUp}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.fromX, tc.fromY, tc.toX, tc.toY, 2)
			if got != tc.want {
				t.Errorf("Classify() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestSwipePressRelease(t *testing.T) {
	s := Swipe{MinDistance: 2}

	if _, ok := s.Release(3, 3); ok {
		t.Error("release without press should be ignored")
	}

	s.Press(5, 5)
	g, ok := s.Release(5, 9)
	if !ok || g.Dir != core.DirDown || g.Action() != core.ActionDown {
		t.Errorf("Release() = %+v, %v; expected a down swipe", g, ok)
	}

	s.Press(5, 5)
	g, _ = s.Release(5, 5)
	if g.Action() != core.ActionPause {
		t.Errorf("tap action = %v, expected Pause", g.Action())
	}
}

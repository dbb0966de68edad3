// Package input turns semantic actions and pointer gestures into engine
// commands and buffers them until the next frame.
package input

import (
	"sync"

	"github.com/vovakirdan/neonsnake/internal/snake"
)

// DefaultQueueSize bounds how many commands may wait for one frame.
const DefaultQueueSize = 16

// Queue is a FIFO of commands. Push may be called from any goroutine; the
// session drains it once per frame before deciding whether to tick.
type Queue struct {
	mu    sync.Mutex
	items []snake.Command
	max   int
}

// NewQueue creates a queue holding at most max commands.
func NewQueue(max int) *Queue {
	if max < 1 {
		max = DefaultQueueSize
	}
	return &Queue{max: max}
}

// Push appends a command. A command identical to the last queued one is
// collapsed, and a full queue drops the new command. Returns false when the
// command was not queued.
func (q *Queue) Push(cmd snake.Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n := len(q.items); n > 0 && q.items[n-1] == cmd {
		return false
	}
	if len(q.items) >= q.max {
		return false
	}
	q.items = append(q.items, cmd)
	return true
}

// Drain returns all queued commands in arrival order and empties the queue.
func (q *Queue) Drain() []snake.Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

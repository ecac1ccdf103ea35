package coordinator

import (
	"time"

	"github.com/dshills/textsync/internal/engine"
)

// clickTracker tracks pointer-down patterns for double/triple click
// detection. Unlike a plain mouse tracker it is entity-aware: a click
// on a different entity always starts a new sequence.
type clickTracker struct {
	maxTime     time.Duration
	maxDistance float64

	lastEntity engine.EntityID
	lastX      float64
	lastY      float64
	lastTime   time.Time
	lastCount  int
}

func newClickTracker(maxTime time.Duration, maxDistance float64) *clickTracker {
	return &clickTracker{
		maxTime:     maxTime,
		maxDistance: maxDistance,
	}
}

// record registers a pointer-down and returns the click count. The
// count caps at 3: a fourth click inside the window keeps reporting 3
// (select-all stays select-all).
func (t *clickTracker) record(id engine.EntityID, x, y float64, timestamp time.Time) int {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	if t.isPartOfSequence(id, x, y, timestamp) {
		if t.lastCount < 3 {
			t.lastCount++
		}
	} else {
		t.lastCount = 1
	}

	t.lastEntity = id
	t.lastX = x
	t.lastY = y
	t.lastTime = timestamp
	return t.lastCount
}

func (t *clickTracker) isPartOfSequence(id engine.EntityID, x, y float64, timestamp time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}
	if id != t.lastEntity {
		return false
	}

	// Clock skew produces a negative elapsed; treat as a new sequence.
	elapsed := timestamp.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}

	// Manhattan distance, like the screen-space click slop of most
	// toolkits.
	dx := x - t.lastX
	if dx < 0 {
		dx = -dx
	}
	dy := y - t.lastY
	if dy < 0 {
		dy = -dy
	}
	return dx+dy <= t.maxDistance
}

// reset clears the click sequence, e.g. on external mutation.
func (t *clickTracker) reset() {
	t.lastEntity = engine.None
	t.lastCount = 0
	t.lastTime = time.Time{}
	t.lastX = 0
	t.lastY = 0
}

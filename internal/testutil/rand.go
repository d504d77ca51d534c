package testutil

import (
	"fmt"
	"sync"
)

// ScriptedRand returns predetermined values for engine.Rand.
//
// Float64 and IntN draw from two independent queues so a test can script the
// exact outcome of each roll in the order the engine makes them. Once a
// queue is exhausted the generator either panics (the default, to catch a
// test that made more draws than it scripted) or falls back to the value set
// with Quiet.
//
// Example:
//
//	r := NewScriptedRand(0.5, 0.5, 0.0).Ints(2).Quiet(0.5)
//	r.Float64() // 0.5
//	r.Float64() // 0.5
//	r.Float64() // 0.0
//	r.IntN(5)   // 2
//	r.Float64() // 0.5 (quiet)
//	r.IntN(5)   // 0 (quiet)
//
// Thread-safety: ScriptedRand is safe for concurrent use via internal mutex.
type ScriptedRand struct {
	mu       sync.Mutex
	floats   []float64
	ints     []int
	quiet    float64
	hasQuiet bool
	draws    int
}

// NewScriptedRand creates a generator that returns floats in order.
func NewScriptedRand(floats ...float64) *ScriptedRand {
	return &ScriptedRand{floats: floats}
}

// Floats appends values to the Float64 queue.
func (r *ScriptedRand) Floats(v ...float64) *ScriptedRand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, v...)
	return r
}

// Ints appends values to the IntN queue.
func (r *ScriptedRand) Ints(v ...int) *ScriptedRand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, v...)
	return r
}

// Quiet sets the Float64 value returned once the script runs out. IntN
// returns 0 in the same situation. Quiet(0.5) keeps the ball still and
// never fires an event trial.
func (r *ScriptedRand) Quiet(v float64) *ScriptedRand {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quiet = v
	r.hasQuiet = true
	return r
}

// Float64 returns the next scripted float.
//
// Panics if the queue is empty and no quiet value is set.
func (r *ScriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws++

	if len(r.floats) == 0 {
		if !r.hasQuiet {
			panic("ScriptedRand: all floats exhausted")
		}
		return r.quiet
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// IntN returns the next scripted int.
//
// Panics if the scripted value is outside [0,n), or if the queue is empty
// and no quiet value is set.
func (r *ScriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws++

	if len(r.ints) == 0 {
		if !r.hasQuiet {
			panic("ScriptedRand: all ints exhausted")
		}
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("ScriptedRand: scripted int %d outside [0,%d)", v, n))
	}
	return v
}

// Remaining reports how many scripted values have not been drawn yet.
func (r *ScriptedRand) Remaining() (floats, ints int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.floats), len(r.ints)
}

// Draws reports the total number of Float64 and IntN calls.
func (r *ScriptedRand) Draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draws
}

// Package track provides extremal-value trackers layered on the engine's
// observer stream. A tracker scores every state it is shown and retains a
// private snapshot of the best-scoring one; it relies only on the engine's
// snapshot-isolation guarantee and never feeds anything back into a run.
package track

import "github.com/uminoko/computegod/engine"

// Preference selects which scores count as better.
type Preference int

const (
	// PreferMin keeps the lowest score seen so far.
	PreferMin Preference = iota
	// PreferMax keeps the highest score seen so far.
	PreferMax
)

// Score extracts a comparable value from a state. Returning ok=false skips
// the sample, so partially built states never pollute the tracker.
type Score func(engine.State) (float64, bool)

// KeyScore reads a numeric state key.
func KeyScore(key string) Score {
	return func(s engine.State) (float64, bool) {
		return s.Float(key)
	}
}

// Extremal retains the best-scoring (state, score) pair seen so far.
type Extremal struct {
	score Score
	pref  Preference
	best  engine.State
	value float64
	seen  bool
}

// NewExtremal builds a tracker around a scoring function and a preference.
func NewExtremal(score Score, pref Preference) *Extremal {
	return &Extremal{score: score, pref: pref}
}

// Observer returns the engine hook. Register it on a universe or in a
// FixpointConfig; it inspects every event that carries a state.
func (t *Extremal) Observer() engine.Observer {
	return func(_ engine.ObserverEvent, state engine.State, _ engine.Metadata) {
		value, ok := t.score(state)
		if !ok {
			return
		}
		if !t.seen || t.better(value) {
			t.seen = true
			t.value = value
			t.best = state.Clone()
		}
	}
}

// Best returns a copy of the best state and its score. ok is false until a
// scorable state has been observed.
func (t *Extremal) Best() (state engine.State, value float64, ok bool) {
	if !t.seen {
		return nil, 0, false
	}
	return t.best.Clone(), t.value, true
}

// Reset clears the tracker for reuse across runs.
func (t *Extremal) Reset() {
	t.best = nil
	t.value = 0
	t.seen = false
}

func (t *Extremal) better(value float64) bool {
	if t.pref == PreferMax {
		return value > t.value
	}
	return value < t.value
}

// Coldest tracks the minimum of a numeric state key.
func Coldest(key string) *Extremal {
	return NewExtremal(KeyScore(key), PreferMin)
}

// Hottest tracks the maximum of a numeric state key.
func Hottest(key string) *Extremal {
	return NewExtremal(KeyScore(key), PreferMax)
}

// Closest tracks the state whose key value lies nearest to target.
func Closest(key string, target float64) *Extremal {
	return NewExtremal(func(s engine.State) (float64, bool) {
		v, ok := s.Float(key)
		if !ok {
			return 0, false
		}
		if v < target {
			return target - v, true
		}
		return v - target, true
	}, PreferMin)
}

// Tightest is a Coldest tracker with a freeze point: it additionally
// remembers whether the best value ever dropped to the threshold.
type Tightest struct {
	inner     *Extremal
	threshold float64
}

// NewTightest tracks the minimum of key and reports whether it reached
// threshold.
func NewTightest(key string, threshold float64) *Tightest {
	return &Tightest{inner: Coldest(key), threshold: threshold}
}

// Observer returns the engine hook.
func (t *Tightest) Observer() engine.Observer { return t.inner.Observer() }

// Best returns a copy of the coldest state and its value.
func (t *Tightest) Best() (engine.State, float64, bool) { return t.inner.Best() }

// Reached reports whether the tracked minimum ever hit the threshold.
func (t *Tightest) Reached() bool {
	_, value, ok := t.inner.Best()
	return ok && value <= t.threshold
}

// Reset clears the tracker for reuse across runs.
func (t *Tightest) Reset() { t.inner.Reset() }

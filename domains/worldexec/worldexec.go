// Package worldexec dramatizes the canonical "world.execute(me);"
// invocation. It is deliberately over-engineered in the house style: even a
// tiny string is treated as a state evolving under a rule until the engine
// declares a fixpoint.
package worldexec

import (
	"fmt"

	"github.com/uminoko/computegod/engine"
	"github.com/uminoko/computegod/metric"
)

// DefaultMaxEpoch is plenty: the constructed universe settles in one epoch
// and converges on the next.
const DefaultMaxEpoch = 4

// Request describes how the world should "execute" a subject. Zero fields
// fall back to the canonical defaults.
type Request struct {
	Subject     string
	World       string
	Punctuation string
	ScriptKey   string
	HistoryKey  string
}

// DefaultRequest returns the canonical request for "me".
func DefaultRequest() Request {
	return Request{
		Subject:     "me",
		World:       "world",
		Punctuation: ";",
		ScriptKey:   "script",
		HistoryKey:  "history",
	}
}

// Invocation renders the target incantation, e.g. "world.execute(me);".
func (r Request) Invocation() string {
	r = r.normalized()
	return fmt.Sprintf("%s.execute(%s)%s", r.World, r.Subject, r.Punctuation)
}

func (r Request) normalized() Request {
	def := DefaultRequest()
	if r.Subject == "" {
		r.Subject = def.Subject
	}
	if r.World == "" {
		r.World = def.World
	}
	if r.Punctuation == "" {
		r.Punctuation = def.Punctuation
	}
	if r.ScriptKey == "" {
		r.ScriptKey = def.ScriptKey
	}
	if r.HistoryKey == "" {
		r.HistoryKey = def.HistoryKey
	}
	return r
}

// NewUniverse builds the single-rule universe whose only goal is to turn
// the subject into the invocation, logging each transition to the history
// key.
func NewUniverse(req Request, observers ...engine.Observer) (*engine.Universe, error) {
	req = req.normalized()
	invocation := req.Invocation()

	apply := func(state engine.State) engine.State {
		if state[req.ScriptKey] == invocation {
			return state
		}
		next := state.Clone()
		history, _ := next[req.HistoryKey].([]any)
		next[req.HistoryKey] = append(history, invocation)
		next[req.ScriptKey] = invocation
		return next
	}

	rule, err := engine.NewRule("world.execute", apply,
		engine.WithGuard(func(s engine.State, _ *engine.Context) bool {
			return s[req.ScriptKey] != invocation
		}),
		engine.WithUntil(func(s engine.State, _ *engine.Context) bool {
			return s[req.ScriptKey] == invocation
		}),
	)
	if err != nil {
		return nil, err
	}

	initial := engine.State{
		req.ScriptKey:  req.Subject,
		req.HistoryKey: []any{req.Subject},
	}
	return engine.NewUniverse(initial, []engine.Rule{rule}, observers...)
}

// Execute drives the universe to its fixpoint. maxEpoch values below one
// fall back to DefaultMaxEpoch; the default script-change metric declares
// convergence as soon as the script key stops moving.
func Execute(req Request, maxEpoch int, observers ...engine.Observer) (engine.FixpointResult, error) {
	if maxEpoch < 1 {
		maxEpoch = DefaultMaxEpoch
	}
	req = req.normalized()

	u, err := NewUniverse(req, observers...)
	if err != nil {
		return engine.FixpointResult{}, err
	}
	return engine.Fixpoint(u, engine.FixpointConfig{
		Metric:   metric.KeyChanged(req.ScriptKey),
		Epsilon:  0,
		MaxEpoch: maxEpoch,
	})
}

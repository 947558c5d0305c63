package engine

import (
	"fmt"
	"sort"
)

// Context carries the ambient information the engine exposes to guard and
// until predicates. Rules must not assume more than Epoch and Steps; the
// remaining fields are engine-internal bookkeeping for a single run.
type Context struct {
	epoch     int
	steps     int
	satisfied map[string]bool
}

// NewContext returns a fresh context for one engine run. Fixpoint and
// RecursiveDescentFixpoint allocate their own; callers driving Advance by
// hand create one here and reuse it across epochs.
func NewContext() *Context {
	return &Context{satisfied: make(map[string]bool)}
}

// Epoch returns the 1-based index of the epoch currently being advanced.
func (c *Context) Epoch() int { return c.epoch }

// Steps returns how many rule applications have run so far in this run.
func (c *Context) Steps() int { return c.steps }

// Universe binds a state to an ordered rule set and a set of observers.
// A Universe is immutable: advancing an epoch returns a new Universe and
// leaves the receiver untouched, so a caller retaining a prior reference
// keeps the pre-epoch snapshot.
type Universe struct {
	state     State
	rules     []Rule
	observers []Observer
}

// NewUniverse builds a universe around a deep copy of state. Rule names
// must be unique; no rule is applied during construction.
func NewUniverse(state State, rules []Rule, observers ...Observer) (*Universe, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.Name()] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRule, r.Name())
		}
		seen[r.Name()] = true
	}
	return &Universe{
		state:     state.Clone(),
		rules:     append([]Rule(nil), rules...),
		observers: append([]Observer(nil), observers...),
	}, nil
}

// State returns a deep copy of the current state.
func (u *Universe) State() State { return u.state.Clone() }

// Rules returns every rule sorted by descending priority. Rules with equal
// priority keep their declaration order; the ordering is stable across
// calls.
func (u *Universe) Rules() []Rule {
	out := append([]Rule(nil), u.rules...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority() > out[j].Priority()
	})
	return out
}

// RulesByRole returns the rules tagged with role, in the same relative
// order as Rules(). The empty role selects untagged rules; use Rules() for
// the unfiltered view. Inert rules stay visible here for the whole run.
func (u *Universe) RulesByRole(role string) []Rule {
	var out []Rule
	for _, r := range u.Rules() {
		if r.Role() == role {
			out = append(out, r)
		}
	}
	return out
}

// Observers returns the universe's observers in declaration order.
func (u *Universe) Observers() []Observer {
	return append([]Observer(nil), u.observers...)
}

// Advance applies every eligible rule once, in priority order, threading
// the state through the applications, and returns the universe holding the
// result. Rules whose guard fails are skipped silently. A rule whose until
// predicate holds is marked inert on ctx and never invoked again for the
// rest of the run. After each application observe receives EventStep with
// a snapshot of the post-application state.
func (u *Universe) Advance(ctx *Context, observe Observer) *Universe {
	if ctx == nil {
		ctx = NewContext()
	}
	if observe == nil {
		observe = NoopObserver
	}
	state := u.state.Clone()
	for _, r := range u.Rules() {
		if ctx.satisfied[r.Name()] {
			continue
		}
		if r.Satisfied(state, ctx) {
			ctx.satisfied[r.Name()] = true
			continue
		}
		if !r.Eligible(state, ctx) {
			continue
		}
		state = r.Apply(state)
		ctx.steps++
		observe(EventStep, state.Clone(), Metadata{
			"rule":  r.Name(),
			"steps": ctx.steps,
			"epoch": ctx.epoch,
		})
	}
	return &Universe{state: state, rules: u.rules, observers: u.observers}
}

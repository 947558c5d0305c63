package engine

import "fmt"

// ApplyFunc transforms a state into its successor. Implementations must not
// mutate the input; they either return it unchanged or return a fresh map.
type ApplyFunc func(State) State

// Predicate reports a property of a state given the engine context.
type Predicate func(State, *Context) bool

// Rule is an immutable, named, prioritized state transformation. Rules are
// built once through NewRule and never change afterwards.
type Rule struct {
	name     string
	apply    ApplyFunc
	guard    Predicate // nil means always eligible
	until    Predicate // nil means never satisfied
	priority int
	role     string
}

// RuleOption configures a rule at construction time.
type RuleOption func(*Rule)

// WithGuard sets the eligibility predicate. A rule whose guard fails is
// skipped silently for that epoch.
func WithGuard(p Predicate) RuleOption {
	return func(r *Rule) { r.guard = p }
}

// WithUntil sets the satisfied predicate. Once it holds the rule becomes
// inert for the rest of the run while remaining visible to role queries.
func WithUntil(p Predicate) RuleOption {
	return func(r *Rule) { r.until = p }
}

// WithPriority sets the rule priority. Higher priorities run earlier;
// rules with equal priority keep their declaration order.
func WithPriority(priority int) RuleOption {
	return func(r *Rule) { r.priority = priority }
}

// WithRole tags the rule for external grouping. Roles carry no meaning
// inside the engine.
func WithRole(role string) RuleOption {
	return func(r *Rule) { r.role = role }
}

// NewRule builds a rule from a state transformer. The transformer may be
// any func value of the right shape: a top-level function, a method value
// with its receiver bound, or a closure over captured parameters.
// Construction is validated eagerly; an empty name or nil transformer is an
// error here, never at application time.
func NewRule(name string, apply ApplyFunc, opts ...RuleOption) (Rule, error) {
	if name == "" {
		return Rule{}, ErrEmptyRuleName
	}
	if apply == nil {
		return Rule{}, fmt.Errorf("%w: %q", ErrNilApply, name)
	}
	r := Rule{name: name, apply: apply}
	for _, opt := range opts {
		opt(&r)
	}
	return r, nil
}

// MustRule is NewRule for statically known specifications; it panics on a
// construction error.
func MustRule(name string, apply ApplyFunc, opts ...RuleOption) Rule {
	r, err := NewRule(name, apply, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the rule's diagnostic name, unique within a universe.
func (r Rule) Name() string { return r.name }

// Priority returns the rule's scheduling priority.
func (r Rule) Priority() int { return r.priority }

// Role returns the rule's grouping tag, or "" when untagged.
func (r Rule) Role() string { return r.role }

// Apply runs the rule's transformer on state.
func (r Rule) Apply(state State) State { return r.apply(state) }

// Eligible reports whether the rule may fire on state this epoch.
func (r Rule) Eligible(state State, ctx *Context) bool {
	if r.guard == nil {
		return true
	}
	return r.guard(state, ctx)
}

// Satisfied reports whether the rule's until predicate holds on state.
func (r Rule) Satisfied(state State, ctx *Context) bool {
	if r.until == nil {
		return false
	}
	return r.until(state, ctx)
}

package engine

// Metric measures the distance between two states. Convergence is only
// meaningful for metrics that are non-negative; the engine does not enforce
// that, it simply compares the value against epsilon.
type Metric func(before, after State) float64

// FixpointConfig bounds a fixpoint run.
type FixpointConfig struct {
	// Metric is the caller's distance function between the states at the
	// start and end of each epoch. Required.
	Metric Metric

	// Epsilon is the convergence threshold: the run stops once the epoch
	// delta is at or below it. Must be >= 0. Zero demands an exact fixed
	// point, which only terminates early if the rules stop changing the
	// state (typically via an until predicate).
	Epsilon float64

	// MaxEpoch is the hard bound on epochs; the run always terminates by
	// MaxEpoch. Must be >= 1.
	MaxEpoch int

	// Observers are notified in addition to the universe's own observers,
	// after them, in declaration order.
	Observers []Observer
}

func (cfg FixpointConfig) validate() error {
	if cfg.Metric == nil {
		return ErrNilMetric
	}
	if cfg.Epsilon < 0 {
		return ErrNegativeEpsilon
	}
	if cfg.MaxEpoch < 1 {
		return ErrMaxEpoch
	}
	return nil
}

// FixpointResult reports a terminated run.
//
// Converged is deliberately permissive: it is true both when the metric
// dropped to epsilon and when MaxEpoch ran out first. Callers that need to
// tell the two apart check Epochs == MaxEpoch together with Delta >
// epsilon, or watch for EventFixpointMaxed.
type FixpointResult struct {
	// Universe is the final snapshot.
	Universe *Universe

	// Converged reports that the run terminated (see the note above).
	Converged bool

	// Epochs is the number of epochs actually executed, counting the one
	// in which convergence was detected.
	Epochs int

	// Delta is the metric value measured for the final epoch.
	Delta float64
}

// Fixpoint drives the universe through successive epochs until the metric
// between consecutive epoch states drops to cfg.Epsilon, or cfg.MaxEpoch
// epochs have run. Each epoch emits EventStep per rule application and one
// EventEpoch; termination emits EventFixpointConverged or
// EventFixpointMaxed. Errors from rules, metrics or observers are not
// caught: a panic in caller code propagates unchanged.
func Fixpoint(u *Universe, cfg FixpointConfig) (FixpointResult, error) {
	if u == nil {
		return FixpointResult{}, ErrNilUniverse
	}
	if err := cfg.validate(); err != nil {
		return FixpointResult{}, err
	}

	ctx := NewContext()
	observe := dispatcher(u, cfg)
	prev := u.State()

	var delta float64
	for epoch := 1; epoch <= cfg.MaxEpoch; epoch++ {
		ctx.epoch = epoch
		u = u.Advance(ctx, observe)
		next := u.State()
		delta = cfg.Metric(prev, next)
		observe(EventEpoch, next, Metadata{"epoch": epoch, "delta": delta})
		if delta <= cfg.Epsilon {
			observe(EventFixpointConverged, next, Metadata{"epoch": epoch, "delta": delta})
			return FixpointResult{Universe: u, Converged: true, Epochs: epoch, Delta: delta}, nil
		}
		prev = next
	}

	observe(EventFixpointMaxed, u.State(), Metadata{"epoch": cfg.MaxEpoch, "delta": delta})
	return FixpointResult{Universe: u, Converged: true, Epochs: cfg.MaxEpoch, Delta: delta}, nil
}

// RecursiveDescentFixpoint computes the same result as Fixpoint, expressed
// as structural recursion on the remaining epoch budget: advance one epoch,
// then recurse on the rest. It is behaviorally indistinguishable from the
// iterative driver - same final state, same flags, same epoch count, same
// event stream. Go grows goroutine stacks on demand, so plain recursion is
// safe across the supported MaxEpoch range.
func RecursiveDescentFixpoint(u *Universe, cfg FixpointConfig) (FixpointResult, error) {
	if u == nil {
		return FixpointResult{}, ErrNilUniverse
	}
	if err := cfg.validate(); err != nil {
		return FixpointResult{}, err
	}

	ctx := NewContext()
	observe := dispatcher(u, cfg)

	var descend func(current *Universe, prev State, epoch int) FixpointResult
	descend = func(current *Universe, prev State, epoch int) FixpointResult {
		ctx.epoch = epoch
		advanced := current.Advance(ctx, observe)
		next := advanced.State()
		delta := cfg.Metric(prev, next)
		observe(EventEpoch, next, Metadata{"epoch": epoch, "delta": delta})
		if delta <= cfg.Epsilon {
			observe(EventFixpointConverged, next, Metadata{"epoch": epoch, "delta": delta})
			return FixpointResult{Universe: advanced, Converged: true, Epochs: epoch, Delta: delta}
		}
		if epoch == cfg.MaxEpoch {
			observe(EventFixpointMaxed, next, Metadata{"epoch": epoch, "delta": delta})
			return FixpointResult{Universe: advanced, Converged: true, Epochs: epoch, Delta: delta}
		}
		return descend(advanced, next, epoch+1)
	}

	return descend(u, u.State(), 1), nil
}

// dispatcher fans events out to the universe's observers followed by the
// run-scoped ones, each behind its own snapshot.
func dispatcher(u *Universe, cfg FixpointConfig) Observer {
	all := make([]Observer, 0, len(u.observers)+len(cfg.Observers))
	all = append(all, u.observers...)
	all = append(all, cfg.Observers...)
	return CombineObservers(all...)
}

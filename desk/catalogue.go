package desk

import "sync"

var defaultDesk = sync.OnceValue(buildDefault)

// Default returns the built-in catalogue covering the engine, metrics,
// trackers and domain modules. The desk is constructed once and shared;
// it is safe for concurrent readers because it is never mutated.
func Default() *Desk {
	return defaultDesk()
}

func buildDefault() *Desk {
	core := mustStation("core", "The fixpoint engine: universes, rules, observers and both convergence strategies.",
		Entry{Name: "State", Kind: "type", Doc: "String-keyed value mapping transformed by rules."},
		Entry{Name: "Rule", Kind: "type", Doc: "Named, prioritized, guarded state transformation."},
		Entry{Name: "NewRule", Kind: "func", Doc: "Validating rule factory with guard/until/priority/role options."},
		Entry{Name: "Universe", Kind: "type", Doc: "Immutable binding of state, ordered rules and observers."},
		Entry{Name: "NewUniverse", Kind: "func", Doc: "Builds a universe; applies no rules."},
		Entry{Name: "Fixpoint", Kind: "func", Doc: "Iterative epsilon/max-epoch convergence driver."},
		Entry{Name: "RecursiveDescentFixpoint", Kind: "func", Doc: "Structural-recursion driver, behaviorally identical to Fixpoint."},
		Entry{Name: "FixpointResult", Kind: "type", Doc: "Converged flag, epoch count, final delta and final universe."},
		Entry{Name: "Observer", Kind: "observer", Doc: "Callable receiving step/epoch/terminal events with state snapshots."},
	)

	metrics := mustStation("metrics", "Reusable distance functions between states.",
		Entry{Name: "KeyDistance", Kind: "metric", Doc: "Absolute difference of one numeric key."},
		Entry{Name: "KeyChanged", Kind: "metric", Doc: "0/1 indicator that one key's value changed."},
		Entry{Name: "EditDistance", Kind: "metric", Doc: "Count of keys whose values differ."},
		Entry{Name: "L1", Kind: "metric", Doc: "Sum of absolute differences over numeric keys."},
	)

	trackers := mustStation("trackers", "Extremal-value observers reduced over the event stream.",
		Entry{Name: "Coldest", Kind: "observer", Doc: "Retains the minimum of a numeric key."},
		Entry{Name: "Hottest", Kind: "observer", Doc: "Retains the maximum of a numeric key."},
		Entry{Name: "Closest", Kind: "observer", Doc: "Retains the state nearest a target value."},
		Entry{Name: "Tightest", Kind: "observer", Doc: "Coldest tracker with a freeze-point threshold."},
	)

	domains := mustStation("domains", "Thin simulations layered on the engine.",
		Entry{Name: "worldexec.Execute", Kind: "universe", Doc: "Drives a subject to the world.execute(subject); incantation."},
		Entry{Name: "marketing.Fixpoint", Kind: "universe", Doc: "Monotone three-stage funnel converging to its minimum fixed point."},
		Entry{Name: "wormhole.RunLab", Kind: "universe", Doc: "Relaxes Feynman diagram leg weights and summarizes left-right bridges."},
	)

	d, err := NewDesk(core, metrics, trackers, domains)
	if err != nil {
		panic(err)
	}
	return d
}

func mustStation(name, description string, entries ...Entry) Station {
	s, err := NewStation(name, description, entries...)
	if err != nil {
		panic(err)
	}
	return s
}

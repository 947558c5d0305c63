package engine_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uminoko/computegod/engine"
)

// editDistance counts keys whose values differ, the fixture metric used
// throughout this suite.
func editDistance(a, b engine.State) float64 {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	var n float64
	for k := range keys {
		if !reflect.DeepEqual(a[k], b[k]) {
			n++
		}
	}
	return n
}

func counterMetric(a, b engine.State) float64 {
	av, _ := a.Float("counter")
	bv, _ := b.Float("counter")
	return math.Abs(av - bv)
}

func incrementUntil(target float64) engine.Rule {
	return engine.MustRule("increment", func(s engine.State) engine.State {
		next := s.Clone()
		v, _ := next.Float("counter")
		next["counter"] = math.Min(v+1, target)
		return next
	}, engine.WithUntil(func(s engine.State, _ *engine.Context) bool {
		v, _ := s.Float("counter")
		return v >= target
	}))
}

func TestFixpoint_ConfigValidation(t *testing.T) {
	u, err := engine.NewUniverse(engine.State{}, nil)
	require.NoError(t, err)

	cases := []struct {
		name string
		cfg  engine.FixpointConfig
		want error
	}{
		{"NilMetric", engine.FixpointConfig{Epsilon: 0, MaxEpoch: 1}, engine.ErrNilMetric},
		{"NegativeEpsilon", engine.FixpointConfig{Metric: editDistance, Epsilon: -1, MaxEpoch: 1}, engine.ErrNegativeEpsilon},
		{"ZeroMaxEpoch", engine.FixpointConfig{Metric: editDistance, Epsilon: 0, MaxEpoch: 0}, engine.ErrMaxEpoch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Fixpoint(u, tc.cfg)
			require.ErrorIs(t, err, tc.want)
			_, err = engine.RecursiveDescentFixpoint(u, tc.cfg)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err = engine.Fixpoint(nil, engine.FixpointConfig{Metric: editDistance, MaxEpoch: 1})
	require.ErrorIs(t, err, engine.ErrNilUniverse)
}

func TestFixpoint_GuardUntilTermination(t *testing.T) {
	u, err := engine.NewUniverse(engine.State{"counter": 0.0}, []engine.Rule{incrementUntil(2)})
	require.NoError(t, err)

	res, err := engine.Fixpoint(u, engine.FixpointConfig{
		Metric:   counterMetric,
		Epsilon:  0,
		MaxEpoch: 10,
	})
	require.NoError(t, err)

	require.True(t, res.Converged)
	require.Less(t, res.Epochs, 10)
	v, _ := res.Universe.State().Float("counter")
	require.Equal(t, 2.0, v)
}

func TestFixpoint_BoundDrivenConvergence(t *testing.T) {
	id := engine.MustRule("identity", func(s engine.State) engine.State { return s.Clone() })
	u, err := engine.NewUniverse(engine.State{"value": 1}, []engine.Rule{id})
	require.NoError(t, err)

	res, err := engine.Fixpoint(u, engine.FixpointConfig{
		Metric:   editDistance,
		Epsilon:  0,
		MaxEpoch: 2,
	})
	require.NoError(t, err)

	require.True(t, res.Converged)
	require.Equal(t, 1, res.Epochs)
	require.Equal(t, engine.State{"value": 1}, res.Universe.State())
}

func TestFixpoint_MetricThresholdConvergence(t *testing.T) {
	const target = 42.0
	ease := engine.MustRule("ease", func(s engine.State) engine.State {
		next := s.Clone()
		v, _ := next.Float("value")
		next["value"] = v + (target-v)/2
		return next
	})
	u, err := engine.NewUniverse(engine.State{"value": 0.0}, []engine.Rule{ease})
	require.NoError(t, err)

	res, err := engine.Fixpoint(u, engine.FixpointConfig{
		Metric: func(a, b engine.State) float64 {
			av, _ := a.Float("value")
			bv, _ := b.Float("value")
			return math.Abs(av - bv)
		},
		Epsilon:  1e-3,
		MaxEpoch: 50,
	})
	require.NoError(t, err)

	require.True(t, res.Converged)
	require.Less(t, res.Epochs, 50)
	v, _ := res.Universe.State().Float("value")
	require.InDelta(t, target, v, 1e-3)
}

func TestFixpoint_ExhaustionIsPermissiveButDistinguishable(t *testing.T) {
	drift := engine.MustRule("drift", func(s engine.State) engine.State {
		next := s.Clone()
		v, _ := next.Float("counter")
		next["counter"] = v + 1
		return next
	})
	u, err := engine.NewUniverse(engine.State{"counter": 0.0}, []engine.Rule{drift})
	require.NoError(t, err)

	var maxed bool
	res, err := engine.Fixpoint(u, engine.FixpointConfig{
		Metric:   counterMetric,
		Epsilon:  0,
		MaxEpoch: 5,
		Observers: []engine.Observer{func(event engine.ObserverEvent, _ engine.State, _ engine.Metadata) {
			if event == engine.EventFixpointMaxed {
				maxed = true
			}
		}},
	})
	require.NoError(t, err)

	require.True(t, res.Converged, "exhaustion still reports converged")
	require.Equal(t, 5, res.Epochs)
	require.Greater(t, res.Delta, 0.0, "the final delta is the distinguishing signal")
	require.True(t, maxed, "observers see the exhaustion event")
}

func TestFixpoint_Determinism(t *testing.T) {
	run := func() engine.FixpointResult {
		u, err := engine.NewUniverse(engine.State{"counter": 0.0}, []engine.Rule{incrementUntil(3)})
		require.NoError(t, err)
		res, err := engine.Fixpoint(u, engine.FixpointConfig{
			Metric:   counterMetric,
			Epsilon:  0,
			MaxEpoch: 10,
		})
		require.NoError(t, err)
		return res
	}

	first, second := run(), run()
	require.Equal(t, first.Converged, second.Converged)
	require.Equal(t, first.Epochs, second.Epochs)
	require.Equal(t, first.Delta, second.Delta)
	require.Equal(t, first.Universe.State(), second.Universe.State())
}

func TestRecursiveDescentFixpoint_MatchesIterative(t *testing.T) {
	type record struct {
		event string
		rule  any
		epoch any
	}

	run := func(fp func(*engine.Universe, engine.FixpointConfig) (engine.FixpointResult, error)) (engine.FixpointResult, []record) {
		var events []record
		spy := func(event engine.ObserverEvent, _ engine.State, meta engine.Metadata) {
			events = append(events, record{event.String(), meta["rule"], meta["epoch"]})
		}
		u, err := engine.NewUniverse(engine.State{"counter": 0.0}, []engine.Rule{incrementUntil(3)}, spy)
		require.NoError(t, err)
		res, err := fp(u, engine.FixpointConfig{
			Metric:   counterMetric,
			Epsilon:  0,
			MaxEpoch: 20,
		})
		require.NoError(t, err)
		return res, events
	}

	iterRes, iterEvents := run(engine.Fixpoint)
	recRes, recEvents := run(engine.RecursiveDescentFixpoint)

	require.Equal(t, iterRes.Converged, recRes.Converged)
	require.Equal(t, iterRes.Epochs, recRes.Epochs)
	require.Equal(t, iterRes.Delta, recRes.Delta)
	require.Equal(t, iterRes.Universe.State(), recRes.Universe.State())
	require.Equal(t, iterEvents, recEvents, "the strategies must emit identical event streams")
}

func TestRecursiveDescentFixpoint_DeepBudget(t *testing.T) {
	drift := engine.MustRule("drift", func(s engine.State) engine.State {
		next := s.Clone()
		v, _ := next.Float("counter")
		next["counter"] = v + 1
		return next
	})
	u, err := engine.NewUniverse(engine.State{"counter": 0.0}, []engine.Rule{drift})
	require.NoError(t, err)

	res, err := engine.RecursiveDescentFixpoint(u, engine.FixpointConfig{
		Metric:   counterMetric,
		Epsilon:  0,
		MaxEpoch: 500,
	})
	require.NoError(t, err)
	require.Equal(t, 500, res.Epochs)
}

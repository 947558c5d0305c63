package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uminoko/computegod/engine"
)

func identity(state engine.State) engine.State { return state }

func TestNewRule_ConstructionErrors(t *testing.T) {
	_, err := engine.NewRule("", identity)
	require.ErrorIs(t, err, engine.ErrEmptyRuleName)

	_, err = engine.NewRule("broken", nil)
	require.ErrorIs(t, err, engine.ErrNilApply)
	require.Contains(t, err.Error(), "broken")
}

func TestNewRule_Defaults(t *testing.T) {
	r, err := engine.NewRule("plain", identity)
	require.NoError(t, err)

	require.Equal(t, "plain", r.Name())
	require.Equal(t, 0, r.Priority())
	require.Equal(t, "", r.Role())
	require.True(t, r.Eligible(engine.State{}, engine.NewContext()), "nil guard must default to always eligible")
	require.False(t, r.Satisfied(engine.State{}, engine.NewContext()), "nil until must default to never satisfied")
}

func TestNewRule_Options(t *testing.T) {
	r, err := engine.NewRule("tuned", identity,
		engine.WithPriority(7),
		engine.WithRole("oracle"),
		engine.WithGuard(func(s engine.State, _ *engine.Context) bool {
			return s["go"] == true
		}),
		engine.WithUntil(func(s engine.State, _ *engine.Context) bool {
			return s["done"] == true
		}),
	)
	require.NoError(t, err)

	require.Equal(t, 7, r.Priority())
	require.Equal(t, "oracle", r.Role())
	require.False(t, r.Eligible(engine.State{}, engine.NewContext()))
	require.True(t, r.Eligible(engine.State{"go": true}, engine.NewContext()))
	require.False(t, r.Satisfied(engine.State{}, engine.NewContext()))
	require.True(t, r.Satisfied(engine.State{"done": true}, engine.NewContext()))
}

// stepper counts invocations through a method value, standing in for a rule
// built from a bound receiver.
type stepper struct {
	calls int
}

func (s *stepper) Apply(state engine.State) engine.State {
	s.calls++
	next := state.Clone()
	v, _ := next.Float("value")
	next["value"] = v + 1
	return next
}

func TestNewRule_MethodValueKeepsReceiver(t *testing.T) {
	s := &stepper{}
	r, err := engine.NewRule("stepper", s.Apply)
	require.NoError(t, err)

	out := r.Apply(engine.State{"value": 0.0})
	out = r.Apply(out)

	require.Equal(t, 2, s.calls, "two applications must be observable on the bound receiver")
	v, ok := out.Float("value")
	require.True(t, ok)
	require.Equal(t, 2.0, v)
}

func TestMustRule_PanicsOnError(t *testing.T) {
	require.Panics(t, func() { engine.MustRule("", identity) })
	require.NotPanics(t, func() { engine.MustRule("fine", identity) })
}

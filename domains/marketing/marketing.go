// Package marketing models a classical three-stage funnel
// (awareness, engagement, customers) as a monotone map driven to its
// minimum fixed point by the engine.
package marketing

import (
	"errors"
	"fmt"
	"math"

	"github.com/uminoko/computegod/engine"
	"github.com/uminoko/computegod/metric"
)

// Funnel stage keys.
const (
	StageAwareness  = "awareness"
	StageEngagement = "engagement"
	StageCustomers  = "customers"
)

var (
	// ErrRateRange is returned when a funnel rate lies outside [0, 1].
	ErrRateRange = errors.New("marketing: rate must lie in [0, 1]")

	// ErrCapacity is returned for non-positive stage capacities.
	ErrCapacity = errors.New("marketing: capacity must be positive")

	// ErrMissingStage is returned when the initial state lacks a stage key.
	ErrMissingStage = errors.New("marketing: initial state missing stage")
)

// FunnelParams holds the coefficients governing the funnel map.
//
// AwarenessBudget is the fraction of remaining awareness capacity added per
// epoch; EngagementRate the share of awareness that becomes engaged;
// ConversionRate the fraction of engaged people converting per epoch;
// RetentionRate the share of customers that stay loyal. All four must lie
// in [0, 1]. Capacities optionally bounds each stage (default 1), defining
// the lattice the map operates in.
type FunnelParams struct {
	AwarenessBudget float64
	EngagementRate  float64
	ConversionRate  float64
	RetentionRate   float64
	Capacities      map[string]float64
}

// Validate checks the rate ranges and capacity signs.
func (p FunnelParams) Validate() error {
	rates := map[string]float64{
		"awareness budget": p.AwarenessBudget,
		"engagement rate":  p.EngagementRate,
		"conversion rate":  p.ConversionRate,
		"retention rate":   p.RetentionRate,
	}
	for name, rate := range rates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: %s is %v", ErrRateRange, name, rate)
		}
	}
	for stage, capacity := range p.Capacities {
		if capacity <= 0 {
			return fmt.Errorf("%w: %s is %v", ErrCapacity, stage, capacity)
		}
	}
	return nil
}

func (p FunnelParams) capacity(stage string) float64 {
	if c, ok := p.Capacities[stage]; ok {
		return c
	}
	return 1.0
}

func clamp(value, upper float64) float64 {
	return math.Max(0, math.Min(upper, value))
}

// FunnelMap returns the next funnel state. The map is affine with
// non-negative coefficients, hence monotone under the component-wise
// order; outputs are clamped inside the declared capacities.
func FunnelMap(state engine.State, p FunnelParams) engine.State {
	awarenessCap := p.capacity(StageAwareness)
	engagementCap := p.capacity(StageEngagement)
	customersCap := p.capacity(StageCustomers)

	prevAwareness, _ := state.Float(StageAwareness)
	prevEngagement, _ := state.Float(StageEngagement)
	prevCustomers, _ := state.Float(StageCustomers)

	awareness := clamp(
		(1-p.AwarenessBudget)*prevAwareness+p.AwarenessBudget*awarenessCap,
		awarenessCap,
	)
	engagement := clamp(
		prevEngagement*(1-p.RetentionRate)+p.EngagementRate*awareness,
		engagementCap,
	)
	customers := clamp(
		prevCustomers*p.RetentionRate+p.ConversionRate*engagement,
		customersCap,
	)

	return engine.State{
		StageAwareness:  awareness,
		StageEngagement: engagement,
		StageCustomers:  customers,
	}
}

// NewRule lifts the funnel map into an engine rule.
func NewRule(p FunnelParams) (engine.Rule, error) {
	if err := p.Validate(); err != nil {
		return engine.Rule{}, err
	}
	return engine.NewRule("marketing-funnel", func(state engine.State) engine.State {
		return FunnelMap(state, p)
	})
}

// NewUniverse builds a universe hosting the funnel rule. The initial state
// must carry all three stage keys.
func NewUniverse(initial map[string]float64, p FunnelParams, observers ...engine.Observer) (*engine.Universe, error) {
	state := engine.State{}
	for _, stage := range []string{StageAwareness, StageEngagement, StageCustomers} {
		value, ok := initial[stage]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingStage, stage)
		}
		state[stage] = value
	}

	rule, err := NewRule(p)
	if err != nil {
		return nil, err
	}
	return engine.NewUniverse(state, []engine.Rule{rule}, observers...)
}

// Fixpoint iterates the funnel map under an L1 metric until it converges.
// Monotonicity makes the iteration settle on the minimum fixed point; the
// result records whether that happened within the allotted epochs.
func Fixpoint(initial map[string]float64, p FunnelParams, epsilon float64, maxEpoch int) (engine.FixpointResult, error) {
	u, err := NewUniverse(initial, p)
	if err != nil {
		return engine.FixpointResult{}, err
	}
	return engine.Fixpoint(u, engine.FixpointConfig{
		Metric:   metric.L1(StageAwareness, StageEngagement, StageCustomers),
		Epsilon:  epsilon,
		MaxEpoch: maxEpoch,
	})
}

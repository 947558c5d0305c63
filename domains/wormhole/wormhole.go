// Package wormhole implements the Feynman wormhole lab: diagram legs pinned
// to the left or right boundary, propagators connecting them, and a thermal
// relaxation of leg weights run to a fixpoint. Propagators that span both
// boundaries are the bridges the lab is after.
package wormhole

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/uminoko/computegod/engine"
	"github.com/uminoko/computegod/metric"
)

// Boundary labels for diagram legs.
const (
	BoundaryLeft  = "left"
	BoundaryRight = "right"
)

var (
	// ErrNoLegs is returned for a lab without diagram legs.
	ErrNoLegs = errors.New("wormhole: at least one diagram leg is required")

	// ErrDuplicateLeg is returned when two legs share a label.
	ErrDuplicateLeg = errors.New("wormhole: duplicate leg label")

	// ErrBadBoundary is returned for boundaries other than left/right.
	ErrBadBoundary = errors.New("wormhole: boundary must be left or right")

	// ErrUnknownLeg is returned when a propagator references a missing leg.
	ErrUnknownLeg = errors.New("wormhole: propagator references unknown leg")

	// ErrTemperature is returned for non-positive temperatures.
	ErrTemperature = errors.New("wormhole: temperature must be positive")
)

// DiagramLeg is one external leg of the diagram, pinned to a boundary.
type DiagramLeg struct {
	Label    string `yaml:"label"`
	Boundary string `yaml:"boundary"`
}

// Propagator connects two legs with an amplitude and a proper time.
type Propagator struct {
	Source     string  `yaml:"source"`
	Target     string  `yaml:"target"`
	Amplitude  float64 `yaml:"amplitude"`
	ProperTime float64 `yaml:"proper_time"`
}

// Bridge reports whether the propagator spans both boundaries under the
// given leg assignment.
func (p Propagator) Bridge(boundaries map[string]string) bool {
	return boundaries[p.Source] != boundaries[p.Target]
}

// LabConfig bounds the relaxation run.
type LabConfig struct {
	Temperature float64
	Epsilon     float64
	MaxEpoch    int
}

// DefaultLabConfig returns the canonical lab bounds.
func DefaultLabConfig() LabConfig {
	return LabConfig{Temperature: 1.0, Epsilon: 1e-6, MaxEpoch: 128}
}

// BridgeSummary is the lab's result.
type BridgeSummary struct {
	// Bridges counts propagators spanning both boundaries.
	Bridges int `json:"bridges"`
	// TotalAmplitude sums the raw amplitudes over the bridges.
	TotalAmplitude float64 `json:"total_amplitude"`
	// MeanProperTime averages proper time over the bridges (zero if none).
	MeanProperTime float64 `json:"mean_proper_time"`
	// PartitionWeight sums the Boltzmann-damped bridge amplitudes.
	PartitionWeight float64 `json:"partition_weight"`
	// Temperature echoes the lab temperature.
	Temperature float64 `json:"temperature"`
	// Weights holds the relaxed leg weights at the fixpoint.
	Weights map[string]float64 `json:"weights"`
	// Epochs, Converged and Delta mirror the underlying fixpoint result.
	// Converged is permissive, so Delta is the distinguishing signal: a
	// Delta above the configured epsilon means the epoch budget ran out
	// before the relaxation settled.
	Epochs    int     `json:"epochs"`
	Converged bool    `json:"converged"`
	Delta     float64 `json:"delta"`
}

// RunLab relaxes the leg weights to a fixpoint and summarizes the bridges.
//
// Left-boundary legs start at weight 1, right-boundary legs at 0. Each
// epoch a leg moves halfway toward the Boltzmann-weighted mean of its
// neighbors' weights, where each propagator is damped by
// amplitude * exp(-properTime/temperature). Isolated legs keep their
// weight, so the relaxation is an averaging map and always settles.
func RunLab(legs []DiagramLeg, propagators []Propagator, cfg LabConfig, observers ...engine.Observer) (BridgeSummary, error) {
	if len(legs) == 0 {
		return BridgeSummary{}, ErrNoLegs
	}
	if cfg.Temperature <= 0 {
		return BridgeSummary{}, fmt.Errorf("%w: %v", ErrTemperature, cfg.Temperature)
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultLabConfig().Epsilon
	}
	if cfg.MaxEpoch < 1 {
		cfg.MaxEpoch = DefaultLabConfig().MaxEpoch
	}

	boundaries := make(map[string]string, len(legs))
	labels := make([]string, 0, len(legs))
	for _, leg := range legs {
		if leg.Boundary != BoundaryLeft && leg.Boundary != BoundaryRight {
			return BridgeSummary{}, fmt.Errorf("%w: leg %q has %q", ErrBadBoundary, leg.Label, leg.Boundary)
		}
		if _, dup := boundaries[leg.Label]; dup {
			return BridgeSummary{}, fmt.Errorf("%w: %q", ErrDuplicateLeg, leg.Label)
		}
		boundaries[leg.Label] = leg.Boundary
		labels = append(labels, leg.Label)
	}
	for _, p := range propagators {
		for _, end := range []string{p.Source, p.Target} {
			if _, ok := boundaries[end]; !ok {
				return BridgeSummary{}, fmt.Errorf("%w: %q", ErrUnknownLeg, end)
			}
		}
	}
	sort.Strings(labels)

	damped := make([]float64, len(propagators))
	for i, p := range propagators {
		damped[i] = math.Abs(p.Amplitude) * math.Exp(-p.ProperTime/cfg.Temperature)
	}

	relax := engine.MustRule("relax-legs", func(state engine.State) engine.State {
		next := engine.State{}
		for _, label := range labels {
			weight, _ := state.Float(label)
			var weighted, norm float64
			for i, p := range propagators {
				var other string
				switch label {
				case p.Source:
					other = p.Target
				case p.Target:
					other = p.Source
				default:
					continue
				}
				neighbor, _ := state.Float(other)
				weighted += damped[i] * neighbor
				norm += damped[i]
			}
			if norm > 0 {
				weight += (weighted/norm - weight) / 2
			}
			next[label] = weight
		}
		return next
	})

	initial := engine.State{}
	for label, boundary := range boundaries {
		if boundary == BoundaryLeft {
			initial[label] = 1.0
		} else {
			initial[label] = 0.0
		}
	}

	u, err := engine.NewUniverse(initial, []engine.Rule{relax}, observers...)
	if err != nil {
		return BridgeSummary{}, err
	}
	res, err := engine.Fixpoint(u, engine.FixpointConfig{
		Metric:   metric.L1(labels...),
		Epsilon:  cfg.Epsilon,
		MaxEpoch: cfg.MaxEpoch,
	})
	if err != nil {
		return BridgeSummary{}, err
	}

	summary := BridgeSummary{
		Temperature: cfg.Temperature,
		Weights:     make(map[string]float64, len(labels)),
		Epochs:      res.Epochs,
		Converged:   res.Converged,
		Delta:       res.Delta,
	}
	final := res.Universe.State()
	for _, label := range labels {
		w, _ := final.Float(label)
		summary.Weights[label] = w
	}

	var properTimes float64
	for i, p := range propagators {
		if !p.Bridge(boundaries) {
			continue
		}
		summary.Bridges++
		summary.TotalAmplitude += p.Amplitude
		summary.PartitionWeight += damped[i]
		properTimes += p.ProperTime
	}
	if summary.Bridges > 0 {
		summary.MeanProperTime = properTimes / float64(summary.Bridges)
	}
	return summary, nil
}

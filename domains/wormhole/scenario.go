package wormhole

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uminoko/computegod/engine"
)

// ErrNoScenario is returned when a scenario file cannot be read.
var ErrNoScenario = errors.New("wormhole: scenario file not found")

// Scenario is the YAML shape consumed by the wormhole-lab CLI command.
type Scenario struct {
	Legs        []DiagramLeg `yaml:"legs"`
	Propagators []Propagator `yaml:"propagators"`
	Temperature float64      `yaml:"temperature"`
}

// ParseScenario decodes and normalizes a YAML scenario. Amplitude and
// proper time default to 1 per propagator; the temperature defaults to 1.
// Structural problems (missing legs, bad boundaries, dangling propagator
// endpoints) surface here rather than at run time.
func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("wormhole: decoding scenario: %w", err)
	}

	if len(s.Legs) == 0 {
		return Scenario{}, ErrNoLegs
	}
	seen := make(map[string]string, len(s.Legs))
	for _, leg := range s.Legs {
		if leg.Boundary != BoundaryLeft && leg.Boundary != BoundaryRight {
			return Scenario{}, fmt.Errorf("%w: leg %q has %q", ErrBadBoundary, leg.Label, leg.Boundary)
		}
		if _, dup := seen[leg.Label]; dup {
			return Scenario{}, fmt.Errorf("%w: %q", ErrDuplicateLeg, leg.Label)
		}
		seen[leg.Label] = leg.Boundary
	}

	for i := range s.Propagators {
		p := &s.Propagators[i]
		for _, end := range []string{p.Source, p.Target} {
			if _, ok := seen[end]; !ok {
				return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownLeg, end)
			}
		}
		if p.Amplitude == 0 {
			p.Amplitude = 1.0
		}
		if p.ProperTime == 0 {
			p.ProperTime = 1.0
		}
	}

	if s.Temperature == 0 {
		s.Temperature = 1.0
	}
	if s.Temperature < 0 {
		return Scenario{}, fmt.Errorf("%w: %v", ErrTemperature, s.Temperature)
	}
	return s, nil
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Scenario{}, fmt.Errorf("%w: %s", ErrNoScenario, path)
		}
		return Scenario{}, fmt.Errorf("wormhole: reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// Run executes the lab described by the scenario under cfg bounds, with
// the scenario's temperature taking precedence.
func (s Scenario) Run(cfg LabConfig, observers ...engine.Observer) (BridgeSummary, error) {
	cfg.Temperature = s.Temperature
	return RunLab(s.Legs, s.Propagators, cfg, observers...)
}

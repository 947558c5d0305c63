package engine

import "errors"

var (
	// ErrEmptyRuleName is returned when a rule is constructed without a name.
	ErrEmptyRuleName = errors.New("engine: rule name must not be empty")

	// ErrNilApply is returned when a rule is constructed without an apply function.
	ErrNilApply = errors.New("engine: rule apply function must not be nil")

	// ErrDuplicateRule is returned when two rules in a universe share a name.
	ErrDuplicateRule = errors.New("engine: duplicate rule name")

	// ErrNilUniverse is returned when a fixpoint run is started without a universe.
	ErrNilUniverse = errors.New("engine: universe must not be nil")

	// ErrNilMetric is returned when a fixpoint run is configured without a metric.
	ErrNilMetric = errors.New("engine: metric must not be nil")

	// ErrNegativeEpsilon is returned when epsilon is below zero.
	ErrNegativeEpsilon = errors.New("engine: epsilon must be non-negative")

	// ErrMaxEpoch is returned when the epoch budget is below one.
	ErrMaxEpoch = errors.New("engine: max epoch must be at least 1")
)

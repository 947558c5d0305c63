// Package metric provides reusable distance functions over engine states.
// Every function returns (or is) an engine.Metric; none of them mutate
// their inputs.
package metric

import (
	"math"
	"reflect"

	"github.com/uminoko/computegod/engine"
)

// KeyDistance returns a metric measuring the absolute difference of a
// numeric key. Missing or non-numeric values count as zero.
func KeyDistance(key string) engine.Metric {
	return func(before, after engine.State) float64 {
		a, _ := before.Float(key)
		b, _ := after.Float(key)
		return math.Abs(a - b)
	}
}

// KeyChanged returns a 0/1 metric reporting whether the value under key
// differs between the two states. Nested substructure is compared deeply.
func KeyChanged(key string) engine.Metric {
	return func(before, after engine.State) float64 {
		if reflect.DeepEqual(before[key], after[key]) {
			return 0
		}
		return 1
	}
}

// EditDistance counts the keys whose values differ between the two states,
// including keys present on only one side. Values are compared deeply.
func EditDistance(before, after engine.State) float64 {
	keys := make(map[string]struct{}, len(before)+len(after))
	for k := range before {
		keys[k] = struct{}{}
	}
	for k := range after {
		keys[k] = struct{}{}
	}

	var n float64
	for k := range keys {
		av, aok := before[k]
		bv, bok := after[k]
		if aok != bok || !reflect.DeepEqual(av, bv) {
			n++
		}
	}
	return n
}

// L1 returns the L1 distance over the given numeric keys. With no keys it
// ranges over the union of keys present in either state; non-numeric
// values contribute zero.
func L1(keys ...string) engine.Metric {
	return func(before, after engine.State) float64 {
		selected := keys
		if len(selected) == 0 {
			seen := make(map[string]struct{}, len(before)+len(after))
			for k := range before {
				seen[k] = struct{}{}
			}
			for k := range after {
				seen[k] = struct{}{}
			}
			selected = make([]string, 0, len(seen))
			for k := range seen {
				selected = append(selected, k)
			}
		}

		var sum float64
		for _, k := range selected {
			a, _ := before.Float(k)
			b, _ := after.Float(k)
			sum += math.Abs(a - b)
		}
		return sum
	}
}

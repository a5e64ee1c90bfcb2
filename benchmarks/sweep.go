package benchmarks

import (
	"fmt"
	"sort"
)

type paramSetter func(v *Variant, value int)

var sweepParams = map[string]paramSetter{
	"queue_size":  func(v *Variant, n int) { v.Pipeline.QueueSize = n },
	"int_rs":      func(v *Variant, n int) { v.Pipeline.IntStations = n },
	"fp_rs":       func(v *Variant, n int) { v.Pipeline.FPStations = n },
	"int_fu":      func(v *Variant, n int) { v.Pipeline.IntUnits = n },
	"fp_fu":       func(v *Variant, n int) { v.Pipeline.FPUnits = n },
	"int_latency": func(v *Variant, n int) { v.Timing.IntLatency = uint64(n) },
	"fp_latency":  func(v *Variant, n int) { v.Timing.FPLatency = uint64(n) },
	"max_inst":    func(v *Variant, n int) { v.Pipeline.MaxInstructions = n },
}

// SweepParams returns the names of the parameters Sweep can vary.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sweep derives one variant from base per value, each differing only in the
// named parameter. Variants are labeled "param=value" and validated.
func Sweep(base Variant, param string, values []int) ([]Variant, error) {
	set, ok := sweepParams[param]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter %q (want one of %v)",
			param, SweepParams())
	}

	variants := make([]Variant, 0, len(values))
	for _, value := range values {
		if value < 0 {
			return nil, fmt.Errorf("%s=%d: value must not be negative", param, value)
		}

		v := base
		set(&v, value)
		v.Label = fmt.Sprintf("%s=%d", param, value)

		if err := v.Pipeline.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", v.Label, err)
		}
		if err := v.Timing.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", v.Label, err)
		}

		variants = append(variants, v)
	}

	return variants, nil
}

package telemetry

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/torsion/config"
	"github.com/pthm-cable/torsion/suspension"
)

// SweepRecord is one row of a torque sweep. The spring is sampled over
// displacement at zero rate; the damper over rate at zero displacement.
type SweepRecord struct {
	Index        int     `csv:"index"`
	Displacement float64 `csv:"displacement"`
	SpringTorque float64 `csv:"spring_torque"`
	Rate         float64 `csv:"rate"`
	DamperTorque float64 `csv:"damper_torque"`
}

// Sweep tabulates the assembly's torque models over the configured ranges.
func Sweep(a *suspension.Assembly, cfg config.SweepConfig) ([]SweepRecord, error) {
	if cfg.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", cfg.Steps)
	}
	disp := floats.Span(make([]float64, cfg.Steps), cfg.DisplacementMin, cfg.DisplacementMax)
	rates := floats.Span(make([]float64, cfg.Steps), cfg.RateMin, cfg.RateMax)

	spring, damper := a.Spring(), a.Damper()
	records := make([]SweepRecord, cfg.Steps)
	for i := range records {
		records[i] = SweepRecord{
			Index:        i,
			Displacement: disp[i],
			SpringTorque: spring.Evaluate(disp[i], 0),
			Rate:         rates[i],
			DamperTorque: damper.Evaluate(0, rates[i]),
		}
	}
	return records, nil
}

// TorqueStats summarises one torque column of a sweep.
type TorqueStats struct {
	Min  float64
	Max  float64
	Mean float64
	P10  float64
	P50  float64
	P90  float64
}

// SummarizeSweep computes spring and damper torque statistics.
func SummarizeSweep(records []SweepRecord) (spring, damper TorqueStats) {
	s := make([]float64, len(records))
	d := make([]float64, len(records))
	for i, r := range records {
		s[i] = r.SpringTorque
		d[i] = r.DamperTorque
	}
	return ComputeStats(s), ComputeStats(d)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeStats calculates range, mean and percentiles of values.
func ComputeStats(values []float64) TorqueStats {
	n := len(values)
	if n == 0 {
		return TorqueStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return TorqueStats{
		Min:  sorted[0],
		Max:  sorted[n-1],
		Mean: floats.Sum(values) / float64(n),
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

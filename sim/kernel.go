// The Demand/Supply Kernel (§4.A): pure functions over real-valued t ≥ 0.
// Nothing here mutates a Task, Component, or Core — every function is a pure
// computation the Feasibility Tester and Interface Synthesizer build on.

package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tolerance is the absolute tolerance used for float comparisons in the
// kernel (§9): equality within this band is treated as equal, and strict `>`
// is preferred over `>=` when deciding infeasibility so that borderline-
// feasible systems are not rejected.
const Tolerance = 1e-9

// floatsEqual reports whether a and b are equal within Tolerance.
func floatsEqual(a, b float64) bool {
	return floats.EqualWithinAbs(a, b, Tolerance)
}

// FloatsEqual exports the kernel's tolerance-based equality for callers
// outside this package (sim/synth, sim/engine) that need to compare against
// the same Tolerance band.
func FloatsEqual(a, b float64) bool {
	return floatsEqual(a, b)
}

// SBFBDR is the Bounded-Delay supply bound: 0 for t ≤ Δ, else α·(t−Δ).
func SBFBDR(alpha, delta, t float64) float64 {
	if t <= delta || floatsEqual(t, delta) {
		return 0
	}
	return alpha * (t - delta)
}

// DBFEDF is the aggregate processor demand under EDF (Baruah): for each task
// i with relative deadline Dᵢ and period/MIT Tᵢ, the contribution is
// max(0, ⌊(t−Dᵢ)/Tᵢ⌋+1)·WCETᵢ, scaled by 1/p, summed over tasks.
func DBFEDF(tasks []*Task, p, t float64) float64 {
	var demand float64
	for _, task := range tasks {
		d := task.Deadline
		period := task.PeriodOrMIT()
		if t < d && !floatsEqual(t, d) {
			continue
		}
		jobs := math.Floor((t-d)/period) + 1
		if jobs < 0 {
			jobs = 0
		}
		demand += jobs * task.ScaledWCET(p)
	}
	return demand
}

// DBFFPS is the response-time demand for task i (0-indexed), assuming tasks
// are sorted in decreasing priority order: WCETᵢ + Σ_{j<i} ⌈t/Tⱼ⌉·WCETⱼ,
// every WCET scaled by 1/p.
func DBFFPS(tasksSortedByPriority []*Task, p float64, i int, t float64) float64 {
	task := tasksSortedByPriority[i]
	demand := task.ScaledWCET(p)
	for j := 0; j < i; j++ {
		higher := tasksSortedByPriority[j]
		demand += math.Ceil(t/higher.PeriodOrMIT()) * higher.ScaledWCET(p)
	}
	return demand
}

// SupplyTask is an integer-valued (Q, P) pair for the periodic server a BDR
// interface (α, Δ) realizes via the Half-Half transform. Nothing in the
// repository uses it: a child component's supply enters its parent's demand
// as the *Task built by Component.SupplyTask.
type SupplyTask struct {
	Budget int64 // Q
	Period int64 // P
}

// HalfHalf implements the Shin & Lee transformation from a BDR interface
// (α, Δ) to a periodic server (Q=αP, P=2Δ). The Δ=0 special case degenerates
// to dedicated, always-available supply: HalfHalf returns Q=P over a unit
// period, and the simulator marks such a component permanently supplied
// without scheduling any supply windows.
func HalfHalf(alpha, delta float64) (q, pPeriod float64) {
	if delta <= 0 {
		const dedicatedPeriod = 1.0
		return dedicatedPeriod, dedicatedPeriod
	}
	pPeriod = 2 * delta
	q = alpha * pPeriod
	return q, pPeriod
}

// SupplyTask turns this component's BDR interface into a periodic Task, via
// Half-Half, that can be appended to its parent's demand set
// (Component.AddSupplyTask). The server's deadline equals its period (no
// further constraint is implied by Half-Half itself).
func (c *Component) SupplyTask() *Task {
	q, p := HalfHalf(c.Interface.Alpha, c.Interface.Delta)
	return &Task{
		ID:       c.ID + "#supply",
		Name:     c.Name + " (synthesized supply)",
		Kind:     Periodic,
		WCET:     q,
		Deadline: p,
		Period:   p,
	}
}

// floatGCD is a tolerance-based Euclidean GCD over non-negative reals, used
// to compute the hyperperiod of tasks whose periods/MITs need not be
// integers. No example repository or ecosystem library provides a floating
// LCM/GCD, so this one piece of the kernel is deliberately stdlib (math),
// documented here rather than wired to a dependency.
func floatGCD(a, b float64) float64 {
	for b > Tolerance {
		a, b = b, math.Mod(a, b)
	}
	return a
}

func floatLCM(a, b float64) float64 {
	g := floatGCD(a, b)
	if g <= Tolerance {
		return math.Max(a, b)
	}
	return a / g * b
}

// Hyperperiod is the LCM of the periods/MITs of tasks, capped at capHyper so
// that a degenerate task set (e.g. near-irrational period ratios) cannot
// blow the horizon past the implementation bound (§4.B).
func Hyperperiod(tasks []*Task, capHyper float64) float64 {
	if len(tasks) == 0 {
		return 0
	}
	h := tasks[0].PeriodOrMIT()
	for _, t := range tasks[1:] {
		h = floatLCM(h, t.PeriodOrMIT())
		if h >= capHyper {
			return capHyper
		}
	}
	if h > capHyper {
		return capHyper
	}
	return h
}

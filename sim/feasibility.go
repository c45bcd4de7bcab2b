// The Feasibility Tester (§4.B): given a component and a candidate (α, Δ),
// decides whether DBF ≤ SBF holds at every critical instant.

package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// defaultHorizonCap bounds the EDF test horizon regardless of task-set shape
// (§4.B step 2); it is the "implementation constant (e.g. 10^5)" the spec
// names.
const defaultHorizonCap = 1e5

// maxFixedPointIterations bounds the FPS response-time fixed-point iteration.
// sim/synth bounds its Δ binary search with its own constant of the same value.
const maxFixedPointIterations = 64

// IsSchedulable implements is_schedulable(component, α, Δ, p) → bool (§4.B).
// Tasks are WCET-scaled by 1/p before any DBF evaluation. A non-nil error
// wraps ErrInvalidModel (α outside (0,1], Δ < 0, or an unknown scheduling
// algorithm), ErrHorizonExceeded or ErrInconclusive; in every case the boolean
// return is false. For the last two, callers should treat the component as
// not yet proven schedulable rather than proven infeasible.
func IsSchedulable(c *Component, alpha, delta, p float64) (bool, error) {
	if alpha <= 0 || alpha > 1 {
		return false, fmt.Errorf("%w: alpha %v outside (0,1]", ErrInvalidModel, alpha)
	}
	if delta < 0 {
		return false, fmt.Errorf("%w: delta %v is negative", ErrInvalidModel, delta)
	}

	tasks := c.AllTasks()
	if len(tasks) == 0 {
		return true, nil
	}

	// Step 1: necessary condition.
	var totalUtil float64
	for _, t := range tasks {
		totalUtil += t.Utilization(p)
	}
	if totalUtil > alpha && !floatsEqual(totalUtil, alpha) {
		return false, nil
	}

	switch c.Algorithm {
	case EDF:
		return isSchedulableEDF(tasks, alpha, delta, p)
	case FPS:
		return isSchedulableFPS(tasks, alpha, delta, p)
	default:
		return false, fmt.Errorf("%w: component %q has unknown scheduling algorithm %q", ErrInvalidModel, c.ID, c.Algorithm)
	}
}

func maxOf(tasks []*Task, f func(*Task) float64) float64 {
	var m float64
	for _, t := range tasks {
		if v := f(t); v > m {
			m = v
		}
	}
	return m
}

func isSchedulableEDF(tasks []*Task, alpha, delta, p float64) (bool, error) {
	maxDeadline := maxOf(tasks, func(t *Task) float64 { return t.Deadline })
	maxPeriod := maxOf(tasks, func(t *Task) float64 { return t.PeriodOrMIT() })

	lMax := math.Min(10*maxDeadline*(1+maxPeriod), defaultHorizonCap)
	hyper := Hyperperiod(tasks, lMax)
	l := math.Min(hyper, lMax)

	if l >= defaultHorizonCap && !floatsEqual(l, defaultHorizonCap) {
		return false, fmt.Errorf("%w: EDF test horizon %v exceeds implementation cap %v", ErrHorizonExceeded, l, defaultHorizonCap)
	}

	checkpoints := edfCheckpoints(tasks, l)
	for _, t := range checkpoints {
		demand := DBFEDF(tasks, p, t)
		supply := SBFBDR(alpha, delta, t)
		if demand > supply && !floatsEqual(demand, supply) {
			return false, nil
		}
	}
	return true, nil
}

// edfCheckpoints returns the sorted, deduplicated set of absolute deadlines
// within [0, L]: for each task, a+D, a+D+T, ... (§4.B step 3).
func edfCheckpoints(tasks []*Task, l float64) []float64 {
	seen := make(map[float64]bool)
	var points []float64
	for _, t := range tasks {
		period := t.PeriodOrMIT()
		for deadline := t.Deadline; deadline <= l || floatsEqual(deadline, l); deadline += period {
			if !seen[deadline] {
				seen[deadline] = true
				points = append(points, deadline)
			}
		}
	}
	sort.Float64s(points)
	return points
}

// fpsPriorityOrder returns tasks sorted in decreasing priority (most urgent,
// i.e. numerically lowest Priority, first), breaking ties by task ID for
// determinism. Tasks with no explicit priority (synthesized child supply
// tasks) sort first: the server must preempt ordinary tasks whenever its
// component has pending demand, so it is treated as maximally urgent.
func fpsPriorityOrder(tasks []*Task) []*Task {
	sorted := make([]*Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Priority, sorted[j].Priority
		switch {
		case pi == nil && pj == nil:
			return sorted[i].ID < sorted[j].ID
		case pi == nil:
			return true
		case pj == nil:
			return false
		case *pi != *pj:
			return *pi < *pj
		default:
			return sorted[i].ID < sorted[j].ID
		}
	})
	return sorted
}

func isSchedulableFPS(tasks []*Task, alpha, delta, p float64) (bool, error) {
	sorted := fpsPriorityOrder(tasks)

	for i, task := range sorted {
		r, err := fpsFixedPoint(sorted, p, i)
		if err != nil {
			return false, err
		}
		if r > task.Deadline && !floatsEqual(r, task.Deadline) {
			return false, nil
		}

		checkpoints := fpsCheckpoints(sorted, i, r, task.Deadline)
		for _, t := range checkpoints {
			demand := DBFFPS(sorted, p, i, t)
			supply := SBFBDR(alpha, delta, t)
			if demand > supply && !floatsEqual(demand, supply) {
				return false, nil
			}
		}
	}
	return true, nil
}

// fpsFixedPoint iterates R = WCETᵢ + Σ_{j<i} ⌈R/Tⱼ⌉·WCETⱼ until it stabilizes
// or exceeds the task's deadline (§4.B step 2).
func fpsFixedPoint(sorted []*Task, p float64, i int) (float64, error) {
	task := sorted[i]
	r := task.ScaledWCET(p)
	for iter := 0; iter < maxFixedPointIterations; iter++ {
		next := DBFFPS(sorted, p, i, r)
		if floatsEqual(next, r) {
			return next, nil
		}
		if next > task.Deadline && !floatsEqual(next, task.Deadline) {
			return next, nil
		}
		r = next
	}
	logrus.Warnf("[feasibility] fixed point for task %q did not converge within %d iterations", task.ID, maxFixedPointIterations)
	return 0, fmt.Errorf("%w: fixed point for task %q did not converge within %d iterations", ErrInconclusive, task.ID, maxFixedPointIterations)
}

// fpsCheckpoints returns {k·Tⱼ | 0 < k·Tⱼ ≤ L} for every j ≤ i, plus Dᵢ (§4.B
// step 3), sorted and deduplicated.
func fpsCheckpoints(sorted []*Task, i int, l, deadline float64) []float64 {
	seen := map[float64]bool{deadline: true}
	points := []float64{deadline}
	for j := 0; j <= i; j++ {
		period := sorted[j].PeriodOrMIT()
		for k := period; k <= l || floatsEqual(k, l); k += period {
			if !seen[k] {
				seen[k] = true
				points = append(points, k)
			}
		}
	}
	sort.Float64s(points)
	return points
}

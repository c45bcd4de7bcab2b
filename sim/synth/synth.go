// Package synth implements the Interface Synthesizer (§4.C): a bottom-up pass
// over the component tree that computes the minimum (α, Δ) BDR interface for
// every non-root component, synthesizes its periodic supply task via
// sim.HalfHalf, and certifies overall schedulability.
package synth

import (
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adas-hsched/hsched/sim"
)

// precision is the binary-search precision ε on Δ (§4.C step 2).
const precision = 0.1

// maxBinarySearchIterations bounds the Δ binary search; exceeding it without
// converging to within precision surfaces as sim.ErrInconclusive (§7).
const maxBinarySearchIterations = 64

// alphaEscalationFactor is the 20% per-retry α increase of §4.C step 3.
const alphaEscalationFactor = 1.2

// infeasibleAlphaMarkup pushes the reported α past 1 when a component is
// infeasible even at α=1 — the "α > 1 sentinel" the spec calls for (§7).
const infeasibleAlphaMarkup = 0.1

// minAlpha is used for a component with zero demand, which otherwise would
// compute an initial α of exactly 0 (outside the valid (0,1] range).
const minAlpha = 0.01

// ComponentInterface is one entry of AnalysisResults.ComponentInterfaces (§6).
type ComponentInterface struct {
	ComponentID  string
	Alpha        float64
	Delta        float64
	SupplyBudget *float64 // Q, nil for the root (no supply task of its own)
	SupplyPeriod *float64 // P, nil for the root
}

// AnalysisResults is the synthesizer's output (§6).
type AnalysisResults struct {
	IsSchedulable       bool
	ComponentInterfaces []ComponentInterface
	Timestamp           time.Time

	// Warnings accumulates non-fatal per-component conditions (horizon
	// exceeded, binary search non-convergence) that §7 says are reported,
	// not raised, so a caller can surface them without losing the overall
	// result.
	Warnings []string
}

// Synthesize runs the Interface Synthesizer over every root's subtree and
// returns the combined report. Validation errors (sim.ErrInvalidModel,
// sim.ErrUnboundComponent, sim.ErrDuplicateID) are returned immediately and no
// analysis is performed, per §7's policy.
func Synthesize(model *sim.SystemModel) (*AnalysisResults, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	results := &AnalysisResults{IsSchedulable: true, Timestamp: time.Now()}

	for _, root := range model.RootComponents {
		core := model.CoreByID(root.CoreID)
		s := &synthesizer{p: core.PerformanceFactor, results: results}
		s.synthesizeSubtree(root)
	}

	return results, nil
}

type synthesizer struct {
	p       float64
	results *AnalysisResults
}

// synthesizeSubtree walks c's subtree post-order (§4.C: children before
// parents, since a child's supply task raises its parent's demand) and
// records one ComponentInterface per component, including the root.
func (s *synthesizer) synthesizeSubtree(c *sim.Component) {
	for _, child := range c.Children {
		s.synthesizeSubtree(child)
		c.AddSupplyTask(child.SupplyTask())
	}

	if c.IsRoot {
		c.Interface = sim.BDRInterface{Alpha: 1, Delta: 0}
		schedulable, err := sim.IsSchedulable(c, 1, 0, s.p)
		if err != nil {
			s.warn(c.ID, err)
			schedulable = false
		}
		if !schedulable {
			s.results.IsSchedulable = false
		}
		s.results.ComponentInterfaces = append(s.results.ComponentInterfaces, ComponentInterface{
			ComponentID: c.ID,
			Alpha:       1,
			Delta:       0,
		})
		return
	}

	iface, schedulable := s.synthesizeComponent(c)
	c.Interface = iface
	if !schedulable {
		s.results.IsSchedulable = false
	}

	q, period := sim.HalfHalf(iface.Alpha, iface.Delta)
	s.results.ComponentInterfaces = append(s.results.ComponentInterfaces, ComponentInterface{
		ComponentID:  c.ID,
		Alpha:        iface.Alpha,
		Delta:        iface.Delta,
		SupplyBudget: &q,
		SupplyPeriod: &period,
	})
}

// synthesizeComponent implements §4.C steps 1-4 for a single non-root
// component: initial α from utilization, binary search on Δ, α escalation on
// failure, and the α>1 infeasibility sentinel.
func (s *synthesizer) synthesizeComponent(c *sim.Component) (sim.BDRInterface, bool) {
	alpha := math.Min(1, 1.1*c.Utilization(s.p))
	if alpha <= 0 {
		alpha = minAlpha
	}

	maxDeadline := c.MaxDeadline()
	if maxDeadline <= 0 {
		maxDeadline = 1
	}

	for {
		delta, ok := s.binarySearchDelta(c, alpha, 2*maxDeadline)
		if ok {
			return sim.BDRInterface{Alpha: alpha, Delta: delta}, true
		}

		if alpha >= 1 || sim.FloatsEqual(alpha, 1) {
			logrus.Warnf("[synth] component %q is infeasible even at alpha=1", c.ID)
			return sim.BDRInterface{Alpha: 1 + infeasibleAlphaMarkup, Delta: delta}, false
		}
		alpha = math.Min(1, alpha*alphaEscalationFactor)
	}
}

// binarySearchDelta searches Δ in [0, hiBound] for the smallest value that
// makes c schedulable at the given α, returning (delta, true) on success or
// (lastTrialDelta, false) if even the loosest Δ fails.
func (s *synthesizer) binarySearchDelta(c *sim.Component, alpha, hiBound float64) (float64, bool) {
	lo, hi := 0.0, hiBound
	horizonWarned := false
	hiSchedulable, hiTested := false, false

	check := func(delta float64) bool {
		schedulable, err := sim.IsSchedulable(c, alpha, delta, s.p)
		if err != nil {
			switch {
			case errors.Is(err, sim.ErrHorizonExceeded):
				if !horizonWarned {
					s.warn(c.ID, err)
					horizonWarned = true
				}
			case errors.Is(err, sim.ErrInconclusive):
				s.warn(c.ID, err)
			}
			return false
		}
		return schedulable
	}

	for iter := 0; iter < maxBinarySearchIterations && hi-lo > precision; iter++ {
		mid := (lo + hi) / 2
		if check(mid) {
			hi, hiSchedulable, hiTested = mid, true, true
		} else {
			lo = mid
		}
	}
	if hi-lo > precision {
		s.warn(c.ID, sim.ErrInconclusive)
	}

	// hi already carries its own schedulability result from the iteration
	// that set it (check(mid) was true); only re-test it if the loop never
	// ran or never moved hi off its initial, untested value.
	if !hiTested {
		hiSchedulable = check(hi)
	}

	return hi, hiSchedulable
}

func (s *synthesizer) warn(componentID string, err error) {
	msg := componentID + ": " + err.Error()
	logrus.Warnf("[synth] %s", msg)
	s.results.Warnings = append(s.results.Warnings, msg)
}

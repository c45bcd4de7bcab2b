package sim

import "errors"

// Error kinds the core raises (§7). Validation errors (ErrInvalidModel,
// ErrUnboundComponent, ErrDuplicateID) are fatal and returned before any
// analysis runs. ErrInfeasible is surfaced as a negative analysis result, not
// an exception — see sim/synth. ErrHorizonExceeded and ErrInconclusive are
// reported per-component, not treated as fatal to the whole run.
//
// Callers should use errors.Is against these sentinels; detection sites wrap
// them with fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrInvalidModel: missing required fields, or a field outside its
	// documented range (non-positive WCET/period/MIT/deadline, α outside
	// (0,1], Δ < 0).
	ErrInvalidModel = errors.New("invalid model")

	// ErrUnboundComponent: a root component is not bound to any declared core.
	ErrUnboundComponent = errors.New("unbound component")

	// ErrDuplicateID: two entities (cores, components, tasks) share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInfeasible: the synthesizer could not find any (α ≤ 1, Δ ≥ 0)
	// satisfying a component, even at α = 1.
	ErrInfeasible = errors.New("infeasible")

	// ErrHorizonExceeded: the feasibility test would require a horizon beyond
	// the implementation cap.
	ErrHorizonExceeded = errors.New("horizon exceeded")

	// ErrInconclusive: binary search failed to converge within the iteration
	// cap, or a horizon computation failed to converge.
	ErrInconclusive = errors.New("inconclusive")

	// ErrSimulationCancelled: cooperative cancellation was requested.
	ErrSimulationCancelled = errors.New("simulation cancelled")
)

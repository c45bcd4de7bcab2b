package synth

import (
	"testing"

	"github.com/adas-hsched/hsched/internal/testutil"
	"github.com/adas-hsched/hsched/sim"
)

func periodicTask(id string, wcet, period, deadline float64) *sim.Task {
	return &sim.Task{ID: id, Name: id, Kind: sim.Periodic, WCET: wcet, Period: period, Deadline: deadline}
}

func sporadicTask(id string, wcet, mit, deadline float64) *sim.Task {
	return &sim.Task{ID: id, Name: id, Kind: sim.Sporadic, WCET: wcet, MIT: mit, Deadline: deadline}
}

func singleCoreModel(root *sim.Component) *sim.SystemModel {
	root.IsRoot = true
	root.CoreID = "core-0"
	return &sim.SystemModel{
		Cores:          []*sim.Core{{ID: "core-0", PerformanceFactor: 1}},
		RootComponents: []*sim.Component{root},
	}
}

// Scenario 1/2 (§8): root-only model is trivially schedulable; the root's
// own interface is always fixed at (1,0).
func TestSynthesize_RootInterfaceFixed(t *testing.T) {
	root := &sim.Component{ID: "root", Algorithm: sim.EDF, Tasks: []*sim.Task{
		periodicTask("t1", 2, 5, 5),
		periodicTask("t2", 2, 10, 10),
	}}
	model := singleCoreModel(root)

	results, err := Synthesize(model)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !results.IsSchedulable {
		t.Error("IsSchedulable = false, want true")
	}
	if len(results.ComponentInterfaces) != 1 {
		t.Fatalf("len(ComponentInterfaces) = %d, want 1", len(results.ComponentInterfaces))
	}
	ci := results.ComponentInterfaces[0]
	testutil.AssertFloat64Equal(t, "root alpha", 1, ci.Alpha, sim.Tolerance)
	testutil.AssertFloat64Equal(t, "root delta", 0, ci.Delta, sim.Tolerance)
}

// Scenario 5 (§8): EDF parent with a child (MIT=100, WCET=8, D=80) should
// synthesize a schedulable child interface with α in (0,1] whose Half-Half
// supply task has Q/P = α, and the child's supply task must join the root's
// demand set.
func TestSynthesize_ChildInterface_HalfHalfShape(t *testing.T) {
	child := &sim.Component{
		ID: "child", Algorithm: sim.EDF,
		Tasks: []*sim.Task{sporadicTask("tau", 8, 100, 80)},
	}
	root := &sim.Component{
		ID: "root", Algorithm: sim.EDF,
		Children: []*sim.Component{child},
	}
	model := singleCoreModel(root)

	results, err := Synthesize(model)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !results.IsSchedulable {
		t.Fatalf("IsSchedulable = false, want true; warnings=%v", results.Warnings)
	}

	var childIface *ComponentInterface
	for i := range results.ComponentInterfaces {
		if results.ComponentInterfaces[i].ComponentID == "child" {
			childIface = &results.ComponentInterfaces[i]
		}
	}
	if childIface == nil {
		t.Fatal("no ComponentInterface found for child")
	}
	if childIface.Alpha > 1 || childIface.Alpha <= 0 {
		t.Errorf("child alpha = %v, want in (0,1]", childIface.Alpha)
	}
	if childIface.SupplyBudget == nil || childIface.SupplyPeriod == nil {
		t.Fatal("child interface missing supply budget/period")
	}
	testutil.AssertFloat64Equal(t, "supply Q/P ratio matches alpha",
		childIface.Alpha, *childIface.SupplyBudget / *childIface.SupplyPeriod, 1e-6)

	// Root's own demand must include the child's synthesized supply task.
	found := false
	for _, rt := range root.AllTasks() {
		if rt.ID == "child#supply" {
			found = true
		}
	}
	if !found {
		t.Error("root's task set does not include the child's synthesized supply task (§9 open question: child demand must be explicit)")
	}
}

// A child whose single task needs the whole CPU (WCET = D = T = 1) drives
// α up to 1; the test checks that the reported α then stays within the
// infeasibility sentinel band (at most 1 + infeasibleAlphaMarkup).
func TestSynthesize_ChildAlphaStaysWithinSentinelBand(t *testing.T) {
	// A child whose task WCET exceeds its own deadline is rejected by
	// Validate before synthesis; instead the child's utilization is exactly
	// 1, so the initial α is already 1.
	child := &sim.Component{
		ID: "child", Algorithm: sim.EDF,
		Tasks: []*sim.Task{periodicTask("tau", 1, 1, 1)},
	}
	root := &sim.Component{ID: "root", Algorithm: sim.EDF, Children: []*sim.Component{child}}
	model := singleCoreModel(root)

	results, err := Synthesize(model)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	var childIface *ComponentInterface
	for i := range results.ComponentInterfaces {
		if results.ComponentInterfaces[i].ComponentID == "child" {
			childIface = &results.ComponentInterfaces[i]
		}
	}
	if childIface == nil {
		t.Fatal("no ComponentInterface found for child")
	}
	// At α=1 the task fits only with Δ=0 (any Δ > 0 gives sbf(1) = 1−Δ < 1),
	// so assert the general invariant: alpha never exceeds the sentinel band.
	if childIface.Alpha > 1+0.1+sim.Tolerance {
		t.Errorf("child alpha = %v, exceeds sentinel band", childIface.Alpha)
	}
}

// Property 5 (§8): synthesizing twice produces identical interfaces within
// precision ε.
func TestSynthesize_Idempotent(t *testing.T) {
	build := func() *sim.SystemModel {
		child := &sim.Component{
			ID: "child", Algorithm: sim.EDF,
			Tasks: []*sim.Task{sporadicTask("tau", 8, 100, 80)},
		}
		root := &sim.Component{ID: "root", Algorithm: sim.EDF, Children: []*sim.Component{child}}
		return singleCoreModel(root)
	}

	r1, err := Synthesize(build())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	r2, err := Synthesize(build())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if len(r1.ComponentInterfaces) != len(r2.ComponentInterfaces) {
		t.Fatalf("interface count differs: %d vs %d", len(r1.ComponentInterfaces), len(r2.ComponentInterfaces))
	}
	for i := range r1.ComponentInterfaces {
		a, b := r1.ComponentInterfaces[i], r2.ComponentInterfaces[i]
		if a.ComponentID != b.ComponentID {
			t.Fatalf("component order differs: %q vs %q", a.ComponentID, b.ComponentID)
		}
		testutil.AssertFloat64Equal(t, a.ComponentID+" alpha", a.Alpha, b.Alpha, precision)
		testutil.AssertFloat64Equal(t, a.ComponentID+" delta", a.Delta, b.Delta, precision)
	}
}

func TestSynthesize_PropagatesValidationErrors(t *testing.T) {
	model := &sim.SystemModel{}
	if _, err := Synthesize(model); err == nil {
		t.Error("Synthesize(empty model) should return a validation error")
	}
}

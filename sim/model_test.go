package sim

import (
	"errors"
	"testing"

	"github.com/adas-hsched/hsched/internal/testutil"
)

func periodicTask(id string, wcet, period, deadline float64) *Task {
	return &Task{ID: id, Name: id, Kind: Periodic, WCET: wcet, Period: period, Deadline: deadline}
}

func sporadicTask(id string, wcet, mit, deadline float64) *Task {
	return &Task{ID: id, Name: id, Kind: Sporadic, WCET: wcet, MIT: mit, Deadline: deadline}
}

func TestTask_PeriodOrMIT(t *testing.T) {
	p := periodicTask("t1", 2, 10, 10)
	if p.PeriodOrMIT() != 10 {
		t.Errorf("periodic PeriodOrMIT() = %v, want 10", p.PeriodOrMIT())
	}
	s := sporadicTask("t2", 2, 15, 15)
	if s.PeriodOrMIT() != 15 {
		t.Errorf("sporadic PeriodOrMIT() = %v, want 15", s.PeriodOrMIT())
	}
}

func TestTask_NextArrival(t *testing.T) {
	p := periodicTask("t1", 2, 10, 10)
	if got := p.NextArrival(30); got != 40 {
		t.Errorf("NextArrival(30) = %v, want 40", got)
	}
}

func TestTask_Utilization_ScalesByPerformanceFactor(t *testing.T) {
	task := periodicTask("t1", 4, 10, 10)
	testutil.AssertFloat64Equal(t, "u(p=1)", 0.4, task.Utilization(1), Tolerance)
	testutil.AssertFloat64Equal(t, "u(p=0.8)", 0.5, task.Utilization(0.8), Tolerance)
}

func TestTask_Validate_ConstrainedDeadlines(t *testing.T) {
	task := periodicTask("t1", 6, 10, 5) // WCET > D
	if err := task.Validate(); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("Validate() = %v, want ErrInvalidModel", err)
	}
}

func TestTask_Validate_NonPositiveFields(t *testing.T) {
	cases := []*Task{
		periodicTask("t1", 0, 10, 10),
		periodicTask("t1", 2, 0, 10),
		periodicTask("t1", 2, 10, 0),
		sporadicTask("t1", 2, 0, 10),
	}
	for i, task := range cases {
		if err := task.Validate(); !errors.Is(err, ErrInvalidModel) {
			t.Errorf("case %d: Validate() = %v, want ErrInvalidModel", i, err)
		}
	}
}

func TestComponent_AllTasks_IncludesSynthesizedSupplyTasks(t *testing.T) {
	c := &Component{ID: "c1", Algorithm: EDF, Tasks: []*Task{periodicTask("t1", 2, 10, 10)}}
	if len(c.AllTasks()) != 1 {
		t.Fatalf("AllTasks() len = %d, want 1", len(c.AllTasks()))
	}
	c.AddSupplyTask(periodicTask("child#supply", 4, 20, 20))
	if len(c.AllTasks()) != 2 {
		t.Fatalf("AllTasks() len = %d, want 2 after AddSupplyTask", len(c.AllTasks()))
	}
	// Own Tasks slice is untouched.
	if len(c.Tasks) != 1 {
		t.Errorf("Tasks len = %d, want 1 (AddSupplyTask must not mutate Tasks)", len(c.Tasks))
	}
}

func TestComponent_Utilization_SumsAcrossTasks(t *testing.T) {
	c := &Component{
		ID:        "c1",
		Algorithm: EDF,
		Tasks: []*Task{
			periodicTask("t1", 2, 10, 10), // u=0.2
			periodicTask("t2", 2, 20, 20), // u=0.1
		},
	}
	testutil.AssertFloat64Equal(t, "utilization", 0.3, c.Utilization(1), Tolerance)
}

func TestSystemModel_Validate_RequiresBoundRoot(t *testing.T) {
	model := &SystemModel{
		Cores: []*Core{{ID: "core-0", PerformanceFactor: 1}},
		RootComponents: []*Component{
			{ID: "root", Algorithm: EDF, IsRoot: true, Tasks: []*Task{periodicTask("t1", 2, 10, 10)}},
		},
	}
	if err := model.Validate(); !errors.Is(err, ErrUnboundComponent) {
		t.Fatalf("Validate() = %v, want ErrUnboundComponent", err)
	}
}

func TestSystemModel_Validate_RejectsDuplicateIDs(t *testing.T) {
	model := &SystemModel{
		Cores: []*Core{{ID: "core-0", PerformanceFactor: 1}},
		RootComponents: []*Component{
			{
				ID: "root", Algorithm: EDF, IsRoot: true, CoreID: "core-0",
				Tasks: []*Task{periodicTask("dup", 2, 10, 10), periodicTask("dup", 2, 10, 10)},
			},
		},
	}
	if err := model.Validate(); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("Validate() = %v, want ErrDuplicateID", err)
	}
}

func TestSystemModel_Validate_AcceptsWellFormedModel(t *testing.T) {
	model := &SystemModel{
		Cores: []*Core{{ID: "core-0", PerformanceFactor: 1}},
		RootComponents: []*Component{
			{
				ID: "root", Algorithm: EDF, IsRoot: true, CoreID: "core-0",
				Tasks: []*Task{periodicTask("t1", 2, 10, 10)},
			},
		},
	}
	if err := model.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

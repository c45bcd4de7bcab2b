package trace

import "testing"

func TestSummarize_TaskResponseTimes(t *testing.T) {
	responseTimes := map[string][]float64{"t1": {2, 4, 6}}
	missed := map[string]int{"t1": 1}

	tasks, _ := Summarize(responseTimes, missed, nil, nil, 100)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	tr := tasks[0]
	if tr.Avg != 4 {
		t.Errorf("Avg = %v, want 4", tr.Avg)
	}
	if tr.Max != 6 {
		t.Errorf("Max = %v, want 6", tr.Max)
	}
	if tr.MissedDeadlines != 1 {
		t.Errorf("MissedDeadlines = %v, want 1", tr.MissedDeadlines)
	}
}

func TestSummarize_ComponentUtilization(t *testing.T) {
	executed := map[string]float64{"c1": 60}
	allocated := map[string]float64{"c1": 0.7}

	_, components := Summarize(nil, nil, executed, allocated, 100)
	if len(components) != 1 {
		t.Fatalf("len(components) = %d, want 1", len(components))
	}
	cu := components[0]
	if cu.Utilization != 0.6 {
		t.Errorf("Utilization = %v, want 0.6", cu.Utilization)
	}
	if cu.AllocatedUtilization != 0.7 {
		t.Errorf("AllocatedUtilization = %v, want 0.7", cu.AllocatedUtilization)
	}
}

func TestSummarize_EmptyTaskHasZeroStats(t *testing.T) {
	responseTimes := map[string][]float64{"t1": nil}
	tasks, _ := Summarize(responseTimes, nil, nil, nil, 100)
	if tasks[0].Avg != 0 || tasks[0].Max != 0 {
		t.Errorf("expected zero stats for empty response-time list, got %+v", tasks[0])
	}
}

func TestSummarize_TaskWithNoCompletionsStillReportsMissedDeadlines(t *testing.T) {
	missed := map[string]int{"overloaded": 7}

	tasks, _ := Summarize(nil, missed, nil, nil, 100)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	tr := tasks[0]
	if tr.TaskID != "overloaded" {
		t.Errorf("TaskID = %q, want %q", tr.TaskID, "overloaded")
	}
	if tr.MissedDeadlines != 7 {
		t.Errorf("MissedDeadlines = %v, want 7", tr.MissedDeadlines)
	}
	if tr.Avg != 0 || tr.Max != 0 {
		t.Errorf("expected zero response-time stats for a task with no completions, got %+v", tr)
	}
}

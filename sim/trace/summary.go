package trace

import "gonum.org/v1/gonum/floats"

// TaskResponseTime is one entry of SimulationResults.taskResponseTimes (§6).
type TaskResponseTime struct {
	TaskID          string
	Avg             float64
	Max             float64
	MissedDeadlines int
}

// ComponentUtilization is one entry of SimulationResults.componentUtilizations
// (§6): executed-time / horizon, alongside the component's allocated share α.
type ComponentUtilization struct {
	ComponentID         string
	Utilization         float64
	AllocatedUtilization float64
}

// Summarize folds the simulator's per-task and per-component accumulators
// (not a Log's execution records) into per-task response-time statistics and
// per-component utilization, as the §6 output contract describes.
// responseTimesByTask maps a task id to the list of
// completed-job response times (end-to-end, arrival to final completion, not
// per-slice); executedTimeByComponent and horizon derive utilization.
//
// A task may accrue missed deadlines without ever completing a job within
// the horizon (a perpetually-overloaded task), so the result set is keyed by
// the union of responseTimesByTask and missedDeadlinesByTask rather than by
// responseTimesByTask alone — otherwise such a task's miss count would be
// silently dropped from the report.
func Summarize(responseTimesByTask map[string][]float64, missedDeadlinesByTask map[string]int,
	executedTimeByComponent map[string]float64, allocatedAlphaByComponent map[string]float64,
	horizon float64) ([]TaskResponseTime, []ComponentUtilization) {

	taskIDs := make(map[string]struct{}, len(responseTimesByTask)+len(missedDeadlinesByTask))
	for taskID := range responseTimesByTask {
		taskIDs[taskID] = struct{}{}
	}
	for taskID := range missedDeadlinesByTask {
		taskIDs[taskID] = struct{}{}
	}

	taskResults := make([]TaskResponseTime, 0, len(taskIDs))
	for taskID := range taskIDs {
		times := responseTimesByTask[taskID]
		tr := TaskResponseTime{TaskID: taskID, MissedDeadlines: missedDeadlinesByTask[taskID]}
		if len(times) > 0 {
			tr.Avg = floats.Sum(times) / float64(len(times))
			tr.Max = floats.Max(times)
		}
		taskResults = append(taskResults, tr)
	}

	componentResults := make([]ComponentUtilization, 0, len(executedTimeByComponent))
	for componentID, executed := range executedTimeByComponent {
		var utilization float64
		if horizon > 0 {
			utilization = executed / horizon
		}
		componentResults = append(componentResults, ComponentUtilization{
			ComponentID:          componentID,
			Utilization:          utilization,
			AllocatedUtilization: allocatedAlphaByComponent[componentID],
		})
	}

	return taskResults, componentResults
}

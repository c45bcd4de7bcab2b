package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adas-hsched/hsched/sim/engine"
	"github.com/adas-hsched/hsched/sim/trace"
)

func TestPrintSimulationResults_WritesTaskAndComponentSummaries(t *testing.T) {
	results := &engine.SimulationResults{
		SimulationTime: 100,
		TaskResponseTimes: []trace.TaskResponseTime{
			{TaskID: "tau1", Avg: 2, Max: 2, MissedDeadlines: 0},
		},
		ComponentUtilizations: []trace.ComponentUtilization{
			{ComponentID: "root", Utilization: 0.6, AllocatedUtilization: 1},
		},
	}

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	printSimulationResults(results)

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	assert.Contains(t, output, "tau1")
	assert.Contains(t, output, "missedDeadlines=0")
	assert.Contains(t, output, "root")
}

func TestSimulateCmd_RegisteredOnRoot(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "simulate" {
			found = true
		}
	}
	require.True(t, found, "simulate subcommand must be registered on root")
}

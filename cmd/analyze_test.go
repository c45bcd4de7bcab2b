package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adas-hsched/hsched/sim/synth"
)

func TestPrintAnalysisResults_WritesScheduleAndInterfaces(t *testing.T) {
	alpha, delta := 0.5, 10.0
	results := &synth.AnalysisResults{
		IsSchedulable: true,
		ComponentInterfaces: []synth.ComponentInterface{
			{ComponentID: "root", Alpha: 1, Delta: 0},
			{ComponentID: "child", Alpha: 0.5, Delta: 10, SupplyBudget: &alpha, SupplyPeriod: &delta},
		},
	}

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	printAnalysisResults(results)

	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	assert.Contains(t, output, "isSchedulable: true")
	assert.Contains(t, output, "root")
	assert.Contains(t, output, "child")
	assert.Contains(t, output, "supply=")
}

func TestAnalyzeCmd_RegisteredOnRoot(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "analyze" {
			found = true
		}
	}
	require.True(t, found, "analyze subcommand must be registered on root")
}

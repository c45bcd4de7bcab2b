package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_LogFlag_DefaultsToInfo(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("log")
	require.NotNil(t, flag, "log flag must be registered")
	assert.Equal(t, "info", flag.DefValue)
}

func TestAnalyzeCmd_ModelFlag_IsRequired(t *testing.T) {
	flag := analyzeCmd.Flags().Lookup("model")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
	assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag])
}

func TestSimulateCmd_HorizonFlag_DefaultsPositive(t *testing.T) {
	flag := simulateCmd.Flags().Lookup("horizon")
	require.NotNil(t, flag)
	assert.Equal(t, "1000", flag.DefValue)
}

func TestLoadModel_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	jsonBody := `{"cores":[{"id":"c0","name":"c0","performanceFactor":1}],
		"rootComponents":[{"id":"core-c0-root","name":"root","schedulingAlgorithm":"EDF",
		"tasks":[{"id":"t1","name":"t1","type":"periodic","wcet":2,"deadline":5,"period":5}]}]}`
	jsonPath := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonBody), 0o644))

	model, err := loadModel(jsonPath)
	require.NoError(t, err)
	assert.Len(t, model.RootComponents, 1)

	csvBody := "Task,BCET,WCET,Period,Deadline\ntau1,1,2,5,5\n"
	csvPath := filepath.Join(dir, "model.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(csvBody), 0o644))

	model, err = loadModel(csvPath)
	require.NoError(t, err)
	assert.Len(t, model.RootComponents[0].Tasks, 1)
}

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adas-hsched/hsched/sim"
)

func TestLoadCSV_CommaSeparatedWithHeader(t *testing.T) {
	body := "Task,BCET,WCET,Period,Deadline,Priority\n" +
		"tau1,1,2,5,5,1\n" +
		"tau2,1,2,10,10,2\n"

	model, err := LoadCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.NoError(t, model.Validate())

	root := model.RootComponents[0]
	require.True(t, root.IsRoot)
	require.Equal(t, sim.EDF, root.Algorithm)
	require.Len(t, root.Tasks, 2)
	require.Equal(t, 2.0, root.Tasks[0].WCET)
	require.NotNil(t, root.Tasks[0].Priority)
	require.Equal(t, 1, *root.Tasks[0].Priority)

	require.Len(t, model.Cores, 1)
	require.Equal(t, 1.0, model.Cores[0].PerformanceFactor)
}

func TestLoadCSV_WhitespaceSeparatedNoHeader(t *testing.T) {
	body := "tau1 1 2 5 5\ntau2 1 2 10 10\n"
	model, err := LoadCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, model.RootComponents[0].Tasks, 2)
}

func TestLoadCSV_TabSeparated(t *testing.T) {
	body := "tau1\t1\t2\t5\t5\n"
	model, err := LoadCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, model.RootComponents[0].Tasks, 1)
}

func TestLoadCSV_SkipsUnparseableRows(t *testing.T) {
	body := "Task,BCET,WCET,Period,Deadline\n" +
		"tau1,1,2,5,5\n" +
		"tau2,1,notanumber,10,10\n" +
		"tau3,1,3,10,10\n"

	model, err := LoadCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, model.RootComponents[0].Tasks, 2)
}

func TestLoadCSV_SkipsShortRows(t *testing.T) {
	body := "tau1,1,2,5\n" + "tau2,1,2,10,10\n"
	model, err := LoadCSV(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, model.RootComponents[0].Tasks, 1)
}

func TestLooksLikeHeader(t *testing.T) {
	require.True(t, looksLikeHeader([]string{"Task", "BCET", "WCET", "Period", "Deadline"}))
	require.False(t, looksLikeHeader([]string{"tau1", "1", "2", "5", "5"}))
}

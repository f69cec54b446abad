package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/hclust/dendrogram"
)

const sessionsCSV = `Administrative,Administrative_Duration,Informational,Informational_Duration,ProductRelated,ProductRelated_Duration,BounceRates,ExitRates,PageValues,SpecialDay,Month,OperatingSystems,Browser,Region,TrafficType,VisitorType,Weekend,Revenue
0,0,0,0,1,0,0.2,0.2,0,0,Feb,1,1,1,1,Returning_Visitor,FALSE,FALSE
0,0,0,0,2,10,0.1,0.2,0,0,Feb,1,1,1,1,Returning_Visitor,FALSE,FALSE
2,10,0,0,2,64,0,0.1,0,0.4,Feb,2,2,1,2,Returning_Visitor,FALSE,FALSE
4,20,1,0,10,627.5,0.02,0.05,0,0,Nov,4,1,9,3,Returning_Visitor,TRUE,TRUE
5,25,1,5,12,600,0.01,0.04,0,0,Nov,4,1,9,3,Returning_Visitor,TRUE,TRUE
6,30,0,0,19,154.2,0.01,0.02,0,0,June,3,2,2,4,New_Visitor,FALSE,FALSE
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	cfgFile = ""

	path := filepath.Join(dir, "sessions.csv")
	require.NoError(t, os.WriteFile(path, []byte(sessionsCSV), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	data := setup(t)

	out, err := execute(t, "run", "--data", data, "--k", "2,3", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "2 groups")
	assert.Contains(t, out, "3 groups")
	assert.Contains(t, out, "Month_Nov")
	assert.Contains(t, out, "BounceRates_mean")
}

func TestRun_DendrogramFile(t *testing.T) {
	data := setup(t)
	target := filepath.Join(filepath.Dir(data), "dendrogram.json")

	_, err := execute(t, "run", "--data", data, "--k", "2", "--log-level", "error",
		"--dendrogram-out", target, "--truncate-level", "1")
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)

	var layout dendrogram.Layout
	require.NoError(t, json.Unmarshal(raw, &layout))
	assert.Len(t, layout.Order, 6)
	assert.Equal(t, 0.24, layout.ColorThreshold)
	// Only the root and its internal children are expanded.
	assert.GreaterOrEqual(t, len(layout.Links), 1)
	assert.LessOrEqual(t, len(layout.Links), 3)
	assert.Len(t, layout.Leaves, len(layout.Links)+1)
}

func TestRun_InvalidK(t *testing.T) {
	data := setup(t)

	_, err := execute(t, "run", "--data", data, "--k", "7", "--log-level", "error")
	assert.Error(t, err)

	_, err = execute(t, "run", "--data", data, "--k", "0")
	assert.ErrorContains(t, err, "must be positive")
}

func TestRun_InvalidMethod(t *testing.T) {
	data := setup(t)

	_, err := execute(t, "run", "--data", data, "--method", "median")
	assert.ErrorContains(t, err, "median")
}

func TestRun_NoData(t *testing.T) {
	setup(t)

	_, err := execute(t, "run")
	assert.ErrorContains(t, err, "no data file")
}

func TestRun_ConfigFile(t *testing.T) {
	data := setup(t)
	require.NoError(t, os.WriteFile(".hclust.yaml", []byte("app:\n  log_level: error\ndata:\n  path: "+data+"\ncluster:\n  ks: [2]\n"), 0o600))

	out, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "2 groups")
	assert.NotContains(t, out, "3 groups")
}

func TestTree(t *testing.T) {
	data := setup(t)

	out, err := execute(t, "tree", "--data", data, "--last", "2", "--method", "average", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "average linkage of 6 sessions")
	assert.Contains(t, out, "height")
}

func TestRun_AssignmentsYAML(t *testing.T) {
	data := setup(t)
	target := filepath.Join(filepath.Dir(data), "labels.yaml")

	_, err := execute(t, "run", "--data", data, "--k", "2,6", "--log-level", "error", "--assignments-out", target)
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)

	var got map[string]struct {
		Labels    []int   `yaml:"labels"`
		Threshold float64 `yaml:"threshold"`
	}
	require.NoError(t, yaml.Unmarshal(raw, &got))
	require.Contains(t, got, "2")
	require.Contains(t, got, "6")
	assert.Len(t, got["2"].Labels, 6)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6}, got["6"].Labels)
	assert.True(t, math.IsInf(got["6"].Threshold, -1))
}

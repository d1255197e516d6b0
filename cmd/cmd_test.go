package cmd

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/pqtorus/InputParameters"
	"github.com/notargets/pqtorus/lattice"
)

func execute(t *testing.T, args ...string) (out string, err error) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return buf.String(), err
}

func TestInvariantsReport(t *testing.T) {
	report, err := Invariants(lattice.Lattice{P: 2, Q: 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.41203005332151393, report.E1, 1.e-14)
	assert.InDelta(t, 1.627747100625931, report.K, 1.e-12)
	assert.InDelta(t, 2.441620650938897, report.Kp, 1.e-12)
	assert.Empty(t, report.Warning)

	out, err := execute(t, "invariants", "-p", "2", "-q", "3", "-o", "json")
	require.NoError(t, err)
	var parsed InvariantsReport
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, report.G2, parsed.G2)

	_, err = execute(t, "invariants", "-p", "-2", "-q", "3")
	assert.ErrorIs(t, err, lattice.ErrInvalidLattice)
}

func TestEvalReport(t *testing.T) {
	report, err := Eval(lattice.Lattice{P: 2, Q: 3}, complex(0.5, 0.7))
	require.NoError(t, err)
	assert.InDelta(t, -0.445435842784597, report.P[0], 1.e-12)
	assert.InDelta(t, 3.0307927077985575, report.PPrime[0], 1.e-12)
	assert.Empty(t, report.Warnings)
	assert.False(t, report.Perturbed)

	report, err = Eval(lattice.Lattice{P: 2, Q: 3}, 0)
	require.NoError(t, err)
	assert.Len(t, report.Warnings, 1)
	assert.True(t, report.Perturbed)

	out, err := execute(t, "eval", "-p", "2", "-q", "3", "--re", "0.5", "--im", "0.7")
	require.NoError(t, err)
	var parsed EvalReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	assert.InDelta(t, -1.2610494557453347, parsed.P[1], 1.e-12)
}

func TestMeshCommand(t *testing.T) {
	dir, err := ioutil.TempDir("", "pqtorus")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	input := filepath.Join(dir, "params.yaml")
	require.NoError(t, ioutil.WriteFile(input, []byte(`
Title: Test Case
P: 2
Q: 3
GridSize: 4
Domain: full
Wrap: true
`), 0644))
	output := filepath.Join(dir, "torus.json")
	_, err = execute(t, "mesh", "-I", input, "-o", output, "-n", "5")
	require.NoError(t, err)
	data, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	var report MeshReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "Test Case", report.Title)
	assert.Len(t, report.Vertices, 25)
	assert.Len(t, report.Faces, 25)
	assert.Equal(t, 0, report.EulerCharacteristic)
	assert.Equal(t, [4]float64{0, 0, 0, 1}, report.Projection[2])
	assert.Equal(t, "full", report.Domain)

	_, err = execute(t, "mesh", "-p", "0", "-n", "5")
	assert.ErrorIs(t, err, lattice.ErrInvalidLattice)
	_, err = execute(t, "mesh", "-n", "5", "--profile", "gpu")
	assert.Error(t, err)
}

func TestMeshScenario(t *testing.T) {
	tp := InputParameters.NewTorusParameters()
	tp.GridSize = 5
	tp.Offset = 0
	report, err := Mesh(tp)
	require.NoError(t, err)
	assert.Len(t, report.Vertices, 25)
	assert.Len(t, report.Faces, 16)
	for _, face := range report.Faces {
		for _, v := range face {
			assert.True(t, v >= 0 && v < 25)
		}
	}
	assert.Equal(t, 1, report.Stats.PoleWarnings)
}

func TestRunChecks(t *testing.T) {
	for _, pq := range [][2]float64{{2, 3}, {1, 1}, {0.7, 1.9}} {
		results, err := RunChecks(lattice.Lattice{P: pq[0], Q: pq[1]}, 7)
		require.NoError(t, err)
		assert.NotEmpty(t, results)
		for _, r := range results {
			assert.True(t, r.Pass, "p, q = %v: %s = %g", pq, r.Name, r.Value)
		}
	}
	_, err := RunChecks(lattice.Lattice{P: 2, Q: 3}, 1)
	assert.Error(t, err)

	out, err := execute(t, "verify", "-p", "2", "-q", "3", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "differential equation")
	assert.NotContains(t, out, "FAIL")
}

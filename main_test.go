package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataDir(t *testing.T, wheelTemplate string) string {
	t.Helper()
	dir := t.TempDir()
	assembly := `// M113 road-wheel assembly
{
    "Type": "RoadWheelAssembly",
    "Template": "RotationalDamperRWAssembly",
    "Name": "M113_Suspension",
    "Suspension Arm": {
        "Mass": 75.26,
        "COM": [0, 0, 0],
        "Inertia": [0.37, 0.77, 0.77],
        "Location Chassis": [0, 0, 0],
        "Location Wheel": [0, 0, -0.24],
        "Radius": 0.03
    },
    "Torsional Spring": {
        "Free Angle": 0.87,
        "Spring Constant": 2.5e4,
        "Damping Coefficient": 5,
        "Preload": 0
    },
    "Damper": {"Damping Coefficient": 1.8e3},
    "Road Wheel Input File": "RoadWheel.json"
}`
	wheel := `{
    "Name": "M113_RoadWheel",
    "Type": "RoadWheel",
    "Template": "` + wheelTemplate + `",
    "Wheel": {"Mass": 35.56, "Inertia": [1.14, 2.16, 1.14], "Radius": 0.305, "Width": 0.181}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Suspension.json"), []byte(assembly), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "RoadWheel.json"), []byte(wheel), 0644))
	return dir
}

func TestRunWritesReports(t *testing.T) {
	dataDir := writeDataDir(t, "SingleRoadWheel")
	outDir := filepath.Join(t.TempDir(), "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-data-dir", dataDir, "-output-dir", outDir, "Suspension.json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "loaded resource")
	assert.Contains(t, out, "built assembly")
	assert.Contains(t, out, "LinearDamper(c=1800)")
	assert.Equal(t, 2, strings.Count(out, "loaded resource"))

	// A scalar damper has no curve to export.
	_, err := os.Stat(filepath.Join(outDir, "damper_curve.csv"))
	assert.True(t, os.IsNotExist(err))

	for _, name := range []string{"geometry.csv", "sweep.csv", "assembly.yaml", "config.yaml"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name string
		args func(dataDir string) []string
		code int
		msg  string
	}{
		{
			name: "no arguments",
			args: func(string) []string { return nil },
			code: 2,
		},
		{
			name: "unknown flag",
			args: func(string) []string { return []string{"-bogus", "x.json"} },
			code: 2,
		},
		{
			name: "missing file",
			args: func(dir string) []string { return []string{"-data-dir", dir, "missing.json"} },
			code: 1,
			msg:  "failed to build assembly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args(writeDataDir(t, "SingleRoadWheel")), &stdout, &stderr)
			assert.Equal(t, tt.code, code)
			if tt.msg != "" {
				assert.Contains(t, stdout.String(), tt.msg)
			}
		})
	}
}

func TestRunUnsupportedWheel(t *testing.T) {
	dataDir := writeDataDir(t, "TripleRoadWheel")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-data-dir", dataDir, "Suspension.json"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "TripleRoadWheel")
	assert.Contains(t, stdout.String(), "state=failed")
	assert.NotContains(t, stdout.String(), "loaded resource")
}

package curve

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func damperCurve(t *testing.T) *Curve {
	t.Helper()
	c, err := FromPoints([]Point{{0, 0}, {1, 10}, {2, 15}})
	require.NoError(t, err)
	return c
}

func TestEvaluate(t *testing.T) {
	c := damperCurve(t)

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"midpoint first segment", 0.5, 5.0},
		{"midpoint second segment", 1.5, 12.5},
		{"quarter second segment", 1.25, 11.25},
		{"above range clamps", 3, 15.0},
		{"far above range clamps", 1e9, 15.0},
		{"below range clamps", -1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Evaluate(tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestEvaluateExactSamples(t *testing.T) {
	pts := []Point{{-2.5, 0.1}, {-0.3, 1.0 / 3.0}, {0.7, -4.2}, {1.1, 7.77}, {9.9, 0.3}}
	c, err := FromPoints(pts)
	require.NoError(t, err)

	for _, p := range pts {
		got, err := c.Evaluate(p.X)
		require.NoError(t, err)
		assert.Equal(t, p.Y, got, "x=%v", p.X)
	}
}

func TestEvaluateMatchesFormula(t *testing.T) {
	pts := []Point{{0.1, 3}, {0.4, -2}, {1.3, 8}}
	c, err := FromPoints(pts)
	require.NoError(t, err)

	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		for _, f := range []float64{0.1, 0.33, 0.5, 0.9} {
			x := a.X + f*(b.X-a.X)
			want := a.Y + (b.Y-a.Y)*(x-a.X)/(b.X-a.X)
			got, err := c.Evaluate(x)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-9)
		}
	}
}

func TestAddRejectsNonIncreasing(t *testing.T) {
	tests := []struct {
		name  string
		pts   []Point
		index int
	}{
		{"duplicate x", []Point{{0, 0}, {1, 1}, {1, 2}}, 2},
		{"decreasing x", []Point{{0, 0}, {2, 1}, {1, 2}}, 2},
		{"second point equal", []Point{{5, 0}, {5, 0}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromPoints(tt.pts)
			var ce *InvalidCurveError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.index, ce.Index)
		})
	}
}

func TestAddLeavesCurveUnchangedOnError(t *testing.T) {
	c := damperCurve(t)
	require.Error(t, c.Add(1.5, 99))
	assert.Equal(t, 3, c.Len())

	got, err := c.Evaluate(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, got, 1e-12)
}

func TestEvaluateTooFewPoints(t *testing.T) {
	c := New()
	_, err := c.Evaluate(0)
	var ce *InvalidCurveError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, -1, ce.Index)

	require.NoError(t, c.Add(0, 1))
	_, err = c.Evaluate(0)
	require.ErrorAs(t, err, &ce)

	require.NoError(t, c.Add(1, 3))
	got, err := c.Evaluate(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestClone(t *testing.T) {
	c := damperCurve(t)
	cp := c.Clone()
	require.NoError(t, c.Add(3, 100))

	got, err := cp.Evaluate(3)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got)
	assert.Equal(t, 3, cp.Len())

	lo, hi := c.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 3.0, hi)
}

func TestWriteCSV(t *testing.T) {
	c := damperCurve(t)

	var buf bytes.Buffer
	require.NoError(t, c.WriteCSV(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "rate,torque\n"), buf.String())

	var back []Point
	require.NoError(t, gocsv.Unmarshal(&buf, &back))
	assert.Equal(t, c.Points(), back)
}

func TestFromPoints(t *testing.T) {
	pts := make([]Point, 5000)
	for i := range pts {
		pts[i] = Point{X: float64(i), Y: 2 * float64(i)}
	}
	c, err := FromPoints(pts)
	require.NoError(t, err)
	assert.Equal(t, len(pts), c.Len())

	got, err := c.Evaluate(1234.5)
	require.NoError(t, err)
	assert.InDelta(t, 2469.0, got, 1e-9)

	lo, hi := c.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 4999.0, hi)

	tests := []struct {
		name  string
		pts   []Point
		index int
	}{
		{"repeated x", []Point{{0, 0}, {1, 1}, {1, 2}}, 2},
		{"decreasing x", []Point{{0, 0}, {-1, 1}}, 1},
		{"nan y", []Point{{0, math.NaN()}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromPoints(tt.pts)
			assert.Nil(t, c)
			var ce *InvalidCurveError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.index, ce.Index)
		})
	}
}

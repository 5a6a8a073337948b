package torque

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/torsion/curve"
)

func TestLinearSpringDamper(t *testing.T) {
	m := NewSpring(SpringSpec{K: 100, C: 5, T0: 2})

	tests := []struct {
		name         string
		displacement float64
		rate         float64
		want         float64
	}{
		{"preload only", 0, 0, 2},
		{"displacement", 0.1, 0, -8},
		{"rate", 0, 1, -3},
		{"negative displacement", -0.2, 0, 22},
		{"negative rate", 0, -2, 12},
		{"both", 0.05, -0.4, -5 + 2 + 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Evaluate(tt.displacement, tt.rate)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
	assert.Equal(t, KindLinearSpringDamper, m.Kind())
}

func TestLinearDamperIgnoresDisplacement(t *testing.T) {
	m := LinearDamper{C: 3.5}
	for _, d := range []float64{-10, -0.1, 0, 0.1, 10} {
		for _, r := range []float64{-2, 0, 0.25, 4} {
			assert.Equal(t, -3.5*r, m.Evaluate(d, r), "d=%v r=%v", d, r)
		}
	}
}

func TestTableDamper(t *testing.T) {
	c, err := curve.FromPoints([]curve.Point{{X: 0, Y: 0}, {X: 1, Y: 10}, {X: 2, Y: 15}})
	require.NoError(t, err)
	m, err := NewTableDamper(c)
	require.NoError(t, err)

	assert.Equal(t, 5.0, m.Evaluate(0, 0.5))
	assert.Equal(t, 5.0, m.Evaluate(123, 0.5))
	assert.Equal(t, 15.0, m.Evaluate(0, 3))
	assert.Equal(t, 0.0, m.Evaluate(0, -1))
	assert.Equal(t, 10.0, m.Evaluate(0, 1))

	// The damper owns its own copy of the samples.
	require.NoError(t, c.Add(3, 100))
	assert.Equal(t, 15.0, m.Evaluate(0, 3))
	assert.Len(t, m.Points(), 3)
}

func TestNewTableDamperTooFewPoints(t *testing.T) {
	c := curve.New()
	require.NoError(t, c.Add(0, 0))
	_, err := NewTableDamper(c)
	var ce *curve.InvalidCurveError
	assert.ErrorAs(t, err, &ce)
}

func TestNewDamperSelection(t *testing.T) {
	coef := 40.0

	tests := []struct {
		name string
		spec DamperSpec
		kind Kind
		err  bool
	}{
		{name: "coefficient", spec: DamperSpec{Coefficient: &coef}, kind: KindLinearDamper},
		{name: "curve", spec: DamperSpec{Curve: []curve.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}, kind: KindTableDamper},
		{name: "both", spec: DamperSpec{Coefficient: &coef, Curve: []curve.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}, err: true},
		{name: "neither", spec: DamperSpec{}, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewDamper(tt.spec)
			if tt.err {
				assert.True(t, errors.Is(err, ErrDamperSpec))
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, m.Kind())
		})
	}
}

func TestNewDamperBadCurve(t *testing.T) {
	_, err := NewDamper(DamperSpec{Curve: []curve.Point{{X: 1, Y: 0}, {X: 0, Y: 1}}})
	var ce *curve.InvalidCurveError
	assert.ErrorAs(t, err, &ce)
}

func TestDescribe(t *testing.T) {
	c, err := curve.FromPoints([]curve.Point{{X: -1, Y: -4}, {X: 2, Y: 8}})
	require.NoError(t, err)
	td, err := NewTableDamper(c)
	require.NoError(t, err)

	assert.Equal(t, "LinearSpringDamper(k=100, c=5, t0=2)", Describe(LinearSpringDamper{K: 100, C: 5, T0: 2}))
	assert.Equal(t, "LinearDamper(c=1.5)", Describe(LinearDamper{C: 1.5}))
	assert.Equal(t, "TableDamper(2 points, rate -1..2)", Describe(td))
	assert.Equal(t, "none", Describe(nil))
}

func TestTableDamperWriteCSV(t *testing.T) {
	c, err := curve.FromPoints([]curve.Point{{X: -1, Y: -4}, {X: 2, Y: 8}})
	require.NoError(t, err)
	td, err := NewTableDamper(c)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, td.WriteCSV(&buf))
	assert.Equal(t, "rate,torque\n-1,-4\n2,8\n", buf.String())

	assert.Equal(t, "TableDamper", Describe(TableDamper{}))
	assert.Error(t, TableDamper{}.WriteCSV(&buf))
}

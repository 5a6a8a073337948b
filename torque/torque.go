// Package torque defines the torque-response models that drive a rotational
// suspension element.
//
// A Model maps the element's angular displacement and angular rate to a
// torque. Restoring torque opposes displacement and damping opposes rate.
// The variant set is closed: LinearSpringDamper, LinearDamper and
// TableDamper.
package torque

import (
	"errors"
	"fmt"
	"io"

	"github.com/pthm-cable/torsion/curve"
)

// Kind names a torque model variant.
type Kind string

const (
	KindLinearSpringDamper Kind = "LinearSpringDamper"
	KindLinearDamper       Kind = "LinearDamper"
	KindTableDamper        Kind = "TableDamper"
)

// Model evaluates torque from displacement and rate. Implementations are
// immutable values with no side effects.
type Model interface {
	Evaluate(displacement, rate float64) float64
	Kind() Kind
	model()
}

// LinearSpringDamper is a torsional spring with viscous damping and a
// constant preload torque.
type LinearSpringDamper struct {
	K  float64 // stiffness
	C  float64 // damping coefficient
	T0 float64 // preload
}

func (m LinearSpringDamper) Evaluate(displacement, rate float64) float64 {
	return -m.K*displacement - m.C*rate + m.T0
}

func (LinearSpringDamper) Kind() Kind { return KindLinearSpringDamper }
func (LinearSpringDamper) model()     {}

// LinearDamper is a viscous rotational damper. Displacement is ignored.
type LinearDamper struct {
	C float64
}

func (m LinearDamper) Evaluate(_, rate float64) float64 {
	return -m.C * rate
}

func (LinearDamper) Kind() Kind { return KindLinearDamper }
func (LinearDamper) model()     {}

// TableDamper looks torque up from a (rate, torque) curve. The curve's
// samples carry their own sign; the interpolated value is returned as is.
type TableDamper struct {
	curve *curve.Curve
}

// NewTableDamper builds a table damper from a copy of c, which must hold at
// least two samples.
func NewTableDamper(c *curve.Curve) (TableDamper, error) {
	if c.Len() < 2 {
		return TableDamper{}, &curve.InvalidCurveError{
			Index:  -1,
			Reason: fmt.Sprintf("need at least 2 points, have %d", c.Len()),
		}
	}
	return TableDamper{curve: c.Clone()}, nil
}

func (m TableDamper) Evaluate(_, rate float64) float64 {
	if m.curve == nil {
		return 0
	}
	// Length is checked in NewTableDamper.
	t, _ := m.curve.Evaluate(rate)
	return t
}

// Points returns the damper's (rate, torque) samples.
func (m TableDamper) Points() []curve.Point {
	if m.curve == nil {
		return nil
	}
	return m.curve.Points()
}

// WriteCSV writes the damper's samples as rate,torque CSV.
func (m TableDamper) WriteCSV(w io.Writer) error {
	if m.curve == nil {
		return errors.New("table damper has no curve")
	}
	return m.curve.WriteCSV(w)
}

func (TableDamper) Kind() Kind { return KindTableDamper }
func (TableDamper) model()     {}

// ErrDamperSpec is returned by NewDamper when a DamperSpec sets both forms or
// neither.
var ErrDamperSpec = errors.New("damper spec must set exactly one of coefficient or curve")

// SpringSpec holds torsional spring parameters.
type SpringSpec struct {
	K  float64
	C  float64
	T0 float64
}

// NewSpring builds the spring model for s.
func NewSpring(s SpringSpec) LinearSpringDamper {
	return LinearSpringDamper{K: s.K, C: s.C, T0: s.T0}
}

// DamperSpec describes a damper as either a scalar coefficient or a curve
// of (rate, torque) samples.
type DamperSpec struct {
	Coefficient *float64
	Curve       []curve.Point
}

// NewDamper selects the damper variant for s: LinearDamper for a coefficient,
// TableDamper for a curve.
func NewDamper(s DamperSpec) (Model, error) {
	hasCoef, hasCurve := s.Coefficient != nil, s.Curve != nil
	switch {
	case hasCoef && !hasCurve:
		return LinearDamper{C: *s.Coefficient}, nil
	case hasCurve && !hasCoef:
		c, err := curve.FromPoints(s.Curve)
		if err != nil {
			return nil, err
		}
		d, err := NewTableDamper(c)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, ErrDamperSpec
	}
}

// Describe returns a short human-readable summary of m.
func Describe(m Model) string {
	switch m := m.(type) {
	case LinearSpringDamper:
		return fmt.Sprintf("%s(k=%g, c=%g, t0=%g)", m.Kind(), m.K, m.C, m.T0)
	case LinearDamper:
		return fmt.Sprintf("%s(c=%g)", m.Kind(), m.C)
	case TableDamper:
		if m.curve == nil {
			return string(m.Kind())
		}
		lo, hi := m.curve.Bounds()
		return fmt.Sprintf("%s(%d points, rate %g..%g)", m.Kind(), m.curve.Len(), lo, hi)
	case nil:
		return "none"
	}
	return string(m.Kind())
}

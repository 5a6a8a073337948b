// Package curve provides a piecewise-linear function defined by ordered
// (x, y) samples.
//
// Evaluation inside the sampled range interpolates between the two bracketing
// samples and returns a sample's y exactly when x hits it. Outside the range
// the curve is flat: it returns the nearest boundary sample's y.
package curve

import (
	"fmt"
	"io"
	"math"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/interp"
)

// Point is a single curve sample. Curves here tabulate damper torque against
// angular rate, so the serialized columns are named for those.
type Point struct {
	X float64 `csv:"rate" yaml:"rate"`
	Y float64 `csv:"torque" yaml:"torque"`
}

// InvalidCurveError reports a sample that breaks strict x ordering, or a curve
// evaluated with too few samples. Index is -1 when no single sample is at fault.
type InvalidCurveError struct {
	Index  int
	X      float64
	Reason string
}

func (e *InvalidCurveError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid curve: %s", e.Reason)
	}
	return fmt.Sprintf("invalid curve: point %d (x=%g): %s", e.Index, e.X, e.Reason)
}

// Curve is a piecewise-linear interpolator. Samples are added in increasing x
// order. A Curve is not safe for concurrent Add; Evaluate has no side effects.
type Curve struct {
	xs, ys []float64
	pl     interp.PiecewiseLinear
}

// New returns an empty curve.
func New() *Curve {
	return &Curve{}
}

// FromPoints builds a curve from a batch of samples, validating all of them
// before fitting once.
func FromPoints(pts []Point) (*Curve, error) {
	c := &Curve{
		xs: make([]float64, 0, len(pts)),
		ys: make([]float64, 0, len(pts)),
	}
	for _, p := range pts {
		if err := c.check(p.X, p.Y); err != nil {
			return nil, err
		}
		c.xs = append(c.xs, p.X)
		c.ys = append(c.ys, p.Y)
	}
	c.fit()
	return c, nil
}

// Add appends a sample. x must be finite and strictly greater than the last
// sample's x; otherwise the curve is left unchanged.
func (c *Curve) Add(x, y float64) error {
	if err := c.check(x, y); err != nil {
		return err
	}
	c.xs = append(c.xs, x)
	c.ys = append(c.ys, y)
	c.fit()
	return nil
}

func (c *Curve) check(x, y float64) error {
	n := len(c.xs)
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return &InvalidCurveError{Index: n, X: x, Reason: "x must be finite"}
	case math.IsNaN(y) || math.IsInf(y, 0):
		return &InvalidCurveError{Index: n, X: x, Reason: "y must be finite"}
	case n > 0 && x <= c.xs[n-1]:
		return &InvalidCurveError{
			Index:  n,
			X:      x,
			Reason: fmt.Sprintf("x not strictly increasing after %g", c.xs[n-1]),
		}
	}
	return nil
}

func (c *Curve) fit() {
	if len(c.xs) >= 2 {
		// Fit only panics on the conditions check rejects.
		_ = c.pl.Fit(c.xs, c.ys)
	}
}

// Len returns the number of samples.
func (c *Curve) Len() int { return len(c.xs) }

// Points returns a copy of the samples in order.
func (c *Curve) Points() []Point {
	pts := make([]Point, len(c.xs))
	for i := range c.xs {
		pts[i] = Point{X: c.xs[i], Y: c.ys[i]}
	}
	return pts
}

// Bounds returns the smallest and largest sampled x. Both are 0 for an empty curve.
func (c *Curve) Bounds() (lo, hi float64) {
	if len(c.xs) == 0 {
		return 0, 0
	}
	return c.xs[0], c.xs[len(c.xs)-1]
}

// Evaluate returns the curve's value at x. It fails if the curve holds fewer
// than two samples.
func (c *Curve) Evaluate(x float64) (float64, error) {
	if len(c.xs) < 2 {
		return 0, &InvalidCurveError{
			Index:  -1,
			Reason: fmt.Sprintf("need at least 2 points, have %d", len(c.xs)),
		}
	}
	return c.pl.Predict(x), nil
}

// Clone returns an independent copy of c.
func (c *Curve) Clone() *Curve {
	cp := &Curve{
		xs: append([]float64(nil), c.xs...),
		ys: append([]float64(nil), c.ys...),
	}
	cp.fit()
	return cp
}

// WriteCSV writes the samples as CSV with a rate,torque header row.
func (c *Curve) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(c.Points(), w); err != nil {
		return fmt.Errorf("writing curve csv: %w", err)
	}
	return nil
}

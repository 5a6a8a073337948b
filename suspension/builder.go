package suspension

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/torsion/curve"
	"github.com/pthm-cable/torsion/document"
	"github.com/pthm-cable/torsion/torque"
	"github.com/pthm-cable/torsion/wheel"
)

// State is a Builder's position in the build sequence.
type State int

const (
	StateUnbuilt State = iota
	StateValidating
	StatePopulatingGeometry
	StateBuildingSpring
	StateBuildingDamper
	StateResolvingWheel
	StateBuilt
	StateFailed
)

var stateNames = [...]string{
	StateUnbuilt:            "unbuilt",
	StateValidating:         "validating",
	StatePopulatingGeometry: "populating_geometry",
	StateBuildingSpring:     "building_spring",
	StateBuildingDamper:     "building_damper",
	StateResolvingWheel:     "resolving_wheel",
	StateBuilt:              "built",
	StateFailed:             "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ErrBuilderUsed is returned when a Builder is asked to build a second time.
var ErrBuilderUsed = errors.New("suspension: builder already used")

// Options configures a Builder.
type Options struct {
	// HasShock enables the rotational damper's contribution to arm torque.
	HasShock bool

	// Locator resolves resource names. Defaults to DataDir(".").
	Locator Locator

	// Observer is told about every resource loaded. Defaults to a no-op.
	Observer Observer

	// Wheels resolves road-wheel templates. Defaults to wheel.NewRegistry().
	Wheels *wheel.Registry
}

// Builder constructs a single Assembly. A Builder is single-use: after the
// first Build or BuildFile call, whether it succeeded or failed, further
// calls return ErrBuilderUsed. Separate Builders may run concurrently.
type Builder struct {
	opts  Options
	state State
	err   error
}

// NewBuilder returns a Builder in the unbuilt state.
func NewBuilder(opts Options) *Builder {
	if opts.Locator == nil {
		opts.Locator = DataDir(".")
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Wheels == nil {
		opts.Wheels = wheel.NewRegistry()
	}
	return &Builder{opts: opts}
}

// State returns the builder's current state.
func (b *Builder) State() State { return b.state }

// Err returns the error that moved the builder to StateFailed, if any.
func (b *Builder) Err() error { return b.err }

// BuildFile resolves name through the builder's Locator, loads it, and
// builds the assembly it describes. Each resource is reported to the Observer
// once it has been fully constructed: the road wheel first, then the
// assembly. A failed build reports neither.
func (b *Builder) BuildFile(name string) (*Assembly, error) {
	if b.state != StateUnbuilt {
		return nil, ErrBuilderUsed
	}
	b.state = StateValidating
	doc, path, err := b.load(name)
	if err != nil {
		return b.fail(err)
	}
	return b.build(doc, &LoadEvent{Name: name, Path: path})
}

// Build builds the assembly described by an already parsed document.
func (b *Builder) Build(doc *document.Document) (*Assembly, error) {
	if b.state != StateUnbuilt {
		return nil, ErrBuilderUsed
	}
	return b.build(doc, nil)
}

func (b *Builder) build(doc *document.Document, loaded *LoadEvent) (*Assembly, error) {
	a := &Assembly{hasShock: b.opts.HasShock}
	var err error

	b.state = StateValidating
	if a.template, err = doc.CheckKind(ResourceKind); err != nil {
		return b.fail(err)
	}
	if a.name, err = doc.RequireString(document.FieldName); err != nil {
		return b.fail(err)
	}

	b.state = StatePopulatingGeometry
	if a.geometry, err = readGeometry(doc); err != nil {
		return b.fail(err)
	}

	b.state = StateBuildingSpring
	spring, err := readSpring(doc)
	if err != nil {
		return b.fail(err)
	}
	a.spring = torque.NewSpring(spring)

	b.state = StateBuildingDamper
	if a.damper, err = readDamper(doc); err != nil {
		return b.fail(err)
	}

	b.state = StateResolvingWheel
	if a.wheel, err = b.resolveWheel(doc); err != nil {
		return b.fail(err)
	}

	b.state = StateBuilt
	if loaded != nil {
		loaded.Kind = ResourceKind
		loaded.Template = a.template
		b.opts.Observer.ResourceLoaded(*loaded)
	}
	return a, nil
}

func (b *Builder) fail(err error) (*Assembly, error) {
	b.state = StateFailed
	b.err = err
	return nil, err
}

func (b *Builder) load(name string) (*document.Document, string, error) {
	path, err := b.opts.Locator.Locate(name)
	if err != nil {
		return nil, "", &document.IOError{Resource: name, Err: err}
	}
	doc, err := document.Load(path)
	if err != nil {
		return nil, "", err
	}
	return doc, path, nil
}

func (b *Builder) resolveWheel(doc *document.Document) (wheel.Component, error) {
	name, err := doc.RequireString("Road Wheel Input File")
	if err != nil {
		return nil, err
	}
	wdoc, path, err := b.load(name)
	if err != nil {
		return nil, err
	}
	w, err := b.opts.Wheels.FromDocument(wdoc)
	if err != nil {
		return nil, err
	}
	b.opts.Observer.ResourceLoaded(LoadEvent{
		Name:     name,
		Path:     path,
		Kind:     wheel.ResourceKind,
		Template: w.Template(),
	})
	return w, nil
}

func readGeometry(doc *document.Document) (Geometry, error) {
	arm, err := doc.RequireObject("Suspension Arm")
	if err != nil {
		return Geometry{}, err
	}

	var g Geometry
	if g.Mass, err = nonNegative(arm, "Mass"); err != nil {
		return Geometry{}, err
	}
	if g.COM, err = arm.RequireVector3("COM"); err != nil {
		return Geometry{}, err
	}
	if g.Inertia, err = arm.RequireVector3("Inertia"); err != nil {
		return Geometry{}, err
	}
	if g.Inertia.X < 0 || g.Inertia.Y < 0 || g.Inertia.Z < 0 {
		return Geometry{}, arm.FieldError(fmt.Sprintf("components must be non-negative, got %v", g.Inertia), "Inertia")
	}
	if g.ChassisPoint, err = arm.RequireVector3("Location Chassis"); err != nil {
		return Geometry{}, err
	}
	if g.WheelPoint, err = arm.RequireVector3("Location Wheel"); err != nil {
		return Geometry{}, err
	}
	if g.ArmRadius, err = nonNegative(arm, "Radius"); err != nil {
		return Geometry{}, err
	}
	return g, nil
}

func readSpring(doc *document.Document) (torque.SpringSpec, error) {
	sp, err := doc.RequireObject("Torsional Spring")
	if err != nil {
		return torque.SpringSpec{}, err
	}
	// Free Angle is accepted but not used by the torque model.
	if sp.Has("Free Angle") {
		if _, err := sp.RequireNumber("Free Angle"); err != nil {
			return torque.SpringSpec{}, err
		}
	}

	var s torque.SpringSpec
	if s.K, err = sp.RequireNumber("Spring Constant"); err != nil {
		return torque.SpringSpec{}, err
	}
	if s.C, err = sp.RequireNumber("Damping Coefficient"); err != nil {
		return torque.SpringSpec{}, err
	}
	if s.T0, err = sp.RequireNumber("Preload"); err != nil {
		return torque.SpringSpec{}, err
	}
	return s, nil
}

func readDamper(doc *document.Document) (torque.Model, error) {
	d, err := doc.RequireObject("Damper")
	if err != nil {
		return nil, err
	}

	const coefField, curveField = "Damping Coefficient", "Curve Data"
	var spec torque.DamperSpec
	switch hasCoef, hasCurve := d.Has(coefField), d.Has(curveField); {
	case hasCoef && hasCurve:
		return nil, d.FieldError(fmt.Sprintf("expected one of %q or %q, got both", coefField, curveField))
	case hasCoef:
		c, err := d.RequireNumber(coefField)
		if err != nil {
			return nil, err
		}
		spec.Coefficient = &c
	case hasCurve:
		rows, err := d.RequireRows(2, curveField)
		if err != nil {
			return nil, err
		}
		spec.Curve = make([]curve.Point, len(rows))
		for i, row := range rows {
			spec.Curve[i] = curve.Point{X: row[0], Y: row[1]}
		}
	default:
		return nil, d.FieldError(fmt.Sprintf("expected one of %q or %q, got neither", coefField, curveField))
	}

	m, err := torque.NewDamper(spec)
	if err != nil {
		field := fmt.Sprintf("field %q", d.Path()+"."+curveField)
		if doc.Resource() == "" {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return nil, fmt.Errorf("%s: %s: %w", doc.Resource(), field, err)
	}
	return m, nil
}

func nonNegative(doc *document.Document, field string) (float64, error) {
	v, err := doc.RequireNumber(field)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, doc.FieldError(fmt.Sprintf("must be non-negative, got %g", v), field)
	}
	return v, nil
}

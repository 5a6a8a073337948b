package telemetry

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/torsion/curve"
	"github.com/pthm-cable/torsion/suspension"
	"github.com/pthm-cable/torsion/torque"
	"github.com/pthm-cable/torsion/wheel"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is the serializable form of a built assembly.
type Snapshot struct {
	Version  int              `yaml:"version"`
	Name     string           `yaml:"name"`
	Template string           `yaml:"template"`
	HasShock bool             `yaml:"has_shock"`
	Geometry GeometrySnapshot `yaml:"geometry"`
	Spring   ModelSnapshot    `yaml:"spring"`
	Damper   ModelSnapshot    `yaml:"damper"`
	Wheel    WheelSnapshot    `yaml:"wheel"`
}

// GeometrySnapshot holds the arm geometry with vectors as [x, y, z].
type GeometrySnapshot struct {
	Mass         float64    `yaml:"mass"`
	COM          [3]float64 `yaml:"com,flow"`
	Inertia      [3]float64 `yaml:"inertia,flow"`
	ChassisPoint [3]float64 `yaml:"location_chassis,flow"`
	WheelPoint   [3]float64 `yaml:"location_wheel,flow"`
	ArmRadius    float64    `yaml:"radius"`
}

// ModelSnapshot holds a torque model's variant and parameters.
type ModelSnapshot struct {
	Kind        torque.Kind   `yaml:"kind"`
	Stiffness   *float64      `yaml:"stiffness,omitempty"`
	Damping     *float64      `yaml:"damping,omitempty"`
	Preload     *float64      `yaml:"preload,omitempty"`
	Curve       []curve.Point `yaml:"curve,omitempty"`
	Description string        `yaml:"description"`
}

// WheelSnapshot holds the road wheel's variant and body data.
type WheelSnapshot struct {
	Template string     `yaml:"template"`
	Name     string     `yaml:"name"`
	Mass     float64    `yaml:"mass"`
	Inertia  [3]float64 `yaml:"inertia,flow"`
	Radius   float64    `yaml:"radius"`
	Width    float64    `yaml:"width"`
	Gap      *float64   `yaml:"gap,omitempty"`
}

// TakeSnapshot captures a.
func TakeSnapshot(a *suspension.Assembly) Snapshot {
	g := a.Geometry()
	return Snapshot{
		Version:  SnapshotVersion,
		Name:     a.Name(),
		Template: a.Template(),
		HasShock: a.HasShock(),
		Geometry: GeometrySnapshot{
			Mass:         g.Mass,
			COM:          vec(g.COM),
			Inertia:      vec(g.Inertia),
			ChassisPoint: vec(g.ChassisPoint),
			WheelPoint:   vec(g.WheelPoint),
			ArmRadius:    g.ArmRadius,
		},
		Spring: modelSnapshot(a.Spring()),
		Damper: modelSnapshot(a.Damper()),
		Wheel:  wheelSnapshot(a.Wheel()),
	}
}

func vec(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func modelSnapshot(m torque.Model) ModelSnapshot {
	s := ModelSnapshot{Description: torque.Describe(m)}
	switch m := m.(type) {
	case torque.LinearSpringDamper:
		s.Kind = m.Kind()
		s.Stiffness, s.Damping, s.Preload = &m.K, &m.C, &m.T0
	case torque.LinearDamper:
		s.Kind = m.Kind()
		s.Damping = &m.C
	case torque.TableDamper:
		s.Kind = m.Kind()
		s.Curve = m.Points()
	}
	return s
}

func wheelSnapshot(w wheel.Component) WheelSnapshot {
	if w == nil {
		return WheelSnapshot{}
	}
	s := WheelSnapshot{
		Template: w.Template(),
		Name:     w.Name(),
		Mass:     w.Mass(),
		Inertia:  vec(w.Inertia()),
		Radius:   w.Radius(),
		Width:    w.Width(),
	}
	if dw, ok := w.(wheel.DoubleWheel); ok {
		s.Gap = &dw.Gap
	}
	return s
}

// WriteYAML writes the snapshot to a YAML file.
func (s Snapshot) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Package suspension builds torsion-bar road-wheel assemblies for tracked
// vehicles from their configuration resources.
//
// An Assembly bundles the suspension arm's rigid-body data, the torsional
// spring and rotational damper torque models, and the road wheel mounted on
// the arm. Assemblies are produced by a Builder and never change afterwards.
package suspension

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/torsion/torque"
	"github.com/pthm-cable/torsion/wheel"
)

// ResourceKind is the kind literal of a road-wheel assembly resource.
const ResourceKind = "RoadWheelAssembly"

// Geometry holds the suspension arm's mass properties and attachment points.
type Geometry struct {
	Mass         float64
	COM          r3.Vec // center of mass offset
	Inertia      r3.Vec // principal moments
	ChassisPoint r3.Vec // arm attachment on the chassis
	WheelPoint   r3.Vec // arm attachment on the wheel
	ArmRadius    float64
}

// Assembly is a fully built road-wheel assembly. It exclusively owns its
// torque models and wheel.
type Assembly struct {
	name     string
	template string
	hasShock bool
	geometry Geometry
	spring   torque.Model
	damper   torque.Model
	wheel    wheel.Component
}

func (a *Assembly) Name() string           { return a.name }
func (a *Assembly) Template() string       { return a.template }
func (a *Assembly) HasShock() bool         { return a.hasShock }
func (a *Assembly) Geometry() Geometry     { return a.geometry }
func (a *Assembly) Spring() torque.Model   { return a.spring }
func (a *Assembly) Damper() torque.Model   { return a.damper }
func (a *Assembly) Wheel() wheel.Component { return a.wheel }

// Torque returns the combined spring and damper torque at the given arm
// displacement and rate. The damper contributes only when the assembly has
// a shock.
func (a *Assembly) Torque(displacement, rate float64) float64 {
	t := a.spring.Evaluate(displacement, rate)
	if a.hasShock {
		t += a.damper.Evaluate(displacement, rate)
	}
	return t
}

// Package wheel builds road-wheel components from their configuration
// resources.
//
// A road-wheel resource has kind "RoadWheel" and a template naming its
// variant. Variants are looked up by exact template match in a Registry.
package wheel

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/torsion/document"
)

// ResourceKind is the kind literal every road-wheel resource carries.
const ResourceKind = "RoadWheel"

// Built-in templates.
const (
	TemplateSingle = "SingleRoadWheel"
	TemplateDouble = "DoubleRoadWheel"
)

// Component is a constructed road wheel.
type Component interface {
	Template() string
	Name() string
	Mass() float64
	Inertia() r3.Vec
	Radius() float64
	Width() float64
}

// Body holds the rigid-body data shared by all road-wheel variants.
type Body struct {
	WheelMass    float64
	WheelInertia r3.Vec
	WheelRadius  float64
	WheelWidth   float64
}

func (b Body) Mass() float64   { return b.WheelMass }
func (b Body) Inertia() r3.Vec { return b.WheelInertia }
func (b Body) Radius() float64 { return b.WheelRadius }
func (b Body) Width() float64  { return b.WheelWidth }

// SingleWheel is a road wheel with one rim.
type SingleWheel struct {
	Body
	name string
}

func (w SingleWheel) Template() string { return TemplateSingle }
func (w SingleWheel) Name() string     { return w.name }

// DoubleWheel is a road wheel with two rims separated by a gap.
type DoubleWheel struct {
	Body
	name string
	Gap  float64
}

func (w DoubleWheel) Template() string { return TemplateDouble }
func (w DoubleWheel) Name() string     { return w.name }

// NewSingleWheel builds a SingleWheel from its resource.
func NewSingleWheel(doc *document.Document) (Component, error) {
	name, body, err := readBody(doc)
	if err != nil {
		return nil, err
	}
	return SingleWheel{Body: body, name: name}, nil
}

// NewDoubleWheel builds a DoubleWheel from its resource.
func NewDoubleWheel(doc *document.Document) (Component, error) {
	name, body, err := readBody(doc)
	if err != nil {
		return nil, err
	}
	gap, err := doc.RequireNumber("Wheel", "Gap")
	if err != nil {
		return nil, err
	}
	if gap < 0 {
		return nil, doc.FieldError("must be non-negative", "Wheel", "Gap")
	}
	return DoubleWheel{Body: body, name: name, Gap: gap}, nil
}

func readBody(doc *document.Document) (string, Body, error) {
	name, err := doc.RequireString(document.FieldName)
	if err != nil {
		return "", Body{}, err
	}
	w, err := doc.RequireObject("Wheel")
	if err != nil {
		return "", Body{}, err
	}

	var b Body
	if b.WheelMass, err = nonNegative(w, "Mass"); err != nil {
		return "", Body{}, err
	}
	if b.WheelInertia, err = w.RequireVector3("Inertia"); err != nil {
		return "", Body{}, err
	}
	if b.WheelRadius, err = nonNegative(w, "Radius"); err != nil {
		return "", Body{}, err
	}
	if b.WheelWidth, err = nonNegative(w, "Width"); err != nil {
		return "", Body{}, err
	}
	return name, b, nil
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

// Constructor builds a wheel variant from its resource.
type Constructor func(doc *document.Document) (Component, error)

// Registry maps templates to constructors. The zero value is empty and
// ready to use. A Registry is read-only once building starts.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns a registry holding the built-in variants.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(TemplateSingle, NewSingleWheel)
	r.Register(TemplateDouble, NewDoubleWheel)
	return r
}

// Register adds or replaces the constructor for template.
func (r *Registry) Register(template string, ctor Constructor) {
	if r.ctors == nil {
		r.ctors = make(map[string]Constructor)
	}
	r.ctors[template] = ctor
}

// Templates returns the registered templates in sorted order.
func (r *Registry) Templates() []string {
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the variant registered for template.
func (r *Registry) Build(template string, doc *document.Document) (Component, error) {
	ctor, ok := r.ctors[template]
	if !ok {
		return nil, &document.UnsupportedVariantError{
			Resource: doc.Resource(),
			Field:    document.FieldTemplate,
			Tag:      template,
		}
	}
	return ctor(doc)
}

// FromDocument checks that doc is a road-wheel resource and builds the
// variant its template names.
func (r *Registry) FromDocument(doc *document.Document) (Component, error) {
	template, err := doc.CheckKind(ResourceKind)
	if err != nil {
		return nil, err
	}
	return r.Build(template, doc)
}

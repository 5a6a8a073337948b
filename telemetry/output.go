package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/torsion/config"
	"github.com/pthm-cable/torsion/suspension"
	"github.com/pthm-cable/torsion/torque"
)

// GeometryRecord is one geometry.csv row.
type GeometryRecord struct {
	Name      string  `csv:"name"`
	Template  string  `csv:"template"`
	HasShock  bool    `csv:"has_shock"`
	Mass      float64 `csv:"mass"`
	COMX      float64 `csv:"com_x"`
	COMY      float64 `csv:"com_y"`
	COMZ      float64 `csv:"com_z"`
	InertiaX  float64 `csv:"inertia_x"`
	InertiaY  float64 `csv:"inertia_y"`
	InertiaZ  float64 `csv:"inertia_z"`
	ChassisX  float64 `csv:"chassis_x"`
	ChassisY  float64 `csv:"chassis_y"`
	ChassisZ  float64 `csv:"chassis_z"`
	WheelX    float64 `csv:"wheel_x"`
	WheelY    float64 `csv:"wheel_y"`
	WheelZ    float64 `csv:"wheel_z"`
	ArmRadius float64 `csv:"arm_radius"`
	Spring    string  `csv:"spring"`
	Damper    string  `csv:"damper"`
	RoadWheel string  `csv:"road_wheel"`
}

// NewGeometryRecord flattens a's geometry into a CSV row.
func NewGeometryRecord(a *suspension.Assembly) GeometryRecord {
	g := a.Geometry()
	r := GeometryRecord{
		Name:      a.Name(),
		Template:  a.Template(),
		HasShock:  a.HasShock(),
		Mass:      g.Mass,
		COMX:      g.COM.X,
		COMY:      g.COM.Y,
		COMZ:      g.COM.Z,
		InertiaX:  g.Inertia.X,
		InertiaY:  g.Inertia.Y,
		InertiaZ:  g.Inertia.Z,
		ChassisX:  g.ChassisPoint.X,
		ChassisY:  g.ChassisPoint.Y,
		ChassisZ:  g.ChassisPoint.Z,
		WheelX:    g.WheelPoint.X,
		WheelY:    g.WheelPoint.Y,
		WheelZ:    g.WheelPoint.Z,
		ArmRadius: g.ArmRadius,
		Spring:    string(a.Spring().Kind()),
		Damper:    string(a.Damper().Kind()),
	}
	if w := a.Wheel(); w != nil {
		r.RoadWheel = w.Template()
	}
	return r
}

// OutputManager writes assembly reports into a directory.
type OutputManager struct {
	dir          string
	geometryFile *os.File
	sweepFile    *os.File

	// Track if headers have been written
	geometryHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "geometry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating geometry.csv: %w", err)
	}
	om.geometryFile = f

	f, err = os.Create(filepath.Join(dir, "sweep.csv"))
	if err != nil {
		om.geometryFile.Close()
		return nil, fmt.Errorf("creating sweep.csv: %w", err)
	}
	om.sweepFile = f

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteGeometry appends an assembly's row to geometry.csv.
func (om *OutputManager) WriteGeometry(a *suspension.Assembly) error {
	if om == nil {
		return nil
	}

	records := []GeometryRecord{NewGeometryRecord(a)}

	if !om.geometryHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.geometryFile); err != nil {
			return fmt.Errorf("writing geometry: %w", err)
		}
		om.geometryHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.geometryFile); err != nil {
			return fmt.Errorf("writing geometry: %w", err)
		}
	}

	return nil
}

// WriteSweep writes a full torque sweep to sweep.csv.
func (om *OutputManager) WriteSweep(records []SweepRecord) error {
	if om == nil {
		return nil
	}
	if err := gocsv.Marshal(records, om.sweepFile); err != nil {
		return fmt.Errorf("writing sweep: %w", err)
	}
	return nil
}

// WriteDamperCurve writes a table damper's samples to damper_curve.csv. It
// writes nothing for other damper variants.
func (om *OutputManager) WriteDamperCurve(a *suspension.Assembly) (err error) {
	if om == nil {
		return nil
	}
	td, ok := a.Damper().(torque.TableDamper)
	if !ok {
		return nil
	}

	f, err := os.Create(filepath.Join(om.dir, "damper_curve.csv"))
	if err != nil {
		return fmt.Errorf("creating damper_curve.csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := td.WriteCSV(f); err != nil {
		return fmt.Errorf("writing damper curve: %w", err)
	}
	return nil
}

// WriteAssembly saves a snapshot of a as assembly.yaml.
func (om *OutputManager) WriteAssembly(a *suspension.Assembly) error {
	if om == nil {
		return nil
	}
	return TakeSnapshot(a).WriteYAML(filepath.Join(om.dir, "assembly.yaml"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.geometryFile != nil {
		if err := om.geometryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.sweepFile != nil {
		if err := om.sweepFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

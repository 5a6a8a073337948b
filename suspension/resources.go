package suspension

import (
	"errors"
	"path/filepath"
)

// Locator resolves a logical resource name, as written in a configuration
// file, to a physical path.
type Locator interface {
	Locate(name string) (string, error)
}

// LocatorFunc adapts a function to a Locator.
type LocatorFunc func(name string) (string, error)

func (f LocatorFunc) Locate(name string) (string, error) { return f(name) }

// DataDir resolves names relative to a vehicle data directory. Absolute
// names are returned unchanged.
type DataDir string

func (d DataDir) Locate(name string) (string, error) {
	if name == "" {
		return "", errors.New("empty resource name")
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	return filepath.Join(string(d), filepath.FromSlash(name)), nil
}

// LoadEvent describes a configuration resource that was loaded successfully.
type LoadEvent struct {
	Name     string // logical name
	Path     string // resolved path
	Kind     string
	Template string
}

// Observer receives one event per successfully loaded resource.
type Observer interface {
	ResourceLoaded(LoadEvent)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(LoadEvent)

func (f ObserverFunc) ResourceLoaded(e LoadEvent) { f(e) }

type nopObserver struct{}

func (nopObserver) ResourceLoaded(LoadEvent) {}

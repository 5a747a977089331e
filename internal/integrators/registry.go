package integrators

import (
	"fmt"
	"sort"
)

const Default = "symplectic"

var registry = map[string]func() Integrator{
	"symplectic": func() Integrator { return NewSemiImplicitEuler() },
	"euler":      func() Integrator { return NewEuler() },
}

// Get returns the integrator registered under name. An empty name selects
// the default.
func Get(name string) (Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

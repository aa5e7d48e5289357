package propcheck

import (
	"fmt"
	"slices"
	"strings"
)

// Property is a named law checked against generated cases. Check returns
// a non-nil error describing the counterexample when the law does not hold.
// Core panics raised inside Check are reported as failures by the runner.
type Property struct {
	Name    string
	Summary string
	Check   func(g *Gen) error
}

// All returns the registry in declaration order.
func All() []Property {
	return slices.Clone(registry)
}

// Lookup finds a property by name.
func Lookup(name string) (Property, bool) {
	for _, p := range registry {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Select resolves names against the registry. No names selects everything.
func Select(names []string) ([]Property, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]Property, 0, len(names))
	var unknown []string
	for _, name := range names {
		p, ok := Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if slices.ContainsFunc(out, func(q Property) bool { return q.Name == name }) {
			continue
		}
		out = append(out, p)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown properties: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

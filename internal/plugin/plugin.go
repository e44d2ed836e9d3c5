// Package plugin implements the plugin ordering contract the core
// consumes: plugins run in registration order, nothing more. The
// application builder itself (what a "built" app looks like) stays
// out of scope; this is only the ordering guarantee.
package plugin

import "aerox/pkg/aerox"

// Registry is a Plugin's target: the router and middleware stack a
// plugin wants to contribute to.
type Registry struct {
	Router *aerox.Router
	Stack  *aerox.Stack
}

// Plugin contributes routes and/or middleware to a Registry when Build runs.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string
	// Build installs the plugin's contributions into reg.
	Build(reg *Registry) error
}

// Set holds an ordered list of plugins and runs them in registration order.
type Set struct {
	plugins []Plugin
}

// Add appends p to the set. Registration order is execution order;
// there is no priority or sorting.
func (s *Set) Add(p Plugin) {
	s.plugins = append(s.plugins, p)
}

// Build runs Build on every plugin in registration order, stopping at
// the first error.
func (s *Set) Build(reg *Registry) error {
	for _, p := range s.plugins {
		if err := p.Build(reg); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the plugins' names in registration order, for startup logging.
func (s *Set) Names() []string {
	names := make([]string, len(s.plugins))
	for i, p := range s.plugins {
		names[i] = p.Name()
	}
	return names
}

package strategy

import (
	"slices"
	"sort"
	"sync"

	"github.com/raykavin/depthrun/pkg/core"
)

// Definition describes a strategy that can be built by name
type Definition struct {
	Name        string
	Description string
	Factory     Factory
	// Params is the default parameter template, every range a strategy accepts
	Params core.Params
}

// Resolve merges grid into the default template. Parameters are kept in
// template order, parameters missing from grid keep their default range.
func (d Definition) Resolve(grid core.Params) (core.Params, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	resolved := d.Params.Clone()
	for _, p := range grid {
		i := slices.IndexFunc(resolved, func(r core.Parameter) bool { return r.Name == p.Name })
		if i < 0 {
			return nil, core.ConfigurationError("strategy %s has no parameter %q", d.Name, p.Name)
		}
		resolved[i] = core.NewParameter(p.Name, p.Min, p.Max, p.Step)
	}

	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// Registry maps strategy names to their definitions
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[string]Definition)}
}

// Register adds a definition, names must be unique
func (r *Registry) Register(definition Definition) error {
	if definition.Name == "" || definition.Factory == nil {
		return core.ConfigurationError("strategy definition needs a name and a factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[definition.Name]; exists {
		return core.ConfigurationError("strategy %s is already registered", definition.Name)
	}
	r.definitions[definition.Name] = definition
	return nil
}

// Lookup returns the definition registered under name
func (r *Registry) Lookup(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	definition, ok := r.definitions[name]
	if !ok {
		return Definition{}, core.ConfigurationError("unknown strategy %q", name)
	}
	return definition, nil
}

// Names returns the registered names in alphabetical order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

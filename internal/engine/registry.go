package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Registry resolves engines by name. Short aliases cover the names people
// actually type on a command line.
type Registry struct {
	engines map[string]Engine
	aliases map[string]string
}

// NewRegistry returns a registry holding the three standard engines.
func NewRegistry() *Registry {
	r := &Registry{
		engines: make(map[string]Engine),
		aliases: map[string]string{
			"seq":    "sequential",
			"comb":   "combinational",
			"oracle": "native",
		},
	}
	for _, e := range []Engine{Sequential{}, Combinational{}, Native{}} {
		r.engines[e.Name()] = e
	}
	return r
}

// Register adds or replaces an engine under its own name.
func (r *Registry) Register(e Engine) {
	r.engines[e.Name()] = e
}

// Default returns the engine a plain run uses.
func (r *Registry) Default() Engine { return r.engines["sequential"] }

// List returns the registered engine names in sorted order.
func (r *Registry) List() []string {
	keys := make([]string, 0, len(r.engines))
	for k := range r.engines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get resolves a name or alias to an engine.
func (r *Registry) Get(name string) (Engine, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	if e, ok := r.engines[key]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown engine %q (available: %s)", name, strings.Join(r.List(), ", "))
}

// GetAll returns every registered engine in List order.
func (r *Registry) GetAll() []Engine {
	names := r.List()
	out := make([]Engine, len(names))
	for i, n := range names {
		out[i] = r.engines[n]
	}
	return out
}

package orchestration

import "github.com/agbru/alusim/internal/engine"

// GetEnginesToRun resolves an engine selection string to the engines a run
// should execute. "all" selects every registered engine in sorted order
// for a cross-validating comparison; anything else resolves through the
// registry, including aliases. Unknown names yield nil; validation is the
// config layer's job.
func GetEnginesToRun(selection string, registry *engine.Registry) []engine.Engine {
	if selection == "all" {
		return registry.GetAll()
	}
	if e, err := registry.Get(selection); err == nil {
		return []engine.Engine{e}
	}
	return nil
}

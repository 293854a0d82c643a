package alloc

import (
	"fmt"
	"sync"
)

// Factory builds an Allocator; it takes no arguments, so any configuration
// is fixed inside the factory. The registry stores factories rather than
// instances: callers always get a fresh allocator.
type Factory func() (Allocator, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"linear": func() (Allocator, error) { return NewLinear(linearCapacityOrDefault(0)), nil },
		"malloc": func() (Allocator, error) { return NewMalloc(), nil },
		"mremap": func() (Allocator, error) { return NewMremap(DefaultMremapConfig()), nil },
		"dedup": func() (Allocator, error) {
			return NewDedup(NewMalloc(), DefaultDedupConfig()), nil
		},
		"auto": func() (Allocator, error) { return NewAuto(AutoConfig{Scenario: PerObjFree}) },
	}
)

// Register adds or replaces the factory for name, letting callers plug in
// scenario-specific configurations (e.g. a pre-sized Mremap/Dedup stack)
// under a name the rest of the program looks up generically.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New builds an allocator by the name it was registered under.
func New(name string) (Allocator, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("alloc: no allocator registered as %q", name)
	}
	return f()
}

// Names returns the currently registered allocator names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}

package alloc

import "fmt"

// Scenario names a usage pattern the Auto allocator composes a concrete
// stack for (spec §4.H).
type Scenario int

const (
	// PerTagFree: objects are freed in bulk per tag, never individually —
	// a growable Mremap arena per tag.
	PerTagFree Scenario = iota
	// PerTagFreeDedup is PerTagFree plus content interning.
	PerTagFreeDedup
	// PerObjFree: objects are freed individually — per-object Malloc.
	PerObjFree
	// PerObjFreeDedup is PerObjFree plus content interning.
	PerObjFreeDedup
	// SingleLinear: one short-lived bump arena, e.g. building then
	// exporting a cache file in one shot.
	SingleLinear
	// SingleLinearDedup is SingleLinear plus content interning.
	SingleLinearDedup
)

func (s Scenario) String() string {
	switch s {
	case PerTagFree:
		return "per_tag_free"
	case PerTagFreeDedup:
		return "per_tag_free_dedup"
	case PerObjFree:
		return "per_obj_free"
	case PerObjFreeDedup:
		return "per_obj_free_dedup"
	case SingleLinear:
		return "single_linear"
	case SingleLinearDedup:
		return "single_linear_dedup"
	default:
		return "unknown"
	}
}

// AutoConfig picks the Scenario and, for linear scenarios, the arena size.
type AutoConfig struct {
	Scenario       Scenario
	LinearCapacity uint64 // used by SingleLinear/SingleLinearDedup only
	Mremap         MremapConfig
	Dedup          DedupConfig
}

// NewAuto builds the concrete Allocator stack spec §4.H's scenario table
// calls for, returning it directly — Auto is a constructor, not a wrapper
// type of its own, since every scenario's result already satisfies
// Allocator.
func NewAuto(cfg AutoConfig) (Allocator, error) {
	switch cfg.Scenario {
	case PerTagFree:
		return NewMremap(withMremapDefaults(cfg.Mremap)), nil
	case PerTagFreeDedup:
		return NewDedup(NewMremap(withMremapDefaults(cfg.Mremap)), withDedupDefaults(cfg.Dedup)), nil
	case PerObjFree:
		return NewMalloc(), nil
	case PerObjFreeDedup:
		return NewDedup(NewMalloc(), withDedupDefaults(cfg.Dedup)), nil
	case SingleLinear:
		return NewLinear(linearCapacityOrDefault(cfg.LinearCapacity)), nil
	case SingleLinearDedup:
		return NewDedup(NewLinear(linearCapacityOrDefault(cfg.LinearCapacity)), withDedupDefaults(cfg.Dedup)), nil
	default:
		return nil, fmt.Errorf("alloc: unknown scenario %v", cfg.Scenario)
	}
}

func withMremapDefaults(cfg MremapConfig) MremapConfig {
	if cfg.PageSize == 0 {
		return DefaultMremapConfig()
	}
	return cfg
}

func withDedupDefaults(cfg DedupConfig) DedupConfig {
	if cfg.InitialBuckets == 0 {
		return DefaultDedupConfig()
	}
	return cfg
}

func linearCapacityOrDefault(c uint64) uint64 {
	if c == 0 {
		return 1 << 20
	}
	return c
}

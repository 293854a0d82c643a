package ops

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

// StopFlag is the cooperative cancellation signal parallel filter/map/
// reduce observe between work items (spec §4.K "Cancellation is
// cooperative"). The zero value is usable and never requests a stop.
type StopFlag struct {
	requested atomic.Bool
}

// Request asks every worker sharing this flag to stop at its next
// checkpoint.
func (s *StopFlag) Request() { s.requested.Store(true) }

// Requested reports whether Request has been called.
func (s *StopFlag) Requested() bool { return s != nil && s.requested.Load() }

// Pool configures parallel execution for Filter/Map/Reduce. A nil Pool,
// or one with Workers <= 1, runs all items as a single chunk on one
// worker goroutine.
type Pool struct {
	Workers int
	Stop    *StopFlag
}

func (p *Pool) workers() int {
	if p == nil || p.Workers < 1 {
		return 1
	}
	return p.Workers
}

func (p *Pool) stop() *StopFlag {
	if p == nil {
		return nil
	}
	return p.Stop
}

// chunkBounds splits n items across workers as evenly as possible,
// returning each worker's [start,end). unit forces every chunk boundary
// to a multiple of unit (2 for mappings, so a key/value pair is never
// split across workers).
func chunkBounds(n, workers, unit int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	units := n / unit
	base := units / workers
	extra := units % workers
	bounds := make([][2]int, 0, workers)
	start := 0
	for w := 0; w < workers && start < n; w++ {
		count := base
		if w < extra {
			count++
		}
		end := start + count*unit
		if end > n {
			end = n
		}
		if end > start {
			bounds = append(bounds, [2]int{start, end})
		}
		start = end
	}
	return bounds
}

// Filter returns a new sequence containing only the elements for which
// pred reports true, preserving order. Work is chunked evenly across
// pool.Workers goroutines via errgroup; on cancellation (ctx done or
// pool's StopFlag requested) the operation returns value.Invalid and
// retains no new allocation.
func Filter(ctx context.Context, b *builder.Builder, r value.Reader, seq value.Value, pred func(value.Value) bool, pool *Pool) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(seq, r)
	kept, ok := parallelSelect(ctx, items, 1, pool, func(chunk []value.Value) ([]value.Value, bool) {
		out := make([]value.Value, 0, len(chunk))
		for _, it := range chunk {
			if pool.stop().Requested() {
				return nil, false
			}
			if pred(it) {
				out = append(out, it)
			}
		}
		return out, true
	})
	if !ok {
		return value.Invalid
	}
	return b.SequenceOf(kept)
}

// Map returns a new sequence with xform applied to every element,
// preserving order, with the same chunking/cancellation contract as
// Filter.
func Map(ctx context.Context, b *builder.Builder, r value.Reader, seq value.Value, xform func(value.Value) value.Value, pool *Pool) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(seq, r)
	mapped, ok := parallelSelect(ctx, items, 1, pool, func(chunk []value.Value) ([]value.Value, bool) {
		out := make([]value.Value, len(chunk))
		for i, it := range chunk {
			if pool.stop().Requested() {
				return nil, false
			}
			out[i] = xform(it)
		}
		return out, true
	})
	if !ok {
		return value.Invalid
	}
	return b.SequenceOf(mapped)
}

// Reduce folds fn over seq's elements left to right semantically, but
// computes it as a per-worker partial reduction (each worker seeded with
// init) followed by a single-threaded final reduction over the partial
// results, per spec §4.K. fn must be associative-compatible with this
// two-level reduction when pool requests more than one worker.
func Reduce(ctx context.Context, r value.Reader, seq value.Value, init value.Value, fn func(acc, v value.Value) value.Value, pool *Pool) value.Value {
	if value.TypeOf(seq) != value.KindSequence {
		return value.Invalid
	}
	items := value.Items(seq, r)
	bounds := chunkBounds(len(items), pool.workers(), 1)
	partials := make([]value.Value, len(bounds))

	g, gctx := errgroup.WithContext(ctx)
	for i, bound := range bounds {
		i, bound := i, bound
		g.Go(func() error {
			acc := init
			for _, it := range items[bound[0]:bound[1]] {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if pool.stop().Requested() {
					return context.Canceled
				}
				acc = fn(acc, it)
			}
			partials[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return value.Invalid
	}

	if len(partials) == 0 {
		return init
	}
	final := partials[0]
	for _, p := range partials[1:] {
		final = fn(final, p)
	}
	return final
}

// parallelSelect runs transform over items chunked into pool.workers()
// pieces (each a multiple of unit elements), concatenating results in
// original order. It returns ok=false if any chunk reports cancellation.
func parallelSelect(ctx context.Context, items []value.Value, unit int, pool *Pool, transform func([]value.Value) ([]value.Value, bool)) ([]value.Value, bool) {
	bounds := chunkBounds(len(items), pool.workers(), unit)
	results := make([][]value.Value, len(bounds))

	g, gctx := errgroup.WithContext(ctx)
	for i, bound := range bounds {
		i, bound := i, bound
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out, ok := transform(items[bound[0]:bound[1]])
			if !ok {
				return context.Canceled
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	out := make([]value.Value, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, true
}

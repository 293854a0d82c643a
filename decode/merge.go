package decode

import (
	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/fyerr"
	"github.com/willabides/fyvalue/internal/yamlh"
	"github.com/willabides/fyvalue/value"
)

// mapEntry is one raw mapping entry collected before merge resolution:
// either an explicit key/value pair or a YAML 1.1 "<<" merge argument.
type mapEntry struct {
	merge    bool
	key, val value.Value
	mergeVal value.Value
}

func isMergeKeyEvent(ev *yamlh.Event) bool {
	if !builder.IsMergeKey(string(ev.Value)) {
		return false
	}
	switch string(ev.Tag) {
	case "", "!", yamlh.MERGE_TAG:
		return true
	default:
		return false
	}
}

// resolveMergeEntries applies YAML 1.1 merge-key precedence (spec §4.L):
// explicit keys always win over merged-in ones regardless of where "<<"
// appeared in the document, and among multiple merge sources (a sequence
// of mappings) the earliest in the sequence wins.
func (d *Decoder) resolveMergeEntries(entries []mapEntry) ([]value.Value, error) {
	r := d.builder.Reader()

	var explicit []value.Value
	for _, e := range entries {
		if e.merge {
			continue
		}
		explicit = setKeyLastWins(explicit, e.key, e.val, r)
	}

	seen := append([]value.Value(nil), explicit...)
	var merged []value.Value
	for _, e := range entries {
		if !e.merge {
			continue
		}
		sources, err := mergeSources(e.mergeVal, r)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			pairs := value.Items(src, r)
			for i := 0; i < len(pairs); i += 2 {
				k, v := pairs[i], pairs[i+1]
				if hasKey(seen, k, r) {
					continue
				}
				merged = append(merged, k, v)
				seen = append(seen, k, v)
			}
		}
	}
	return append(explicit, merged...), nil
}

func mergeSources(v value.Value, r value.Reader) ([]value.Value, error) {
	switch value.TypeOf(v) {
	case value.KindMapping:
		return []value.Value{v}, nil
	case value.KindSequence:
		items := value.Items(v, r)
		out := make([]value.Value, 0, len(items))
		for _, it := range items {
			if value.TypeOf(it) != value.KindMapping {
				return nil, fyerr.ErrInvalid
			}
			out = append(out, it)
		}
		return out, nil
	default:
		return nil, fyerr.ErrInvalid
	}
}

func setKeyLastWins(pairs []value.Value, key, val value.Value, r value.Reader) []value.Value {
	for i := 0; i < len(pairs); i += 2 {
		if builder.Compare(pairs[i], key, r, r) == 0 {
			pairs[i+1] = val
			return pairs
		}
	}
	return append(pairs, key, val)
}

func hasKey(pairs []value.Value, key value.Value, r value.Reader) bool {
	for i := 0; i < len(pairs); i += 2 {
		if builder.Compare(pairs[i], key, r, r) == 0 {
			return true
		}
	}
	return false
}

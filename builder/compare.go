package builder

import "github.com/willabides/fyvalue/value"

// Compare is a total order over values (spec §4.J "Comparison"), suitable
// for sort and equality: equal words compare equal; Invalid is
// incomparable to anything (returns -1 regardless of side); differing
// kinds order by kind tag; same-kind scalars use natural ordering, and
// collections compare structurally.
func Compare(a, b value.Value, ra, rb value.Reader) int {
	if a == value.Invalid || b == value.Invalid {
		return -1
	}
	if a == b {
		return 0
	}
	ka, kb := value.KindOf(a, ra), value.KindOf(b, rb)
	if ka == value.KindInvalid || kb == value.KindInvalid {
		return -1
	}
	if ka != kb {
		return compareInts(int(ka), int(kb))
	}
	switch ka {
	case value.KindNull:
		return 0
	case value.KindBool:
		return compareBools(value.AsBool(a), value.AsBool(b))
	case value.KindInt:
		return compareInts64(value.Int(a, ra), value.Int(b, rb))
	case value.KindFloat:
		return compareFloats(value.Float(a, ra), value.Float(b, rb))
	case value.KindString:
		return compareBytes(value.String(a, ra), value.String(b, rb))
	case value.KindSequence:
		return compareSequences(a, b, ra, rb)
	case value.KindMapping:
		return compareMappings(a, b, ra, rb)
	case value.KindAlias, value.KindIndirect:
		recA, recB := value.ReadIndirect(a, ra), value.ReadIndirect(b, rb)
		if recA.HasValue && recB.HasValue {
			return Compare(recA.Value, recB.Value, ra, rb)
		}
		return compareBools(recA.HasValue, recB.HasValue)
	default:
		return -1
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInts64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBools(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	default:
		return -1 // any relation with NaN: not orderable, matching spec §4.K's note
	}
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return compareInts(len(a), len(b))
}

func compareSequences(a, b value.Value, ra, rb value.Reader) int {
	itemsA, itemsB := value.Items(a, ra), value.Items(b, rb)
	n := len(itemsA)
	if len(itemsB) < n {
		n = len(itemsB)
	}
	for i := 0; i < n; i++ {
		if c := Compare(itemsA[i], itemsB[i], ra, rb); c != 0 {
			return c
		}
	}
	return compareInts(len(itemsA), len(itemsB))
}

// compareMappings implements spec §4.J's mapping rule: iterate a's pairs,
// look each key up in b, compare values; equal iff same size and every
// key maps to an equal value. Since that rule alone does not yield a
// total order across differently-keyed mappings of equal size, a
// non-equal result falls back to comparing the mappings' own pair count
// and then their first differing key/value pair in iteration order, so
// Compare remains a consistent order for sort.
func compareMappings(a, b value.Value, ra, rb value.Reader) int {
	pairsA, pairsB := value.Items(a, ra), value.Items(b, rb)
	if len(pairsA) != len(pairsB) {
		return compareInts(len(pairsA), len(pairsB))
	}
	equal := true
	for i := 0; i < len(pairsA); i += 2 {
		key, val := pairsA[i], pairsA[i+1]
		bv, found := lookup(b, key, rb)
		if !found || Compare(val, bv, ra, rb) != 0 {
			equal = false
			break
		}
	}
	if equal {
		return 0
	}
	for i := 0; i < len(pairsA) && i < len(pairsB); i += 2 {
		if c := Compare(pairsA[i], pairsB[i], ra, rb); c != 0 {
			return c
		}
		if c := Compare(pairsA[i+1], pairsB[i+1], ra, rb); c != 0 {
			return c
		}
	}
	return 0
}

func lookup(mapping, key value.Value, r value.Reader) (value.Value, bool) {
	pairs := value.Items(mapping, r)
	for i := 0; i < len(pairs); i += 2 {
		if Compare(pairs[i], key, r, r) == 0 {
			return pairs[i+1], true
		}
	}
	return value.Invalid, false
}

package builder

import "github.com/willabides/fyvalue/value"

// Internalize ensures every pointer-bearing word reachable from v lives in
// b's own arena (spec §4.J "internalization"): values already inside b's
// arena pass through unchanged; everything else is recursively copied,
// read via srcReader. Foreign in-place scalars (bool/null/inline
// int/float/string) never need copying regardless of srcReader.
func (b *Builder) Internalize(v value.Value, srcReader value.Reader) value.Value {
	if value.IsInPlace(v) {
		return v
	}
	if off, ok := value.ResolvePtr(v); ok && b.Contains(off) {
		return v
	}
	if off, ok := value.ResolveCollectionPtr(v); ok && b.Contains(off) {
		return v
	}

	switch value.TypeOf(v) {
	case value.KindInt:
		return b.IntOf(value.Int(v, srcReader))
	case value.KindFloat:
		return b.FloatOf(value.Float(v, srcReader))
	case value.KindString:
		return b.StringOf(value.String(v, srcReader))
	case value.KindSequence:
		items := value.Items(v, srcReader)
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = b.Internalize(it, srcReader)
		}
		return b.SequenceOf(out)
	case value.KindMapping:
		pairs := value.Items(v, srcReader)
		out := make([]value.Value, len(pairs))
		for i, it := range pairs {
			out[i] = b.Internalize(it, srcReader)
		}
		return b.MappingOf(out)
	case value.KindIndirect, value.KindAlias:
		rec := value.ReadIndirect(v, srcReader)
		var newVal, newAnchor, newTag value.Value
		if rec.HasValue {
			newVal = b.Internalize(rec.Value, srcReader)
		}
		if rec.HasAnchor {
			newAnchor = b.Internalize(rec.Anchor, srcReader)
		}
		if rec.HasTag {
			newTag = b.Internalize(rec.Tag, srcReader)
		}
		return b.IndirectOf(newVal, rec.HasValue, newAnchor, rec.HasAnchor, newTag, rec.HasTag, rec.ScalarStyle, rec.FlowStyle)
	default:
		return v // Null, Bool, Invalid: already handled by IsInPlace above, or not internalizable
	}
}

// DeepCopy walks v's structure, internalizing every element and creating
// fresh headers even where Internalize would have short-circuited — it
// always produces a value owned by b, never aliasing the source arena,
// useful when the source arena's lifetime is about to end.
func (b *Builder) DeepCopy(v value.Value, srcReader value.Reader) value.Value {
	if value.IsInPlace(v) {
		return v
	}
	switch value.TypeOf(v) {
	case value.KindInt:
		return b.IntOf(value.Int(v, srcReader))
	case value.KindFloat:
		return b.FloatOf(value.Float(v, srcReader))
	case value.KindString:
		return b.StringOf(value.String(v, srcReader))
	case value.KindSequence:
		items := value.Items(v, srcReader)
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[i] = b.DeepCopy(it, srcReader)
		}
		return b.SequenceOf(out)
	case value.KindMapping:
		pairs := value.Items(v, srcReader)
		out := make([]value.Value, len(pairs))
		for i, it := range pairs {
			out[i] = b.DeepCopy(it, srcReader)
		}
		return b.MappingOf(out)
	case value.KindIndirect, value.KindAlias:
		rec := value.ReadIndirect(v, srcReader)
		var newVal, newAnchor, newTag value.Value
		if rec.HasValue {
			newVal = b.DeepCopy(rec.Value, srcReader)
		}
		if rec.HasAnchor {
			newAnchor = b.DeepCopy(rec.Anchor, srcReader)
		}
		if rec.HasTag {
			newTag = b.DeepCopy(rec.Tag, srcReader)
		}
		return b.IndirectOf(newVal, rec.HasValue, newAnchor, rec.HasAnchor, newTag, rec.HasTag, rec.ScalarStyle, rec.FlowStyle)
	default:
		return v
	}
}

package ops

import (
	"strconv"

	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/value"
)

// Convert coerces input to target (spec §4.K "convert"). The string case
// parses with strconv.ParseInt (base 10) and strconv.ParseFloat, not with
// the schema scanners CreateScalarFromText uses. Conversions that would
// lose information return value.Invalid rather than silently truncating.
func Convert(b *builder.Builder, r value.Reader, input value.Value, target value.Kind) value.Value {
	from := value.KindOf(input, r)
	if from == target {
		return input
	}
	switch target {
	case value.KindString:
		return b.StringOf(renderText(input, from, r))
	case value.KindInt:
		return convertToInt(b, input, from, r)
	case value.KindFloat:
		return convertToFloat(b, input, from, r)
	case value.KindBool:
		return convertToBool(b, input, from, r)
	default:
		return value.Invalid
	}
}

func renderText(v value.Value, k value.Kind, r value.Reader) []byte {
	switch k {
	case value.KindNull:
		return nil
	case value.KindBool:
		if value.AsBool(v) {
			return []byte("true")
		}
		return []byte("false")
	case value.KindInt:
		return strconv.AppendInt(nil, value.Int(v, r), 10)
	case value.KindFloat:
		return strconv.AppendFloat(nil, value.Float(v, r), 'g', -1, 64)
	case value.KindString:
		return value.String(v, r)
	default:
		return nil
	}
}

func convertToInt(b *builder.Builder, v value.Value, k value.Kind, r value.Reader) value.Value {
	switch k {
	case value.KindInt:
		return v
	case value.KindFloat:
		f := value.Float(v, r)
		if f != float64(int64(f)) {
			return value.Invalid
		}
		return b.IntOf(int64(f))
	case value.KindBool:
		if value.AsBool(v) {
			return b.IntOf(1)
		}
		return b.IntOf(0)
	case value.KindString:
		i, err := strconv.ParseInt(string(value.String(v, r)), 10, 64)
		if err != nil {
			return value.Invalid
		}
		return b.IntOf(i)
	default:
		return value.Invalid
	}
}

func convertToFloat(b *builder.Builder, v value.Value, k value.Kind, r value.Reader) value.Value {
	switch k {
	case value.KindFloat:
		return v
	case value.KindInt:
		return b.FloatOf(float64(value.Int(v, r)))
	case value.KindString:
		f, err := strconv.ParseFloat(string(value.String(v, r)), 64)
		if err != nil {
			return value.Invalid
		}
		return b.FloatOf(f)
	default:
		return value.Invalid
	}
}

func convertToBool(b *builder.Builder, v value.Value, k value.Kind, r value.Reader) value.Value {
	switch k {
	case value.KindBool:
		return v
	case value.KindInt:
		return b.BoolOf(value.Int(v, r) != 0)
	default:
		return value.Invalid
	}
}

package decode

import (
	"bytes"
	"context"

	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func init() {
	ops.ParseFunc = Parse
}

// Parse decodes the first document in text into a value.Value, discarding
// the per-document directory Decode also reports. Its signature matches
// ops.ParseFunc, which init registers it as (spec §4.K): package ops never
// imports package decode directly, so Op's OpParse case can still dispatch
// into the decoder without an import cycle.
func Parse(ctx context.Context, b *builder.Builder, text []byte, opts ops.ParseOptions) (value.Value, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return value.Invalid, err
		}
	}
	d := NewDecoder(bytes.NewReader(text), b, opts.Schema, nil)
	root, _, err := d.Decode()
	if err != nil {
		return value.Invalid, err
	}
	return root, nil
}

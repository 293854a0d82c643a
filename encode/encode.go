// Package encode synthesizes a YAML/JSON event stream from a value.Value
// tree (spec §4.K's emit bridge), the mirror image of package decode: it
// walks a value.Reader-backed tree instead of Go's reflect package and
// drives internal/emitter directly instead of building a *Node first.
package encode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/internal/emitter"
	"github.com/willabides/fyvalue/internal/resolve"
	"github.com/willabides/fyvalue/internal/yamlh"
	"github.com/willabides/fyvalue/ops"
	"github.com/willabides/fyvalue/value"
)

func init() {
	ops.EmitFunc = Emit
}

// Encoder writes a stream of value.Value trees as YAML or JSON events.
// Grounded on WillAbides-yaml/encode.go's Encoder, minus the reflect-based
// marshal dispatch: a value.Value is already typed, so there is no Go
// struct/map/slice path to walk, only Kind.
type Encoder struct {
	emitter emitter.Emitter
	schema  builder.Schema
	started bool
}

// NewEncoder returns an Encoder writing to w using schema to decide
// presentation (SchemaJSON and Schema12JSON force flow collections and
// double-quoted strings; every other schema uses YAML block style).
func NewEncoder(w io.Writer, schema builder.Schema) *Encoder {
	return &Encoder{
		emitter: *emitter.New(w),
		schema:  schema,
	}
}

// SetIndent changes the indentation used when encoding.
func (e *Encoder) SetIndent(spaces int) {
	e.emitter.SetIndent(spaces)
}

// Encode writes one document containing v, preceded by a stream-start
// event on the first call.
func (e *Encoder) Encode(v value.Value, r value.Reader) error {
	if !e.started {
		if err := e.emitter.Emit(streamStartEvent(), false); err != nil {
			return err
		}
		e.started = true
	}
	if err := e.emitter.Emit(documentStartEvent(), false); err != nil {
		return err
	}
	if err := e.encodeNode(v, r, "", "", yamlh.ANY_SCALAR_STYLE, false); err != nil {
		return err
	}
	return e.emitter.Emit(documentEndEvent(), false)
}

// Close writes the stream-end event. It does not write a "..." terminator.
func (e *Encoder) Close() error {
	return e.emitter.Emit(streamEndEvent(), true)
}

func (e *Encoder) jsonMode() bool {
	return e.schema == builder.SchemaJSON || e.schema == builder.Schema12JSON
}

// encodeNode is the recursive descent at the center of the package,
// grounded on WillAbides-yaml/encode.go's encodeNode: there it switches
// on node.Kind, here it switches on value.KindOf. anchor/tag/style/flow
// carry the presentation decoration an enclosing builder.IndirectOf
// wrapper attached to v, if any.
func (e *Encoder) encodeNode(v value.Value, r value.Reader, anchor, tag string, style yamlh.YamlScalarStyle, flow bool) error {
	switch value.KindOf(v, r) {
	case value.KindAlias:
		rec := value.ReadIndirect(v, r)
		return e.emitter.Emit(aliasEvent([]byte(anchorLabel(rec.Anchor, r))), false)
	case value.KindIndirect:
		rec := value.ReadIndirect(v, r)
		if rec.HasAnchor {
			anchor = anchorLabel(rec.Anchor, r)
		}
		if rec.HasTag {
			tag = string(value.String(rec.Tag, r))
		}
		return e.encodeNode(rec.Value, r, anchor, tag, yamlh.YamlScalarStyle(rec.ScalarStyle), rec.FlowStyle)
	case value.KindNull:
		return e.encodeLiteral(anchor, tag, "null", style)
	case value.KindBool:
		s := "false"
		if value.AsBool(v) {
			s = "true"
		}
		return e.encodeLiteral(anchor, tag, s, style)
	case value.KindInt:
		return e.encodeLiteral(anchor, tag, strconv.FormatInt(value.Int(v, r), 10), style)
	case value.KindFloat:
		return e.encodeLiteral(anchor, tag, formatFloat(value.Float(v, r)), style)
	case value.KindString:
		return e.encodeString(anchor, tag, string(value.String(v, r)), style)
	case value.KindSequence:
		return e.encodeSequence(v, r, anchor, tag, flow)
	case value.KindMapping:
		return e.encodeMapping(v, r, anchor, tag, flow)
	default:
		return fmt.Errorf("fyvalue/encode: cannot encode value of kind %s", value.KindOf(v, r))
	}
}

func anchorLabel(anchor value.Value, r value.Reader) string {
	return string(value.String(anchor, r))
}

// formatFloat renders f the way WillAbides-yaml/encode.go's encodeFloat
// does: strconv's general format, with the three special values remapped
// to their YAML spellings.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	switch s {
	case "+Inf":
		return ".inf"
	case "-Inf":
		return "-.inf"
	case "NaN":
		return ".nan"
	}
	return s
}

// encodeLiteral emits a null/bool/int/float scalar, always plain unless
// an Indirect wrapper explicitly requested otherwise.
func (e *Encoder) encodeLiteral(anchor, tag, text string, style yamlh.YamlScalarStyle) error {
	if style == yamlh.ANY_SCALAR_STYLE {
		style = yamlh.PLAIN_SCALAR_STYLE
	}
	return e.emitScalar(anchor, tag, text, style)
}

// isBase60Float and isOldBool guard against YAML 1.1 readers misparsing a
// plain string, grounded verbatim on WillAbides-yaml/encode.go's functions
// of the same name (the base-60 float and legacy y/n/on/off bool
// spellings are a closed, unchanging list, not something worth
// reexpressing in this module's idiom).
var base60float = regexp.MustCompile(`^[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+(?:\.[0-9_]*)?$`)

func isBase60Float(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if !(c == '+' || c == '-' || c >= '0' && c <= '9') || strings.IndexByte(s, ':') < 0 {
		return false
	}
	return base60float.MatchString(s)
}

func isOldBool(s string) bool {
	switch s {
	case "y", "Y", "yes", "Yes", "YES", "on", "On", "ON",
		"n", "N", "no", "No", "NO", "off", "Off", "OFF":
		return true
	default:
		return false
	}
}

// encodeString picks a scalar style for a string value the way
// WillAbides-yaml/encode.go's encodeString does: double-quote it in JSON
// mode unconditionally, or whenever leaving it plain would let a reader
// resolve it as some other scalar kind; a multi-line value uses literal
// block style.
func (e *Encoder) encodeString(anchor, tag, s string, style yamlh.YamlScalarStyle) error {
	if !utf8.ValidString(s) {
		if tag != "" && tag != resolve.BinaryTag {
			return fmt.Errorf("fyvalue/encode: cannot marshal invalid UTF-8 data as %s", resolve.ShortTag(tag))
		}
		return e.emitScalar(anchor, resolve.BinaryTag, resolve.EncodeBase64(s), yamlh.PLAIN_SCALAR_STYLE)
	}

	if e.jsonMode() {
		return e.emitScalar(anchor, tag, s, yamlh.DOUBLE_QUOTED_SCALAR_STYLE)
	}

	if style != yamlh.ANY_SCALAR_STYLE {
		return e.emitScalar(anchor, tag, s, style)
	}

	canUsePlain := true
	if tag == "" {
		rTag, _, err := resolve.Resolve("", s)
		if err != nil {
			return err
		}
		canUsePlain = rTag == resolve.StrTag && !isBase60Float(s) && !isOldBool(s)
	}
	switch {
	case strings.Contains(s, "\n"):
		style = yamlh.LITERAL_SCALAR_STYLE
	case canUsePlain:
		style = yamlh.PLAIN_SCALAR_STYLE
	default:
		style = yamlh.DOUBLE_QUOTED_SCALAR_STYLE
	}
	return e.emitScalar(anchor, tag, s, style)
}

func (e *Encoder) emitScalar(anchor, tag, text string, style yamlh.YamlScalarStyle) error {
	implicit := tag == ""
	var longTag string
	if !implicit {
		longTag = resolve.LongTag(tag)
	}
	return e.emitter.Emit(scalarEvent([]byte(anchor), []byte(longTag), []byte(text), implicit, implicit, style), false)
}

func (e *Encoder) encodeSequence(v value.Value, r value.Reader, anchor, tag string, flow bool) error {
	style := yamlh.BLOCK_SEQUENCE_STYLE
	if flow || e.jsonMode() {
		style = yamlh.FLOW_SEQUENCE_STYLE
	}
	implicit := tag == ""
	var longTag string
	if !implicit {
		longTag = resolve.LongTag(tag)
	}
	if err := e.emitter.Emit(sequenceStartEvent([]byte(anchor), []byte(longTag), implicit, style), false); err != nil {
		return err
	}
	for _, item := range value.Items(v, r) {
		if err := e.encodeNode(item, r, "", "", yamlh.ANY_SCALAR_STYLE, false); err != nil {
			return err
		}
	}
	return e.emitter.Emit(sequenceEndEvent(), false)
}

func (e *Encoder) encodeMapping(v value.Value, r value.Reader, anchor, tag string, flow bool) error {
	style := yamlh.BLOCK_MAPPING_STYLE
	if flow || e.jsonMode() {
		style = yamlh.FLOW_MAPPING_STYLE
	}
	implicit := tag == ""
	var longTag string
	if !implicit {
		longTag = resolve.LongTag(tag)
	}
	if err := e.emitter.Emit(mappingStartEvent([]byte(anchor), []byte(longTag), implicit, style), false); err != nil {
		return err
	}
	pairs := value.Items(v, r)
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := e.encodeNode(pairs[i], r, "", "", yamlh.ANY_SCALAR_STYLE, false); err != nil {
			return err
		}
		if err := e.encodeNode(pairs[i+1], r, "", "", yamlh.ANY_SCALAR_STYLE, false); err != nil {
			return err
		}
	}
	return e.emitter.Emit(mappingEndEvent(), false)
}

// Emit renders v as a single-document YAML/JSON byte stream. Its
// signature matches ops.EmitFunc, which init registers it as (spec §4.K):
// package ops never imports package encode directly, avoiding the import
// cycle decode/ops already sidesteps with ops.ParseFunc.
func Emit(ctx context.Context, r value.Reader, v value.Value, opts ops.EmitOptions) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	enc := NewEncoder(&buf, opts.Schema)
	if err := enc.Encode(v, r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

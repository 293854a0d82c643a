// Package decode implements the decoder glue of spec §4.L: it drives
// internal/parserc's event stream through a builder.Builder, producing
// value.Value trees instead of the teacher's *Node tree.
package decode

import (
	"fmt"
	"io"

	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/diag"
	"github.com/willabides/fyvalue/fyerr"
	"github.com/willabides/fyvalue/internal/yamlh"
	"github.com/willabides/fyvalue/value"
)

// collectingAnchor tracks an anchor whose collection has been opened but
// not yet closed (spec §4.L anchor registry). nest counts how many
// further anchored collections have opened since, for diagnosing
// self-referential depth; an alias is resolved as recursive purely by
// still being present in this map (recursion is a property of the
// recursive-descent call stack, not of the counter).
type collectingAnchor struct {
	nest int
}

// Decoder pulls one document at a time from an event stream, in the
// style of encoding/json's streaming Decoder rather than the teacher's
// one-shot Unmarshal.
type Decoder struct {
	es      *eventSource
	builder *builder.Builder
	schema  builder.Schema
	sink    diag.Sink
	started bool

	complete   map[string]value.Value
	collecting map[string]*collectingAnchor
}

// NewDecoder creates a Decoder reading events from r and building values
// through b. schema, when builder.SchemaAuto, is overridden per document
// by that document's %YAML directive (spec §4.L "carry the parser-
// reported schema into the builder when schema == Auto"). sink may be
// nil, in which case diagnostics are discarded.
func NewDecoder(r io.Reader, b *builder.Builder, schema builder.Schema, sink diag.Sink) *Decoder {
	if sink == nil {
		sink = diag.NoopSink()
	}
	return &Decoder{
		es:      newEventSource(r),
		builder: b,
		schema:  schema,
		sink:    sink,
	}
}

func (d *Decoder) init() error {
	if d.started {
		return nil
	}
	if _, err := d.es.expect(yamlh.STREAM_START_EVENT); err != nil {
		return err
	}
	d.started = true
	return nil
}

// Decode reads the next document, returning its root value and a
// directory value (spec §4.L) describing the document's directives and
// resolved schema. It returns io.EOF once the stream is exhausted.
func (d *Decoder) Decode() (root value.Value, directory value.Value, err error) {
	if err := d.init(); err != nil {
		return value.Invalid, value.Invalid, err
	}
	ev, err := d.es.peek()
	if err != nil {
		return value.Invalid, value.Invalid, err
	}
	if ev.Type == yamlh.STREAM_END_EVENT {
		return value.Invalid, value.Invalid, io.EOF
	}
	startEv, err := d.es.expect(yamlh.DOCUMENT_START_EVENT)
	if err != nil {
		return value.Invalid, value.Invalid, err
	}

	d.complete = make(map[string]value.Value)
	d.collecting = make(map[string]*collectingAnchor)

	schema := d.schema
	verExplicit := startEv.Version_directive != nil
	var verMajor, verMinor int8
	if verExplicit {
		verMajor, verMinor = startEv.Version_directive.Major, startEv.Version_directive.Minor
		if schema == builder.SchemaAuto {
			if verMajor == 1 && verMinor == 1 {
				schema = builder.Schema11
			} else {
				schema = builder.Schema12Core
			}
		}
	}
	tagsExplicit := len(startEv.Tag_directives) > 0
	tags := make(map[string]string, len(startEv.Tag_directives))
	for _, td := range startEv.Tag_directives {
		tags[string(td.Handle)] = string(td.Prefix)
	}

	root, err = d.parseNode(schema)
	if err != nil {
		return value.Invalid, value.Invalid, err
	}
	if _, err := d.es.expect(yamlh.DOCUMENT_END_EVENT); err != nil {
		return value.Invalid, value.Invalid, err
	}

	directory = d.buildDirectory(root, verMajor, verMinor, verExplicit, tags, tagsExplicit, schema)
	return root, directory, nil
}

func (d *Decoder) parseNode(schema builder.Schema) (value.Value, error) {
	ev, err := d.es.next()
	if err != nil {
		return value.Invalid, err
	}
	switch ev.Type {
	case yamlh.SCALAR_EVENT:
		return d.scalarValue(ev, schema)
	case yamlh.ALIAS_EVENT:
		return d.resolveAlias(string(ev.Anchor))
	case yamlh.SEQUENCE_START_EVENT:
		return d.parseSequence(ev, schema)
	case yamlh.MAPPING_START_EVENT:
		return d.parseMapping(ev, schema)
	default:
		return value.Invalid, fmt.Errorf("fyvalue/decode: unexpected event %s", ev.Type)
	}
}

func (d *Decoder) scalarValue(ev *yamlh.Event, schema builder.Schema) (value.Value, error) {
	text := string(ev.Value)
	forceType, force := resolveForceType(ev)
	v := d.builder.CreateScalarFromText(text, schema, forceType, force)
	if v == value.Invalid {
		d.sink.Errorw("scalar did not match forced tag", "text", text, "tag", string(ev.Tag))
		return value.Invalid, fmt.Errorf("fyvalue/decode: %w: %q does not match tag %q", fyerr.ErrInvalid, text, ev.Tag)
	}
	if len(ev.Anchor) > 0 {
		d.complete[string(ev.Anchor)] = v
	}
	return v, nil
}

// resolveForceType derives create_scalar_from_text's force_type argument
// from the event's explicit tag or non-plain style (spec §4.L / §4.J):
// anything quoted or block-style is always a string; an explicit core
// tag demands that kind; a plain untagged scalar is left unforced so the
// schema's literal/numeric tables decide.
func resolveForceType(ev *yamlh.Event) (value.Kind, bool) {
	style := ev.Scalar_style()
	if style != yamlh.PLAIN_SCALAR_STYLE && style != yamlh.ANY_SCALAR_STYLE {
		return value.KindString, true
	}
	switch string(ev.Tag) {
	case yamlh.NULL_TAG:
		return value.KindNull, true
	case yamlh.BOOL_TAG:
		return value.KindBool, true
	case yamlh.INT_TAG:
		return value.KindInt, true
	case yamlh.FLOAT_TAG:
		return value.KindFloat, true
	case yamlh.STR_TAG:
		return value.KindString, true
	default:
		return 0, false
	}
}

func (d *Decoder) parseSequence(startEv *yamlh.Event, schema builder.Schema) (value.Value, error) {
	name := string(startEv.Anchor)
	if name != "" {
		d.anchorOpen(name)
	}
	var items []value.Value
	for {
		ev, err := d.es.peek()
		if err != nil {
			return value.Invalid, err
		}
		if ev.Type == yamlh.SEQUENCE_END_EVENT {
			break
		}
		item, err := d.parseNode(schema)
		if err != nil {
			return value.Invalid, err
		}
		items = append(items, item)
	}
	if _, err := d.es.expect(yamlh.SEQUENCE_END_EVENT); err != nil {
		return value.Invalid, err
	}
	v := d.builder.SequenceOf(items)
	if name != "" {
		d.anchorClose(name, v)
	}
	return v, nil
}

func (d *Decoder) parseMapping(startEv *yamlh.Event, schema builder.Schema) (value.Value, error) {
	name := string(startEv.Anchor)
	if name != "" {
		d.anchorOpen(name)
	}
	var entries []mapEntry
	for {
		ev, err := d.es.peek()
		if err != nil {
			return value.Invalid, err
		}
		if ev.Type == yamlh.MAPPING_END_EVENT {
			break
		}
		if ev.Type == yamlh.SCALAR_EVENT && isMergeKeyEvent(ev) {
			if _, err := d.es.expect(yamlh.SCALAR_EVENT); err != nil {
				return value.Invalid, err
			}
			mergeVal, err := d.parseNode(schema)
			if err != nil {
				return value.Invalid, err
			}
			entries = append(entries, mapEntry{merge: true, mergeVal: mergeVal})
			continue
		}
		key, err := d.parseNode(schema)
		if err != nil {
			return value.Invalid, err
		}
		val, err := d.parseNode(schema)
		if err != nil {
			return value.Invalid, err
		}
		entries = append(entries, mapEntry{key: key, val: val})
	}
	if _, err := d.es.expect(yamlh.MAPPING_END_EVENT); err != nil {
		return value.Invalid, err
	}
	pairs, err := d.resolveMergeEntries(entries)
	if err != nil {
		return value.Invalid, err
	}
	v := d.builder.MappingOf(pairs)
	if name != "" {
		d.anchorClose(name, v)
	}
	return v, nil
}

func (d *Decoder) anchorOpen(name string) {
	for _, e := range d.collecting {
		e.nest++
	}
	d.collecting[name] = &collectingAnchor{}
}

func (d *Decoder) anchorClose(name string, v value.Value) {
	delete(d.collecting, name)
	for _, e := range d.collecting {
		e.nest--
	}
	d.complete[name] = v
}

func (d *Decoder) resolveAlias(name string) (value.Value, error) {
	if v, ok := d.complete[name]; ok {
		return v, nil
	}
	if _, ok := d.collecting[name]; ok {
		return value.Invalid, fmt.Errorf("fyvalue/decode: %w: anchor %q", fyerr.ErrRecursiveAlias, name)
	}
	return value.Invalid, fmt.Errorf("fyvalue/decode: %w: anchor %q", fyerr.ErrUnresolvedAlias, name)
}

func (d *Decoder) buildDirectory(root value.Value, verMajor, verMinor int8, verExplicit bool, tags map[string]string, tagsExplicit bool, schema builder.Schema) value.Value {
	b := d.builder
	tagPairs := make([]value.Value, 0, len(tags)*2)
	for handle, prefix := range tags {
		tagPairs = append(tagPairs, b.StringOf([]byte(handle)), b.StringOf([]byte(prefix)))
	}
	version := fmt.Sprintf("%d.%d", verMajor, verMinor)
	return b.MappingOf([]value.Value{
		b.StringOf([]byte("root")), root,
		b.StringOf([]byte("version")), b.StringOf([]byte(version)),
		b.StringOf([]byte("version-explicit")), b.BoolOf(verExplicit),
		b.StringOf([]byte("tags")), b.MappingOf(tagPairs),
		b.StringOf([]byte("tags-explicit")), b.BoolOf(tagsExplicit),
		b.StringOf([]byte("schema")), b.StringOf([]byte(schema.String())),
	})
}

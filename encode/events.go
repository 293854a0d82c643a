package encode

import "github.com/willabides/fyvalue/internal/yamlh"

// Pure, domain-free *yamlh.Event constructors, grounded on
// WillAbides-yaml/apic.go: package decode's eventSource consumes this
// exact event vocabulary on the way in, and encode drives internal/emitter
// with it on the way out.

func streamStartEvent() *yamlh.Event {
	return &yamlh.Event{
		Type:     yamlh.STREAM_START_EVENT,
		Encoding: yamlh.UTF8_ENCODING,
	}
}

func streamEndEvent() *yamlh.Event {
	return &yamlh.Event{
		Type: yamlh.STREAM_END_EVENT,
	}
}

func documentStartEvent() *yamlh.Event {
	return &yamlh.Event{
		Type:     yamlh.DOCUMENT_START_EVENT,
		Implicit: true,
	}
}

func documentEndEvent() *yamlh.Event {
	return &yamlh.Event{
		Type:     yamlh.DOCUMENT_END_EVENT,
		Implicit: true,
	}
}

func aliasEvent(anchor []byte) *yamlh.Event {
	return &yamlh.Event{
		Type:   yamlh.ALIAS_EVENT,
		Anchor: anchor,
	}
}

func scalarEvent(anchor, tag, value []byte, plainImplicit, quotedImplicit bool, style yamlh.YamlScalarStyle) *yamlh.Event {
	return &yamlh.Event{
		Type:            yamlh.SCALAR_EVENT,
		Anchor:          anchor,
		Tag:             tag,
		Value:           value,
		Implicit:        plainImplicit,
		Quoted_implicit: quotedImplicit,
		Style:           yamlh.YamlStyle(style),
	}
}

func sequenceStartEvent(anchor, tag []byte, implicit bool, style yamlh.YamlSequenceStyle) *yamlh.Event {
	return &yamlh.Event{
		Type:     yamlh.SEQUENCE_START_EVENT,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: implicit,
		Style:    yamlh.YamlStyle(style),
	}
}

func sequenceEndEvent() *yamlh.Event {
	return &yamlh.Event{
		Type: yamlh.SEQUENCE_END_EVENT,
	}
}

func mappingStartEvent(anchor, tag []byte, implicit bool, style yamlh.YamlMappingStyle) *yamlh.Event {
	return &yamlh.Event{
		Type:     yamlh.MAPPING_START_EVENT,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: implicit,
		Style:    yamlh.YamlStyle(style),
	}
}

func mappingEndEvent() *yamlh.Event {
	return &yamlh.Event{
		Type: yamlh.MAPPING_END_EVENT,
	}
}

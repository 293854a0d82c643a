package decode

import (
	"fmt"
	"io"

	"github.com/willabides/fyvalue/internal/parserc"
	"github.com/willabides/fyvalue/internal/yamlh"
)

// eventSource wraps parserc's pull-only Parse with a one-event lookahead,
// grounded on WillAbides-yaml/decode.go's parser.peek/expect pair — the
// same need (look at the next event before deciding how to consume it)
// arises once the node tree is replaced with direct builder calls.
type eventSource struct {
	p       *parserc.YamlParser
	pending *yamlh.Event
}

func newEventSource(r io.Reader) *eventSource {
	return &eventSource{p: parserc.New(r)}
}

func (s *eventSource) peek() (*yamlh.Event, error) {
	if s.pending == nil {
		ev, err := parserc.Parse(s.p)
		if err != nil {
			return nil, err
		}
		s.pending = ev
	}
	return s.pending, nil
}

func (s *eventSource) next() (*yamlh.Event, error) {
	ev, err := s.peek()
	if err != nil {
		return nil, err
	}
	s.pending = nil
	return ev, nil
}

func (s *eventSource) expect(t yamlh.EventType) (*yamlh.Event, error) {
	ev, err := s.next()
	if err != nil {
		return nil, err
	}
	if ev.Type != t {
		return nil, fmt.Errorf("fyvalue/decode: expected %s event but got %s", t, ev.Type)
	}
	return ev, nil
}

// Package diag provides the diagnostic sink fyvalue's packages log
// through (spec §7's ambient error/diagnostic channel). The default sink
// is backed by go.uber.org/zap, matching the structured-logging style
// used elsewhere in the wider example corpus; callers that don't want
// logging use NoopSink.
package diag

import "go.uber.org/zap"

// Sink is the minimal logging surface fyvalue's packages depend on, kept
// small enough that a caller can trivially implement their own adapter
// around any logging library.
type Sink interface {
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// zapSink adapts *zap.SugaredLogger to Sink.
type zapSink struct {
	l *zap.SugaredLogger
}

// NewZapSink wraps an existing *zap.Logger.
func NewZapSink(l *zap.Logger) Sink {
	return &zapSink{l: l.Sugar()}
}

// NewProductionSink builds a zap production logger (JSON, info level and
// above) wrapped as a Sink.
func NewProductionSink() (Sink, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapSink(l), nil
}

func (z *zapSink) Debugw(msg string, kv ...interface{}) { z.l.Debugw(msg, kv...) }
func (z *zapSink) Warnw(msg string, kv ...interface{})  { z.l.Warnw(msg, kv...) }
func (z *zapSink) Errorw(msg string, kv ...interface{}) { z.l.Errorw(msg, kv...) }

// noopSink discards everything; the zero value of Sink for callers that
// construct one via NoopSink() rather than a nil interface.
type noopSink struct{}

// NoopSink returns a Sink that discards all messages.
func NoopSink() Sink { return noopSink{} }

func (noopSink) Debugw(string, ...interface{}) {}
func (noopSink) Warnw(string, ...interface{})  {}
func (noopSink) Errorw(string, ...interface{}) {}

package ops

import (
	"context"

	"github.com/willabides/fyvalue/builder"
	"github.com/willabides/fyvalue/fyerr"
	"github.com/willabides/fyvalue/value"
)

// Code identifies an operation for Op's single dispatch entry point (spec
// §4.K's catalogue table).
type Code int

const (
	CreateNull Code = iota
	CreateBool
	CreateInt
	CreateFloat
	CreateString
	CreateSeq
	CreateMap

	OpInsert
	OpReplace
	OpAppend
	OpConcat
	OpReverse

	OpAssoc
	OpDisassoc
	OpKeys
	OpValues
	OpItems
	OpMerge
	OpSet
	OpSetAt
	OpSetAtPath
	OpGet
	OpGetAt
	OpGetAtPath
	OpContains

	OpSlice
	OpSlicePy
	OpTake
	OpDrop
	OpFirst
	OpLast
	OpRest
	OpUnique

	OpSort

	OpFilter
	OpMap
	OpReduce

	OpConvert

	OpParse
	OpEmit
)

// ParseFunc and EmitFunc are the I/O bridge hooks for Op's parse/emit
// cases. They are nil until a decoder/encoder package registers itself
// (ops itself has no YAML/JSON knowledge, to avoid an import cycle with
// the packages that depend on it).
var (
	ParseFunc func(ctx context.Context, b *builder.Builder, text []byte, opts ParseOptions) (value.Value, error)
	EmitFunc  func(ctx context.Context, r value.Reader, v value.Value, opts EmitOptions) ([]byte, error)
)

// ParseOptions carries decoder configuration through Op's parse case.
type ParseOptions struct {
	Schema builder.Schema
}

// EmitOptions carries encoder configuration through Op's emit case.
type EmitOptions struct {
	Schema builder.Schema
}

// Args bundles every field any operation in the catalogue might need.
// Op reads only the fields relevant to its Code; callers populate just
// those and leave the rest zero.
type Args struct {
	Ctx context.Context

	Builder *builder.Builder
	Reader  value.Reader
	Readers []value.Reader

	Input       value.Value
	Inputs      []value.Value
	Container   value.Value
	Needle      value.Value
	Key         value.Value
	Val         value.Value
	Items       []value.Value
	Keys        []value.Value
	Pairs       []value.Value
	Collections []value.Value

	Idx        int
	Start, End int
	N          int

	Pred  func(value.Value) bool
	Xform func(value.Value) value.Value
	Fn    func(acc, v value.Value) value.Value
	Init  value.Value
	Pool  *Pool

	Target value.Kind
	Path   []value.Value

	Bool  bool
	Int   int64
	Float float64
	Text  []byte

	ParseOptions ParseOptions
	EmitOptions  EmitOptions
}

// Op dispatches on code, reading whichever Args fields that operation
// needs, and returns the resulting value or a sentinel error from
// package fyerr. Operations are pure over values: they never mutate a
// live value, only read input and build new values in Args.Builder's
// arena.
func Op(code Code, a Args) (value.Value, error) {
	switch code {
	case CreateNull:
		return a.Builder.NullOf(), nil
	case CreateBool:
		return a.Builder.BoolOf(a.Bool), nil
	case CreateInt:
		return a.Builder.IntOf(a.Int), nil
	case CreateFloat:
		return a.Builder.FloatOf(a.Float), nil
	case CreateString:
		return a.Builder.StringOf(a.Text), nil
	case CreateSeq:
		return a.Builder.SequenceOf(a.Items), nil
	case CreateMap:
		return a.Builder.MappingOf(a.Pairs), nil

	case OpInsert:
		return checkInvalid(Insert(a.Builder, a.Reader, a.Input, a.Idx, a.Items))
	case OpReplace:
		return checkInvalid(Replace(a.Builder, a.Reader, a.Input, a.Idx, a.Items))
	case OpAppend:
		return checkInvalid(Append(a.Builder, a.Reader, a.Input, a.Items))
	case OpConcat:
		return checkInvalid(Concat(a.Builder, a.Readers, a.Collections))
	case OpReverse:
		return checkInvalid(Reverse(a.Builder, a.Reader, a.Input))

	case OpAssoc:
		return checkInvalid(Assoc(a.Builder, a.Reader, a.Input, a.Pairs))
	case OpDisassoc:
		return checkInvalid(Disassoc(a.Builder, a.Reader, a.Input, a.Keys))
	case OpKeys:
		return checkInvalid(Keys(a.Builder, a.Reader, a.Input))
	case OpValues:
		return checkInvalid(Values(a.Builder, a.Reader, a.Input))
	case OpItems:
		return checkInvalid(PairItems(a.Builder, a.Reader, a.Input))
	case OpMerge:
		return checkInvalid(Merge(a.Builder, a.Readers, a.Collections))
	case OpSet:
		return checkInvalid(Set(a.Builder, a.Reader, a.Container, a.Key, a.Val))
	case OpSetAt:
		return checkInvalid(SetAt(a.Builder, a.Reader, a.Input, a.Idx, a.Val))
	case OpSetAtPath:
		return checkInvalid(SetAtPath(a.Builder, a.Reader, a.Input, a.Path, a.Val))
	case OpGet:
		return checkInvalid(Get(a.Reader, a.Container, a.Key))
	case OpGetAt:
		return checkInvalid(GetAt(a.Reader, a.Input, a.Idx))
	case OpGetAtPath:
		return checkInvalid(GetAtPath(a.Reader, a.Input, a.Path))
	case OpContains:
		if Contains(a.Reader, a.Container, a.Needle) {
			return a.Builder.BoolOf(true), nil
		}
		return a.Builder.BoolOf(false), nil

	case OpSlice:
		return checkInvalid(Slice(a.Builder, a.Reader, a.Input, a.Start, a.End))
	case OpSlicePy:
		return checkInvalid(SlicePy(a.Builder, a.Reader, a.Input, a.Start, a.End))
	case OpTake:
		return checkInvalid(Take(a.Builder, a.Reader, a.Input, a.N))
	case OpDrop:
		return checkInvalid(Drop(a.Builder, a.Reader, a.Input, a.N))
	case OpFirst:
		return checkInvalid(First(a.Reader, a.Input))
	case OpLast:
		return checkInvalid(Last(a.Reader, a.Input))
	case OpRest:
		return checkInvalid(Rest(a.Builder, a.Reader, a.Input))
	case OpUnique:
		return checkInvalid(Unique(a.Builder, a.Reader, a.Input))

	case OpSort:
		return checkInvalid(Sort(a.Builder, a.Reader, a.Input))

	case OpFilter:
		return checkInvalid(Filter(ctxOrBackground(a.Ctx), a.Builder, a.Reader, a.Input, a.Pred, a.Pool))
	case OpMap:
		return checkInvalid(Map(ctxOrBackground(a.Ctx), a.Builder, a.Reader, a.Input, a.Xform, a.Pool))
	case OpReduce:
		return checkInvalid(Reduce(ctxOrBackground(a.Ctx), a.Reader, a.Input, a.Init, a.Fn, a.Pool))

	case OpConvert:
		return checkInvalid(Convert(a.Builder, a.Reader, a.Input, a.Target))

	case OpParse:
		if ParseFunc == nil {
			return value.Invalid, fyerr.ErrInvalid
		}
		return ParseFunc(ctxOrBackground(a.Ctx), a.Builder, a.Text, a.ParseOptions)
	case OpEmit:
		if EmitFunc == nil {
			return value.Invalid, fyerr.ErrInvalid
		}
		out, err := EmitFunc(ctxOrBackground(a.Ctx), a.Reader, a.Input, a.EmitOptions)
		if err != nil {
			return value.Invalid, err
		}
		return a.Builder.StringOf(out), nil

	default:
		return value.Invalid, fyerr.ErrInvalid
	}
}

func checkInvalid(v value.Value) (value.Value, error) {
	if v == value.Invalid {
		return value.Invalid, fyerr.ErrInvalid
	}
	return v, nil
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

package binding

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/echo-surface/errors"
	"github.com/wippyai/echo-surface/surface"
)

// OpSpec describes one operation of the echo surface: its WIT-level
// signature for display and argument parsing, and an in-process dispatcher
// used by the harness CLI.
type OpSpec struct {
	Name    string
	Params  []wit.Type
	Results []wit.Type
	Invoke  func(s *surface.Surface, args []any) (any, error)
}

var recordName = "record"

// recordType is the WIT shape of the fixture record.
var recordType = &wit.TypeDef{
	Name: &recordName,
	Kind: &wit.Record{
		Fields: []wit.Field{
			{Name: "a", Type: wit.F64{}},
			{Name: "b", Type: wit.S32{}},
			{Name: "c", Type: wit.String{}},
			{Name: "d", Type: wit.Bool{}},
		},
	},
}

func argErr(op string, want string) error {
	return errors.New(errors.PhaseCheck, errors.KindTypeMismatch).
		Op(op).
		Detail("argument is not a %s", want).
		Build()
}

// Ops returns the fixed operation set of the surface, in call-boundary
// order: arithmetic, scalar echoes, strings, pointer, noop, records.
func Ops() []OpSpec {
	return []OpSpec{
		{
			Name:    "add",
			Params:  []wit.Type{wit.S32{}, wit.S32{}},
			Results: []wit.Type{wit.S32{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				a, ok1 := args[0].(int32)
				b, ok2 := args[1].(int32)
				if !ok1 || !ok2 {
					return nil, argErr("add", "s32")
				}
				return s.AddIntegers(a, b), nil
			},
		},
		{
			Name:    "echo-i8",
			Params:  []wit.Type{wit.S8{}},
			Results: []wit.Type{wit.S8{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(int8)
				if !ok {
					return nil, argErr("echo-i8", "s8")
				}
				return s.EchoI8(n), nil
			},
		},
		{
			Name:    "echo-u8",
			Params:  []wit.Type{wit.U8{}},
			Results: []wit.Type{wit.U8{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(uint8)
				if !ok {
					return nil, argErr("echo-u8", "u8")
				}
				return s.EchoU8(n), nil
			},
		},
		{
			Name:    "echo-i16",
			Params:  []wit.Type{wit.S16{}},
			Results: []wit.Type{wit.S16{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(int16)
				if !ok {
					return nil, argErr("echo-i16", "s16")
				}
				return s.EchoI16(n), nil
			},
		},
		{
			Name:    "echo-u16",
			Params:  []wit.Type{wit.U16{}},
			Results: []wit.Type{wit.U16{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(uint16)
				if !ok {
					return nil, argErr("echo-u16", "u16")
				}
				return s.EchoU16(n), nil
			},
		},
		{
			Name:    "echo-i32",
			Params:  []wit.Type{wit.S32{}},
			Results: []wit.Type{wit.S32{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(int32)
				if !ok {
					return nil, argErr("echo-i32", "s32")
				}
				return s.EchoI32(n), nil
			},
		},
		{
			Name:    "echo-u32",
			Params:  []wit.Type{wit.U32{}},
			Results: []wit.Type{wit.U32{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(uint32)
				if !ok {
					return nil, argErr("echo-u32", "u32")
				}
				return s.EchoU32(n), nil
			},
		},
		{
			Name:    "echo-i64",
			Params:  []wit.Type{wit.S64{}},
			Results: []wit.Type{wit.S64{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(int64)
				if !ok {
					return nil, argErr("echo-i64", "s64")
				}
				return s.EchoI64(n), nil
			},
		},
		{
			Name:    "echo-u64",
			Params:  []wit.Type{wit.U64{}},
			Results: []wit.Type{wit.U64{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(uint64)
				if !ok {
					return nil, argErr("echo-u64", "u64")
				}
				return s.EchoU64(n), nil
			},
		},
		{
			Name:    "echo-size",
			Params:  []wit.Type{wit.U64{}},
			Results: []wit.Type{wit.U64{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				n, ok := args[0].(uint64)
				if !ok {
					return nil, argErr("echo-size", "u64")
				}
				return uint64(s.EchoSize(uint(n))), nil
			},
		},
		{
			Name:    "echo-f32",
			Params:  []wit.Type{wit.F32{}},
			Results: []wit.Type{wit.F32{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				f, ok := args[0].(float32)
				if !ok {
					return nil, argErr("echo-f32", "f32")
				}
				return s.EchoF32(f), nil
			},
		},
		{
			Name:    "echo-f64",
			Params:  []wit.Type{wit.F64{}},
			Results: []wit.Type{wit.F64{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				f, ok := args[0].(float64)
				if !ok {
					return nil, argErr("echo-f64", "f64")
				}
				return s.EchoF64(f), nil
			},
		},
		{
			Name:    "echo-bool",
			Params:  []wit.Type{wit.Bool{}},
			Results: []wit.Type{wit.Bool{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				b, ok := args[0].(bool)
				if !ok {
					return nil, argErr("echo-bool", "bool")
				}
				return s.EchoBool(b), nil
			},
		},
		{
			Name:    "echo-pointer",
			Params:  []wit.Type{wit.U64{}},
			Results: []wit.Type{wit.U64{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				p, ok := args[0].(uint64)
				if !ok {
					return nil, argErr("echo-pointer", "u64")
				}
				return uint64(s.EchoPointer(surface.Pointer(p))), nil
			},
		},
		{
			Name: "noop",
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				s.Noop()
				return nil, nil
			},
		},
		{
			Name:    "echo-string",
			Params:  []wit.Type{wit.String{}},
			Results: []wit.Type{wit.String{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				str, ok := args[0].(string)
				if !ok {
					return nil, argErr("echo-string", "string")
				}
				view, err := s.EchoString([]byte(str))
				if err != nil {
					return nil, err
				}
				return string(view), nil
			},
		},
		{
			Name:    "echo-string-release",
			Params:  []wit.Type{wit.String{}},
			Results: []wit.Type{wit.String{}},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				str, ok := args[0].(string)
				if !ok {
					return nil, argErr("echo-string-release", "string")
				}
				view, err := s.EchoStringRelease(surface.NewOwnedBuffer([]byte(str)))
				if err != nil {
					return nil, err
				}
				return string(view), nil
			},
		},
		{
			Name:    "echo-record",
			Params:  []wit.Type{recordType},
			Results: []wit.Type{recordType},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				r, ok := args[0].(surface.Record)
				if !ok {
					return nil, argErr("echo-record", "record")
				}
				return s.EchoRecordByValue(r)
			},
		},
		{
			Name:    "echo-record-ptr",
			Params:  []wit.Type{recordType},
			Results: []wit.Type{recordType},
			Invoke: func(s *surface.Surface, args []any) (any, error) {
				r, ok := args[0].(surface.Record)
				if !ok {
					return nil, argErr("echo-record-ptr", "record")
				}
				return s.EchoRecordByPointer(r)
			},
		},
	}
}

// LookupOp returns the OpSpec for a named operation.
func LookupOp(name string) (OpSpec, bool) {
	for _, op := range Ops() {
		if op.Name == name {
			return op, true
		}
	}
	return OpSpec{}, false
}

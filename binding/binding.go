package binding

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	echosurface "github.com/wippyai/echo-surface"
	"github.com/wippyai/echo-surface/errors"
	"github.com/wippyai/echo-surface/handle"
	"github.com/wippyai/echo-surface/surface"
)

// DefaultNamespace is the versioned interface path the host module is
// mounted under.
const DefaultNamespace = "echo:fixture/surface@1.0.0"

// Status codes returned by slot-backed host functions in place of a length.
// The guest checks the sign of the i64 result: non-negative is a byte
// count, negative is one of these.
const (
	CodeCapacityExceeded int64 = -1
	CodeOutOfBounds      int64 = -2
	CodeInvalidHandle    int64 = -3
	CodeInvalidInput     int64 = -4
)

// Record wire layout at a return pointer: f64 a at 0, s32 b at 8, u32
// string length at 12, bool d at 16, three bytes of padding, then the
// string bytes at 20 followed by a zero terminator.
const (
	recordOffA     = 0
	recordOffB     = 8
	recordOffLen   = 12
	recordOffD     = 16
	recordOffBytes = 20
)

// Binding mounts an echo surface as a wazero host module. Strings and
// records are marshalled through guest linear memory with bounds checks;
// ownership transfer travels as opaque buffer handles.
type Binding struct {
	surface      *surface.Surface
	table        *handle.Table
	recordHandle handle.Handle
	namespace    string
}

// New creates a binding around s, mounted under DefaultNamespace.
func New(s *surface.Surface) *Binding {
	return &Binding{
		surface:   s,
		table:     handle.NewTable(),
		namespace: DefaultNamespace,
	}
}

// Namespace returns the versioned interface path of the host module.
func (b *Binding) Namespace() string {
	return b.namespace
}

// Table returns the handle table holding guest-visible buffer and record
// handles.
func (b *Binding) Table() *handle.Table {
	return b.table
}

// Register populates reg with the host function definitions of every
// operation.
func (b *Binding) Register(reg *Registry) error {
	ns, err := reg.Namespace(b.namespace)
	if err != nil {
		return err
	}
	for _, d := range b.funcDefs() {
		ns.DefineFunc(d.Name, d.Handler, d.ParamTypes, d.ResultTypes)
		Logger().Debug("registered host function",
			zap.String("namespace", b.namespace),
			zap.String("function", d.Name))
	}
	return nil
}

// Instantiate builds the host module and instantiates it into rt.
func (b *Binding) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(b.namespace)
	for _, d := range b.funcDefs() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(d.Handler, d.ParamTypes, d.ResultTypes).
			Export(d.Name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(b.namespace, "*", err)
	}
	Logger().Info("host module instantiated", zap.String("namespace", b.namespace))
	return mod, nil
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
	f32 = api.ValueTypeF32
	f64 = api.ValueTypeF64
)

// funcDefs flattens every operation to its core wasm signature.
func (b *Binding) funcDefs() []*FuncDef {
	return []*FuncDef{
		{Name: "add", Handler: b.flat(b.add), ParamTypes: []api.ValueType{i32, i32}, ResultTypes: []api.ValueType{i32}},
		{Name: "echo-i8", Handler: b.flat(b.echoI8), ParamTypes: []api.ValueType{i32}, ResultTypes: []api.ValueType{i32}},
		{Name: "echo-u8", Handler: b.flat(b.echoU8), ParamTypes: []api.ValueType{i32}, ResultTypes: []api.ValueType{i32}},
		{Name: "echo-i16", Handler: b.flat(b.echoI16), ParamTypes: []api.ValueType{i32}, ResultTypes: []api.ValueType{i32}},
		{Name: "echo-u16", Handler: b.flat(b.echoU16), ParamTypes: []api.ValueType{i32}, ResultTypes: []api.ValueType{i32}},
		{Name: "echo-i32", Handler: b.flat(b.echoI32), ParamTypes: []api.ValueType{i32}, ResultTypes: []api.ValueType{i32}},
		{Name: "echo-u32", Handler: b.flat(b.echoU32), ParamTypes: []api.ValueType{i32}, ResultTypes: []api.ValueType{i32}},
		{Name: "echo-i64", Handler: b.flat(b.echoI64), ParamTypes: []api.ValueType{i64}, ResultTypes: []api.ValueType{i64}},
		{Name: "echo-u64", Handler: b.flat(b.echoU64), ParamTypes: []api.ValueType{i64}, ResultTypes: []api.ValueType{i64}},
		{Name: "echo-size", Handler: b.flat(b.echoSize), ParamTypes: []api.ValueType{i64}, ResultTypes: []api.ValueType{i64}},
		{Name: "echo-f32", Handler: b.flat(b.echoF32), ParamTypes: []api.ValueType{f32}, ResultTypes: []api.ValueType{f32}},
		{Name: "echo-f64", Handler: b.flat(b.echoF64), ParamTypes: []api.ValueType{f64}, ResultTypes: []api.ValueType{f64}},
		{Name: "echo-bool", Handler: b.flat(b.echoBool), ParamTypes: []api.ValueType{i32}, ResultTypes: []api.ValueType{i32}},
		{Name: "echo-pointer", Handler: b.flat(b.echoPointer), ParamTypes: []api.ValueType{i64}, ResultTypes: []api.ValueType{i64}},
		{Name: "noop", Handler: b.flat(b.noop)},
		{Name: "echo-string", Handler: b.withMemory(b.echoString), ParamTypes: []api.ValueType{i32, i32, i32}, ResultTypes: []api.ValueType{i64}},
		{Name: "buffer-new", Handler: b.withMemory(b.bufferNew), ParamTypes: []api.ValueType{i32, i32}, ResultTypes: []api.ValueType{i64}},
		{Name: "echo-string-release", Handler: b.withMemory(b.echoStringRelease), ParamTypes: []api.ValueType{i64, i32}, ResultTypes: []api.ValueType{i64}},
		{Name: "echo-record", Handler: b.withMemory(b.echoRecord), ParamTypes: []api.ValueType{f64, i32, i32, i32, i32, i32}, ResultTypes: []api.ValueType{f64, i32, i64, i32}},
		{Name: "echo-record-ptr", Handler: b.withMemory(b.echoRecordPtr), ParamTypes: []api.ValueType{f64, i32, i32, i32, i32, i32}, ResultTypes: []api.ValueType{i64}},
	}
}

// flat wraps a handler that only touches the value stack.
func (b *Binding) flat(fn func(stack []uint64)) api.GoModuleFunc {
	return func(_ context.Context, _ api.Module, stack []uint64) {
		fn(stack)
	}
}

// withMemory wraps a handler that marshals through guest linear memory.
func (b *Binding) withMemory(fn func(mem echosurface.Memory, stack []uint64)) api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		var mem echosurface.Memory
		if m := mod.Memory(); m != nil {
			mem = NewGuestMemory(m)
		}
		fn(mem, stack)
	}
}

func (b *Binding) add(stack []uint64) {
	sum := b.surface.AddIntegers(int32(uint32(stack[0])), int32(uint32(stack[1])))
	stack[0] = uint64(uint32(sum))
}

func (b *Binding) echoI8(stack []uint64) {
	// Narrow integers travel sign-extended inside an i32.
	stack[0] = uint64(uint32(int32(b.surface.EchoI8(int8(uint32(stack[0]))))))
}

func (b *Binding) echoU8(stack []uint64) {
	stack[0] = uint64(uint32(b.surface.EchoU8(uint8(uint32(stack[0])))))
}

func (b *Binding) echoI16(stack []uint64) {
	stack[0] = uint64(uint32(int32(b.surface.EchoI16(int16(uint32(stack[0]))))))
}

func (b *Binding) echoU16(stack []uint64) {
	stack[0] = uint64(uint32(b.surface.EchoU16(uint16(uint32(stack[0])))))
}

func (b *Binding) echoI32(stack []uint64) {
	stack[0] = uint64(uint32(b.surface.EchoI32(int32(uint32(stack[0])))))
}

func (b *Binding) echoU32(stack []uint64) {
	stack[0] = uint64(b.surface.EchoU32(uint32(stack[0])))
}

func (b *Binding) echoI64(stack []uint64) {
	stack[0] = uint64(b.surface.EchoI64(int64(stack[0])))
}

func (b *Binding) echoU64(stack []uint64) {
	stack[0] = b.surface.EchoU64(stack[0])
}

func (b *Binding) echoSize(stack []uint64) {
	// size_t travels as u64; the uint conversion narrows on 32-bit hosts
	// the same way size_t would.
	stack[0] = uint64(b.surface.EchoSize(uint(stack[0])))
}

func (b *Binding) echoF32(stack []uint64) {
	f := math.Float32frombits(uint32(stack[0]))
	stack[0] = uint64(math.Float32bits(b.surface.EchoF32(f)))
}

func (b *Binding) echoF64(stack []uint64) {
	f := math.Float64frombits(stack[0])
	stack[0] = math.Float64bits(b.surface.EchoF64(f))
}

func (b *Binding) echoBool(stack []uint64) {
	if b.surface.EchoBool(uint32(stack[0]) != 0) {
		stack[0] = 1
	} else {
		stack[0] = 0
	}
}

func (b *Binding) echoPointer(stack []uint64) {
	stack[0] = uint64(b.surface.EchoPointer(surface.Pointer(stack[0])))
}

func (b *Binding) noop(stack []uint64) {
	b.surface.Noop()
}

// statusWord lowers a status code onto the value stack as its two's
// complement bit pattern.
func statusWord(code int64) uint64 {
	return uint64(code)
}

// echoString: (ptr, len, retptr) -> i64 length or status code. The copy is
// written to retptr with a zero terminator.
func (b *Binding) echoString(mem echosurface.Memory, stack []uint64) {
	if mem == nil {
		stack[0] = statusWord(CodeOutOfBounds)
		return
	}
	ptr, length, retptr := uint32(stack[0]), uint32(stack[1]), uint32(stack[2])

	data, err := mem.Read(ptr, length)
	if err != nil {
		stack[0] = statusWord(statusFromError(err))
		return
	}
	view, err := b.surface.EchoString(data)
	if err != nil {
		stack[0] = statusWord(statusFromError(err))
		return
	}
	stack[0] = uint64(b.writeString(mem, retptr, view))
}

// bufferNew: (ptr, len) -> i64 buffer handle or status code. Copies guest
// bytes into a host owned buffer whose ownership the guest can later
// transfer back via echo-string-release.
func (b *Binding) bufferNew(mem echosurface.Memory, stack []uint64) {
	if mem == nil {
		stack[0] = statusWord(CodeOutOfBounds)
		return
	}
	ptr, length := uint32(stack[0]), uint32(stack[1])

	data, err := mem.Read(ptr, length)
	if err != nil {
		stack[0] = statusWord(statusFromError(err))
		return
	}
	buf := surface.NewOwnedBuffer(append([]byte(nil), data...))
	h := b.table.Insert(surface.BufferTypeID, buf)
	if h == 0 {
		stack[0] = statusWord(CodeInvalidInput)
		return
	}
	stack[0] = uint64(h)
}

// echoStringRelease: (handle, retptr) -> i64 length or status code. The
// buffer behind the handle is consumed; the handle is dead afterwards.
func (b *Binding) echoStringRelease(mem echosurface.Memory, stack []uint64) {
	if mem == nil {
		stack[0] = statusWord(CodeOutOfBounds)
		return
	}
	h, retptr := handle.Handle(stack[0]), uint32(stack[1])

	v, ok := b.table.GetTyped(h, surface.BufferTypeID)
	if !ok {
		stack[0] = statusWord(CodeInvalidHandle)
		return
	}
	buf := v.(*surface.OwnedBuffer)

	view, err := b.surface.EchoStringRelease(buf)
	if err != nil {
		stack[0] = statusWord(statusFromError(err))
		return
	}
	b.table.Remove(h)
	stack[0] = uint64(b.writeString(mem, retptr, view))
}

// echoRecord: (a, b, cptr, clen, d, retptr) -> (a, b, i64 length or status,
// d). The string copy lands in the record wire layout at retptr.
func (b *Binding) echoRecord(mem echosurface.Memory, stack []uint64) {
	rec, retptr, status := b.liftRecord(mem, stack)
	if status < 0 {
		b.lowerRecordError(stack, status)
		return
	}

	out, err := b.surface.EchoRecordByValue(rec)
	if err != nil {
		b.lowerRecordError(stack, statusFromError(err))
		return
	}
	n := b.writeRecord(mem, retptr, &out)
	stack[0] = math.Float64bits(out.A)
	stack[1] = uint64(uint32(out.B))
	stack[2] = uint64(n)
	if out.D {
		stack[3] = 1
	} else {
		stack[3] = 0
	}
}

// echoRecordPtr: (a, b, cptr, clen, d, retptr) -> i64 stable record handle
// or status code. The shared record's content is written to retptr; the
// returned handle is identical across calls, the content last-write-wins.
func (b *Binding) echoRecordPtr(mem echosurface.Memory, stack []uint64) {
	rec, retptr, status := b.liftRecord(mem, stack)
	if status < 0 {
		stack[0] = statusWord(status)
		return
	}

	shared, err := b.surface.EchoRecordByPointer(rec)
	if err != nil {
		stack[0] = statusWord(statusFromError(err))
		return
	}
	if n := b.writeRecord(mem, retptr, shared); n < 0 {
		stack[0] = statusWord(n)
		return
	}
	if b.recordHandle == 0 {
		b.recordHandle = b.table.Insert(surface.RecordTypeID, shared)
	}
	stack[0] = uint64(b.recordHandle)
}

// liftRecord reads the flattened record parameters and the string payload
// from guest memory.
func (b *Binding) liftRecord(mem echosurface.Memory, stack []uint64) (surface.Record, uint32, int64) {
	if mem == nil {
		return surface.Record{}, 0, CodeOutOfBounds
	}
	cptr, clen := uint32(stack[2]), uint32(stack[3])
	data, err := mem.Read(cptr, clen)
	if err != nil {
		return surface.Record{}, 0, statusFromError(err)
	}
	rec := surface.Record{
		A: math.Float64frombits(stack[0]),
		B: int32(uint32(stack[1])),
		C: data,
		D: uint32(stack[4]) != 0,
	}
	return rec, uint32(stack[5]), 0
}

func (b *Binding) lowerRecordError(stack []uint64, status int64) {
	stack[0] = 0
	stack[1] = 0
	stack[2] = statusWord(status)
	stack[3] = 0
}

// writeString lowers a slot view to guest memory with a zero terminator and
// returns the content length, or a negative status code.
func (b *Binding) writeString(mem echosurface.Memory, retptr uint32, view []byte) int64 {
	if err := mem.Write(retptr, view); err != nil {
		return statusFromError(err)
	}
	if err := mem.WriteU8(retptr+uint32(len(view)), 0); err != nil {
		return statusFromError(err)
	}
	return int64(len(view))
}

// writeRecord lowers a record to its wire layout at retptr and returns the
// string length, or a negative status code.
func (b *Binding) writeRecord(mem echosurface.Memory, retptr uint32, rec *surface.Record) int64 {
	if err := mem.WriteU64(retptr+recordOffA, math.Float64bits(rec.A)); err != nil {
		return statusFromError(err)
	}
	if err := mem.WriteU32(retptr+recordOffB, uint32(rec.B)); err != nil {
		return statusFromError(err)
	}
	if err := mem.WriteU32(retptr+recordOffLen, uint32(len(rec.C))); err != nil {
		return statusFromError(err)
	}
	var d uint8
	if rec.D {
		d = 1
	}
	if err := mem.WriteU8(retptr+recordOffD, d); err != nil {
		return statusFromError(err)
	}
	return b.writeString(mem, retptr+recordOffBytes, rec.C)
}

// statusFromError maps structured errors to wire status codes.
func statusFromError(err error) int64 {
	e, ok := err.(*errors.Error)
	if !ok {
		return CodeInvalidInput
	}
	switch e.Kind {
	case errors.KindCapacityExceeded:
		return CodeCapacityExceeded
	case errors.KindOutOfBounds:
		return CodeOutOfBounds
	case errors.KindUseAfterRelease, errors.KindInvalidHandle:
		return CodeInvalidHandle
	default:
		return CodeInvalidInput
	}
}

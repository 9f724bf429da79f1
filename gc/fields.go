package gc

import (
	"encoding/binary"
	"math"
)

// Field access helpers used by host-API marshalling (package muntime)
// and by the memory mapper when copying bytes between an object's old
// and new layouts. All offsets are relative to the start of the object's
// value-struct body; nested value-struct fields live inline at their
// parent's offset plus their own, exactly as spec.md §3 describes.

// ReadBytes returns a copy of n bytes at offset.
func (h *Handle) ReadBytes(offset, n uint32) []byte {
	out := make([]byte, n)
	copy(out, h.obj.data[offset:offset+n])
	return out
}

// WriteBytes copies data into the object body at offset.
func (h *Handle) WriteBytes(offset uint32, data []byte) {
	copy(h.obj.data[offset:], data)
}

func (h *Handle) Int32(offset uint32) int32 {
	return int32(binary.LittleEndian.Uint32(h.obj.data[offset:]))
}

func (h *Handle) SetInt32(offset uint32, v int32) {
	binary.LittleEndian.PutUint32(h.obj.data[offset:], uint32(v))
}

func (h *Handle) Int64(offset uint32) int64 {
	return int64(binary.LittleEndian.Uint64(h.obj.data[offset:]))
}

func (h *Handle) SetInt64(offset uint32, v int64) {
	binary.LittleEndian.PutUint64(h.obj.data[offset:], uint64(v))
}

func (h *Handle) Float64(offset uint32) float64 {
	bits := binary.LittleEndian.Uint64(h.obj.data[offset:])
	return math.Float64frombits(bits)
}

func (h *Handle) SetFloat64(offset uint32, v float64) {
	binary.LittleEndian.PutUint64(h.obj.data[offset:], math.Float64bits(v))
}

func (h *Handle) Bool(offset uint32) bool {
	return h.obj.data[offset] != 0
}

func (h *Handle) SetBool(offset uint32, v bool) {
	if v {
		h.obj.data[offset] = 1
	} else {
		h.obj.data[offset] = 0
	}
}

// GCField returns the handle referenced by a Gc-kind struct field at
// offset, or nil if the field is not set.
func (h *Handle) GCField(offset uint32) *Handle {
	return h.obj.gcRefs[offset]
}

// SetGCField stores the handle referenced by a Gc-kind struct field at
// offset. Storing nil clears the field.
func (h *Handle) SetGCField(offset uint32, ref *Handle) {
	if ref == nil {
		delete(h.obj.gcRefs, offset)
		return
	}
	h.obj.gcRefs[offset] = ref
}

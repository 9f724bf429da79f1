package abi

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// Guid is a 128-bit content-derived type identity. Two independently
// compiled assemblies that describe the same type produce the same Guid,
// because it is hashed from a canonical textual form rather than assigned
// by a counter. crypto/md5 is used because it produces exactly 16 bytes
// (no truncation) and because the upstream Mun runtime this was ported
// from derives Guids the same way.
type Guid [16]byte

func (g Guid) String() string {
	return fmt.Sprintf("%x", [16]byte(g))
}

// IsZero reports whether g is the zero Guid (used as a sentinel for
// "not yet resolved").
func (g Guid) IsZero() bool { return g == Guid{} }

func hashToGuid(s string) Guid {
	return Guid(md5.Sum([]byte(s)))
}

// NewPrimitiveGuid derives the Guid of a primitive type from its
// canonical name, e.g. "core::i32".
func NewPrimitiveGuid(name string) Guid {
	return hashToGuid(name)
}

// FieldSig is the (name, type-name) pair used to build a struct's
// canonical string. Nested field types contribute only their own name to
// the string (not their own fields), so cyclic struct graphs (A has *B,
// B has *A) never recurse.
type FieldSig struct {
	Name     string
	TypeName string
}

// NewStructGuid derives the Guid of a struct type from its canonical
// stringification, per spec: value-struct Guids include field names and
// types; GC-struct Guids include only the struct's own name, since GC
// structs are referenced through an indirection and may be remapped
// in place without losing identity.
func NewStructGuid(name string, fields []FieldSig, kind MemoryKind) Guid {
	if kind == MemoryKindGC {
		return hashToGuid("struct " + name)
	}
	var b strings.Builder
	b.WriteString("struct ")
	b.WriteString(name)
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.TypeName)
	}
	b.WriteByte('}')
	return hashToGuid(b.String())
}


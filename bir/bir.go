// Package bir encodes stencil instantiations to and from their binary
// wire form.
//
// The format is a tag-addressed byte stream assembled directly with
// protowire: a four-byte magic, a wire-version varint, then the fields
// of the instantiation message. Field tags live in tags.go and are
// permanent. Enum codes ride on the in-memory types (ast.ValueKind,
// ast.SymbolicLevel, the two LoopOrder types) and are equally frozen.
//
// Equal units produce identical bytes: the encoder walks map-backed
// collections in sorted key order and emits fields in tag order. The
// decoder checks structure only. It rejects streams that do not parse,
// tagged unions that do not carry exactly one branch, duplicated map
// keys and unknown enum codes, but it never re-checks domain
// invariants, so a damaged unit can be decoded and then handed to the
// instantiation validator for inspection.
package bir

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/seistools/stratum/iir"
)

// magic starts every encoded unit.
const magic = "SBIR"

// WireVersion is the format revision written after the magic. A decoder
// only accepts its own revision; compatible schema growth happens
// through fresh field tags, not version bumps.
const WireVersion = 1

// Encode serializes an instantiation. Encoding is total over
// well-formed units; input the schema cannot represent, such as a
// reserved loop-order code or an interval bound without a level, yields
// an EncodeError.
func Encode(inst *iir.StencilInstantiation) ([]byte, error) {
	if inst == nil {
		return nil, unencodable("instantiation", "nil instantiation")
	}
	out := make([]byte, 0, 1<<10)
	out = append(out, magic...)
	out = protowire.AppendVarint(out, WireVersion)
	body, err := encodeInstantiation(inst)
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}

// Decode parses an encoded unit. The result is structurally sound but
// otherwise unchecked; run the instantiation validator to re-establish
// domain invariants.
func Decode(data []byte) (*iir.StencilInstantiation, error) {
	if len(data) < len(magic) || string(data[:len(magic)]) != magic {
		return nil, malformed("header", "missing %q magic", magic)
	}
	rest := data[len(magic):]
	version, n := protowire.ConsumeVarint(rest)
	if n < 0 {
		return nil, malformed("header", "truncated wire version")
	}
	if version != WireVersion {
		return nil, malformed("header", "unsupported wire version %d (want %d)", version, WireVersion)
	}
	return decodeInstantiation(rest[n:])
}

package ast

import (
	"fmt"
	"strconv"
)

// ValueKind declares the type of a global variable or literal. The numeric
// codes are part of the wire contract and must never be renumbered; 0 is
// reserved for "no kind".
type ValueKind int32

const (
	KindInvalid ValueKind = 0
	KindBoolean ValueKind = 1
	KindInteger ValueKind = 2
	KindFloat   ValueKind = 3
)

// String renders the kind name used in dumps and diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindBoolean:
		return "bool"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("invalid(%d)", int32(k))
	}
}

// Value is a sealed union over the compile-time value types a global
// variable can hold. Only BoolValue, IntValue and FloatValue implement it.
type Value interface {
	Kind() ValueKind
	isValue()
}

// BoolValue is a boolean compile-time value.
type BoolValue bool

func (BoolValue) isValue()        {}
func (BoolValue) Kind() ValueKind { return KindBoolean }

// IntValue is an integer compile-time value.
type IntValue int64

func (IntValue) isValue()        {}
func (IntValue) Kind() ValueKind { return KindInteger }

// FloatValue is a floating-point compile-time value.
type FloatValue float64

func (FloatValue) isValue()        {}
func (FloatValue) Kind() ValueKind { return KindFloat }

// FormatValue renders a Value for dumps. The rendering is deterministic:
// floats use the shortest representation that round-trips.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<unset>"
	case BoolValue:
		return strconv.FormatBool(bool(val))
	case IntValue:
		return strconv.FormatInt(int64(val), 10)
	case FloatValue:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	default:
		panic(fmt.Errorf("unsupported value type %T", v))
	}
}

// GlobalValue is the declaration-time state of one global variable: its
// declared kind and, when the program supplied one, its compile-time value.
// A nil Value means "declared but unset", which must stay distinguishable
// from a value explicitly set to the kind's zero through every round trip.
type GlobalValue struct {
	Kind  ValueKind
	Value Value
}

// NewGlobalValue declares a global of the given kind with no value.
func NewGlobalValue(kind ValueKind) GlobalValue {
	return GlobalValue{Kind: kind}
}

// IsSet reports whether a compile-time value was supplied.
func (g GlobalValue) IsSet() bool {
	return g.Value != nil
}

// WithValue returns a copy of g carrying v. The value's kind must match the
// declared kind.
func (g GlobalValue) WithValue(v Value) (GlobalValue, error) {
	if v == nil {
		return GlobalValue{}, fmt.Errorf("global value: nil value (use NewGlobalValue for unset)")
	}
	if v.Kind() != g.Kind {
		return GlobalValue{}, fmt.Errorf("global value: kind mismatch: declared %s, got %s", g.Kind, v.Kind())
	}
	out := g
	out.Value = v
	return out, nil
}

// String renders "kind" or "kind=value" for dumps.
func (g GlobalValue) String() string {
	if !g.IsSet() {
		return g.Kind.String() + " <unset>"
	}
	return g.Kind.String() + " = " + FormatValue(g.Value)
}

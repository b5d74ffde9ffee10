package ast

import (
	"fmt"
	"strconv"
)

// IntervalLevel is a sealed union over the two ways a vertical bound names a
// level: symbolically (the Start or End of the vertical domain) or as a
// concrete level index. Under the bound ordering, Start precedes every
// concrete level and End follows every concrete level.
type IntervalLevel interface {
	isIntervalLevel()
}

// SymbolicLevel names the Start or End of the vertical domain. The numeric
// codes are part of the wire contract: Start=0, End=1.
type SymbolicLevel int32

const (
	LevelStart SymbolicLevel = 0
	LevelEnd   SymbolicLevel = 1
)

func (SymbolicLevel) isIntervalLevel() {}

// String renders "start" or "end".
func (s SymbolicLevel) String() string {
	switch s {
	case LevelStart:
		return "start"
	case LevelEnd:
		return "end"
	default:
		return fmt.Sprintf("symbolic(%d)", int32(s))
	}
}

// ConcreteLevel is an absolute vertical level index.
type ConcreteLevel int

func (ConcreteLevel) isIntervalLevel() {}

// String renders the level index.
func (c ConcreteLevel) String() string {
	return strconv.Itoa(int(c))
}

// IntervalBound is one end of a vertical range: a level plus an integer
// offset added to it. The zero value has no level and fails Check.
type IntervalBound struct {
	Level  IntervalLevel
	Offset int
}

// StartBound returns the bound Start+offset.
func StartBound(offset int) IntervalBound {
	return IntervalBound{Level: LevelStart, Offset: offset}
}

// EndBound returns the bound End+offset.
func EndBound(offset int) IntervalBound {
	return IntervalBound{Level: LevelEnd, Offset: offset}
}

// LevelBound returns the bound level+offset for a concrete level index.
func LevelBound(level, offset int) IntervalBound {
	return IntervalBound{Level: ConcreteLevel(level), Offset: offset}
}

// String renders "start+1", "end", "11-2" and similar.
func (b IntervalBound) String() string {
	if b.Level == nil {
		return "<no level>"
	}
	base := fmt.Sprintf("%v", b.Level)
	switch {
	case b.Offset > 0:
		return base + "+" + strconv.Itoa(b.Offset)
	case b.Offset < 0:
		return base + strconv.Itoa(b.Offset)
	default:
		return base
	}
}

// levelRank orders Start before every concrete level and End after.
func levelRank(l IntervalLevel) int {
	switch lv := l.(type) {
	case SymbolicLevel:
		if lv == LevelStart {
			return 0
		}
		return 2
	case ConcreteLevel:
		return 1
	default:
		panic(fmt.Errorf("unsupported interval level type %T", l))
	}
}

// CompareBounds orders two bounds lexicographically by (level, offset),
// with Start < any concrete level < End. The result is negative, zero or
// positive. Both bounds must carry a level.
func CompareBounds(a, b IntervalBound) int {
	ra, rb := levelRank(a.Level), levelRank(b.Level)
	if ra != rb {
		return ra - rb
	}
	if ra == 1 {
		la, lb := int(a.Level.(ConcreteLevel)), int(b.Level.(ConcreteLevel))
		if la != lb {
			return la - lb
		}
	}
	return a.Offset - b.Offset
}

// Interval is a vertical index range [Lower, Upper]. A well-formed interval
// satisfies Lower <= Upper under CompareBounds; the constructor does not
// enforce this, Check does.
type Interval struct {
	Lower IntervalBound
	Upper IntervalBound
}

// NewInterval builds an interval from two bounds.
func NewInterval(lower, upper IntervalBound) Interval {
	return Interval{Lower: lower, Upper: upper}
}

// FullDomain returns the interval covering [Start, End].
func FullDomain() Interval {
	return Interval{Lower: StartBound(0), Upper: EndBound(0)}
}

// Check reports why the interval is malformed, or nil. The ordering
// invariant is Lower <= Upper under the (level, offset) ordering with
// Start < any concrete level < End.
func (iv Interval) Check() error {
	if iv.Lower.Level == nil || iv.Upper.Level == nil {
		return fmt.Errorf("interval %s: bound without a level", iv)
	}
	if CompareBounds(iv.Lower, iv.Upper) > 0 {
		return fmt.Errorf("interval %s: lower bound exceeds upper bound", iv)
	}
	return nil
}

// Valid reports whether Check passes.
func (iv Interval) Valid() bool {
	return iv.Check() == nil
}

// Contains reports whether other lies entirely within iv. Both intervals
// must be well-formed.
func (iv Interval) Contains(other Interval) bool {
	return CompareBounds(iv.Lower, other.Lower) <= 0 && CompareBounds(other.Upper, iv.Upper) <= 0
}

// Overlaps reports whether the two ranges share at least one level.
// Both intervals must be well-formed.
func (iv Interval) Overlaps(other Interval) bool {
	return CompareBounds(iv.Lower, other.Upper) <= 0 && CompareBounds(other.Lower, iv.Upper) <= 0
}

// String renders "{start, end-1}"-style intervals.
func (iv Interval) String() string {
	return "{" + iv.Lower.String() + ", " + iv.Upper.String() + "}"
}

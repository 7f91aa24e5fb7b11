package dataset

import (
	"strconv"
	"time"
)

// Kind enumerates the closed set of scalar kinds a cell may hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindText
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is a single tabular cell. Exactly one of the payload fields is
// meaningful, selected by Kind. Missing cells are explicit KindNull values,
// never absent keys.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
	Time time.Time
}

// Null is the canonical missing value.
var Null = Value{Kind: KindNull}

func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

func Boolean(b bool) Value { return Value{Kind: KindBool, Bool: b} }

func Text(s string) Value { return Value{Kind: KindText, Str: s} }

func Timestamp(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) IsNumber() bool { return v.Kind == KindNumber }

// Key returns a canonical string form used for grouping, distinct counting
// and join-key matching. Numbers render without trailing zeros so 5 and 5.0
// collide, as they should.
func (v Value) Key() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindText:
		return v.Str
	case KindTime:
		return v.Time.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// Native converts the value to the nearest Go type for JSON serialization.
func (v Value) Native() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindText:
		return v.Str
	case KindTime:
		return v.Time.UTC().Format(time.RFC3339)
	default:
		return nil
	}
}

// estimateBytes is an advisory per-cell size used by the registry memory
// report. It is deliberately rough; the report is informational only.
func (v Value) estimateBytes() int {
	switch v.Kind {
	case KindText:
		return 16 + len(v.Str)
	case KindTime:
		return 24
	default:
		return 16
	}
}

// Record is one row: column name to cell value. Construction through
// NewDataset guarantees every record carries the full column set.
type Record map[string]Value

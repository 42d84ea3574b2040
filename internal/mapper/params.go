package mapper

import (
	"fmt"

	"github.com/samber/lo"
)

// ParamKind is the value tag a statement parameter is sent with.
type ParamKind int

const (
	KindNull ParamKind = iota
	KindString
	KindDouble
	KindLong
)

func (k ParamKind) String() string {
	switch k {
	case KindString:
		return "stringValue"
	case KindDouble:
		return "doubleValue"
	case KindLong:
		return "longValue"
	default:
		return "isNull"
	}
}

// Type hints understood by the Aurora Data API.
const (
	TypeHintDate      = "DATE"
	TypeHintTimestamp = "TIMESTAMP"
)

// Param is one named placeholder of a parameterized statement.
type Param struct {
	// Name is the placeholder name, referenced as :Name in SQL.
	Name string
	// Column is the destination storage column, if any.
	Column   string
	Kind     ParamKind
	Value    any
	TypeHint string
}

// StringParam returns a string-tagged parameter.
func StringParam(name, value string) Param {
	return Param{Name: name, Column: name, Kind: KindString, Value: value}
}

// LongParam returns an integer-tagged parameter.
func LongParam(name string, value int64) Param {
	return Param{Name: name, Column: name, Kind: KindLong, Value: value}
}

// DoubleParam returns a float-tagged parameter.
func DoubleParam(name string, value float64) Param {
	return Param{Name: name, Column: name, Kind: KindDouble, Value: value}
}

// StringValue returns the value of a KindString parameter.
func (p Param) StringValue() string {
	s, _ := p.Value.(string)
	return s
}

// LongValue returns the value of a KindLong parameter.
func (p Param) LongValue() int64 {
	n, _ := p.Value.(int64)
	return n
}

// DoubleValue returns the value of a KindDouble parameter.
func (p Param) DoubleValue() float64 {
	f, _ := p.Value.(float64)
	return f
}

// StorageParams is an ordered parameter list for one statement.
type StorageParams []Param

// Columns returns the destination columns in order.
func (ps StorageParams) Columns() []string {
	return lo.Map(ps, func(p Param, _ int) string { return p.Column })
}

// Placeholders returns ":name" for every parameter in order.
func (ps StorageParams) Placeholders() []string {
	return lo.Map(ps, func(p Param, _ int) string { return ":" + p.Name })
}

// Named returns the parameters keyed by placeholder name.
func (ps StorageParams) Named() map[string]any {
	out := make(map[string]any, len(ps))
	for _, p := range ps {
		if p.Kind == KindNull {
			out[p.Name] = nil
			continue
		}
		out[p.Name] = p.Value
	}
	return out
}

// Record re-keys the parameter values by storage column.
func (ps StorageParams) Record() Record {
	rec := make(Record, len(ps))
	for _, p := range ps {
		if p.Kind == KindNull {
			rec[p.Column] = nil
			continue
		}
		rec[p.Column] = p.Value
	}
	return rec
}

// With returns a copy of ps with extra appended.
func (ps StorageParams) With(extra ...Param) StorageParams {
	out := make(StorageParams, 0, len(ps)+len(extra))
	out = append(out, ps...)
	return append(out, extra...)
}

func newParam(f Field, v any) (Param, error) {
	p := Param{Name: f.Name, Column: f.Column}

	cv, err := coerce(f, v)
	if err != nil {
		return Param{}, err
	}

	switch f.Type {
	case String:
		p.Kind = KindString
	case Integer:
		p.Kind = KindLong
	case Float:
		p.Kind = KindDouble
	case Date:
		p.Kind = KindString
		p.TypeHint = TypeHintDate
	case Timestamp:
		p.Kind = KindString
		p.TypeHint = TypeHintTimestamp
	default:
		return Param{}, fmt.Errorf("unsupported field type %s", f.Type)
	}
	p.Value = cv
	return p, nil
}

func nullParam(f Field) Param {
	p := Param{Name: f.Name, Column: f.Column, Kind: KindNull}
	switch f.Type {
	case Date:
		p.TypeHint = TypeHintDate
	case Timestamp:
		p.TypeHint = TypeHintTimestamp
	}
	return p
}

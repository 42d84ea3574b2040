package mapper

import (
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// Record is a single row keyed by field name.
type Record map[string]any

// RawRows is a query result in the shape its driver produced it.
// It is implemented by Positional and TaggedCells.
type RawRows interface {
	normalize() []Record
}

// Positional is a cursor-style result: column names plus rows of opaque values.
type Positional struct {
	Columns []string
	Rows    [][]any
}

// ColumnMeta describes one column of a TaggedCells result.
type ColumnMeta struct {
	Name string `json:"name"`
}

// TaggedCell is a single-key mapping such as {"stringValue": "USD"}.
type TaggedCell map[string]any

// TaggedCells is a remote data API result: column metadata plus records of
// tagged cells.
type TaggedCells struct {
	Metadata []ColumnMeta
	Records  [][]TaggedCell
}

// Value returns the value held by the cell. The tag is never consulted, so
// {"stringValue": x} and {"doubleValue": x} both yield x. An empty cell
// yields nil. Cells are expected to carry one key; if more are present the
// lexically smallest tag wins so the result stays deterministic.
func (c TaggedCell) Value() any {
	switch len(c) {
	case 0:
		return nil
	case 1:
		for _, v := range c {
			return v
		}
	}
	tags := lo.Keys(c)
	sort.Strings(tags)
	return c[tags[0]]
}

// NormalizeRows turns a raw result into one Record per row, keyed by column
// name. Values beyond the available names are keyed "c<index>"; a row shorter
// than the name list only yields the keys it has values for. A name that is
// already taken in the row gets a "_<index>" suffix, so every value keeps its
// own key. It never fails.
func NormalizeRows(raw RawRows) []Record {
	if raw == nil {
		return []Record{}
	}
	return raw.normalize()
}

func (p Positional) normalize() []Record {
	out := make([]Record, 0, len(p.Rows))
	for _, row := range p.Rows {
		out = append(out, zipRow(p.Columns, row))
	}
	return out
}

func (t TaggedCells) normalize() []Record {
	names := lo.Map(t.Metadata, func(m ColumnMeta, _ int) string {
		return m.Name
	})

	out := make([]Record, 0, len(t.Records))
	for _, cells := range t.Records {
		values := lo.Map(cells, func(cell TaggedCell, _ int) any {
			return cell.Value()
		})
		out = append(out, zipRow(names, values))
	}
	return out
}

func zipRow(columns []string, values []any) Record {
	rec := make(Record, len(values))
	for i, v := range values {
		name := columnName(columns, i)
		for suffix := i; ; suffix++ {
			if _, taken := rec[name]; !taken {
				break
			}
			name = columnName(columns, i) + "_" + strconv.Itoa(suffix)
		}
		rec[name] = v
	}
	return rec
}

func columnName(columns []string, i int) string {
	if i < len(columns) && columns[i] != "" {
		return columns[i]
	}
	return "c" + strconv.Itoa(i)
}

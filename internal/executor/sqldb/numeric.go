package sqldb

import (
	"database/sql"
	"strconv"
	"strings"
)

// numericKind says how a text-protocol cell of a column should be parsed
type numericKind int

const (
	notNumeric numericKind = iota
	integerColumn
	unsignedColumn
	floatColumn
)

// columnKind classifies a driver type name such as "BIGINT",
// "UNSIGNED INT" or "DECIMAL(10,2)".
func columnKind(dbType string) numericKind {
	name := strings.ToUpper(strings.TrimSpace(dbType))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}

	unsigned := false
	if rest, ok := strings.CutPrefix(name, "UNSIGNED "); ok {
		name, unsigned = rest, true
	}

	switch name {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR":
		if unsigned {
			return unsignedColumn
		}
		return integerColumn
	case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL":
		return floatColumn
	}
	return notNumeric
}

func columnKinds(types []*sql.ColumnType) []numericKind {
	kinds := make([]numericKind, len(types))
	for i, ct := range types {
		kinds[i] = columnKind(ct.DatabaseTypeName())
	}
	return kinds
}

// typeNumbers replaces the raw bytes MySQL's text protocol returns for
// numeric columns with int64, uint64 or float64. Cells that fail to parse are
// left as they are.
func typeNumbers(values []any, kinds []numericKind) {
	for i, v := range values {
		if i >= len(kinds) || kinds[i] == notNumeric {
			continue
		}
		raw, ok := v.([]byte)
		if !ok {
			continue
		}

		s := string(raw)
		switch kinds[i] {
		case integerColumn:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				values[i] = n
			}
		case unsignedColumn:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				values[i] = n
			} else if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				values[i] = u
			}
		case floatColumn:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				values[i] = f
			}
		}
	}
}

package mapper

import (
	"fmt"
	"strings"
)

// FieldType is the primitive type a schema field is coerced to.
type FieldType int

const (
	String FieldType = iota
	Integer
	Float
	Date
	Timestamp
)

// Layouts used when rendering dates and timestamps.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "number"
	case Date:
		return "date"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Field describes one attribute of an entity.
type Field struct {
	// Name is the external name used in requests and responses.
	Name string
	// Column is the storage name used in the table.
	Column string
	Type   FieldType
	// Required fields must be present on input and in stored rows.
	Required bool
	// OutputOnly fields are server-assigned and ignored on input.
	OutputOnly bool
	// Nullable fields may carry a stored NULL.
	Nullable bool
}

// Schema is an ordered, immutable set of fields with a bidirectional alias
// table between external and storage names.
type Schema struct {
	name    string
	fields  []Field
	aliases map[string]int
}

// NewSchema builds a schema. Every name and column must be unique across the
// alias table, except that a field may use the same text for both.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		name:    name,
		fields:  make([]Field, 0, len(fields)),
		aliases: make(map[string]int, len(fields)*2),
	}

	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("schema %s: field %d has no name", name, i)
		}
		if f.Column == "" {
			f.Column = f.Name
		}
		for _, alias := range []string{f.Name, f.Column} {
			if j, ok := s.aliases[alias]; ok && j != i {
				return nil, fmt.Errorf("schema %s: alias %q is used by %s and %s", name, alias, s.fields[j].Name, f.Name)
			}
			s.aliases[alias] = i
		}
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the entity name the schema was built for.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup resolves either an external or a storage name to its field.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.aliases[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Columns returns the storage names in declaration order.
func (s *Schema) Columns() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Column
	}
	return out
}

// Writable returns the fields accepted on input.
func (s *Schema) Writable() []Field {
	var out []Field
	for _, f := range s.fields {
		if !f.OutputOnly {
			out = append(out, f)
		}
	}
	return out
}

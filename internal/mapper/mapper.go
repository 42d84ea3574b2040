// Package mapper converts driver-specific tabular results into validated,
// API-shaped records and turns request bodies back into statement parameters.
//
// Nothing in this package performs I/O or keeps mutable state, so every
// function is safe to call from concurrent request handlers.
package mapper

import (
	"strings"
)

// ToAPIRecord renames the stored fields of rec to their external names and
// coerces each value to its declared type. Fields the schema does not declare
// are dropped. Absent optional fields are omitted from the result.
func ToAPIRecord(rec Record, schema *Schema) (Record, error) {
	out := make(Record, len(schema.fields))

	for _, f := range schema.fields {
		v, ok := storedValue(rec, f)
		if !ok {
			if f.Required {
				return nil, missingField(f.Name)
			}
			continue
		}

		if v == nil {
			if f.Required {
				return nil, missingField(f.Name)
			}
			if !f.Nullable {
				return nil, nullField(f.Name)
			}
			out[f.Name] = nil
			continue
		}

		cv, err := coerce(f, v)
		if err != nil {
			return nil, invalidField(f, Scalar(v), err)
		}
		out[f.Name] = cv
	}

	return out, nil
}

// ToAPIRecords applies ToAPIRecord to every record, stopping at the first
// failure.
func ToAPIRecords(recs []Record, schema *Schema) ([]Record, error) {
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		api, err := ToAPIRecord(rec, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, api)
	}
	return out, nil
}

// FromAPIInput validates a request body against schema and returns the
// parameters for writing it. Each writable field may be addressed by its
// external or its storage name; the external name wins when both are sent.
func FromAPIInput(input map[string]any, schema *Schema) (StorageParams, error) {
	params := make(StorageParams, 0, len(schema.fields))

	for _, f := range schema.fields {
		if f.OutputOnly {
			continue
		}

		v, ok := inputValue(input, f)
		if !ok || v == nil || isBlank(v) {
			if f.Required {
				return nil, missingField(f.Name)
			}
			params = append(params, nullParam(f))
			continue
		}

		p, err := newParam(f, v)
		if err != nil {
			return nil, invalidField(f, v, err)
		}
		params = append(params, p)
	}

	return params, nil
}

// ToScalars returns a copy of rec with every value made JSON-friendly. It is
// the read path for results that have no declared schema.
func ToScalars(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = Scalar(v)
	}
	return out
}

// storedValue finds f in a stored row: by storage name, then external name,
// then either one ignoring case.
func storedValue(rec Record, f Field) (any, bool) {
	if v, ok := rec[f.Column]; ok {
		return v, true
	}
	if v, ok := rec[f.Name]; ok {
		return v, true
	}
	for k, v := range rec {
		if strings.EqualFold(k, f.Column) || strings.EqualFold(k, f.Name) {
			return v, true
		}
	}
	return nil, false
}

func inputValue(input map[string]any, f Field) (any, bool) {
	if v, ok := input[f.Name]; ok {
		return v, true
	}
	v, ok := input[f.Column]
	return v, ok
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

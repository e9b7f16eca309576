package normalizer

import "ezexport/internal/models"

// fieldIndex maps a field name to the value of its first occurrence.
type fieldIndex map[string]string

func newFieldIndex(fields []models.LegacyField) fieldIndex {
	idx := make(fieldIndex, len(fields))

	for _, f := range fields {
		if _, seen := idx[f.Name]; seen {
			continue
		}

		idx[f.Name] = f.Value.String()
	}

	return idx
}

// has reports whether a field with the given name exists.
func (idx fieldIndex) has(name string) bool {
	_, ok := idx[name]

	return ok
}

// value returns the first value of the named field, or "" when absent.
func (idx fieldIndex) value(name string) string {
	return idx[name]
}

// lookup returns the first value of the named field and whether it exists.
func (idx fieldIndex) lookup(name string) (string, bool) {
	v, ok := idx[name]

	return v, ok
}

// FieldValue returns the value of the first field called name, or "" when absent.
func FieldValue(fields []models.LegacyField, name string) string {
	for _, f := range fields {
		if f.Name == name {
			return f.Value.String()
		}
	}

	return ""
}

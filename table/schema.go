package table

import "fmt"

// Column describes one column of a table.
type Column struct {
	Name string
	Kind Kind
}

// Schema is the ordered list of a table's columns.
type Schema []Column

// Kind returns the kind of the named column.
func (s Schema) Kind(name string) (Kind, bool) {
	for _, c := range s {
		if c.Name == name {
			return c.Kind, true
		}
	}
	return KindNull, false
}

// Validate checks that every non-null value of rec has its column's kind.
// Ints are accepted in float columns.
func (s Schema) Validate(rec Record) error {
	for _, c := range s {
		v, ok := rec[c.Name]
		if !ok || v.Kind == KindNull || c.Kind == KindNull {
			continue
		}
		if v.Kind == c.Kind || (c.Kind == KindFloat && v.Kind == KindInt) {
			continue
		}
		return fmt.Errorf("column %q has invalid type %s, expected %s", c.Name, v.Kind, c.Kind)
	}
	return nil
}

// Coerce parses text as a value for the named column. Unknown columns and
// columns of unknown kind keep the text as a string.
func (s Schema) Coerce(name, text string) (Value, error) {
	k, ok := s.Kind(name)
	if !ok || k == KindNull {
		return String(text), nil
	}
	return ParseValue(k, text)
}

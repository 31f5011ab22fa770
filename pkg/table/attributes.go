package table

import (
	"github.com/jorgebotas/gocyto/pkg/errors"
)

// AttributeTable is a tab-separated table indexed by a key column.
type AttributeTable struct {
	Key     string
	Keys    []string
	Columns []*Column

	index map[string]int
}

// ReadAttributes reads the tab-separated table at path, indexed by key.
// See [ParseAttributes].
func ReadAttributes(path, key string) (*AttributeTable, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	t, err := ParseAttributes(data, key)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return t, nil
}

// ParseAttributes parses a tab-separated table indexed by key. Rows with an
// empty key are skipped; a repeated key is an INVALID_INPUT error.
// Every other header becomes a column with an inferred type.
func ParseAttributes(data []byte, key string) (*AttributeTable, error) {
	if err := errors.ValidateColumnName(key); err != nil {
		return nil, err
	}
	recs, err := parseDelimited(data, Tab)
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse table")
	}

	ki := recs.col(key)
	if ki < 0 {
		return nil, errors.New(errors.ErrCodeInvalidColumn, "key column %q not found (header: %v)", key, recs.header)
	}

	t := &AttributeTable{Key: key, index: make(map[string]int, len(recs.rows))}
	firstLine := make(map[string]int, len(recs.rows))
	var rows [][]string
	for n, row := range recs.rows {
		k := field(row, ki)
		if k == "" {
			continue
		}
		if first, dup := firstLine[k]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"line %d: duplicate %s %q (first seen on line %d)", recs.lines[n], key, k, first)
		}
		firstLine[k] = recs.lines[n]
		t.index[k] = len(t.Keys)
		t.Keys = append(t.Keys, k)
		rows = append(rows, row)
	}

	seen := map[string]bool{key: true}
	for ci, name := range recs.header {
		if ci == ki || name == "" {
			continue
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "duplicate column %q", name)
		}
		seen[name] = true

		vals := make([]string, len(rows))
		for r, row := range rows {
			if v := field(row, ci); !IsMissing(v) {
				vals[r] = v
			}
		}
		t.Columns = append(t.Columns, &Column{Name: name, Type: inferType(vals), Values: vals})
	}
	return t, nil
}

// Len returns the number of rows.
func (t *AttributeTable) Len() int { return len(t.Keys) }

// Column returns the named column.
func (t *AttributeTable) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ColumnNames returns the non-key column names in file order.
func (t *AttributeTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the value of column c for key k.
func (t *AttributeTable) Lookup(c *Column, k string) (string, bool) {
	i, ok := t.index[k]
	if !ok {
		return "", false
	}
	return c.Values[i], true
}

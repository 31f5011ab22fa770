package table

import (
	"strconv"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

// Canonical node table column names.
const (
	IDColumn      = "id"
	ClusterColumn = "cluster"
)

// ColumnType is the node table column type, named as Cytoscape names them.
type ColumnType string

const (
	String  ColumnType = "String"
	Integer ColumnType = "Integer"
	Double  ColumnType = "Double"
)

// IsNumeric reports whether values of this type are numbers.
func (t ColumnType) IsNumeric() bool {
	return t == Integer || t == Double
}

// Edge is one row of the edge table.
type Edge struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Interaction string `json:"interaction,omitempty"`
}

// Column is a typed attribute column. Values are stored as text; an empty
// string is a missing value.
type Column struct {
	Name   string
	Type   ColumnType
	Values []string
}

// Typed returns value i as int64, float64 or string, or nil when missing.
func (c *Column) Typed(i int) any {
	v := c.Values[i]
	if v == "" {
		return nil
	}
	switch c.Type {
	case Integer:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case Double:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

// Distinct returns the distinct present values in first-appearance order.
func (c *Column) Distinct() []string {
	seen := make(map[string]bool, len(c.Values))
	var out []string
	for _, v := range c.Values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// NodeTable is the ordered node table. IDs are unique; every column has
// exactly one value per ID.
type NodeTable struct {
	IDs     []string
	Columns []*Column

	index map[string]int
}

// NewNodeTable creates a node table from unique identifiers.
// Duplicate identifiers are an INVALID_INPUT error.
func NewNodeTable(ids []string) (*NodeTable, error) {
	t := &NodeTable{IDs: make([]string, 0, len(ids)), index: make(map[string]int, len(ids))}
	for _, id := range ids {
		if _, dup := t.index[id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node identifier %q", id)
		}
		t.index[id] = len(t.IDs)
		t.IDs = append(t.IDs, id)
	}
	return t, nil
}

// Len returns the number of nodes.
func (t *NodeTable) Len() int { return len(t.IDs) }

// Has reports whether id is in the table.
func (t *NodeTable) Has(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Row returns the row index of id.
func (t *NodeTable) Row(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Column returns the named column.
func (t *NodeTable) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ColumnNames returns the attribute column names in order, not including
// the implicit id column.
func (t *NodeTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// AddColumn appends a column. The name must not collide with the id column
// or an existing column, and the column must have one value per node.
func (t *NodeTable) AddColumn(c *Column) error {
	if c.Name == IDColumn {
		return errors.New(errors.ErrCodeInvalidColumn, "column %q is reserved for node identifiers", IDColumn)
	}
	if _, exists := t.Column(c.Name); exists {
		return errors.New(errors.ErrCodeInvalidColumn, "column %q already exists in the node table", c.Name)
	}
	if len(c.Values) != len(t.IDs) {
		return errors.New(errors.ErrCodeInternal, "column %q has %d values for %d nodes", c.Name, len(c.Values), len(t.IDs))
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// Retain keeps only the rows for which keep returns true, preserving order.
// It returns the removed identifiers.
func (t *NodeTable) Retain(keep func(row int) bool) []string {
	var removed []string
	kept := make([]int, 0, len(t.IDs))
	for i, id := range t.IDs {
		if keep(i) {
			kept = append(kept, i)
		} else {
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil
	}

	ids := make([]string, len(kept))
	for j, i := range kept {
		ids[j] = t.IDs[i]
	}
	for _, c := range t.Columns {
		vals := make([]string, len(kept))
		for j, i := range kept {
			vals[j] = c.Values[i]
		}
		c.Values = vals
	}

	t.IDs = ids
	t.index = make(map[string]int, len(ids))
	for i, id := range ids {
		t.index[id] = i
	}
	return removed
}

// Records returns one map per node with "id" and every present column
// value, typed per [Column.Typed].
func (t *NodeTable) Records() []map[string]any {
	out := make([]map[string]any, len(t.IDs))
	for i, id := range t.IDs {
		rec := map[string]any{IDColumn: id}
		for _, c := range t.Columns {
			if v := c.Typed(i); v != nil {
				rec[c.Name] = v
			}
		}
		out[i] = rec
	}
	return out
}

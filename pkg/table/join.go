package table

import (
	"github.com/jorgebotas/gocyto/pkg/errors"
)

// JoinClusters adds valueColumn of clusters to nodes as the "cluster" column
// and drops every node without a cluster value. Retained nodes keep their
// order and their cluster value unchanged. It returns the dropped
// identifiers.
func JoinClusters(nodes *NodeTable, clusters *AttributeTable, valueColumn string) ([]string, error) {
	src, ok := clusters.Column(valueColumn)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidColumn,
			"cluster column %q not found (columns: %v)", valueColumn, clusters.ColumnNames())
	}

	vals := make([]string, nodes.Len())
	for i, id := range nodes.IDs {
		vals[i], _ = clusters.Lookup(src, id)
	}
	col := &Column{Name: ClusterColumn, Type: src.Type, Values: vals}
	if err := nodes.AddColumn(col); err != nil {
		return nil, err
	}

	return nodes.Retain(func(row int) bool { return col.Values[row] != "" }), nil
}

// JoinAttributes appends every column of attrs to nodes, aligned by
// identifier. Nodes without a row keep empty values; rows for unknown
// identifiers are ignored. A column name already in nodes is an
// INVALID_COLUMN error and leaves nodes unchanged. It returns the added
// column names.
func JoinAttributes(nodes *NodeTable, attrs *AttributeTable) ([]string, error) {
	for _, c := range attrs.Columns {
		if c.Name == IDColumn {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "attribute column %q is reserved for node identifiers", c.Name)
		}
		if _, exists := nodes.Column(c.Name); exists {
			return nil, errors.New(errors.ErrCodeInvalidColumn, "attribute column %q already exists in the node table", c.Name)
		}
	}

	added := make([]string, 0, len(attrs.Columns))
	for _, src := range attrs.Columns {
		vals := make([]string, nodes.Len())
		for i, id := range nodes.IDs {
			vals[i], _ = attrs.Lookup(src, id)
		}
		if err := nodes.AddColumn(&Column{Name: src.Name, Type: src.Type, Values: vals}); err != nil {
			return nil, err
		}
		added = append(added, src.Name)
	}
	return added, nil
}

// ClusterColors reads explicit cluster colors from a cluster table. It
// returns nil when colorColumn is empty or absent. Each cluster value maps
// to one "#RRGGBB" color; conflicting colors for the same cluster are an
// INVALID_INPUT error.
func ClusterColors(clusters *AttributeTable, valueColumn, colorColumn string) (map[string]string, error) {
	if colorColumn == "" {
		return nil, nil
	}
	colors, ok := clusters.Column(colorColumn)
	if !ok {
		return nil, nil
	}
	values, ok := clusters.Column(valueColumn)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidColumn, "cluster column %q not found", valueColumn)
	}

	out := make(map[string]string)
	for i := range clusters.Keys {
		v, c := values.Values[i], colors.Values[i]
		if v == "" || c == "" {
			continue
		}
		if err := errors.ValidateColor(c); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cluster %s", v)
		}
		if prev, dup := out[v]; dup && prev != c {
			return nil, errors.New(errors.ErrCodeInvalidInput, "cluster %s has conflicting colors %s and %s", v, prev, c)
		}
		out[v] = c
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

package table

import (
	"github.com/jorgebotas/gocyto/pkg/errors"
)

// EdgeColumns names the two identifier columns of an edge list and the
// optional interaction column.
type EdgeColumns struct {
	Source      string
	Target      string
	Interaction string
}

// DefaultEdgeColumns returns the STRING export column names.
func DefaultEdgeColumns() EdgeColumns {
	return EdgeColumns{Source: "#node1", Target: "node2", Interaction: "interaction"}
}

// ReadEdges parses the edge list at path. See [ParseEdges].
func ReadEdges(path string, cols EdgeColumns) ([]Edge, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	edges, _, err := ParseEdges(data, cols)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge file %s", path)
	}
	return edges, nil
}

// ParseEdges parses an edge list as tab-separated and, if the header lacks
// either identifier column, again as comma-separated. It returns the edges
// in file order and the delimiter that matched. A row with an empty
// endpoint is an INVALID_FORMAT error.
func ParseEdges(data []byte, cols EdgeColumns) ([]Edge, rune, error) {
	if cols.Source == "" || cols.Target == "" {
		cols = DefaultEdgeColumns()
	}

	var lastErr error
	parsed := false
	for _, delim := range []rune{Tab, Comma} {
		recs, err := parseDelimited(data, delim)
		if err != nil {
			lastErr = err
			continue
		}
		parsed = true
		si, ti := recs.col(cols.Source), recs.col(cols.Target)
		if si < 0 || ti < 0 {
			continue
		}
		ii := -1
		if cols.Interaction != "" {
			ii = recs.col(cols.Interaction)
		}

		edges := make([]Edge, 0, len(recs.rows))
		for k, row := range recs.rows {
			e := Edge{Source: field(row, si), Target: field(row, ti)}
			// Identifiers are opaque: "NA" or "null" name a node.
			if e.Source == "" || e.Target == "" {
				return nil, 0, errors.New(errors.ErrCodeInvalidFormat,
					"line %d: missing %s or %s", recs.lines[k], cols.Source, cols.Target)
			}
			if ii >= 0 && !IsMissing(field(row, ii)) {
				e.Interaction = field(row, ii)
			}
			edges = append(edges, e)
		}
		return edges, delim, nil
	}

	if !parsed {
		if errors.GetCode(lastErr) != "" {
			return nil, 0, lastErr
		}
		return nil, 0, errors.Wrap(errors.ErrCodeInvalidFormat, lastErr, "parse edge list")
	}
	return nil, 0, errors.New(errors.ErrCodeInvalidFormat,
		"header must contain %q and %q (tab- or comma-separated)", cols.Source, cols.Target)
}

// DeriveNodes returns the node table of an edge list: every source and
// target identifier once, in order of first appearance.
func DeriveNodes(edges []Edge) *NodeTable {
	t := &NodeTable{index: make(map[string]int)}
	add := func(id string) {
		if _, ok := t.index[id]; ok {
			return
		}
		t.index[id] = len(t.IDs)
		t.IDs = append(t.IDs, id)
	}
	for _, e := range edges {
		add(e.Source)
		add(e.Target)
	}
	return t
}

// PruneEdges removes edges with an endpoint not in nodes, preserving order.
// It returns the kept edges and the number removed.
func PruneEdges(edges []Edge, nodes *NodeTable) ([]Edge, int) {
	kept := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if nodes.Has(e.Source) && nodes.Has(e.Target) {
			kept = append(kept, e)
		}
	}
	return kept, len(edges) - len(kept)
}

package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// reserved node keys that never become columns.
var reserved = map[string]bool{
	table.IDColumn: true,
	"name":         true,
	"SUID":         true,
	"shared_name":  true,
	"selected":     true,
}

// ReadJSON decodes a Cytoscape.js document from r into a network.
//
// ReadJSON returns an INVALID_FORMAT error if:
//   - The JSON is malformed
//   - A node has no id or a duplicate id
//   - An edge lacks source or target, or references an unknown node
//
// Every non-cluster column is listed in AttributeColumns. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*table.Network, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode network")
	}

	ids := make([]string, len(doc.Elements.Nodes))
	names := map[string]bool{}
	for i, n := range doc.Elements.Nodes {
		id := text(n.Data[table.IDColumn])
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d has no id", i)
		}
		ids[i] = id
		for k := range n.Data {
			if !reserved[k] {
				names[k] = true
			}
		}
	}
	nodes, err := table.NewNodeTable(ids)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "nodes")
	}

	net := &table.Network{Nodes: nodes}
	for _, name := range columnOrder(names) {
		col := &table.Column{Name: name, Values: make([]string, len(ids))}
		var kinds []table.ColumnType
		for i, n := range doc.Elements.Nodes {
			v, ok := n.Data[name]
			if !ok || v == nil {
				continue
			}
			col.Values[i] = text(v)
			kinds = append(kinds, kind(v))
		}
		col.Type = widest(kinds)
		if err := nodes.AddColumn(col); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "column %q", name)
		}
		if name != table.ClusterColumn {
			net.AttributeColumns = append(net.AttributeColumns, name)
		}
	}

	net.Edges = make([]table.Edge, len(doc.Elements.Edges))
	for i, e := range doc.Elements.Edges {
		src, dst := text(e.Data["source"]), text(e.Data["target"])
		if src == "" || dst == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d needs source and target", i)
		}
		if !nodes.Has(src) || !nodes.Has(dst) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s->%s references an unknown node", src, dst)
		}
		net.Edges[i] = table.Edge{Source: src, Target: dst, Interaction: text(e.Data["interaction"])}
	}
	return net, nil
}

// ImportJSON reads the Cytoscape.js file at path.
func ImportJSON(path string) (*table.Network, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	net, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", path)
	}
	return net, nil
}

// columnOrder puts cluster first and sorts the rest.
func columnOrder(names map[string]bool) []string {
	out := make([]string, 0, len(names))
	for n := range names {
		if n != table.ClusterColumn {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	if names[table.ClusterColumn] {
		out = append([]string{table.ClusterColumn}, out...)
	}
	return out
}

func text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func kind(v any) table.ColumnType {
	n, ok := v.(json.Number)
	if !ok {
		return table.String
	}
	if _, err := n.Int64(); err == nil {
		return table.Integer
	}
	return table.Double
}

// widest returns String if any value is a string, Double if any is
// fractional, and Integer otherwise. No values give String.
func widest(kinds []table.ColumnType) table.ColumnType {
	if len(kinds) == 0 {
		return table.String
	}
	out := table.Integer
	for _, k := range kinds {
		switch k {
		case table.String:
			return table.String
		case table.Double:
			out = table.Double
		}
	}
	return out
}

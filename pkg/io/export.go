package io

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/render"
	"github.com/jorgebotas/gocyto/pkg/table"
)

type document struct {
	Data     map[string]any `json:"data"`
	Elements elements       `json:"elements"`
}

type elements struct {
	Nodes []element `json:"nodes"`
	Edges []element `json:"edges"`
}

type element struct {
	Data map[string]any `json:"data"`
}

// WriteJSON encodes net as Cytoscape.js JSON named name and writes it to w.
// Node records carry "id", "name" and every present column value.
func WriteJSON(net *table.Network, name string, w io.Writer) error {
	doc := document{
		Data: map[string]any{"name": name},
		Elements: elements{
			Nodes: make([]element, net.Nodes.Len()),
			Edges: make([]element, len(net.Edges)),
		},
	}
	for i, rec := range net.Nodes.Records() {
		rec["name"] = rec[table.IDColumn]
		doc.Elements.Nodes[i] = element{Data: rec}
	}
	for i, e := range net.Edges {
		data := map[string]any{"source": e.Source, "target": e.Target}
		if e.Interaction != "" {
			data["interaction"] = e.Interaction
		}
		doc.Elements.Edges[i] = element{Data: data}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode network %q", name)
	}
	return nil
}

// ExportJSON writes net to path. An existing file is replaced only when
// overwrite is set.
func ExportJSON(net *table.Network, name, path string, overwrite bool) error {
	var buf bytes.Buffer
	if err := WriteJSON(net, name, &buf); err != nil {
		return err
	}
	return render.WriteFile(path, buf.Bytes(), overwrite)
}

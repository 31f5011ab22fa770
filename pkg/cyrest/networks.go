package cyrest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Version returns the CyREST and Cytoscape versions. It doubles as a
// liveness check.
func (c *Client) Version(ctx context.Context) (*Version, error) {
	var v Version
	if err := c.do(ctx, request{method: "GET", path: "/version"}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

type cyjsElement struct {
	Data     map[string]any `json:"data"`
	Position *Position      `json:"position,omitempty"`
}

type cyjsNetwork struct {
	Data     map[string]any `json:"data"`
	Elements struct {
		Nodes []cyjsElement `json:"nodes"`
		Edges []cyjsElement `json:"edges"`
	} `json:"elements"`
}

// CreateNetwork creates a network and returns its SUID. Node records get a
// "name" equal to their "id" unless one is given; the collection defaults
// to the title.
func (c *Client) CreateNetwork(ctx context.Context, title, collection string, data NetworkData) (int64, error) {
	if collection == "" {
		collection = title
	}

	var body cyjsNetwork
	body.Data = map[string]any{"name": title}
	body.Elements.Nodes = make([]cyjsElement, len(data.Nodes))
	for i, n := range data.Nodes {
		d := make(map[string]any, len(n)+1)
		for k, v := range n {
			d[k] = v
		}
		if _, ok := d["name"]; !ok {
			d["name"] = d["id"]
		}
		body.Elements.Nodes[i] = cyjsElement{Data: d}
	}
	body.Elements.Edges = make([]cyjsElement, len(data.Edges))
	for i, e := range data.Edges {
		interaction := e.Interaction
		if interaction == "" {
			interaction = "interacts with"
		}
		body.Elements.Edges[i] = cyjsElement{Data: map[string]any{
			"source":      e.Source,
			"target":      e.Target,
			"interaction": interaction,
			"name":        fmt.Sprintf("%s (%s) %s", e.Source, interaction, e.Target),
		}}
	}

	var resp struct {
		NetworkSUID int64 `json:"networkSUID"`
	}
	req := request{
		method: "POST",
		path:   "/networks",
		query:  url.Values{"title": {title}, "collection": {collection}, "format": {"cyjs"}},
		body:   body,
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return 0, fmt.Errorf("create network %q: %w", title, err)
	}
	return resp.NetworkSUID, nil
}

// Networks lists the networks of the current session.
func (c *Client) Networks(ctx context.Context) ([]NetworkName, error) {
	var out []NetworkName
	if err := c.do(ctx, request{method: "GET", path: "/networks.names"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindNetwork resolves a network by SUID or name. An ambiguous name
// resolves to the most recently created network.
func (c *Client) FindNetwork(ctx context.Context, ref string) (int64, error) {
	nets, err := c.Networks(ctx)
	if err != nil {
		return 0, err
	}
	if suid, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, n := range nets {
			if n.SUID == suid {
				return suid, nil
			}
		}
	}
	var found int64
	for _, n := range nets {
		if n.Name == ref && n.SUID > found {
			found = n.SUID
		}
	}
	if found == 0 {
		return 0, fmt.Errorf("network %q: %w", ref, ErrNotFound)
	}
	return found, nil
}

// Views lists the view SUIDs of a network.
func (c *Client) Views(ctx context.Context, network int64) ([]int64, error) {
	var out []int64
	path := endpoint("networks", itoa(network), "views")
	if err := c.do(ctx, request{method: "GET", path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FirstView returns the first view of a network.
func (c *Client) FirstView(ctx context.Context, network int64) (int64, error) {
	views, err := c.Views(ctx, network)
	if err != nil {
		return 0, err
	}
	if len(views) == 0 {
		return 0, fmt.Errorf("network %d has no view: %w", network, ErrNotFound)
	}
	return views[0], nil
}

// NodePositions returns the node centers of a view keyed by node name.
func (c *Client) NodePositions(ctx context.Context, network, view int64) (map[string]Position, error) {
	var cyjs cyjsNetwork
	path := endpoint("networks", itoa(network), "views", itoa(view))
	if err := c.do(ctx, request{method: "GET", path: path}, &cyjs); err != nil {
		return nil, err
	}
	out := make(map[string]Position, len(cyjs.Elements.Nodes))
	for _, n := range cyjs.Elements.Nodes {
		name, _ := n.Data["name"].(string)
		if name == "" || n.Position == nil {
			continue
		}
		out[name] = *n.Position
	}
	return out, nil
}

// NodeColumns lists the columns of the default node table.
func (c *Client) NodeColumns(ctx context.Context, network int64) ([]ColumnInfo, error) {
	var out []ColumnInfo
	path := endpoint("networks", itoa(network), "tables", "defaultnode", "columns")
	if err := c.do(ctx, request{method: "GET", path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NodeColumnValues returns every value of a node column, one per node.
func (c *Client) NodeColumnValues(ctx context.Context, network int64, column string) ([]any, error) {
	var resp struct {
		Name   string `json:"name"`
		Values []any  `json:"values"`
	}
	path := endpoint("networks", itoa(network), "tables", "defaultnode", "columns", column)
	if err := c.do(ctx, request{method: "GET", path: path}, &resp); err != nil {
		return nil, fmt.Errorf("column %q: %w", column, err)
	}
	return resp.Values, nil
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

package table

import (
	"github.com/jorgebotas/gocyto/pkg/errors"
)

// LoadOptions names the input files and their key columns.
type LoadOptions struct {
	EdgesPath      string `json:"edges"`
	ClustersPath   string `json:"clusters,omitempty"`
	AttributesPath string `json:"attributes,omitempty"`

	EdgeColumns  EdgeColumns `json:"-"`
	ClusterKey   string      `json:"-"` // default "protein name"
	ClusterValue string      `json:"-"` // default "cluster number"
	ClusterColor string      `json:"-"` // default "cluster color", used only if present
	AttributeKey string      `json:"-"` // default "gene"
}

// SetDefaults fills empty column names.
func (o *LoadOptions) SetDefaults() {
	if o.EdgeColumns.Source == "" || o.EdgeColumns.Target == "" {
		o.EdgeColumns = DefaultEdgeColumns()
	}
	if o.ClusterKey == "" {
		o.ClusterKey = "protein name"
	}
	if o.ClusterValue == "" {
		o.ClusterValue = "cluster number"
	}
	if o.ClusterColor == "" {
		o.ClusterColor = "cluster color"
	}
	if o.AttributeKey == "" {
		o.AttributeKey = "gene"
	}
}

// Network is a loaded node table and edge table.
type Network struct {
	Nodes *NodeTable
	Edges []Edge

	// ClusterColors maps cluster values to explicit colors when the cluster
	// file carries a color column.
	ClusterColors map[string]string

	// AttributeColumns lists the columns contributed by the attribute file.
	AttributeColumns []string
}

// HasClusters reports whether the node table carries a cluster column.
func (n *Network) HasClusters() bool {
	_, ok := n.Nodes.Column(ClusterColumn)
	return ok
}

// LoadReport describes what [Load] did to the input.
type LoadReport struct {
	EdgeRows     int      // rows read from the edge file
	DroppedNodes []string // nodes without a cluster assignment
	PrunedEdges  int      // edges removed with a dropped endpoint
}

// Load reads the edge list, derives the node table and applies the optional
// cluster and attribute joins. Edges touching a dropped node are pruned.
func Load(opts LoadOptions) (*Network, *LoadReport, error) {
	opts.SetDefaults()
	if opts.EdgesPath == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "edge file is required")
	}

	edges, err := ReadEdges(opts.EdgesPath, opts.EdgeColumns)
	if err != nil {
		return nil, nil, err
	}
	net := &Network{Nodes: DeriveNodes(edges), Edges: edges}
	report := &LoadReport{EdgeRows: len(edges)}

	if opts.ClustersPath != "" {
		clusters, err := ReadAttributes(opts.ClustersPath, opts.ClusterKey)
		if err != nil {
			return nil, nil, err
		}
		if net.ClusterColors, err = ClusterColors(clusters, opts.ClusterValue, opts.ClusterColor); err != nil {
			return nil, nil, errors.Wrap(errors.GetCode(err), err, "%s", opts.ClustersPath)
		}
		if report.DroppedNodes, err = JoinClusters(net.Nodes, clusters, opts.ClusterValue); err != nil {
			return nil, nil, errors.Wrap(errors.GetCode(err), err, "%s", opts.ClustersPath)
		}
		net.Edges, report.PrunedEdges = PruneEdges(net.Edges, net.Nodes)
	}

	if opts.AttributesPath != "" {
		attrs, err := ReadAttributes(opts.AttributesPath, opts.AttributeKey)
		if err != nil {
			return nil, nil, err
		}
		if net.AttributeColumns, err = JoinAttributes(net.Nodes, attrs); err != nil {
			return nil, nil, errors.Wrap(errors.GetCode(err), err, "%s", opts.AttributesPath)
		}
	}

	return net, report, nil
}

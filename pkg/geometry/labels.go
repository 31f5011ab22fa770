// Package geometry places cluster labels next to laid out node groups.
//
// It is pure: positions come in, label rectangles come out, and nothing
// talks to Cytoscape.
package geometry

import (
	"math"
	"strconv"

	"github.com/jorgebotas/gocyto/pkg/table"
)

// DefaultLabelSize is the width and height of a cluster label.
const DefaultLabelSize = 70

// singletonGap is the extra vertical offset below a one-node cluster.
const singletonGap = 30

// Point is a node center in view coordinates.
type Point struct {
	X float64
	Y float64
}

// Label is one cluster annotation.
type Label struct {
	Cluster string // printed text
	X, Y    float64
	Width   float64
	Height  float64
	Members int
}

// LabelOptions configures [ClusterLabels].
type LabelOptions struct {
	Column string  // cluster column, default "cluster"
	Width  float64 // default 70
	Height float64 // default 70
}

func (o *LabelOptions) setDefaults() {
	if o.Column == "" {
		o.Column = table.ClusterColumn
	}
	if o.Width == 0 {
		o.Width = DefaultLabelSize
	}
	if o.Height == 0 {
		o.Height = DefaultLabelSize
	}
}

// ClusterLabels returns one label per cluster in first-appearance order.
//
// Over the positioned members of a cluster:
//
//	x = xmax - |xmax - xmin + w| / 2, less w/n for clusters of 3 or 5 nodes
//	y = ymax - (ymax - ymin + h) / 2, plus h + 30 for single nodes
//
// Clusters without positioned members get no label. Nodes with no cluster
// value are ignored.
func ClusterLabels(nodes *table.NodeTable, positions map[string]Point, opts LabelOptions) []Label {
	opts.setDefaults()
	col, ok := nodes.Column(opts.Column)
	if !ok {
		return nil
	}

	var order []string
	members := make(map[string][]string)
	for i, v := range col.Values {
		if v == "" {
			continue
		}
		if _, seen := members[v]; !seen {
			order = append(order, v)
		}
		members[v] = append(members[v], nodes.IDs[i])
	}

	labels := make([]Label, 0, len(order))
	w, h := opts.Width, opts.Height
	for _, cluster := range order {
		ids := members[cluster]
		xmin, xmax := math.Inf(1), math.Inf(-1)
		ymin, ymax := math.Inf(1), math.Inf(-1)
		placed := 0
		for _, id := range ids {
			p, ok := positions[id]
			if !ok {
				continue
			}
			xmin, xmax = math.Min(xmin, p.X), math.Max(xmax, p.X)
			ymin, ymax = math.Min(ymin, p.Y), math.Max(ymax, p.Y)
			placed++
		}
		if placed == 0 {
			continue
		}

		n := len(ids)
		x := xmax - math.Abs(xmax-xmin+w)/2
		if n == 3 || n == 5 {
			x -= w / float64(n)
		}
		y := ymax - (ymax-ymin+h)/2
		if n == 1 {
			y += h + singletonGap
		}

		labels = append(labels, Label{
			Cluster: FormatCluster(cluster),
			X:       x,
			Y:       y,
			Width:   w,
			Height:  h,
			Members: n,
		})
	}
	return labels
}

// FormatCluster prints integral cluster values without a fraction, so
// "3.0" becomes "3". Other values are returned unchanged.
func FormatCluster(v string) string {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return v
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}

// Package style configures a Cytoscape visual style through CyREST.
//
// A [Styler] owns one named style. [New] creates it from a [Config] of
// default visual properties and mappings, then each method sets one visual
// property mapping:
//
//	s, err := style.New(ctx, client, "ppi style", style.WithNetwork(suid))
//	colors, err := s.NodeColor(ctx, "cluster", "", nil)
//	err = s.NodePieChart(ctx, []string{"string", "biogrid"}, style.ChartOptions{})
//
// Methods are independent of one another. Soft problems, such as an unknown
// node shape or an invalid mapping type, never fail a call: they are sent
// to the warning sink and kept for [Styler.Warnings].
package style

// Package table loads network tables from delimited text files.
//
// # Input Files
//
// An edge list names two identifier columns in its header, by default
// "#node1" and "node2" (the STRING database export format). Any other
// columns are ignored:
//
//	#node1	node2	combined_score
//	TP53	MDM2	0.999
//	MDM2	CDKN2A	0.912
//
// Edge lists are parsed as tab-separated first. When the header does not
// contain both identifier columns the file is parsed again as
// comma-separated, so both delimiters yield identical tables.
//
// Cluster files and attribute files are tab-separated tables keyed by a
// node identifier column ("protein name" and "gene" by default).
//
// # Node Table
//
// [DeriveNodes] builds the node table from the edge list: each identifier
// appears once, in order of first appearance (source before target within
// a row). Joins then add columns:
//
//	edges, err := table.ReadEdges("edges.tsv", table.DefaultEdgeColumns())
//	nodes := table.DeriveNodes(edges)
//
//	clusters, err := table.ReadAttributes("clusters.tsv", "protein name")
//	dropped, err := table.JoinClusters(nodes, clusters, "cluster number")
//
// [JoinClusters] drops every node without a cluster assignment. [Load]
// runs the whole sequence and also prunes edges whose endpoints were
// dropped, so every edge endpoint is always present in the node table.
//
// # Column Types
//
// Attribute column types are inferred from the present values: all
// integers gives [Integer], all numbers gives [Double], anything else
// [String]. Missing-value markers ("", "NA", "NaN", "null", "None", ...)
// are stored as empty strings and skipped during inference.
package table

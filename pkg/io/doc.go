// Package io reads and writes networks as Cytoscape.js JSON.
//
// # Overview
//
// The Cytoscape.js format ("cyjs") is what Cytoscape imports with
// File > Import > Network from File and what CyREST accepts on POST
// /networks. Writing a loaded [table.Network] in this format lets a network
// be checked, shared or imported by hand without a running Cytoscape, and
// reading it back lets "gocyto preview" and "gocyto inspect" work from a
// file exported earlier.
//
// # JSON Format
//
//	{
//	  "data": {"name": "ppi"},
//	  "elements": {
//	    "nodes": [
//	      {"data": {"id": "A", "name": "A", "cluster": 1, "string": 0.9}},
//	      {"data": {"id": "B", "name": "B", "cluster": 2}}
//	    ],
//	    "edges": [
//	      {"data": {"source": "A", "target": "B", "interaction": "inhibits"}}
//	    ]
//	  }
//	}
//
// # Node Fields
//
// Required:
//   - id: Unique node identifier
//
// Every other key except name, SUID, shared_name and selected becomes a node
// column. Missing keys are missing values. Column types are taken from the
// JSON values: whole numbers give Integer, other numbers Double, and
// anything else String. Columns are ordered with cluster first and the rest
// by name.
//
// # Edge Fields
//
// source and target are required and must reference node ids. interaction
// is optional.
//
// # Round Trip
//
// [WriteJSON] followed by [ReadJSON] preserves node order, edges and column
// values. A Double column whose values are all whole numbers reads back as
// Integer, and explicit cluster colors are not part of the format.
//
// [table.Network]: github.com/jorgebotas/gocyto/pkg/table.Network
package io

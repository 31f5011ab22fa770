package table

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	edges := filepath.Join(dir, "edges.tsv")
	clusters := filepath.Join(dir, "clusters.tsv")
	os.WriteFile(edges, []byte("#node1\tnode2\nA\tB\nB\tC\n"), 0o644)
	os.WriteFile(clusters, []byte("protein name\tcluster number\nA\t1\nC\t2\n"), 0o644)

	// edges alone
	net, report, err := Load(LoadOptions{EdgesPath: edges})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(net.Nodes.IDs, []string{"A", "B", "C"}) {
		t.Errorf("nodes = %v", net.Nodes.IDs)
	}
	if !reflect.DeepEqual(net.Edges, []Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}}) {
		t.Errorf("edges = %v", net.Edges)
	}
	if net.HasClusters() {
		t.Error("no cluster column without a cluster file")
	}
	if report.EdgeRows != 2 || report.PrunedEdges != 0 {
		t.Errorf("report = %+v", report)
	}

	// with clusters: B has no assignment and is dropped
	net, report, err = Load(LoadOptions{EdgesPath: edges, ClustersPath: clusters})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(net.Nodes.IDs, []string{"A", "C"}) {
		t.Errorf("nodes = %v, want [A C]", net.Nodes.IDs)
	}
	col, _ := net.Nodes.Column(ClusterColumn)
	if !reflect.DeepEqual(col.Values, []string{"1", "2"}) {
		t.Errorf("cluster = %v, want [1 2]", col.Values)
	}
	if !reflect.DeepEqual(report.DroppedNodes, []string{"B"}) {
		t.Errorf("dropped = %v", report.DroppedNodes)
	}
	if len(net.Edges) != 0 || report.PrunedEdges != 2 {
		t.Errorf("edges = %v, pruned = %d; both edges touch B", net.Edges, report.PrunedEdges)
	}
	for _, e := range net.Edges {
		if !net.Nodes.Has(e.Source) || !net.Nodes.Has(e.Target) {
			t.Errorf("edge %v has an endpoint outside the node table", e)
		}
	}
}

func TestLoadWithAttributesAndColors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	opts := LoadOptions{
		EdgesPath:      write("e.csv", "#node1,node2\nA,B\nB,C\nC,A\n"),
		ClustersPath:   write("c.tsv", "protein name\tcluster number\tcluster color\nA\t1\t#112233\nB\t1\t#112233\nC\t2\t#445566\n"),
		AttributesPath: write("s.tsv", "gene\tbrain\tliver\nA\t1\t2\nC\t3\t4\n"),
	}
	net, report, err := Load(opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(report.DroppedNodes) != 0 || len(net.Edges) != 3 {
		t.Errorf("nothing should be dropped: %+v", report)
	}
	if !reflect.DeepEqual(net.AttributeColumns, []string{"brain", "liver"}) {
		t.Errorf("AttributeColumns = %v", net.AttributeColumns)
	}
	if !reflect.DeepEqual(net.Nodes.ColumnNames(), []string{"cluster", "brain", "liver"}) {
		t.Errorf("ColumnNames = %v", net.Nodes.ColumnNames())
	}
	if net.ClusterColors["1"] != "#112233" || net.ClusterColors["2"] != "#445566" {
		t.Errorf("ClusterColors = %v", net.ClusterColors)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, _, err := Load(LoadOptions{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no edge file: %v", err)
	}

	dir := t.TempDir()
	edges := filepath.Join(dir, "e.tsv")
	os.WriteFile(edges, []byte("#node1\tnode2\nA\tB\n"), 0o644)

	_, _, err := Load(LoadOptions{EdgesPath: edges, ClustersPath: filepath.Join(dir, "none.tsv")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing cluster file: %v", err)
	}

	dup := filepath.Join(dir, "dup.tsv")
	os.WriteFile(dup, []byte("gene\tx\nA\t1\nA\t2\n"), 0o644)
	_, _, err = Load(LoadOptions{EdgesPath: edges, AttributesPath: dup})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate attribute key: %v", err)
	}
}

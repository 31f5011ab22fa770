package table

import (
	"reflect"
	"testing"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

func mustAttrs(t *testing.T, data, key string) *AttributeTable {
	t.Helper()
	tab, err := ParseAttributes([]byte(data), key)
	if err != nil {
		t.Fatalf("ParseAttributes: %v", err)
	}
	return tab
}

func TestJoinClusters(t *testing.T) {
	nodes := DeriveNodes([]Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}, {Source: "C", Target: "D"}})
	clusters := mustAttrs(t, "protein name\tcluster number\nD\t2\nA\t1\nC\t2\nZ\t9\n", "protein name")

	dropped, err := JoinClusters(nodes, clusters, "cluster number")
	if err != nil {
		t.Fatalf("JoinClusters: %v", err)
	}
	if !reflect.DeepEqual(dropped, []string{"B"}) {
		t.Errorf("dropped = %v, want [B]", dropped)
	}
	if !reflect.DeepEqual(nodes.IDs, []string{"A", "C", "D"}) {
		t.Errorf("IDs = %v", nodes.IDs)
	}

	col, ok := nodes.Column(ClusterColumn)
	if !ok {
		t.Fatal("missing cluster column")
	}
	if col.Type != Integer {
		t.Errorf("cluster type = %s, want Integer", col.Type)
	}
	if !reflect.DeepEqual(col.Values, []string{"1", "2", "2"}) {
		t.Errorf("cluster values = %v", col.Values)
	}
	if nodes.Has("B") {
		t.Error("B should be removed from the index")
	}
	if row, _ := nodes.Row("D"); row != 2 {
		t.Errorf("Row(D) = %d, want 2", row)
	}
}

func TestJoinClustersMissingValueIsDropped(t *testing.T) {
	nodes := DeriveNodes([]Edge{{Source: "A", Target: "B"}})
	clusters := mustAttrs(t, "protein name\tcluster number\nA\tNA\nB\t3\n", "protein name")

	dropped, err := JoinClusters(nodes, clusters, "cluster number")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dropped, []string{"A"}) {
		t.Errorf("dropped = %v, want [A]", dropped)
	}
}

func TestJoinClustersErrors(t *testing.T) {
	clusters := mustAttrs(t, "protein name\tcluster number\nA\t1\n", "protein name")

	nodes := DeriveNodes([]Edge{{Source: "A", Target: "B"}})
	if _, err := JoinClusters(nodes, clusters, "cluster"); !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Errorf("unknown value column: %v", err)
	}

	if _, err := JoinClusters(nodes, clusters, "cluster number"); err != nil {
		t.Fatal(err)
	}
	if _, err := JoinClusters(nodes, clusters, "cluster number"); !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Errorf("second join should collide on the cluster column: %v", err)
	}
}

func TestJoinAttributes(t *testing.T) {
	nodes := DeriveNodes([]Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}})
	attrs := mustAttrs(t, "gene\tliver\tbrain\nC\t3\t0.5\nX\t1\t1\nA\t1\t\n", "gene")

	added, err := JoinAttributes(nodes, attrs)
	if err != nil {
		t.Fatalf("JoinAttributes: %v", err)
	}
	if !reflect.DeepEqual(added, []string{"liver", "brain"}) {
		t.Errorf("added = %v", added)
	}
	if !reflect.DeepEqual(nodes.IDs, []string{"A", "B", "C"}) {
		t.Errorf("node order changed: %v", nodes.IDs)
	}

	liver, _ := nodes.Column("liver")
	if !reflect.DeepEqual(liver.Values, []string{"1", "", "3"}) {
		t.Errorf("liver = %q", liver.Values)
	}
	brain, _ := nodes.Column("brain")
	if !reflect.DeepEqual(brain.Values, []string{"", "", "0.5"}) {
		t.Errorf("brain = %q", brain.Values)
	}
	if brain.Type != Double {
		t.Errorf("brain type = %s, want Double", brain.Type)
	}
}

func TestJoinAttributesCollision(t *testing.T) {
	nodes := DeriveNodes([]Edge{{Source: "A", Target: "B"}})
	clusters := mustAttrs(t, "protein name\tcluster number\nA\t1\nB\t1\n", "protein name")
	if _, err := JoinClusters(nodes, clusters, "cluster number"); err != nil {
		t.Fatal(err)
	}

	attrs := mustAttrs(t, "gene\tscore\tcluster\nA\t1\t5\n", "gene")
	_, err := JoinAttributes(nodes, attrs)
	if !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Fatalf("error = %v, want INVALID_COLUMN", err)
	}
	if _, ok := nodes.Column("score"); ok {
		t.Error("a rejected join must leave the node table unchanged")
	}

	reserved := mustAttrs(t, "gene\tid\nA\tx\n", "gene")
	if _, err := JoinAttributes(nodes, reserved); !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Errorf("id column: %v", err)
	}
}

func TestClusterColors(t *testing.T) {
	clusters := mustAttrs(t,
		"protein name\tcluster number\tcluster color\nA\t1\t#FF0000\nB\t1\t#FF0000\nC\t2\t#00ff00\nD\t3\t\n",
		"protein name")

	got, err := ClusterColors(clusters, "cluster number", "cluster color")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"1": "#FF0000", "2": "#00ff00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ClusterColors = %v, want %v", got, want)
	}

	if got, err := ClusterColors(clusters, "cluster number", "colour"); got != nil || err != nil {
		t.Errorf("absent color column = %v, %v; want nil, nil", got, err)
	}
	if got, err := ClusterColors(clusters, "cluster number", ""); got != nil || err != nil {
		t.Errorf("disabled color column = %v, %v; want nil, nil", got, err)
	}
}

func TestClusterColorsErrors(t *testing.T) {
	conflict := mustAttrs(t, "protein name\tcluster number\tcluster color\nA\t1\t#FF0000\nB\t1\t#0000FF\n", "protein name")
	if _, err := ClusterColors(conflict, "cluster number", "cluster color"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("conflict: %v", err)
	}

	invalid := mustAttrs(t, "protein name\tcluster number\tcluster color\nA\t1\tred\n", "protein name")
	if _, err := ClusterColors(invalid, "cluster number", "cluster color"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("invalid color: %v", err)
	}
}

func TestNodeTableRecords(t *testing.T) {
	nodes := DeriveNodes([]Edge{{Source: "A", Target: "B"}})
	_ = nodes.AddColumn(&Column{Name: "cluster", Type: Integer, Values: []string{"1", ""}})

	recs := nodes.Records()
	want := []map[string]any{
		{"id": "A", "cluster": int64(1)},
		{"id": "B"},
	}
	if !reflect.DeepEqual(recs, want) {
		t.Errorf("Records() = %v, want %v", recs, want)
	}
}

func TestNewNodeTableRejectsDuplicates(t *testing.T) {
	if _, err := NewNodeTable([]string{"A", "B", "A"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

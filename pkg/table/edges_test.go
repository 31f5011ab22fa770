package table

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseEdgesDelimiters(t *testing.T) {
	want := []Edge{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}}

	tests := []struct {
		name      string
		data      string
		wantDelim rune
	}{
		{"tab", "#node1\tnode2\nA\tB\nB\tC\n", Tab},
		{"comma", "#node1,node2\nA,B\nB,C\n", Comma},
		{"tab with extra columns", "#node1\tnode2\tscore\nA\tB\t0.9\nB\tC\t0.4\n", Tab},
		{"comma with extra columns", "score,#node1,node2\n1,A,B\n2,B,C\n", Comma},
		{"crlf", "#node1\tnode2\r\nA\tB\r\nB\tC\r\n", Tab},
		{"blank lines", "#node1\tnode2\n\nA\tB\n\nB\tC\n", Tab},
		{"byte order mark", "\ufeff#node1\tnode2\nA\tB\nB\tC\n", Tab},
		{"padded fields", "#node1 , node2\nA , B\nB,C\n", Comma},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, delim, err := ParseEdges([]byte(tt.data), DefaultEdgeColumns())
			if err != nil {
				t.Fatalf("ParseEdges: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("edges = %v, want %v", got, want)
			}
			if delim != tt.wantDelim {
				t.Errorf("delimiter = %q, want %q", delim, tt.wantDelim)
			}
		})
	}
}

func TestParseEdgesOpaqueIdentifiers(t *testing.T) {
	data := "#node1\tnode2\nNA\tB\nB\tnull\nNone\tN/A\n"
	got, _, err := ParseEdges([]byte(data), DefaultEdgeColumns())
	if err != nil {
		t.Fatalf("ParseEdges: %v", err)
	}
	want := []Edge{
		{Source: "NA", Target: "B"},
		{Source: "B", Target: "null"},
		{Source: "None", Target: "N/A"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("edges = %v, want %v", got, want)
	}
	nodes := DeriveNodes(got)
	if ids := nodes.IDs; !reflect.DeepEqual(ids, []string{"NA", "B", "null", "None", "N/A"}) {
		t.Errorf("nodes = %v", ids)
	}
}

func TestParseEdgesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "empty file"},
		{"wrong header", "a\tb\nA\tB\n", `"#node1"`},
		{"only one column", "#node1\nA\n", `"node2"`},
		{"missing endpoint", "#node1\tnode2\nA\tB\nC\t\n", "line 3"},
		{"short row", "#node1\tnode2\nA\n", "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseEdges([]byte(tt.data), DefaultEdgeColumns())
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Fatalf("error = %v, want INVALID_FORMAT", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseEdgesCustomColumns(t *testing.T) {
	data := "from\tto\nx\ty\n"
	got, _, err := ParseEdges([]byte(data), EdgeColumns{Source: "from", Target: "to"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []Edge{{Source: "x", Target: "y"}}) {
		t.Errorf("edges = %v", got)
	}
}

func TestParseEdgesKeepsDuplicates(t *testing.T) {
	data := "#node1\tnode2\nA\tB\nA\tB\nB\tA\n"
	got, _, err := ParseEdges([]byte(data), DefaultEdgeColumns())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("len(edges) = %d, want 3", len(got))
	}
}

func TestReadEdges(t *testing.T) {
	path := writeTemp(t, "edges.csv", "#node1,node2\nA,B\n")
	got, err := ReadEdges(path, DefaultEdgeColumns())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []Edge{{Source: "A", Target: "B"}}) {
		t.Errorf("edges = %v", got)
	}

	_, err = ReadEdges(filepath.Join(t.TempDir(), "missing.tsv"), DefaultEdgeColumns())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	bad := writeTemp(t, "bad.tsv", "x\ty\n1\t2\n")
	_, err = ReadEdges(bad, DefaultEdgeColumns())
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad header error = %v, want INVALID_FORMAT", err)
	}
	if !strings.Contains(err.Error(), bad) {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestDeriveNodes(t *testing.T) {
	edges := []Edge{{Source: "B", Target: "A"}, {Source: "A", Target: "C"}, {Source: "C", Target: "B"}, {Source: "D", Target: "D"}}
	nodes := DeriveNodes(edges)

	want := []string{"B", "A", "C", "D"}
	if !reflect.DeepEqual(nodes.IDs, want) {
		t.Errorf("IDs = %v, want %v", nodes.IDs, want)
	}
	for i, id := range want {
		if row, ok := nodes.Row(id); !ok || row != i {
			t.Errorf("Row(%q) = %d, %v", id, row, ok)
		}
	}
	if len(nodes.Columns) != 0 {
		t.Errorf("derived table should have no attribute columns")
	}
}

func TestDeriveNodesEmpty(t *testing.T) {
	if n := DeriveNodes(nil).Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestPruneEdges(t *testing.T) {
	nodes, _ := NewNodeTable([]string{"A", "C"})
	kept, removed := PruneEdges([]Edge{{Source: "A", Target: "B"}, {Source: "A", Target: "C"}, {Source: "B", Target: "C"}, {Source: "C", Target: "A"}}, nodes)

	if !reflect.DeepEqual(kept, []Edge{{Source: "A", Target: "C"}, {Source: "C", Target: "A"}}) {
		t.Errorf("kept = %v", kept)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestParseEdgesInteraction(t *testing.T) {
	data := "#node1\tnode2\tinteraction\nA\tB\tactivates\nB\tC\tNA\n"
	got, _, err := ParseEdges([]byte(data), DefaultEdgeColumns())
	if err != nil {
		t.Fatal(err)
	}
	want := []Edge{
		{Source: "A", Target: "B", Interaction: "activates"},
		{Source: "B", Target: "C"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("edges = %v, want %v", got, want)
	}
}

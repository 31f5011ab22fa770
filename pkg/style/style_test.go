package style

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/cyrest/cyresttest"
	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/table"
)

type fixture struct {
	srv    *cyresttest.Server
	client *cyrest.Client
	suid   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := cyresttest.NewServer()
	t.Cleanup(srv.Close)
	client, err := cyrest.New(srv.APIURL(), cyrest.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	suid, err := client.CreateNetwork(context.Background(), "ppi", "", cyrest.NetworkData{
		Nodes: []map[string]any{
			{"id": "A", "cluster": 2, "score": 0.5, "string": 3, "label": "x"},
			{"id": "B", "cluster": 1, "score": 1.5, "string": 1, "label": "y"},
			{"id": "C", "cluster": 2, "score": 2.5, "string": 0, "label": "x"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{srv: srv, client: client, suid: suid}
}

func (f *fixture) styler(t *testing.T, opts ...Option) *Styler {
	t.Helper()
	opts = append([]Option{WithNetwork(f.suid)}, opts...)
	s, err := New(context.Background(), f.client, "ppi style", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func (f *fixture) style(t *testing.T) *cyresttest.Style {
	t.Helper()
	st, ok := f.srv.Style("ppi style")
	if !ok {
		t.Fatal("style not created")
	}
	return st
}

func TestNewCreatesStyle(t *testing.T) {
	f := newFixture(t)
	f.styler(t)

	st := f.style(t)
	if got := st.Defaults[cyrest.NodeShape]; got != "ellipse" {
		t.Errorf("NODE_SHAPE default = %v, want ellipse", got)
	}
	if got := st.Defaults[cyrest.NodeWidth]; got != json.Number("110") {
		t.Errorf("NODE_WIDTH default = %v, want 110", got)
	}
	label := st.Mappings[cyrest.NodeLabel]
	if label.MappingType != cyrest.MappingPassthrough || label.MappingColumn != "id" {
		t.Errorf("NODE_LABEL mapping = %+v", label)
	}
	for _, dep := range []string{cyrest.DependencyNodeSizeLocked, cyrest.DependencyCustomGraphicsSync} {
		if enabled, ok := st.Dependencies[dep]; !ok || enabled {
			t.Errorf("%s = %v (set %v), want disabled", dep, enabled, ok)
		}
	}
}

func TestNewReplacesExistingStyle(t *testing.T) {
	f := newFixture(t)
	s := f.styler(t)
	if err := s.NodeShape(context.Background(), "label", map[string]string{"x": "diamond"}); err != nil {
		t.Fatal(err)
	}

	f.styler(t)
	if _, ok := f.style(t).Mappings[cyrest.NodeShape]; ok {
		t.Error("recreated style kept the old shape mapping")
	}
	if n := f.srv.CallCount("DELETE", "/styles/ppi style"); n != 2 {
		t.Errorf("style deletes = %d, want 2", n)
	}
}

func TestDefaultConfigIsFresh(t *testing.T) {
	a := DefaultConfig()
	a.SetDefault(cyrest.NodeWidth, 999)
	b := DefaultConfig()
	if v, _ := b.Default(cyrest.NodeWidth); v != 110 {
		t.Errorf("DefaultConfig shares state: NODE_WIDTH = %v", v)
	}
}

func TestWithConfigCopiesMappings(t *testing.T) {
	f := newFixture(t)
	cfg := DefaultConfig()
	cfg.SetMapping(cyrest.Mapping{
		MappingType:       cyrest.MappingDiscrete,
		MappingColumn:     "label",
		MappingColumnType: "String",
		VisualProperty:    cyrest.NodeFillColor,
		Map:               []cyrest.DiscreteEntry{{Key: "x", Value: "#FF0000"}},
	})
	cfg.SetMapping(cyrest.Mapping{
		MappingType:       cyrest.MappingContinuous,
		MappingColumn:     "score",
		MappingColumnType: "Double",
		VisualProperty:    cyrest.NodeWidth,
		Points:            []cyrest.ContinuousPoint{{Value: 1, Lesser: "50", Equal: "50", Greater: "50"}},
	})

	s, err := Attach(f.client, "ppi style", WithConfig(cfg))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Mappings[1].Map[0].Value = "#000000"
	cfg.Mappings[2].Points[0].Equal = "999"

	got := s.Config()
	if v := got.Mappings[1].Map[0].Value; v != "#FF0000" {
		t.Errorf("discrete entry = %q after caller change, want #FF0000", v)
	}
	if v := got.Mappings[2].Points[0].Equal; v != "50" {
		t.Errorf("continuous point = %q after caller change, want 50", v)
	}

	got.Mappings[1].Map[0].Value = "#00FF00"
	if v := s.Config().Mappings[1].Map[0].Value; v != "#FF0000" {
		t.Errorf("Config() shares entries with the styler: %q", v)
	}
}

func TestParseMappingType(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"c", cyrest.MappingContinuous, true},
		{"d", cyrest.MappingDiscrete, true},
		{"p", cyrest.MappingPassthrough, true},
		{"Discrete", cyrest.MappingDiscrete, true},
		{"x", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMappingType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMappingType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInferMappingType(t *testing.T) {
	for colType, want := range map[string]string{
		"Integer": cyrest.MappingContinuous,
		"Double":  cyrest.MappingContinuous,
		"Long":    cyrest.MappingContinuous,
		"String":  cyrest.MappingDiscrete,
		"Boolean": cyrest.MappingDiscrete,
	} {
		if got := InferMappingType(colType); got != want {
			t.Errorf("InferMappingType(%s) = %s, want %s", colType, got, want)
		}
	}
}

func TestNodeColorInfersType(t *testing.T) {
	f := newFixture(t)
	s := f.styler(t)
	ctx := context.Background()

	colors, err := s.NodeColor(ctx, "label", "", nil)
	if err != nil {
		t.Fatalf("NodeColor(label): %v", err)
	}
	if len(colors) != 2 || colors["x"] != Qualitative[0] || colors["y"] != Qualitative[1] {
		t.Errorf("discrete colors = %v", colors)
	}
	if m := f.style(t).Mappings[cyrest.NodeFillColor]; m.MappingType != cyrest.MappingDiscrete {
		t.Errorf("mapping type = %s, want discrete", m.MappingType)
	}

	colors, err = s.NodeColor(ctx, "score", "", nil)
	if err != nil {
		t.Fatalf("NodeColor(score): %v", err)
	}
	want := map[string]string{"0.5": Diverging[0], "1.5": Diverging[1], "2.5": Diverging[2]}
	for k, v := range want {
		if colors[k] != v {
			t.Errorf("continuous colors[%s] = %q, want %q", k, colors[k], v)
		}
	}
	m := f.style(t).Mappings[cyrest.NodeFillColor]
	if m.MappingType != cyrest.MappingContinuous || len(m.Points) != 3 || m.Points[0].Value != 0.5 {
		t.Errorf("continuous mapping = %+v", m)
	}
}

func TestNodeColorExplicitMapping(t *testing.T) {
	f := newFixture(t)
	s := f.styler(t)

	mapping := map[string]string{"1": "#FF0000", "2": "#00FF00"}
	got, err := s.NodeColor(context.Background(), "cluster", "d", mapping)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got["2"] != "#00FF00" {
		t.Errorf("returned mapping = %v", got)
	}
	m := f.style(t).Mappings[cyrest.NodeFillColor]
	if m.MappingColumnType != "Integer" {
		t.Errorf("column type = %s, want Integer", m.MappingColumnType)
	}
	if len(m.Map) != 2 || m.Map[0].Key != "1" || m.Map[1].Value != "#00FF00" {
		t.Errorf("discrete entries = %+v", m.Map)
	}
}

func TestNodeColorInvalidTypeWarns(t *testing.T) {
	f := newFixture(t)
	var sunk []string
	s := f.styler(t, WithWarningSink(func(msg string) { sunk = append(sunk, msg) }))

	if _, err := s.NodeColor(context.Background(), "label", "z", nil); err != nil {
		t.Fatalf("invalid mapping type should not fail: %v", err)
	}
	if m := f.style(t).Mappings[cyrest.NodeFillColor]; m.MappingType != cyrest.MappingPassthrough {
		t.Errorf("mapping type = %s, want passthrough", m.MappingType)
	}
	if len(s.Warnings()) != 1 || len(sunk) != 1 {
		t.Fatalf("warnings = %v, sunk = %v", s.Warnings(), sunk)
	}
	if !strings.Contains(sunk[0], "passthrough") {
		t.Errorf("warning %q does not name the fallback", sunk[0])
	}
}

func TestNodeColorRejectsBadColor(t *testing.T) {
	f := newFixture(t)
	s := f.styler(t)
	_, err := s.NodeColor(context.Background(), "label", "d", map[string]string{"x": "red"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestNodeColorNeedsNetworkForAutoMapping(t *testing.T) {
	f := newFixture(t)
	s, err := New(context.Background(), f.client, "ppi style")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.NodeColor(context.Background(), "label", "d", nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestNodeShapeWarnsButSends(t *testing.T) {
	f := newFixture(t)
	s := f.styler(t)

	err := s.NodeShape(context.Background(), "label", map[string]string{"x": "DIAMOND", "y": "blob"})
	if err != nil {
		t.Fatal(err)
	}
	w := s.Warnings()
	if len(w) != 1 || !strings.Contains(w[0], "blob") || !strings.Contains(w[0], "ellipse") {
		t.Errorf("warnings = %v", w)
	}
	m := f.style(t).Mappings[cyrest.NodeShape]
	if len(m.Map) != 2 || m.Map[1].Value != "blob" {
		t.Errorf("shape mapping = %+v", m.Map)
	}
}

func TestNodePieChart(t *testing.T) {
	f := newFixture(t)
	s := f.styler(t)

	if err := s.NodePieChart(context.Background(), []string{"string", "label", "missing"}, ChartOptions{}); err != nil {
		t.Fatal(err)
	}
	st := f.style(t)
	graphic, _ := st.Defaults["NODE_CUSTOMGRAPHICS_1"].(string)
	if !strings.HasPrefix(graphic, "org.cytoscape.RingChart:") || !strings.Contains(graphic, `"cy_holeSize":0.7`) {
		t.Errorf("NODE_CUSTOMGRAPHICS_1 = %q", graphic)
	}
	size, _ := st.Defaults["NODE_CUSTOMGRAPHICS_SIZE_1"].(json.Number).Float64()
	if want := 110/0.7 + 10; size < want-1e-9 || size > want+1e-9 {
		t.Errorf("size = %v, want %v", size, want)
	}
	if w := s.Warnings(); len(w) != 2 {
		t.Errorf("warnings = %v, want one for label and one for missing", w)
	}
}

func TestNodePieChartOptions(t *testing.T) {
	f := newFixture(t)
	s := f.styler(t)
	ctx := context.Background()

	opts := ChartOptions{Kind: Pie, Slot: 3, Size: 50, Colors: []string{"#000000"}}
	if err := s.NodePieChart(ctx, []string{"string"}, opts); err != nil {
		t.Fatal(err)
	}
	graphic, _ := f.style(t).Defaults["NODE_CUSTOMGRAPHICS_3"].(string)
	if !strings.HasPrefix(graphic, "org.cytoscape.PieChart:") || strings.Contains(graphic, "cy_holeSize") {
		t.Errorf("NODE_CUSTOMGRAPHICS_3 = %q", graphic)
	}

	bad := []ChartOptions{
		{Slot: 10},
		{Hole: 1.5},
		{Kind: "bar"},
		{Colors: []string{"#000000", "#FFFFFF"}},
	}
	for _, o := range bad {
		if err := s.NodePieChart(ctx, []string{"string"}, o); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("NodePieChart(%+v) err = %v, want INVALID_INPUT", o, err)
		}
	}
	if err := s.NodePieChart(ctx, nil, ChartOptions{}); err == nil {
		t.Error("expected error for no columns")
	}
}

func TestEdgeArrows(t *testing.T) {
	f := newFixture(t)
	s := f.styler(t)

	if err := s.EdgeArrows(context.Background(), "interaction", nil); err != nil {
		t.Fatal(err)
	}
	st := f.style(t)
	src, tgt := st.Mappings[cyrest.EdgeSourceArrow], st.Mappings[cyrest.EdgeTargetArrow]
	if len(src.Map) != len(DefaultArrows()) || len(tgt.Map) != len(DefaultArrows()) {
		t.Fatalf("arrow mappings = %+v / %+v", src.Map, tgt.Map)
	}
	for _, e := range tgt.Map {
		if e.Key == "inhibits" && e.Value != "T" {
			t.Errorf("inhibits target = %s, want T", e.Value)
		}
	}
}

func TestColumnTypeFromLocalTable(t *testing.T) {
	f := newFixture(t)
	nodes, err := table.NewNodeTable([]string{"A", "B", "C"})
	if err != nil {
		t.Fatal(err)
	}
	if err := nodes.AddColumn(&table.Column{Name: "weight", Type: table.Double, Values: []string{"1", "2", "3"}}); err != nil {
		t.Fatal(err)
	}
	s := f.styler(t, WithNodes(nodes))

	got, err := s.columnType(context.Background(), "weight")
	if err != nil || got != "Double" {
		t.Errorf("columnType(weight) = %q, %v", got, err)
	}
	got, _ = s.columnType(context.Background(), "cluster")
	if got != "Integer" {
		t.Errorf("columnType(cluster) = %q, want Integer from server", got)
	}
}

func TestParsePreset(t *testing.T) {
	data := []byte(`
defaults:
  NODE_SHAPE: round_rectangle
  NODE_WIDTH: 140
  NODE_BORDER_PAINT: "#333333"
mappings:
  - type: d
    column: kind
    property: NODE_SHAPE
    map:
      kinase: diamond
      receptor: triangle
`)
	cfg, err := ParsePreset(data)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := cfg.Default(cyrest.NodeShape); v != "round_rectangle" {
		t.Errorf("NODE_SHAPE = %v", v)
	}
	if cfg.nodeWidth() != 140 {
		t.Errorf("nodeWidth = %v", cfg.nodeWidth())
	}
	if _, ok := cfg.Default("NODE_BORDER_PAINT"); !ok {
		t.Error("new default not added")
	}
	if len(cfg.Mappings) != 2 {
		t.Fatalf("mappings = %+v", cfg.Mappings)
	}
	if m := cfg.Mappings[1]; m.MappingType != cyrest.MappingDiscrete || m.Map[0].Key != "kinase" {
		t.Errorf("shape mapping = %+v", m)
	}
}

func TestParsePresetErrors(t *testing.T) {
	for _, data := range []string{
		"unknown: 1",
		"mappings:\n  - type: x\n    column: a\n    property: NODE_SHAPE",
		"mappings:\n  - type: d\n    property: NODE_SHAPE",
		"mappings:\n  - type: c\n    column: a\n    property: NODE_SIZE",
	} {
		if _, err := ParsePreset([]byte(data)); err == nil {
			t.Errorf("ParsePreset(%q) = nil error", data)
		}
	}
}

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := os.WriteFile(path, []byte("defaults:\n  NODE_HEIGHT: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadPreset(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := cfg.Default(cyrest.NodeHeight); v != 90 {
		t.Errorf("NODE_HEIGHT = %v", v)
	}
	if _, err := LoadPreset(path + ".missing"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing preset err = %v", err)
	}
}

func TestAttachKeepsExistingStyle(t *testing.T) {
	f := newFixture(t)
	created := f.styler(t)
	ctx := context.Background()
	if _, err := created.NodeColor(ctx, "label", "d", map[string]string{"x": "#FF0000"}); err != nil {
		t.Fatal(err)
	}

	attached, err := Attach(f.client, "ppi style", WithNetwork(f.suid))
	if err != nil {
		t.Fatal(err)
	}
	if err := attached.NodeShape(ctx, "label", map[string]string{"x": "diamond"}); err != nil {
		t.Fatal(err)
	}
	st := f.style(t)
	if _, ok := st.Mappings[cyrest.NodeFillColor]; !ok {
		t.Error("Attach dropped the existing color mapping")
	}
	if _, ok := st.Mappings[cyrest.NodeShape]; !ok {
		t.Error("shape mapping not added")
	}
}

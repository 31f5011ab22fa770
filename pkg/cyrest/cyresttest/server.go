// Package cyresttest provides an in-memory CyREST server for tests.
//
// The server implements the subset of the CyREST v1 API used by gocyto:
// networks, views, node tables, styles, layouts, annotations and session
// export. Every request is recorded so tests can assert on call order.
//
//	srv := cyresttest.NewServer()
//	defer srv.Close()
//	client, _ := cyrest.New(srv.URL + "/v1")
package cyresttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
)

// DefaultShapes are the NODE_SHAPE values reported by the server.
var DefaultShapes = []string{
	"DIAMOND", "ELLIPSE", "HEXAGON", "OCTAGON", "PARALLELOGRAM",
	"RECTANGLE", "ROUND_RECTANGLE", "TRIANGLE", "V",
}

// Network is a network held by the server.
type Network struct {
	SUID         int64
	View         int64
	Name         string
	Collection   string
	Nodes        []map[string]any
	Edges        []map[string]any
	Positions    map[string]cyrest.Position
	AppliedStyle string
	LayoutColumn string
}

// Style is a visual style held by the server.
type Style struct {
	Name         string
	Defaults     map[string]any
	Mappings     map[string]cyrest.Mapping
	Dependencies map[string]bool
}

// Call is one recorded request.
type Call struct {
	Method string
	Path   string // unescaped, without the /v1 prefix
}

// Server is a fake CyREST instance.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	nextSUID     int64
	networks     map[int64]*Network
	styles       map[string]*Style
	calls        []Call
	failures     map[string]int
	shapes       []string
	layoutParams map[string][]cyrest.LayoutParameter
	annotations  []map[string]any
	sessions     []string
}

// NewServer starts a fake CyREST server. Its API lives under URL + "/v1".
func NewServer() *Server {
	s := &Server{
		nextSUID:     100,
		networks:     make(map[int64]*Network),
		styles:       map[string]*Style{"default": newStyle("default")},
		failures:     make(map[string]int),
		shapes:       DefaultShapes,
		layoutParams: make(map[string][]cyrest.LayoutParameter),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.version)
		r.Get("/networks.names", s.networkNames)
		r.Post("/networks", s.createNetwork)
		r.Get("/networks/{suid}/views", s.views)
		r.Get("/networks/{suid}/views/{view}", s.view)
		r.Get("/networks/{suid}/tables/defaultnode/columns", s.columns)
		r.Get("/networks/{suid}/tables/defaultnode/columns/{column}", s.columnValues)

		r.Get("/styles", s.listStyles)
		r.Post("/styles", s.createStyle)
		r.Get("/styles/visualproperties/{property}/values", s.propertyValues)
		r.Delete("/styles/{name}", s.deleteStyle)
		r.Put("/styles/{name}/defaults", s.updateDefaults)
		r.Put("/styles/{name}/dependencies", s.updateDependencies)
		r.Post("/styles/{name}/mappings", s.addMappings)
		r.Delete("/styles/{name}/mappings/{property}", s.deleteMapping)

		r.Get("/apply/styles/{name}/{suid}", s.applyStyle)
		r.Get("/apply/fit/{suid}", s.fit)
		r.Put("/apply/layouts/{layout}/parameters", s.setLayoutParams)
		r.Post("/commands/layout/attributes-layout", s.attributesLayout)
		r.Post("/commands/annotation/add", s.addAnnotation)
		r.Post("/session", s.saveSession)
	})
	s.Server = httptest.NewServer(r)
	return s
}

// APIURL returns the base URL to hand to cyrest.New.
func (s *Server) APIURL() string { return s.URL + "/v1" }

// =============================================================================
// Test controls
// =============================================================================

// Fail makes the next n requests for method and path answer status. The
// path is unescaped and excludes the /v1 prefix.
func (s *Server) Fail(method, path string, status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = n<<16 | status
}

// SetShapes replaces the reported NODE_SHAPE values.
func (s *Server) SetShapes(shapes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapes = shapes
}

// Calls returns the recorded requests.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many requests matched method and path.
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Network returns a copy of the network with the given SUID.
func (s *Server) Network(suid int64) (Network, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.networks[suid]
	if !ok {
		return Network{}, false
	}
	return *n, true
}

// Style returns the style named name.
func (s *Server) Style(name string) (*Style, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.styles[name]
	return st, ok
}

// LayoutParameters returns the last parameters set for layout.
func (s *Server) LayoutParameters(layout string) []cyrest.LayoutParameter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layoutParams[layout]
}

// Annotations returns the command arguments of every added annotation.
func (s *Server) Annotations() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.annotations...)
}

// Sessions returns the saved session file names.
func (s *Server) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sessions...)
}

// SetPosition moves a node of a network.
func (s *Server) SetPosition(suid int64, node string, p cyrest.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.networks[suid]; ok {
		n.Positions[node] = p
	}
}

// =============================================================================
// Middleware and helpers
// =============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/v1")
		key := r.Method + " " + path

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: path})
		f := s.failures[key]
		if f>>16 > 0 {
			s.failures[key] = f - 1<<16
		}
		s.mu.Unlock()

		if f>>16 > 0 {
			status := f & 0xffff
			writeError(w, status, fmt.Sprintf("injected failure for %s", key))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func param(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"data": map[string]any{},
		"errors": []map[string]any{{
			"status":  status,
			"type":    "urn:cytoscape:ci:cyrest-core:v1:error",
			"message": msg,
		}},
	})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(v)
}

// lookup returns the network named by the suid URL parameter. Callers hold
// s.mu.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Network, bool) {
	suid, err := strconv.ParseInt(param(r, "suid"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid SUID")
		return nil, false
	}
	n, ok := s.networks[suid]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("network %d not found", suid))
		return nil, false
	}
	return n, true
}

func newStyle(name string) *Style {
	return &Style{
		Name:         name,
		Defaults:     make(map[string]any),
		Mappings:     make(map[string]cyrest.Mapping),
		Dependencies: make(map[string]bool),
	}
}

// =============================================================================
// Networks
// =============================================================================

func (s *Server) version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, cyrest.Version{APIVersion: "v1", CytoscapeVersion: "3.10.3"})
}

func (s *Server) networkNames(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]cyrest.NetworkName, 0, len(s.networks))
	for _, n := range s.networks {
		out = append(out, cyrest.NetworkName{SUID: n.SUID, Name: n.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SUID < out[j].SUID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createNetwork(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Data     map[string]any `json:"data"`
		Elements struct {
			Nodes []struct {
				Data map[string]any `json:"data"`
			} `json:"nodes"`
			Edges []struct {
				Data map[string]any `json:"data"`
			} `json:"edges"`
		} `json:"elements"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid network: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := &Network{
		SUID:       s.nextSUID,
		View:       s.nextSUID + 1,
		Name:       r.URL.Query().Get("title"),
		Collection: r.URL.Query().Get("collection"),
		Positions:  make(map[string]cyrest.Position),
	}
	s.nextSUID += 2
	if n.Name == "" {
		n.Name, _ = body.Data["name"].(string)
	}
	for i, node := range body.Elements.Nodes {
		name, _ := node.Data["name"].(string)
		n.Nodes = append(n.Nodes, node.Data)
		n.Positions[name] = cyrest.Position{X: float64(i) * 100}
	}
	for _, e := range body.Elements.Edges {
		n.Edges = append(n.Edges, e.Data)
	}
	s.networks[n.SUID] = n
	writeJSON(w, http.StatusOK, map[string]int64{"networkSUID": n.SUID})
}

func (s *Server) views(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, []int64{n.View})
}

// view serves both the cyjs view and image exports such as "101.svg".
func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookup(w, r)
	if !ok {
		return
	}
	id, format, _ := strings.Cut(param(r, "view"), ".")
	if id != strconv.FormatInt(n.View, 10) {
		writeError(w, http.StatusNotFound, "view not found")
		return
	}
	if format != "" {
		mediaType, known := cyrest.ImageMediaTypes[format]
		if !known {
			writeError(w, http.StatusNotFound, "unsupported format "+format)
			return
		}
		if !accepts(r.Header.Get("Accept"), mediaType) {
			writeError(w, http.StatusNotAcceptable, "view "+format+" produces "+mediaType)
			return
		}
		w.Header().Set("Content-Type", mediaType)
		if format == "svg" {
			fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg"><title>%s</title></svg>`, n.Name)
		} else {
			fmt.Fprintf(w, "%s image of %s", format, n.Name)
		}
		return
	}

	nodes := make([]map[string]any, len(n.Nodes))
	for i, d := range n.Nodes {
		name, _ := d["name"].(string)
		nodes[i] = map[string]any{"data": d, "position": n.Positions[name]}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":     map[string]any{"name": n.Name, "SUID": n.SUID},
		"elements": map[string]any{"nodes": nodes, "edges": []any{}},
	})
}

// accepts reports whether an Accept header admits mediaType.
func accepts(header, mediaType string) bool {
	if header == "" {
		return true
	}
	major, _, _ := strings.Cut(mediaType, "/")
	for _, part := range strings.Split(header, ",") {
		t, _, _ := strings.Cut(part, ";")
		switch strings.TrimSpace(t) {
		case mediaType, "*/*", major + "/*":
			return true
		}
	}
	return false
}

func columnType(v any) string {
	switch x := v.(type) {
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return "Integer"
		}
		return "Double"
	case bool:
		return "Boolean"
	}
	return "String"
}

func (s *Server) columns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookup(w, r)
	if !ok {
		return
	}
	seen := make(map[string]bool)
	var out []cyrest.ColumnInfo
	for _, d := range n.Nodes {
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if seen[k] || d[k] == nil {
				continue
			}
			seen[k] = true
			out = append(out, cyrest.ColumnInfo{Name: k, Type: columnType(d[k])})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) columnValues(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lookup(w, r)
	if !ok {
		return
	}
	col := param(r, "column")
	found := false
	values := make([]any, len(n.Nodes))
	for i, d := range n.Nodes {
		v, ok := d[col]
		found = found || ok
		values[i] = v
	}
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("column %q not found", col))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": col, "values": values})
}

// =============================================================================
// Styles
// =============================================================================

func (s *Server) listStyles(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.styles))
	for name := range s.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) createStyle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title    string                  `json:"title"`
		Defaults []cyrest.VisualProperty `json:"defaults"`
		Mappings []cyrest.Mapping        `json:"mappings"`
	}
	if err := decode(r, &body); err != nil || body.Title == "" {
		writeError(w, http.StatusBadRequest, "invalid style")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.styles[body.Title]; exists {
		// Cytoscape renames duplicates; keep the fake strict instead.
		writeError(w, http.StatusConflict, fmt.Sprintf("style %q exists", body.Title))
		return
	}
	st := newStyle(body.Title)
	for _, d := range body.Defaults {
		st.Defaults[d.VisualProperty] = d.Value
	}
	for _, m := range body.Mappings {
		st.Mappings[m.VisualProperty] = m
	}
	s.styles[st.Name] = st
	writeJSON(w, http.StatusOK, map[string]string{"title": st.Name})
}

func (s *Server) style(w http.ResponseWriter, r *http.Request) (*Style, bool) {
	name := param(r, "name")
	st, ok := s.styles[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("style %q not found", name))
	}
	return st, ok
}

func (s *Server) deleteStyle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.style(w, r)
	if !ok {
		return
	}
	delete(s.styles, st.Name)
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) updateDefaults(w http.ResponseWriter, r *http.Request) {
	var defaults []cyrest.VisualProperty
	if err := decode(r, &defaults); err != nil {
		writeError(w, http.StatusBadRequest, "invalid defaults")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.style(w, r)
	if !ok {
		return
	}
	for _, d := range defaults {
		st.Defaults[d.VisualProperty] = d.Value
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) updateDependencies(w http.ResponseWriter, r *http.Request) {
	var deps []cyrest.Dependency
	if err := decode(r, &deps); err != nil {
		writeError(w, http.StatusBadRequest, "invalid dependencies")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.style(w, r)
	if !ok {
		return
	}
	for _, d := range deps {
		st.Dependencies[d.VisualPropertyDependency] = d.Enabled
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) addMappings(w http.ResponseWriter, r *http.Request) {
	var mappings []cyrest.Mapping
	if err := decode(r, &mappings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid mappings")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.style(w, r)
	if !ok {
		return
	}
	for _, m := range mappings {
		if m.VisualProperty == "" || m.MappingColumn == "" {
			writeError(w, http.StatusBadRequest, "mapping needs visualProperty and mappingColumn")
			return
		}
		st.Mappings[m.VisualProperty] = m
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) deleteMapping(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.style(w, r)
	if !ok {
		return
	}
	vp := param(r, "property")
	if _, ok := st.Mappings[vp]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no mapping for %s", vp))
		return
	}
	delete(st.Mappings, vp)
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) propertyValues(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if param(r, "property") != cyrest.NodeShape {
		writeError(w, http.StatusNotFound, "unknown visual property")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"visualProperty": cyrest.NodeShape, "values": s.shapes})
}

func (s *Server) applyStyle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.style(w, r)
	if !ok {
		return
	}
	n, ok := s.lookup(w, r)
	if !ok {
		return
	}
	n.AppliedStyle = st.Name
	writeJSON(w, http.StatusOK, map[string]string{"message": "Visual Style applied."})
}

// =============================================================================
// Layouts, annotations and sessions
// =============================================================================

func (s *Server) fit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Fit content"})
}

func (s *Server) setLayoutParams(w http.ResponseWriter, r *http.Request) {
	var params []cyrest.LayoutParameter
	if err := decode(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid parameters")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layoutParams[param(r, "layout")] = params
	writeJSON(w, http.StatusOK, map[string]string{"message": "Layout parameters updated"})
}

func commandOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"data": data, "errors": []any{}})
}

func commandFail(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data":   map[string]any{},
		"errors": []map[string]any{{"status": 500, "message": msg}},
	})
}

// attributesLayout places each group of nodes sharing a column value on its
// own row, in first-appearance order of the values.
func (s *Server) attributesLayout(w http.ResponseWriter, r *http.Request) {
	var args map[string]any
	if err := decode(r, &args); err != nil {
		commandFail(w, "invalid arguments")
		return
	}
	ref, _ := args["network"].(string)
	col, _ := args["nodeAttribute"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	suid, err := strconv.ParseInt(strings.TrimPrefix(ref, "SUID:"), 10, 64)
	n, ok := s.networks[suid]
	if err != nil || !ok {
		commandFail(w, fmt.Sprintf("network %q not found", ref))
		return
	}

	rows := make(map[string]int)
	counts := make(map[string]int)
	for _, d := range n.Nodes {
		if _, ok := d[col]; !ok {
			continue
		}
		key := fmt.Sprint(d[col])
		if _, ok := rows[key]; !ok {
			rows[key] = len(rows)
		}
		name, _ := d["name"].(string)
		n.Positions[name] = cyrest.Position{X: float64(counts[key]) * 150, Y: float64(rows[key]) * 300}
		counts[key]++
	}
	n.LayoutColumn = col
	commandOK(w, map[string]any{})
}

func (s *Server) addAnnotation(w http.ResponseWriter, r *http.Request) {
	var args map[string]any
	if err := decode(r, &args); err != nil {
		commandFail(w, "invalid arguments")
		return
	}
	if args["type"] != cyrest.BoundedTextType {
		commandFail(w, fmt.Sprintf("unsupported annotation type %v", args["type"]))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations = append(s.annotations, args)
	commandOK(w, map[string]any{"uuid": fmt.Sprintf("annotation-%d", len(s.annotations))})
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, file)
	writeJSON(w, http.StatusOK, map[string]string{"file": file})
}

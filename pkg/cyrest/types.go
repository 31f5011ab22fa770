package cyrest

// Mapping types.
const (
	MappingContinuous  = "continuous"
	MappingDiscrete    = "discrete"
	MappingPassthrough = "passthrough"
)

// Visual properties set by gocyto.
const (
	NodeShape          = "NODE_SHAPE"
	NodeFillColor      = "NODE_FILL_COLOR"
	NodeWidth          = "NODE_WIDTH"
	NodeHeight         = "NODE_HEIGHT"
	NodeBorderWidth    = "NODE_BORDER_WIDTH"
	NodeLabel          = "NODE_LABEL"
	NodeLabelFontSize  = "NODE_LABEL_FONT_SIZE"
	NodeLockDimensions = "NODE_LOCK_DIMENSIONS"
	EdgeTransparency   = "EDGE_TRANSPARENCY"
	EdgeWidth          = "EDGE_WIDTH"
	EdgeSourceArrow    = "EDGE_SOURCE_ARROW_SHAPE"
	EdgeTargetArrow    = "EDGE_TARGET_ARROW_SHAPE"
)

// Visual property dependencies.
const (
	DependencyNodeSizeLocked     = "nodeSizeLocked"
	DependencyCustomGraphicsSync = "nodeCustomGraphicsSizeSync"
)

// Version is the response of GET /version.
type Version struct {
	APIVersion       string `json:"apiVersion"`
	CytoscapeVersion string `json:"cytoscapeVersion"`
}

// NetworkName is one entry of GET /networks.names.
type NetworkName struct {
	SUID int64  `json:"SUID"`
	Name string `json:"name"`
}

// NetworkData is the content of a new network. Each node record must carry
// an "id"; edges reference node ids.
type NetworkData struct {
	Nodes []map[string]any
	Edges []EdgeData
}

// EdgeData is one edge of a new network.
type EdgeData struct {
	Source      string
	Target      string
	Interaction string // defaults to "interacts with"
}

// ColumnInfo describes a node table column.
type ColumnInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Immutable bool   `json:"immutable"`
	Primary   bool   `json:"primaryKey"`
}

// Position is a node center in view coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VisualProperty is a style default.
type VisualProperty struct {
	VisualProperty string `json:"visualProperty"`
	Value          any    `json:"value"`
}

// Dependency toggles a visual property dependency of a style.
type Dependency struct {
	VisualPropertyDependency string `json:"visualPropertyDependency"`
	Enabled                  bool   `json:"enabled"`
}

// Mapping maps a node column to a visual property.
type Mapping struct {
	MappingType       string            `json:"mappingType"`
	MappingColumn     string            `json:"mappingColumn"`
	MappingColumnType string            `json:"mappingColumnType"`
	VisualProperty    string            `json:"visualProperty"`
	Map               []DiscreteEntry   `json:"map,omitempty"`
	Points            []ContinuousPoint `json:"points,omitempty"`
}

// DiscreteEntry maps one column value to one visual value.
type DiscreteEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ContinuousPoint is a continuous mapping breakpoint.
type ContinuousPoint struct {
	Value   float64 `json:"value"`
	Lesser  string  `json:"lesser"`
	Equal   string  `json:"equal"`
	Greater string  `json:"greater"`
}

// LayoutParameter is one layout algorithm setting.
type LayoutParameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Annotation is a bounded-text annotation.
type Annotation struct {
	View       int64
	Text       string
	X, Y       float64
	Width      float64
	Height     float64
	FontSize   int
	FontFamily string
	ShapeType  string // e.g. ELLIPSE
	FillColor  string
	Z          int
	Name       string
}

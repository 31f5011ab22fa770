// Package pipeline pushes tabular network data to Cytoscape and styles it.
//
// This package implements the complete load → create → style → layout →
// annotate → export run used by "gocyto network", plus the individual
// stages used by the commands that work on an existing network.
//
// # Architecture
//
// The pipeline consists of six stages:
//
//  1. Load: Read the edge list, derive nodes, join clusters and attributes
//  2. Create: Create the network (collection defaults to the network name)
//  3. Style: Create "<name> style", color nodes, draw attribute ring charts
//  4. Layout: Group nodes by cluster with the attributes layout
//  5. Annotate: Label each cluster (optional)
//  6. Export: Save the session and an image (optional)
//
// Stages run sequentially and the first failing remote call aborts the run.
// Nothing already created on the server is rolled back.
//
// # Usage
//
//	runner := pipeline.NewRunner(client, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name: "ppi",
//	    Load: table.LoadOptions{EdgesPath: "ppi.tsv", ClustersPath: "clusters.tsv"},
//	})
//
// Run individual stages on an existing network:
//
//	err := runner.Layout(ctx, suid, "cluster", config.DefaultLayout())
//	labels, err := runner.AnnotateRemote(ctx, suid, "cluster", config.DefaultLayout(), pipeline.AnnotateOptions{})
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/jorgebotas/gocyto/pkg/config"
	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/geometry"
	"github.com/jorgebotas/gocyto/pkg/render"
	"github.com/jorgebotas/gocyto/pkg/style"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI commands
// =============================================================================

const (
	// DefaultNetworkName names a network created without a name.
	DefaultNetworkName = "gocyto"

	// DefaultColorColumn is the node column colored by default.
	DefaultColorColumn = table.ClusterColumn

	// DefaultImageFormat is the default image export format.
	DefaultImageFormat = render.SVG

	// DefaultLabelFont is the cluster label font family.
	DefaultLabelFont = "Avenir"

	// DefaultLabelFontSize is the cluster label font size.
	DefaultLabelFontSize = 40

	// DefaultArrowColumn is the edge column used for arrow shapes.
	DefaultArrowColumn = "interaction"
)

// Stage names reported to observability hooks and in [Stats].
const (
	StageLoad     = "load"
	StageCreate   = "create"
	StageStyle    = "style"
	StageLayout   = "layout"
	StageAnnotate = "annotate"
	StageExport   = "export"
)

// ImageFormats is the set of formats Cytoscape can export.
var ImageFormats = map[render.Format]bool{
	render.SVG: true,
	render.PNG: true,
	render.PDF: true,
}

// StyleName returns the style name used for a network.
func StyleName(network string) string {
	return network + " style"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Network options
	Name       string            `json:"name"`
	Collection string            `json:"collection,omitempty"` // defaults to Name
	Load       table.LoadOptions `json:"load"`

	// Style options
	StyleConfig *style.Config      `json:"-"` // nil means style.DefaultConfig
	ColorColumn string             `json:"color_column,omitempty"`
	ColorType   string             `json:"color_type,omitempty"` // c, d, p or empty to infer
	NoColor     bool               `json:"no_color,omitempty"`
	NoPie       bool               `json:"no_pie,omitempty"`
	Chart       style.ChartOptions `json:"chart"`
	Arrows      bool               `json:"arrows,omitempty"`
	ArrowColumn string             `json:"arrow_column,omitempty"`

	// Layout options
	NoLayout bool            `json:"no_layout,omitempty"`
	Layout   config.Layout   `json:"layout"`
	Annotate bool            `json:"annotate,omitempty"`
	Labels   AnnotateOptions `json:"labels"`

	// Export options
	SessionPath string        `json:"session,omitempty"`
	ImagePath   string        `json:"image,omitempty"`
	ImageFormat render.Format `json:"format,omitempty"`
	Overwrite   bool          `json:"overwrite,omitempty"`

	// Runtime options (not serialized)
	RunID  string            `json:"-"`
	Logger *log.Logger       `json:"-"`
	Warn   style.WarningSink `json:"-"`
}

// AnnotateOptions configures cluster labels.
type AnnotateOptions struct {
	FontFamily string  `json:"font_family,omitempty"`
	FontSize   int     `json:"font_size,omitempty"`
	Size       float64 `json:"size,omitempty"` // label width and height
}

// SetDefaults fills empty label options.
func (o *AnnotateOptions) SetDefaults() {
	if o.FontFamily == "" {
		o.FontFamily = DefaultLabelFont
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultLabelFontSize
	}
	if o.Size == 0 {
		o.Size = geometry.DefaultLabelSize
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	RunID string

	// SUID is the created network.
	SUID int64

	// Network is the loaded node and edge table.
	Network *table.Network

	// Report describes rows dropped while loading.
	Report *table.LoadReport

	// StyleName is the name of the created style.
	StyleName string

	// Colors is the value to color mapping sent for ColorColumn.
	Colors map[string]string

	// Labels are the cluster annotations added.
	Labels []geometry.Label

	// Session and Image are the exported files.
	Session string
	Image   string

	// Warnings are the soft problems reported while styling.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	LoadTime     time.Duration
	CreateTime   time.Duration
	StyleTime    time.Duration
	LayoutTime   time.Duration
	AnnotateTime time.Duration
	ExportTime   time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.LoadTime + s.CreateTime + s.StyleTime + s.LayoutTime + s.AnnotateTime + s.ExportTime
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateImageFormat checks that Cytoscape can export format.
func ValidateImageFormat(format render.Format) error {
	if !ImageFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid image format: %q (must be one of: svg, png, pdf)", format)
	}
	return nil
}

// ValidateColorType checks an explicit mapping type. Invalid types are not
// fatal for styling; this is for flag validation only.
func ValidateColorType(t string) error {
	if t == "" {
		return nil
	}
	if _, ok := style.ParseMappingType(t); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid color type: %q (must be one of: c, d, p)", t)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults applies defaults for every empty field.
func (o *Options) SetDefaults() {
	if o.Name == "" {
		o.Name = DefaultNetworkName
	}
	if o.Collection == "" {
		o.Collection = o.Name
	}
	if o.ColorColumn == "" {
		o.ColorColumn = DefaultColorColumn
	}
	if o.ArrowColumn == "" {
		o.ArrowColumn = DefaultArrowColumn
	}
	if o.Layout == (config.Layout{}) {
		o.Layout = config.DefaultLayout()
	}
	if o.ImageFormat == "" {
		o.ImageFormat = DefaultImageFormat
	}
	o.Labels.SetDefaults()
	o.Load.SetDefaults()
}

// Validate checks required fields. Call after SetDefaults.
func (o *Options) Validate() error {
	if err := errors.ValidateNetworkName(o.Name); err != nil {
		return err
	}
	if o.Load.EdgesPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "edge file is required")
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.ImagePath != "" {
		if err := ValidateImageFormat(o.ImageFormat); err != nil {
			return err
		}
	}
	return nil
}

package style

import (
	"context"
	"strings"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
)

// NodeShape maps column values to node shapes. Shapes the server does not
// support are reported as warnings but still sent.
func (s *Styler) NodeShape(ctx context.Context, column string, mapping map[string]string) error {
	supported, err := s.api.NodeShapes(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(supported))
	for _, sh := range supported {
		known[strings.ToLower(sh)] = true
	}

	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sortKeys(keys)
	for _, k := range keys {
		if shape := mapping[k]; !known[strings.ToLower(shape)] {
			s.warn("node shape %q not recognised; supported node shapes: %s", shape, strings.Join(supported, ", "))
		}
	}

	colType, err := s.columnType(ctx, column)
	if err != nil {
		return err
	}
	if colType == "" {
		colType = "String"
	}
	m := discreteMapping(column, colType, cyrest.NodeShape, keys, mapping)
	if err := s.api.SetMapping(ctx, s.name, m); err != nil {
		return err
	}
	s.logger.Info("node shape", "style", s.name, "column", column, "values", len(keys))
	return nil
}

// Arrows is the pair of arrow shapes drawn at the ends of an edge.
type Arrows struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// DefaultArrows maps common interaction types to arrow shapes.
func DefaultArrows() map[string]Arrows {
	return map[string]Arrows{
		"interacts with": {Source: "NONE", Target: "NONE"},
		"activates":      {Source: "NONE", Target: "DELTA"},
		"inhibits":       {Source: "NONE", Target: "T"},
		"binds":          {Source: "CIRCLE", Target: "CIRCLE"},
	}
}

// EdgeArrows maps an edge column to source and target arrow shapes. A nil
// mapping uses [DefaultArrows].
func (s *Styler) EdgeArrows(ctx context.Context, column string, mapping map[string]Arrows) error {
	if mapping == nil {
		mapping = DefaultArrows()
	}
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sortKeys(keys)

	source := make(map[string]string, len(keys))
	target := make(map[string]string, len(keys))
	for _, k := range keys {
		source[k] = mapping[k].Source
		target[k] = mapping[k].Target
	}

	for _, m := range []cyrest.Mapping{
		discreteMapping(column, "String", cyrest.EdgeSourceArrow, keys, source),
		discreteMapping(column, "String", cyrest.EdgeTargetArrow, keys, target),
	} {
		if err := s.api.SetMapping(ctx, s.name, m); err != nil {
			return err
		}
	}
	s.logger.Info("edge arrows", "style", s.name, "column", column, "values", len(keys))
	return nil
}

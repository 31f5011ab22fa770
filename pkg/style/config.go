package style

import (
	"slices"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
)

// Config is the initial content of a style.
type Config struct {
	Defaults []cyrest.VisualProperty
	Mappings []cyrest.Mapping
}

// DefaultConfig returns the defaults used for every new network style: white
// ellipses labelled with the node id. Each call returns a fresh value.
func DefaultConfig() Config {
	return Config{
		Defaults: []cyrest.VisualProperty{
			{VisualProperty: cyrest.NodeShape, Value: "ellipse"},
			{VisualProperty: cyrest.NodeFillColor, Value: "#FFFFFF"},
			{VisualProperty: cyrest.NodeWidth, Value: 110},
			{VisualProperty: cyrest.NodeHeight, Value: 70},
			{VisualProperty: cyrest.NodeBorderWidth, Value: 2},
			{VisualProperty: cyrest.NodeLabelFontSize, Value: 30},
			{VisualProperty: cyrest.NodeLockDimensions, Value: false},
			{VisualProperty: cyrest.EdgeTransparency, Value: 100},
			{VisualProperty: cyrest.EdgeWidth, Value: 1},
		},
		Mappings: []cyrest.Mapping{{
			MappingType:       cyrest.MappingPassthrough,
			MappingColumn:     "id",
			MappingColumnType: "String",
			VisualProperty:    cyrest.NodeLabel,
		}},
	}
}

// Default returns the default value of a visual property.
func (c Config) Default(property string) (any, bool) {
	for _, d := range c.Defaults {
		if d.VisualProperty == property {
			return d.Value, true
		}
	}
	return nil, false
}

// SetDefault sets or replaces a default value.
func (c *Config) SetDefault(property string, value any) {
	for i := range c.Defaults {
		if c.Defaults[i].VisualProperty == property {
			c.Defaults[i].Value = value
			return
		}
	}
	c.Defaults = append(c.Defaults, cyrest.VisualProperty{VisualProperty: property, Value: value})
}

// SetMapping sets or replaces the mapping of m.VisualProperty.
func (c *Config) SetMapping(m cyrest.Mapping) {
	for i := range c.Mappings {
		if c.Mappings[i].VisualProperty == m.VisualProperty {
			c.Mappings[i] = m
			return
		}
	}
	c.Mappings = append(c.Mappings, m)
}

// nodeWidth returns the NODE_WIDTH default as a number, 110 if unset.
func (c Config) nodeWidth() float64 {
	if v, ok := c.Default(cyrest.NodeWidth); ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return 110
}

// clone copies c down to the mapping entries so that neither copy sees
// later changes to the other.
func (c Config) clone() Config {
	out := Config{
		Defaults: slices.Clone(c.Defaults),
		Mappings: slices.Clone(c.Mappings),
	}
	for i := range out.Mappings {
		out.Mappings[i].Map = slices.Clone(out.Mappings[i].Map)
		out.Mappings[i].Points = slices.Clone(out.Mappings[i].Points)
	}
	return out
}

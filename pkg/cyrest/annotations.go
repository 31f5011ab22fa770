package cyrest

import (
	"context"
	"fmt"
	"strconv"
)

// BoundedTextType is the annotation type of a text label inside a shape.
const BoundedTextType = "org.cytoscape.view.presentation.annotations.BoundedTextAnnotation"

// AddBoundedText draws a bounded-text annotation on a view.
func (c *Client) AddBoundedText(ctx context.Context, a Annotation) error {
	args := map[string]any{
		"view":      fmt.Sprintf("SUID:%d", a.View),
		"type":      BoundedTextType,
		"text":      a.Text,
		"x":         formatFloat(a.X),
		"y":         formatFloat(a.Y),
		"width":     formatFloat(a.Width),
		"height":    formatFloat(a.Height),
		"fontSize":  strconv.Itoa(a.FontSize),
		"z":         strconv.Itoa(a.Z),
		"shapeType": a.ShapeType,
		"fillColor": a.FillColor,
	}
	if a.FontFamily != "" {
		args["fontFamily"] = a.FontFamily
	}
	if a.Name != "" {
		args["name"] = a.Name
	}
	if _, err := c.Command(ctx, "annotation/add", args); err != nil {
		return fmt.Errorf("annotation %q: %w", a.Text, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

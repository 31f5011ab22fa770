package cyrest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jorgebotas/gocyto/pkg/cache"
	"github.com/jorgebotas/gocyto/pkg/observability"
)

// Styles lists the visual style names.
func (c *Client) Styles(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, request{method: "GET", path: "/styles"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HasStyle reports whether a style named name exists.
func (c *Client) HasStyle(ctx context.Context, name string) (bool, error) {
	styles, err := c.Styles(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range styles {
		if s == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateStyle creates a style with the given defaults and mappings.
func (c *Client) CreateStyle(ctx context.Context, name string, defaults []VisualProperty, mappings []Mapping) error {
	body := map[string]any{
		"title":    name,
		"defaults": nonNil(defaults),
		"mappings": nonNil(mappings),
	}
	if err := c.do(ctx, request{method: "POST", path: "/styles", body: body}, nil); err != nil {
		return fmt.Errorf("create style %q: %w", name, err)
	}
	return nil
}

// DeleteStyle removes a style. Deleting a missing style is not an error.
func (c *Client) DeleteStyle(ctx context.Context, name string) error {
	err := c.do(ctx, request{method: "DELETE", path: endpoint("styles", name)}, nil)
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("delete style %q: %w", name, err)
	}
	return nil
}

// UpdateDefaults sets default visual property values of a style.
func (c *Client) UpdateDefaults(ctx context.Context, name string, defaults []VisualProperty) error {
	req := request{method: "PUT", path: endpoint("styles", name, "defaults"), body: defaults}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("style %q defaults: %w", name, err)
	}
	return nil
}

// SetDependencies toggles visual property dependencies of a style.
func (c *Client) SetDependencies(ctx context.Context, name string, deps []Dependency) error {
	req := request{method: "PUT", path: endpoint("styles", name, "dependencies"), body: deps}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("style %q dependencies: %w", name, err)
	}
	return nil
}

// SetMapping replaces the mapping of m.VisualProperty in a style.
func (c *Client) SetMapping(ctx context.Context, name string, m Mapping) error {
	del := request{method: "DELETE", path: endpoint("styles", name, "mappings", m.VisualProperty)}
	if err := c.do(ctx, del, nil); err != nil && !IsNotFound(err) {
		return fmt.Errorf("style %q: remove %s mapping: %w", name, m.VisualProperty, err)
	}
	req := request{method: "POST", path: endpoint("styles", name, "mappings"), body: []Mapping{m}}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("style %q: %s mapping: %w", name, m.VisualProperty, err)
	}
	return nil
}

// ApplyStyle applies a style to a network.
func (c *Client) ApplyStyle(ctx context.Context, name string, network int64) error {
	req := request{method: "GET", path: endpoint("apply", "styles", name, itoa(network))}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("apply style %q: %w", name, err)
	}
	return nil
}

// VisualPropertyValues lists the allowed values of a discrete visual
// property such as NODE_SHAPE.
func (c *Client) VisualPropertyValues(ctx context.Context, property string) ([]string, error) {
	var resp struct {
		Values []string `json:"values"`
	}
	req := request{method: "GET", path: endpoint("styles", "visualproperties", property, "values")}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("%s values: %w", property, err)
	}
	return resp.Values, nil
}

// NodeShapes returns the supported node shapes in lower case. Results are
// cached per base URL.
func (c *Client) NodeShapes(ctx context.Context) ([]string, error) {
	key := cache.ShapesKey(c.baseURL)
	hooks := observability.Cache()

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var shapes []string
		if json.Unmarshal(data, &shapes) == nil && len(shapes) > 0 {
			hooks.OnCacheHit(ctx, "shapes")
			return shapes, nil
		}
	}
	hooks.OnCacheMiss(ctx, "shapes")

	values, err := c.VisualPropertyValues(ctx, NodeShape)
	if err != nil {
		return nil, err
	}
	shapes := make([]string, len(values))
	for i, v := range values {
		shapes[i] = strings.ToLower(v)
	}

	if data, err := json.Marshal(shapes); err == nil {
		if err := c.cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			c.logger.Debug("cache shapes", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "shapes", len(data))
		}
	}
	return shapes, nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

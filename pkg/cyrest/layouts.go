package cyrest

import (
	"context"
	"encoding/json"
	"fmt"
)

// AttributesLayout is the layout that groups nodes by a column value.
const AttributesLayout = "attributes-layout"

// SetLayoutParameters updates the parameters of a layout algorithm.
func (c *Client) SetLayoutParameters(ctx context.Context, layout string, params []LayoutParameter) error {
	req := request{method: "PUT", path: endpoint("apply", "layouts", layout, "parameters"), body: params}
	if err := c.do(ctx, req, nil); err != nil {
		return fmt.Errorf("%s parameters: %w", layout, err)
	}
	return nil
}

// Command runs a Cytoscape command such as "layout/attributes-layout" and
// returns its data. Errors listed in the response become a *CommandError.
func (c *Client) Command(ctx context.Context, command string, args map[string]any) (json.RawMessage, error) {
	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	req := request{method: "POST", path: "/commands/" + command, body: args}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("command %q: %w", command, err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return nil, &CommandError{Command: command, Messages: msgs}
	}
	return resp.Data, nil
}

// LayoutByAttribute runs the attributes layout on a network grouped by
// column.
func (c *Client) LayoutByAttribute(ctx context.Context, network int64, column string) error {
	_, err := c.Command(ctx, "layout/"+AttributesLayout, map[string]any{
		"network":       fmt.Sprintf("SUID:%d", network),
		"nodeAttribute": column,
	})
	return err
}

// Fit zooms a network view to its content.
func (c *Client) Fit(ctx context.Context, network int64) error {
	return c.do(ctx, request{method: "GET", path: endpoint("apply", "fit", itoa(network))}, nil)
}

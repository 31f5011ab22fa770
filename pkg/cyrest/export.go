package cyrest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Image formats accepted by the view export endpoint.
var ImageFormats = []string{"png", "svg", "pdf"}

// ImageMediaTypes maps each image format to the media type its view
// export endpoint produces.
var ImageMediaTypes = map[string]string{
	"png": "image/png",
	"svg": "image/svg+xml",
	"pdf": "application/pdf",
}

// SaveSession writes the current session to file on the Cytoscape host.
// A ".cys" extension is appended when missing.
func (c *Client) SaveSession(ctx context.Context, file string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(file), ".cys") {
		file += ".cys"
	}
	req := request{method: "POST", path: "/session", query: url.Values{"file": {file}}}
	if err := c.do(ctx, req, nil); err != nil {
		return "", fmt.Errorf("save session %s: %w", file, err)
	}
	return file, nil
}

// Image renders a network view and returns the encoded bytes.
func (c *Client) Image(ctx context.Context, network, view int64, format string) ([]byte, error) {
	format = strings.ToLower(format)
	mediaType, supported := ImageMediaTypes[format]
	if !supported {
		return nil, fmt.Errorf("image format %q: want one of %s", format, strings.Join(ImageFormats, ", "))
	}
	path := endpoint("networks", itoa(network), "views", itoa(view)+"."+format)
	req := request{method: "GET", path: path, accept: mediaType}
	data, err := c.doRaw(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	return data, nil
}

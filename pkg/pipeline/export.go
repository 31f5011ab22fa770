package pipeline

import (
	"context"

	"github.com/jorgebotas/gocyto/pkg/render"
)

// ExportSession saves the Cytoscape session. ".cys" is appended when
// missing; the file is written by Cytoscape on its own host.
func (r *Runner) ExportSession(ctx context.Context, path string) (string, error) {
	return r.API.SaveSession(ctx, path)
}

// ExportImage renders the first view of a network and writes it locally.
// ".<format>" is appended when missing.
func (r *Runner) ExportImage(ctx context.Context, suid int64, path string, format render.Format, overwrite bool) (string, error) {
	if err := ValidateImageFormat(format); err != nil {
		return "", err
	}
	path = render.WithExtension(path, format)

	view, err := r.API.FirstView(ctx, suid)
	if err != nil {
		return "", err
	}
	data, err := r.API.Image(ctx, suid, view, string(format))
	if err != nil {
		return "", err
	}
	if err := render.WriteFile(path, data, overwrite); err != nil {
		return "", err
	}
	return path, nil
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/history"
	"github.com/jorgebotas/gocyto/pkg/observability"
	"github.com/jorgebotas/gocyto/pkg/style"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// API is the part of the CyREST client the pipeline needs.
type API interface {
	style.API

	BaseURL() string
	CreateNetwork(ctx context.Context, title, collection string, data cyrest.NetworkData) (int64, error)
	FirstView(ctx context.Context, network int64) (int64, error)
	NodePositions(ctx context.Context, network, view int64) (map[string]cyrest.Position, error)
	SetLayoutParameters(ctx context.Context, layout string, params []cyrest.LayoutParameter) error
	LayoutByAttribute(ctx context.Context, network int64, column string) error
	Fit(ctx context.Context, network int64) error
	AddBoundedText(ctx context.Context, a cyrest.Annotation) error
	SaveSession(ctx context.Context, file string) (string, error)
	Image(ctx context.Context, network, view int64, format string) ([]byte, error)
}

var _ API = (*cyrest.Client)(nil)

// Runner executes pipeline stages against one CyREST instance.
//
// The Runner holds no per-run state: results are returned, not stored, so
// the same Runner can serve several commands in one process.
type Runner struct {
	API     API
	History *history.Store // optional
	Logger  *log.Logger
}

// NewRunner creates a runner. store may be nil to disable run history.
func NewRunner(api API, store *history.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		API:     api,
		History: store,
		Logger:  logger,
	}
}

// stage runs fn between observability hooks and returns its duration.
func stage(ctx context.Context, name string, fn func() error) (time.Duration, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	hooks.OnStageComplete(ctx, name, d, err)
	return d, err
}

// Execute runs the complete load → create → style → layout → annotate →
// export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.RunID == "" {
		opts.RunID = history.NewRunID()
	}
	logger := r.Logger.With("run", opts.RunID)
	if opts.Logger != nil {
		logger = opts.Logger
	}

	result := &Result{RunID: opts.RunID, StyleName: StyleName(opts.Name)}
	started := time.Now()
	err := r.execute(ctx, opts, logger, result)
	r.record(ctx, opts, result, started, err)
	return result, err
}

func (r *Runner) execute(ctx context.Context, opts Options, logger *log.Logger, result *Result) error {
	var err error

	// Stage 1: Load
	result.Stats.LoadTime, err = stage(ctx, StageLoad, func() error {
		result.Network, result.Report, err = r.Load(opts.Load)
		return err
	})
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	net := result.Network
	result.Stats.NodeCount = net.Nodes.Len()
	result.Stats.EdgeCount = len(net.Edges)
	observability.Pipeline().OnLoad(ctx, result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.LoadTime, nil)

	logger.Info("loaded tables",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"dropped", len(result.Report.DroppedNodes),
		"pruned", result.Report.PrunedEdges,
		"duration", result.Stats.LoadTime)
	if n := len(result.Report.DroppedNodes); n > 0 {
		logger.Warn("nodes without a cluster were dropped", "count", n, "first", result.Report.DroppedNodes[0])
	}

	// Stage 2: Create
	result.Stats.CreateTime, err = stage(ctx, StageCreate, func() error {
		result.SUID, err = r.Create(ctx, opts.Name, opts.Collection, net)
		return err
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	logger.Info("created network", "name", opts.Name, "suid", result.SUID, "duration", result.Stats.CreateTime)

	// Stage 3: Style
	var styler *style.Styler
	result.Stats.StyleTime, err = stage(ctx, StageStyle, func() error {
		styler, result.Colors, err = r.Style(ctx, result.SUID, net, opts, logger)
		return err
	})
	if styler != nil {
		result.Warnings = styler.Warnings()
	}
	if err != nil {
		return fmt.Errorf("style: %w", err)
	}
	logger.Info("styled network", "style", result.StyleName, "warnings", len(result.Warnings), "duration", result.Stats.StyleTime)

	// Stage 4 and 5: Layout and Annotate
	if net.HasClusters() && !opts.NoLayout {
		result.Stats.LayoutTime, err = stage(ctx, StageLayout, func() error {
			return r.Layout(ctx, result.SUID, table.ClusterColumn, opts.Layout)
		})
		if err != nil {
			return fmt.Errorf("layout: %w", err)
		}
		logger.Info("applied layout", "column", table.ClusterColumn, "duration", result.Stats.LayoutTime)
	} else if !net.HasClusters() {
		logger.Debug("no cluster column, skipping layout")
	}

	if opts.Annotate {
		if !net.HasClusters() {
			logger.Warn("annotation needs a cluster file, skipping")
		} else {
			result.Stats.AnnotateTime, err = stage(ctx, StageAnnotate, func() error {
				result.Labels, err = r.Annotate(ctx, result.SUID, net.Nodes, table.ClusterColumn, opts.Labels)
				return err
			})
			if err != nil {
				return fmt.Errorf("annotate: %w", err)
			}
			logger.Info("annotated clusters", "labels", len(result.Labels), "duration", result.Stats.AnnotateTime)
		}
	}

	// Stage 6: Export
	if opts.SessionPath == "" && opts.ImagePath == "" {
		return nil
	}
	result.Stats.ExportTime, err = stage(ctx, StageExport, func() error {
		if opts.ImagePath != "" {
			if result.Image, err = r.ExportImage(ctx, result.SUID, opts.ImagePath, opts.ImageFormat, opts.Overwrite); err != nil {
				return err
			}
		}
		if opts.SessionPath != "" {
			if result.Session, err = r.ExportSession(ctx, opts.SessionPath); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("exported", "session", result.Session, "image", result.Image, "duration", result.Stats.ExportTime)
	return nil
}

// record writes the run to the history store. Failures are logged only.
func (r *Runner) record(ctx context.Context, opts Options, result *Result, started time.Time, runErr error) {
	if r.History == nil {
		return
	}
	run := &history.Run{
		ID:        result.RunID,
		Network:   opts.Name,
		SUID:      result.SUID,
		BaseURL:   r.API.BaseURL(),
		EdgesPath: opts.Load.EdgesPath,
		Nodes:     result.Stats.NodeCount,
		Edges:     result.Stats.EdgeCount,
		Style:     result.StyleName,
		Session:   result.Session,
		Image:     result.Image,
		StartedAt: started,
		Duration:  time.Since(started),
		Status:    history.StatusOK,
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}
	if err := r.History.Record(ctx, run); err != nil {
		r.Logger.Warn("could not record run", "error", err)
	}
}

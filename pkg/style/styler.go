package style

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/jorgebotas/gocyto/pkg/cyrest"
	"github.com/jorgebotas/gocyto/pkg/errors"
	"github.com/jorgebotas/gocyto/pkg/table"
)

// API is the part of the CyREST client a Styler needs.
type API interface {
	DeleteStyle(ctx context.Context, name string) error
	CreateStyle(ctx context.Context, name string, defaults []cyrest.VisualProperty, mappings []cyrest.Mapping) error
	UpdateDefaults(ctx context.Context, name string, defaults []cyrest.VisualProperty) error
	SetDependencies(ctx context.Context, name string, deps []cyrest.Dependency) error
	SetMapping(ctx context.Context, name string, m cyrest.Mapping) error
	ApplyStyle(ctx context.Context, name string, network int64) error
	NodeShapes(ctx context.Context) ([]string, error)
	NodeColumns(ctx context.Context, network int64) ([]cyrest.ColumnInfo, error)
	NodeColumnValues(ctx context.Context, network int64, column string) ([]any, error)
}

var _ API = (*cyrest.Client)(nil)

// WarningSink receives soft-violation messages.
type WarningSink func(msg string)

// Styler mutates one named visual style.
type Styler struct {
	api     API
	name    string
	config  Config
	network int64
	nodes   *table.NodeTable
	logger  *log.Logger
	sink    WarningSink

	mu       sync.Mutex
	warnings []string
	types    map[string]string
}

// Option configures a Styler.
type Option func(*Styler)

// WithConfig replaces [DefaultConfig] as the initial style content.
func WithConfig(c Config) Option {
	return func(s *Styler) { s.config = c.clone() }
}

// WithNetwork names the network whose node table backs automatic mappings
// and column type lookups.
func WithNetwork(suid int64) Option {
	return func(s *Styler) { s.network = suid }
}

// WithNodes supplies the local node table for column type lookups, saving
// a round trip.
func WithNodes(nodes *table.NodeTable) Option {
	return func(s *Styler) { s.nodes = nodes }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Styler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWarningSink sets where warnings are reported as they happen.
func WithWarningSink(sink WarningSink) Option {
	return func(s *Styler) { s.sink = sink }
}

// New creates the style name on the server, replacing any style of the
// same name, and disables node size locking and custom graphics size sync
// so chart sizes can be set independently.
func New(ctx context.Context, api API, name string, opts ...Option) (*Styler, error) {
	if err := errors.ValidateNetworkName(name); err != nil {
		return nil, err
	}
	s := &Styler{
		api:    api,
		name:   name,
		config: DefaultConfig(),
		logger: log.New(io.Discard),
		types:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := api.DeleteStyle(ctx, name); err != nil {
		return nil, err
	}
	if err := api.CreateStyle(ctx, name, s.config.Defaults, s.config.Mappings); err != nil {
		return nil, err
	}
	deps := []cyrest.Dependency{
		{VisualPropertyDependency: cyrest.DependencyNodeSizeLocked, Enabled: false},
		{VisualPropertyDependency: cyrest.DependencyCustomGraphicsSync, Enabled: false},
	}
	if err := api.SetDependencies(ctx, name, deps); err != nil {
		return nil, err
	}
	s.logger.Debug("created style", "style", name, "defaults", len(s.config.Defaults), "mappings", len(s.config.Mappings))
	return s, nil
}

// Attach returns a Styler for an existing style without recreating it.
func Attach(api API, name string, opts ...Option) (*Styler, error) {
	if err := errors.ValidateNetworkName(name); err != nil {
		return nil, err
	}
	s := &Styler{
		api:    api,
		name:   name,
		config: DefaultConfig(),
		logger: log.New(io.Discard),
		types:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the style name.
func (s *Styler) Name() string { return s.name }

// Config returns the configuration the style was created with.
func (s *Styler) Config() Config { return s.config.clone() }

// Apply assigns the style to network.
func (s *Styler) Apply(ctx context.Context, network int64) error {
	if err := s.api.ApplyStyle(ctx, s.name, network); err != nil {
		return err
	}
	if s.network == 0 {
		s.network = network
	}
	return nil
}

// Warnings returns every warning reported so far.
func (s *Styler) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.warnings...)
}

func (s *Styler) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.mu.Lock()
	s.warnings = append(s.warnings, msg)
	s.mu.Unlock()
	s.logger.Debug("style warning", "style", s.name, "msg", msg)
	if s.sink != nil {
		s.sink(msg)
	}
}

// columnType returns the Cytoscape type of a node column, or "" when the
// column is unknown.
func (s *Styler) columnType(ctx context.Context, column string) (string, error) {
	if s.nodes != nil {
		if column == table.IDColumn {
			return string(table.String), nil
		}
		if c, ok := s.nodes.Column(column); ok {
			return string(c.Type), nil
		}
	}
	if s.network == 0 {
		return "", nil
	}

	s.mu.Lock()
	t, cached := s.types[column]
	s.mu.Unlock()
	if cached {
		return t, nil
	}
	cols, err := s.api.NodeColumns(ctx, s.network)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cols {
		s.types[c.Name] = c.Type
	}
	return s.types[column], nil
}

// requireNetwork fails when an operation needs server-side column values.
func (s *Styler) requireNetwork(op string) error {
	if s.network == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: automatic mapping needs a network", op)
	}
	return nil
}

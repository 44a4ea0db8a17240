package swerve

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/swerve/internal/logging"
	"github.com/aretw0/swerve/pkg/adapters/file"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/observability"
)

// Model is a named vehicle model graph loaded from a description.
// The embedded graph is safe for concurrent use.
type Model struct {
	*model.Graph
	Name string
}

type config struct {
	logger    *slog.Logger
	metrics   *observability.Metrics
	graphOpts []model.Option
}

// Option configures how a Model is opened.
type Option func(*config)

// WithLogger sets the structured logger for the graph and its change bus.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records graph and bus activity.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithGraphOptions passes extra options to the model graph. They are
// applied after the description's own settings.
func WithGraphOptions(opts ...model.Option) Option {
	return func(c *config) {
		c.graphOpts = append(c.graphOpts, opts...)
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) modelOptions() []model.Option {
	return append([]model.Option{
		model.WithLogger(c.logger),
		model.WithMetrics(c.metrics),
	}, c.graphOpts...)
}

// Open loads a YAML or JSON description file and builds its model graph.
func Open(path string, opts ...Option) (*Model, error) {
	desc, err := file.Load(path)
	if err != nil {
		return nil, err
	}
	return build(desc, newConfig(opts))
}

// Parse builds a model from an in-memory description document.
func Parse(name string, data []byte, format file.Format, opts ...Option) (*Model, error) {
	desc, err := file.Parse(data, format)
	if err != nil {
		return nil, err
	}
	if desc.Name == "" {
		desc.Name = name
	}
	return build(desc, newConfig(opts))
}

// New returns an empty model to be assembled with AddNode.
func New(name string, opts ...Option) *Model {
	c := newConfig(opts)
	return &Model{Graph: model.New(c.modelOptions()...), Name: name}
}

func build(desc *file.Description, c *config) (*Model, error) {
	g, err := desc.Build(c.modelOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build model %q: %w", desc.Name, err)
	}
	c.logger.Info("model loaded", "name", desc.Name, "frames", g.Len())
	return &Model{Graph: g, Name: desc.Name}, nil
}

// NameOf derives a model name from a description path.
func NameOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

package builder

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tabsolver/tabsolver/pkg/logger"
	"github.com/tabsolver/tabsolver/pkg/metrics"
	"github.com/tabsolver/tabsolver/pkg/solver"
)

// Session drives one solver and owns the interactive/batched visibility
// flag. The zero visibility state is batched.
type Session struct {
	mu          sync.Mutex
	interactive bool

	solver    solver.Solver
	log       *zap.Logger
	collector *metrics.Collector
	tracer    trace.Tracer
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithCollector sets the metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Session) { s.collector = c }
}

// WithTracer sets the tracer used around bulk solver calls.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// WithInteractive sets the initial visibility mode.
func WithInteractive(on bool) Option {
	return func(s *Session) { s.interactive = on }
}

// NewSession creates a session around a solver.
func NewSession(sv solver.Solver, opts ...Option) *Session {
	s := &Session{
		solver:    sv,
		log:       logger.Get(),
		collector: metrics.Default(),
		tracer:    otel.Tracer("tabsolver/builder"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solver returns the wrapped solver.
func (s *Session) Solver() solver.Solver { return s.solver }

// SetInteractive switches between immediate and batched visibility.
// In interactive mode every creation call is followed by a model
// synchronization, so names and attributes can be read back right away.
func (s *Session) SetInteractive(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactive = on
}

// IsInteractive reports the current visibility mode.
func (s *Session) IsInteractive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interactive
}

// Sync explicitly synchronizes the model, making all pending creations
// visible to attribute reads.
func (s *Session) Sync(ctx context.Context) error {
	if err := s.solver.Update(ctx); err != nil {
		return err
	}
	s.collector.RecordSync()
	return nil
}

// afterCreate applies the visibility policy after a bulk creation call.
// The flag is read at call time; nothing is cached across calls.
func (s *Session) afterCreate(ctx context.Context) error {
	if !s.IsInteractive() {
		return nil
	}
	return s.Sync(ctx)
}

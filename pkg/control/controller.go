package control

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/index"
	"github.com/matzehuels/afgraph/pkg/observability"
	"github.com/matzehuels/afgraph/pkg/session"
)

// problemSuffix follows the raw entry text in the problem label.
const problemSuffix = " not feasible"

// Controller drives one session.
type Controller struct {
	mu     sync.Mutex
	sess   *session.Session
	logger *log.Logger
	state  State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller for sess.
func New(sess *session.Session, opts ...Option) *Controller {
	c := &Controller{sess: sess, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start fills the session on connect: the entry shows the engine's k, the
// index rows are built and the graph is pulled for the first draw.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k, err := c.sess.Engine.K(ctx)
	if err != nil {
		return fmt.Errorf("query k: %w", err)
	}
	c.sess.K = k
	c.sess.Entry = strconv.Itoa(k)
	if err := c.refreshTable(ctx); err != nil {
		return err
	}
	if err := c.redrawGraph(ctx); err != nil {
		return err
	}
	c.sess.State = c.state.String()
	return nil
}

// State returns the current state. Outside a dispatch it is always Idle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the session the controller drives.
func (c *Controller) Session() *session.Session { return c.sess }

// View returns a copy of the session mirror.
func (c *Controller) View() session.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.View()
}

// Graph returns the last pulled graph. Graphs are replaced on redraw, never
// modified, so the result may be drawn without holding the lock.
func (c *Controller) Graph() *graph.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Graph
}

// Dispatch runs cmd. CommitK never fails; its result is in the Outcome.
// The refresh commands return the engine error, if any.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	switch cmd := cmd.(type) {
	case CommitK:
		out = c.ProposeK(ctx, cmd.Raw)
	case RequestTableRefresh:
		c.mu.Lock()
		err = c.refreshTable(ctx)
		out = Outcome{State: c.state, K: c.sess.K}
		c.mu.Unlock()
	case RequestGraphRedraw:
		c.mu.Lock()
		err = c.redrawGraph(ctx)
		out = Outcome{State: c.state, K: c.sess.K}
		c.mu.Unlock()
	default:
		err = errors.New(errors.ErrCodeUnsupported, "unknown command %T", cmd)
	}
	if cmd != nil {
		observability.Control().OnCommand(ctx, cmd.Name(), err)
	}
	return out, err
}

// ProposeK submits raw as the new k. See the package documentation for the
// state machine.
func (c *Controller) ProposeK(ctx context.Context, raw string) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Validating
	out := c.propose(ctx, raw)
	c.sess.State = out.State.String()
	c.state = Idle

	observability.Control().OnProposal(ctx, out.State.String(), string(out.Reason))
	return out
}

func (c *Controller) propose(ctx context.Context, raw string) Outcome {
	v, ok, err := parseK(raw)
	if !ok {
		c.logger.Debug("rejected k", "raw", raw, "err", &InputValidationError{Raw: raw})
		return c.reject(ctx, raw, ReasonInfeasible, nil)
	}
	if err != nil {
		c.logger.Warn("engine rejected k", "raw", raw, "err", err)
		return c.reject(ctx, raw, ReasonEngine, &EngineCommitError{Raw: raw, Err: err})
	}

	current := c.currentK(ctx)
	if v == current {
		c.logger.Debug("k unchanged", "k", v)
		// The mirror is stale when another session moved k.
		if c.sess.K != current {
			if err := c.refreshTable(ctx); err != nil {
				c.logger.Error("refresh index table", "err", err)
			}
		}
		c.resetEntry(current)
		return Outcome{State: Rejected, Reason: ReasonUnchanged, K: current}
	}

	if err := c.sess.Engine.SetK(ctx, v); err != nil {
		cerr := &EngineCommitError{Raw: raw, K: v, Err: err}
		c.logger.Warn("engine rejected k", "k", v, "err", err)
		return c.reject(ctx, raw, ReasonEngine, cerr)
	}

	k := c.currentK(ctx)
	c.resetEntry(k)
	if err := c.refreshTable(ctx); err != nil {
		c.logger.Error("refresh index table", "err", err)
	}
	c.sess.Problem = ""
	c.logger.Info("committed k", "k", k)
	return Outcome{State: Committed, K: k}
}

func (c *Controller) reject(ctx context.Context, raw string, reason Reason, err error) Outcome {
	k := c.currentK(ctx)
	c.resetEntry(k)
	c.sess.Problem = raw + problemSuffix
	return Outcome{State: Rejected, Reason: reason, K: k, Err: err}
}

// currentK asks the engine for k, falling back to the last confirmed value.
func (c *Controller) currentK(ctx context.Context) int {
	k, err := c.sess.Engine.K(ctx)
	if err != nil {
		c.logger.Warn("query k", "err", err)
		return c.sess.K
	}
	return k
}

func (c *Controller) resetEntry(k int) {
	c.sess.K = k
	c.sess.Entry = strconv.Itoa(k)
}

func (c *Controller) refreshTable(ctx context.Context) error {
	t, err := c.sess.Engine.IndexTable(ctx)
	if err != nil {
		return fmt.Errorf("pull index table: %w", err)
	}
	c.sess.Rows = index.Rows(t)
	return nil
}

func (c *Controller) redrawGraph(ctx context.Context) error {
	g, err := c.sess.Engine.DirectedGraph(ctx)
	if err != nil {
		return fmt.Errorf("pull graph: %w", err)
	}
	c.sess.Graph = g
	return nil
}

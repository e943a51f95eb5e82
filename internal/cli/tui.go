package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/pkg/control"
	"github.com/matzehuels/afgraph/pkg/index"
	"github.com/matzehuels/afgraph/pkg/render"
	"github.com/matzehuels/afgraph/pkg/render/sink"
	"github.com/matzehuels/afgraph/pkg/session"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

const maxArcLines = 30

type tuiOpts struct {
	layout  string
	output  string
	logFile string
	watch   bool
}

// tuiCommand creates the interactive viewer.
func (c *CLI) tuiCommand() *cobra.Command {
	opts := tuiOpts{}
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore the sequence graph in the terminal",
		Long: `Open an interactive viewer with a k entry, the index table and the arcs
of the sequence graph. Enter commits k, ctrl+r rebuilds the index table and
ctrl+g redraws the graph.`,
		Example: `  afgraph tui -l reads.fa
  afgraph tui -l reads.fa --output graph.svg --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.layout, "layout", "", "node layout (eades, neato, fdp, circle)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write an SVG of the graph on every redraw")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the viewer runs")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload when the FASTA file changes")
	return cmd
}

func (c *CLI) runTUI(ctx context.Context, opts tuiOpts) error {
	// The viewer owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, c.Logger.GetLevel())
	ctx = withLogger(ctx, logger)

	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	rc := conn.cfg.Render
	override(&rc.Layout, opts.layout)
	renderer, err := newRenderer(rc)
	if err != nil {
		return err
	}

	ctrl := control.New(session.New(conn.engine), control.WithLogger(logger))
	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	m := newTUIModel(ctx, ctrl, renderer, conn.store.Scope())
	m.output = opts.output
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.watch {
		if path := watchPath(conn.store); path != "" {
			err := watchFile(ctx, path, func(ctx context.Context) error {
				if err := conn.engine.Reload(ctx); err != nil {
					return err
				}
				p.Send(reloadedMsg{})
				return nil
			})
			if err != nil {
				return err
			}
		} else {
			logger.Warn("--watch only applies to FASTA files")
		}
	}

	_, err = p.Run()
	return err
}

// =============================================================================
// Messages
// =============================================================================

type outcomeMsg struct{ out control.Outcome }

type commandMsg struct {
	command string
	err     error
}

type drawnMsg struct {
	arcs  []render.Arc
	stats render.Stats
	err   error
}

type reloadedMsg struct{}

// =============================================================================
// tuiModel
// =============================================================================

// tuiModel is the bubbletea model of the viewer. It mirrors the session
// view after every command and never edits the session itself.
type tuiModel struct {
	ctx      context.Context
	ctrl     *control.Controller
	renderer *render.Renderer
	scope    string
	output   string

	input  textinput.Model
	view   session.View
	arcs   []render.Arc
	stats  render.Stats
	status string
	err    error
	width  int
}

func newTUIModel(ctx context.Context, ctrl *control.Controller, r *render.Renderer, scope string) tuiModel {
	ti := textinput.New()
	ti.Prompt = "k: "
	ti.CharLimit = 12
	ti.Width = 12
	ti.Focus()

	m := tuiModel{
		ctx:      ctx,
		ctrl:     ctrl,
		renderer: r,
		scope:    scope,
		input:    ti,
	}
	m.sync()
	return m
}

// sync copies the session view into the model.
func (m *tuiModel) sync() {
	m.view = m.ctrl.View()
	m.input.SetValue(m.view.Entry)
	m.input.CursorEnd()
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.draw())
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m, m.propose(m.input.Value())
		case "ctrl+r":
			return m, m.dispatch(control.RequestTableRefresh{})
		case "ctrl+g":
			return m, m.dispatch(control.RequestGraphRedraw{})
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case outcomeMsg:
		m.sync()
		m.err = nil
		m.status = describeOutcome(msg.out)
		return m, nil
	case commandMsg:
		m.sync()
		m.err = msg.err
		if msg.err == nil && msg.command == (control.RequestGraphRedraw{}).Name() {
			return m, m.draw()
		}
		return m, nil
	case drawnMsg:
		m.err = msg.err
		if msg.err == nil {
			m.arcs, m.stats = msg.arcs, msg.stats
		}
		return m, nil
	case reloadedMsg:
		m.status = "dataset reloaded"
		return m, tea.Sequence(
			m.dispatch(control.RequestTableRefresh{}),
			m.dispatch(control.RequestGraphRedraw{}),
		)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) propose(raw string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return outcomeMsg{out: ctrl.ProposeK(ctx, raw)}
	}
}

func (m tuiModel) dispatch(cmd control.Command) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		_, err := ctrl.Dispatch(ctx, cmd)
		return commandMsg{command: cmd.Name(), err: err}
	}
}

// draw renders the last pulled graph onto a recorder, and into the SVG
// output file when one is set.
func (m tuiModel) draw() tea.Cmd {
	ctx, ctrl, r, output := m.ctx, m.ctrl, m.renderer, m.output
	return func() tea.Msg {
		g := ctrl.Graph()
		if g == nil {
			return drawnMsg{}
		}
		rec := &render.Recorder{}
		stats, err := r.Render(ctx, g, rec)
		if err != nil {
			return drawnMsg{err: err}
		}
		if output != "" {
			data, err := sink.Encode(ctx, r, g, sink.FormatSVG)
			if err == nil {
				err = os.WriteFile(output, data, 0o644)
			}
			if err != nil {
				return drawnMsg{err: err}
			}
		}
		return drawnMsg{arcs: rec.Arcs, stats: stats}
	}
}

func describeOutcome(out control.Outcome) string {
	switch {
	case out.State == control.Committed:
		return fmt.Sprintf("k = %d committed", out.K)
	case out.Reason == control.ReasonUnchanged:
		return fmt.Sprintf("k = %d unchanged", out.K)
	default:
		return "rejected: " + string(out.Reason)
	}
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.scope))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	if m.view.Problem != "" {
		b.WriteString("  ")
		b.WriteString(StyleProblem.Render(m.view.Problem))
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(listDimStyle.Render(m.status))
	}
	b.WriteString("\n")

	graphPanel := panelStyle.Render(m.graphPanel())
	indexPanel := panelStyle.Render(panelTitleStyle.Render("Index") + "\n" + index.RenderTable(m.view.Rows))
	if m.width > 0 && lipgloss.Width(graphPanel)+lipgloss.Width(indexPanel) > m.width {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, graphPanel, indexPanel))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, graphPanel, indexPanel))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	}
	b.WriteString(listDimStyle.Render("⏎ set k  ctrl+r show index  ctrl+g redraw graph  esc quit"))
	return b.String()
}

func (m tuiModel) graphPanel() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Graph"))
	b.WriteString("\n")
	b.WriteString(formatStats(m.view.Nodes, m.view.Edges, m.stats.Arcs))
	b.WriteString("\n")
	if m.output != "" {
		b.WriteString(listDimStyle.Render(iconArrow + " " + m.output))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.arcs) == 0 {
		b.WriteString(listDimStyle.Render("no arcs"))
		return b.String()
	}
	for i, a := range m.arcs {
		if i == maxArcLines {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("… %d more", len(m.arcs)-i)))
			break
		}
		b.WriteString(formatArc(a))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatArc(a render.Arc) string {
	target := a.Target
	if a.Loop {
		target = "↺"
	}
	return fmt.Sprintf("%s %s %s  %s %s",
		a.Source,
		labelStyle(a.Label).Render(iconArc),
		target,
		labelStyle(a.Label).Render(a.Label),
		listDimStyle.Render(fmt.Sprintf("%+.1f", a.Curvature)),
	)
}

var _ tea.Model = tuiModel{}

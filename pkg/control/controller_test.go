package control

import (
	"context"
	stderrors "errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/graph"
	"github.com/matzehuels/afgraph/pkg/index"
	"github.com/matzehuels/afgraph/pkg/session"
)

// fakeEngine records calls and serves a table that depends on k.
type fakeEngine struct {
	mu        sync.Mutex
	k         int
	setKCalls []int
	setKErr   error
	kErr      error
	tableErr  error
	pulls     int
	graphs    int
}

func (e *fakeEngine) DirectedGraph(context.Context) (*graph.Graph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graphs++
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: "a"})
	_ = g.AddNode(graph.Node{ID: "b"})
	_ = g.SetEdge("a", "b", "red+green")
	return g, nil
}

func (e *fakeEngine) IndexTable(context.Context) (index.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tableErr != nil {
		return nil, e.tableErr
	}
	e.pulls++
	key := strings.Repeat("A", e.k)
	return index.Table{key: {}, "k" + key: {"x": e.k}}, nil
}

func (e *fakeEngine) K(context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.k, e.kErr
}

func (e *fakeEngine) SetK(_ context.Context, k int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setKCalls = append(e.setKCalls, k)
	if e.setKErr != nil {
		return e.setKErr
	}
	e.k = k
	return nil
}

func started(t *testing.T, eng *fakeEngine) (*Controller, *session.Session) {
	t.Helper()
	sess := session.New(eng)
	c := New(sess)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return c, sess
}

func TestFeasible(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"0", false},
		{"1", false},
		{"-5", false},
		{"", false},
		{"3.5", false},
		{" 3", false},
		{"+3", false},
		{"٣", false},
		{"2", true},
		{"99999999999999999999999", true},
		{"10", true},
		{"007", true},
	}
	for _, tt := range tests {
		if got := Feasible(tt.raw); got != tt.want {
			t.Errorf("Feasible(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestStart(t *testing.T) {
	eng := &fakeEngine{k: 4}
	c, sess := started(t, eng)
	if sess.Entry != "4" || sess.K != 4 {
		t.Errorf("entry = %q k = %d, want 4", sess.Entry, sess.K)
	}
	if len(sess.Rows) != 2 || sess.Graph == nil {
		t.Errorf("Start did not pull table and graph: rows=%v graph=%v", sess.Rows, sess.Graph)
	}
	if got := c.State(); got != Idle {
		t.Errorf("State() = %v, want idle", got)
	}
}

func TestProposeKUnchanged(t *testing.T) {
	eng := &fakeEngine{k: 4}
	c, sess := started(t, eng)
	sess.Problem = "x not feasible"

	out := c.ProposeK(context.Background(), "4")
	if out.State != Rejected || out.Reason != ReasonUnchanged {
		t.Errorf("ProposeK(4) = %+v, want rejected/unchanged", out)
	}
	if len(eng.setKCalls) != 0 {
		t.Errorf("SetK called %v, want no calls", eng.setKCalls)
	}
	if sess.Entry != "4" {
		t.Errorf("entry = %q, want 4", sess.Entry)
	}
	if sess.Problem != "x not feasible" {
		t.Errorf("problem = %q, want the prior message kept", sess.Problem)
	}
}

func TestProposeKCommit(t *testing.T) {
	eng := &fakeEngine{k: 4}
	c, sess := started(t, eng)
	sess.Problem = "abc not feasible"
	graphsBefore, pullsBefore := eng.graphs, eng.pulls

	out := c.ProposeK(context.Background(), "6")
	if out.State != Committed || out.K != 6 || out.Err != nil {
		t.Errorf("ProposeK(6) = %+v, want committed k=6", out)
	}
	if len(eng.setKCalls) != 1 || eng.setKCalls[0] != 6 {
		t.Errorf("SetK calls = %v, want [6]", eng.setKCalls)
	}
	if sess.Entry != "6" {
		t.Errorf("entry = %q, want 6", sess.Entry)
	}
	if sess.Problem != "" {
		t.Errorf("problem = %q, want cleared", sess.Problem)
	}
	if eng.pulls != pullsBefore+1 {
		t.Errorf("index pulls = %d, want %d", eng.pulls, pullsBefore+1)
	}
	want := index.Rows(index.Table{"AAAAAA": {}, "kAAAAAA": {"x": 6}})
	if len(sess.Rows) != len(want) || sess.Rows[0] != want[0] || sess.Rows[1] != want[1] {
		t.Errorf("rows = %v, want %v", sess.Rows, want)
	}
	if eng.graphs != graphsBefore {
		t.Error("graph was redrawn on a k change")
	}
	if c.State() != Idle || sess.State != "committed" {
		t.Errorf("state = %v / %q, want idle / committed", c.State(), sess.State)
	}
}

func TestProposeKInfeasible(t *testing.T) {
	for _, raw := range []string{"abc", "1", "", "-5", "3.5"} {
		t.Run(raw, func(t *testing.T) {
			eng := &fakeEngine{k: 4}
			c, sess := started(t, eng)

			out := c.ProposeK(context.Background(), raw)
			if out.State != Rejected || out.Reason != ReasonInfeasible || out.Err != nil {
				t.Errorf("ProposeK(%q) = %+v, want rejected/infeasible", raw, out)
			}
			if len(eng.setKCalls) != 0 {
				t.Errorf("SetK called %v", eng.setKCalls)
			}
			if sess.Entry != "4" {
				t.Errorf("entry = %q, want 4", sess.Entry)
			}
			if want := raw + " not feasible"; sess.Problem != want {
				t.Errorf("problem = %q, want %q", sess.Problem, want)
			}
		})
	}
}

func TestProposeKEngineFailure(t *testing.T) {
	boom := stderrors.New("k too large")
	eng := &fakeEngine{k: 4, setKErr: boom}
	c, sess := started(t, eng)

	out := c.ProposeK(context.Background(), "99")
	if out.State != Rejected || out.Reason != ReasonEngine {
		t.Fatalf("ProposeK(99) = %+v, want rejected/engine", out)
	}
	var cerr *EngineCommitError
	if !stderrors.As(out.Err, &cerr) || cerr.K != 99 || !stderrors.Is(out.Err, boom) {
		t.Errorf("Err = %v, want EngineCommitError wrapping boom", out.Err)
	}
	if !errors.Is(out.Err, errors.ErrCodeEngineCommit) {
		t.Errorf("code = %s, want ENGINE_COMMIT", errors.GetCode(out.Err))
	}
	if sess.Entry != "4" || sess.Problem != "99 not feasible" {
		t.Errorf("entry = %q problem = %q", sess.Entry, sess.Problem)
	}
}

func TestProposeKLastKnownGood(t *testing.T) {
	eng := &fakeEngine{k: 4}
	c, sess := started(t, eng)
	eng.kErr = stderrors.New("offline")

	c.ProposeK(context.Background(), "abc")
	if sess.Entry != "4" {
		t.Errorf("entry = %q, want last known good 4", sess.Entry)
	}
}

func TestProposeKTableFailureStillCommits(t *testing.T) {
	eng := &fakeEngine{k: 4}
	c, sess := started(t, eng)
	eng.tableErr = stderrors.New("index down")

	out := c.ProposeK(context.Background(), "5")
	if out.State != Committed || sess.Entry != "5" {
		t.Errorf("ProposeK(5) = %+v entry %q, want committed 5", out, sess.Entry)
	}
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	eng := &fakeEngine{k: 3}
	c, sess := started(t, eng)

	out, err := c.Dispatch(ctx, CommitK{Raw: "5"})
	if err != nil || out.State != Committed {
		t.Errorf("Dispatch(CommitK) = %+v, %v", out, err)
	}

	pulls := eng.pulls
	if _, err := c.Dispatch(ctx, RequestTableRefresh{}); err != nil {
		t.Errorf("Dispatch(RequestTableRefresh) = %v", err)
	}
	if eng.pulls != pulls+1 {
		t.Errorf("pulls = %d, want %d", eng.pulls, pulls+1)
	}

	sess.Graph = nil
	if _, err := c.Dispatch(ctx, RequestGraphRedraw{}); err != nil || sess.Graph == nil {
		t.Errorf("Dispatch(RequestGraphRedraw) = %v, graph %v", err, sess.Graph)
	}

	eng.tableErr = stderrors.New("down")
	if _, err := c.Dispatch(ctx, RequestTableRefresh{}); err == nil {
		t.Error("Dispatch(RequestTableRefresh) with failing engine = nil error")
	}

	if _, err := c.Dispatch(ctx, nil); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Dispatch(nil) = %v, want UNSUPPORTED", err)
	}
}

func TestConcurrentProposals(t *testing.T) {
	eng := &fakeEngine{k: 2}
	c, _ := started(t, eng)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.ProposeK(context.Background(), []string{"3", "4", "x"}[i%3])
		}(i)
	}
	wg.Wait()

	v := c.View()
	if v.Entry != strconv.Itoa(eng.k) {
		t.Errorf("entry = %q, engine k = %d", v.Entry, eng.k)
	}
}

func TestInputValidationError(t *testing.T) {
	err := &InputValidationError{Raw: "abc"}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %s, want INVALID_INPUT", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "abc") {
		t.Errorf("Error() = %q, want it to name the input", err.Error())
	}
}

func TestProposeOverflow(t *testing.T) {
	eng := &fakeEngine{k: 4}
	c, sess := started(t, eng)

	raw := "99999999999999999999999"
	out := c.ProposeK(context.Background(), raw)
	if out.State != Rejected || out.Reason != ReasonEngine {
		t.Fatalf("outcome = %s/%s, want rejected/engine", out.State, out.Reason)
	}
	if !stderrors.Is(out.Err, ErrKOutOfRange) {
		t.Errorf("Err = %v, want ErrKOutOfRange", out.Err)
	}
	if len(eng.setKCalls) != 0 {
		t.Errorf("SetK called with %v", eng.setKCalls)
	}
	if sess.Entry != "4" || sess.Problem != raw+" not feasible" {
		t.Errorf("entry %q problem %q", sess.Entry, sess.Problem)
	}
}

func TestUnchangedRefreshesStaleMirror(t *testing.T) {
	eng := &fakeEngine{k: 4}
	a, _ := started(t, eng)
	b, bs := started(t, eng)
	bs.Problem = "x not feasible"

	if out := a.ProposeK(context.Background(), "6"); out.State != Committed {
		t.Fatalf("a: outcome = %s/%s, want committed", out.State, out.Reason)
	}
	pulls := eng.pulls

	out := b.ProposeK(context.Background(), "6")
	if out.State != Rejected || out.Reason != ReasonUnchanged {
		t.Fatalf("b: outcome = %s/%s, want rejected/unchanged", out.State, out.Reason)
	}
	if eng.pulls != pulls+1 {
		t.Errorf("b pulled the table %d times, want 1", eng.pulls-pulls)
	}
	want := index.Rows(index.Table{"AAAAAA": {}, "kAAAAAA": {"x": 6}})
	if !slices.Equal(bs.Rows, want) {
		t.Errorf("b rows = %v, want %v", bs.Rows, want)
	}
	if bs.Entry != "6" || bs.Problem != "x not feasible" {
		t.Errorf("b entry %q problem %q, want 6 and the old problem", bs.Entry, bs.Problem)
	}

	pulls = eng.pulls
	b.ProposeK(context.Background(), "6")
	if eng.pulls != pulls {
		t.Error("unchanged k on a fresh mirror pulled the table again")
	}
}

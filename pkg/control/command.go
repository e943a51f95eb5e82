package control

// Command is a user action consumed by the controller.
type Command interface {
	// Name identifies the command in logs and metrics.
	Name() string
}

// CommitK proposes the entry text Raw as the new k.
type CommitK struct {
	Raw string
}

// RequestTableRefresh re-pulls the index table and rebuilds the rows.
type RequestTableRefresh struct{}

// RequestGraphRedraw re-pulls the graph into the session for the host to
// draw.
type RequestGraphRedraw struct{}

func (CommitK) Name() string             { return "commit_k" }
func (RequestTableRefresh) Name() string { return "refresh_table" }
func (RequestGraphRedraw) Name() string  { return "redraw_graph" }

package render

// Recorder is a Surface that keeps everything drawn on it.
type Recorder struct {
	Frame  Frame
	Nodes  []NodeGlyph
	Arcs   []Arc
	Begun  bool
	Closed bool
}

// Begin implements [Surface]. It discards a previous recording.
func (r *Recorder) Begin(f Frame) error {
	*r = Recorder{Frame: f, Begun: true}
	return nil
}

// DrawNode implements [Surface].
func (r *Recorder) DrawNode(n NodeGlyph) error {
	r.Nodes = append(r.Nodes, n)
	return nil
}

// DrawArc implements [Surface].
func (r *Recorder) DrawArc(a Arc) error {
	r.Arcs = append(r.Arcs, a)
	return nil
}

// End implements [Surface].
func (r *Recorder) End() error {
	r.Closed = true
	return nil
}

// ArcsBetween returns the arcs drawn for the ordered pair (source, target),
// in drawing order.
func (r *Recorder) ArcsBetween(source, target string) []Arc {
	var out []Arc
	for _, a := range r.Arcs {
		if a.Source == source && a.Target == target {
			out = append(out, a)
		}
	}
	return out
}

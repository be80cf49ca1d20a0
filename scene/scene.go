// Package scene declares the behavioural contract of the real-time
// GUI / scene renderer. The renderer itself is out of scope for this
// core (see spec §1, §6): it is an external collaborator the kernel
// may optionally drive, never a dependency the protocol state machine
// reasons about.
package scene

// Scene is the plotter overlay contract. Every method may be a no-op;
// implementations are expected to be resilient to being skipped
// entirely (headless simulation runs).
type Scene interface {
	// Node places or moves a node marker at (x, y).
	Node(id int, x, y float64)

	// NodeColor recolors a node marker. Channels are in [0,1].
	NodeColor(id int, r, g, b float64)

	// AddLink draws a link between two node ids with the given style
	// tag (e.g. "tree", "mesh", "direct").
	AddLink(a, b int, style string)

	// DelLink removes a previously drawn link.
	DelLink(a, b int)

	// Circle draws a circle shape (e.g. a transmission-range ring).
	Circle(id int, x, y, radius float64)

	// Line draws an arbitrary line shape.
	Line(id int, x1, y1, x2, y2 float64)

	// DelShape removes a shape added by Circle or Line.
	DelShape(id int)

	// SetTime updates the displayed simulation clock.
	SetTime(t float64)
}

// Noop is a Scene that discards every call. It is the default when a
// simulation run has no attached renderer.
type Noop struct{}

func (Noop) Node(int, float64, float64)          {}
func (Noop) NodeColor(int, float64, float64, float64) {}
func (Noop) AddLink(int, int, string)            {}
func (Noop) DelLink(int, int)                    {}
func (Noop) Circle(int, float64, float64, float64) {}
func (Noop) Line(int, float64, float64, float64, float64) {}
func (Noop) DelShape(int)                        {}
func (Noop) SetTime(float64)                     {}

var _ Scene = Noop{}

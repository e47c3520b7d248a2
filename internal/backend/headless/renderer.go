package headless

import (
	"sync"

	"github.com/dshills/waycore/internal/compositor"
	"github.com/dshills/waycore/internal/geom"
	"github.com/dshills/waycore/internal/logging"
)

// Frame is one recorded repaint.
type Frame struct {
	// Target is the plane the frame was drawn to.
	Target compositor.Plane
	// Total is the full damage redrawn this frame.
	Total *geom.Region
	// Base is the damage below every opaque surface.
	Base *geom.Region
	// Surfaces is the stack at repaint time, front to back.
	Surfaces []*compositor.Surface
}

// Renderer draws nothing and remembers everything. Each Repaint is
// recorded as a Frame for later inspection.
type Renderer struct {
	log *logging.Logger

	mu      sync.Mutex
	target  compositor.Plane
	flushes uint64
	frames  []Frame
}

// NewRenderer creates a recording renderer.
func NewRenderer(log *logging.Logger) *Renderer {
	if log == nil {
		log = logging.Discard()
	}
	return &Renderer{log: log.WithComponent("headless-renderer")}
}

// Flush marks the surface contents as synchronized. There is no GPU
// state here, so it only counts.
func (r *Renderer) Flush(s *compositor.Surface) {
	r.mu.Lock()
	r.flushes++
	r.mu.Unlock()
	r.log.Debug("flush surface %d", s.ID())
}

// SetTarget selects the plane subsequent repaints draw to.
func (r *Renderer) SetTarget(plane compositor.Plane) {
	r.mu.Lock()
	r.target = plane
	r.mu.Unlock()
}

// Repaint records the frame.
func (r *Renderer) Repaint(total, base *geom.Region, stack []*compositor.Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, Frame{
		Target:   r.target,
		Total:    total.Clone(),
		Base:     base.Clone(),
		Surfaces: append([]*compositor.Surface(nil), stack...),
	})
	r.log.Debug("repaint frame %d, %d rects", len(r.frames), total.NumRects())
}

// Frames returns the recorded repaints in order.
func (r *Renderer) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Flushes reports how many surface flushes occurred.
func (r *Renderer) Flushes() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}

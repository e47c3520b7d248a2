// Package headless provides in-process renderer, plane, and session
// implementations with no hardware behind them. It backs waycored when no
// DRM device is available and gives tests a complete output pipeline.
package headless

import (
	"sync"
	"time"

	"github.com/dshills/waycore/internal/compositor"
	"github.com/dshills/waycore/internal/eventloop"
	"github.com/dshills/waycore/internal/geom"
	"github.com/dshills/waycore/internal/logging"
)

// FlipTarget receives page flip completions. *compositor.Compositor
// satisfies it.
type FlipTarget interface {
	HandleFlipComplete(id compositor.OutputID, time uint32)
}

// Backend owns the fake planes and delivers their flip completions
// through the event loop, one loop iteration after submission. That
// mirrors the latency of a real page flip closely enough for every
// scheduling property to hold.
type Backend struct {
	loop  *eventloop.Loop
	log   *logging.Logger
	start time.Time

	mu     sync.Mutex
	target FlipTarget
	planes []*Plane
}

// New creates a headless backend dispatching on loop.
func New(loop *eventloop.Loop, log *logging.Logger) *Backend {
	if log == nil {
		log = logging.Discard()
	}
	return &Backend{
		loop:  loop,
		log:   log.WithComponent("headless"),
		start: time.Now(),
	}
}

// SetFlipTarget directs future flip completions at target.
func (b *Backend) SetFlipTarget(t FlipTarget) {
	b.mu.Lock()
	b.target = t
	b.mu.Unlock()
}

// AddOutput creates a plane, registers it with c as an output of the
// given geometry, and arranges flip completion delivery.
func (b *Backend) AddOutput(c *compositor.Compositor, geometry geom.Rect) (*compositor.Output, error) {
	p := &Plane{backend: b}
	o, err := c.AddOutput(geometry, p)
	if err != nil {
		return nil, err
	}
	p.output = o

	b.mu.Lock()
	b.planes = append(b.planes, p)
	if b.target == nil {
		b.target = c
	}
	b.mu.Unlock()

	b.log.Info("output %d at %dx%d+%d+%d", o.ID(), geometry.W, geometry.H, geometry.X, geometry.Y)
	return o, nil
}

// now returns milliseconds since the backend started, the same clock
// shape DRM vblank timestamps use.
func (b *Backend) now() uint32 {
	return uint32(time.Since(b.start) / time.Millisecond)
}

func (b *Backend) completeFlip(p *Plane) {
	b.mu.Lock()
	target := b.target
	b.mu.Unlock()
	if target == nil || p.output == nil {
		return
	}
	id, when := p.output.ID(), b.now()
	err := b.loop.Post(func() { target.HandleFlipComplete(id, when) })
	if err != nil {
		b.log.Error("flip completion for output %d dropped: %v", id, err)
	}
}

// Plane is a software scanout target. Flip never fails; completion is
// posted to the event loop and arrives on the next iteration.
type Plane struct {
	backend *Backend
	output  *compositor.Output

	mu    sync.Mutex
	flips uint64
}

// Flip submits the frame and schedules its completion.
func (p *Plane) Flip() error {
	p.mu.Lock()
	p.flips++
	p.mu.Unlock()
	p.backend.completeFlip(p)
	return nil
}

// Flips reports how many frames were submitted.
func (p *Plane) Flips() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flips
}

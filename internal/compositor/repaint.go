package compositor

// repaintOutput redraws one output and submits its buffer flip. The caller
// (the update pass) guarantees the output has no flip in flight and marks
// it flip-submitted afterwards.
func (c *Compositor) repaintOutput(o *Output) {
	// Damage relevant to this output this frame.
	damage := c.damage.Clone()
	damage.IntersectRect(o.geometry)

	// The back buffer about to be drawn into still shows pre-damage
	// content wherever the previous frame drew, so that damage must be
	// redrawn too. Save this frame's damage (pre-union) as the carry-over
	// for the next repaint of this output.
	previousDamage := o.previousDamage
	o.previousDamage = damage.Clone()
	damage.Union(previousDamage)

	// The portion no opaque surface covers must be redrawn from scratch.
	baseDamage := damage.Clone()
	baseDamage.Subtract(c.opaque)

	c.renderer.SetTarget(o.plane)
	c.renderer.Repaint(damage, baseDamage, c.surfaces)

	// Drain this output's share of the compositor damage; disjoint
	// portions may still be pending for other outputs.
	c.damage.Subtract(damage)

	if err := o.plane.Flip(); err != nil {
		// Non-fatal: the hardware call may have partially committed, so
		// the output still transitions to flip-submitted and recovers on
		// the next completion or schedule event.
		c.log.Error("plane flip failed: %v", err)
	}
}

package compositor

// ScheduleUpdate requests a repaint of the given output. Repeat requests
// for an already-scheduled output are absorbed. The first schedule call
// while nothing is scheduled enqueues exactly one deferred update pass, so
// several same-tick requests batch into a single repaint.
func (c *Compositor) ScheduleUpdate(o *Output) {
	updateScheduled := !c.scheduled.Empty()

	if c.scheduled.Has(o.id) {
		return
	}
	c.scheduled = c.scheduled.Add(o.id)

	if !updateScheduled {
		c.loop.AddIdle(c.performUpdate)
	}
}

// performUpdate executes the repaint pipeline for every scheduled output
// that has no flip in flight. Outputs blocked on a pending flip stay
// scheduled and are retried when their flip completes.
func (c *Compositor) performUpdate() {
	updates := c.scheduled.Diff(c.pendingFlips)
	if updates.Empty() {
		return
	}

	c.log.Debug("performing update")
	c.accumulateDamage()

	for _, o := range c.outputs {
		if updates.Has(o.id) {
			c.repaintOutput(o)
		}
	}

	c.pendingFlips = c.pendingFlips.Union(updates)
	c.scheduled = c.scheduled.Diff(updates)
}

// HandleFlipComplete processes a hardware flip-completion notification for
// the given output. Once no flips remain in flight, clients' frame-done
// callbacks are delivered with the completion timestamp. Updates that were
// blocked waiting on this flip run immediately, not re-deferred.
func (c *Compositor) HandleFlipComplete(id OutputID, time uint32) {
	c.pendingFlips = c.pendingFlips.Remove(id)

	if c.pendingFlips.Empty() {
		for _, s := range c.surfaces {
			s.sendFrameCallbacks(time)
		}
	}

	if !c.scheduled.Empty() {
		c.performUpdate()
	}
}

// PendingFlips returns the outputs with a submitted, unacknowledged flip.
func (c *Compositor) PendingFlips() OutputSet {
	return c.pendingFlips
}

// ScheduledUpdates returns the outputs requested for repaint but not yet
// repainted.
func (c *Compositor) ScheduledUpdates() OutputSet {
	return c.scheduled
}

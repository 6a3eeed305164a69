package player

// Stats holds the pipeline counters since the last Load.
type Stats struct {
	FramesDecoded  uint64 // Frames converted and offered to the queue.
	FramesRendered uint64 // Frames uploaded and presented.
	DecodeErrors   uint64 // Packets or pictures skipped after an error.
	RenderErrors   uint64 // Frames whose upload or present failed.
	Queue          QueueStats
}

// Stats returns a snapshot of the pipeline counters.
func (c *Controller) Stats() Stats {
	return Stats{
		FramesDecoded:  c.framesDecoded.Load(),
		FramesRendered: c.framesRendered.Load(),
		DecodeErrors:   c.decodeErrors.Load(),
		RenderErrors:   c.renderErrors.Load(),
		Queue:          c.queue.Stats(),
	}
}

func (c *Controller) resetCounters() {
	c.framesDecoded.Store(0)
	c.framesRendered.Store(0)
	c.decodeErrors.Store(0)
	c.renderErrors.Store(0)
	c.queue.ResetStats()
}

package board

// Schedule tracks the periodic refresh timer. Each arming gets a new
// generation; ticks carry the generation they were armed with, so a tick
// from a torn-down timer is recognized and ignored.
type Schedule struct {
	gen   uint64
	armed bool
}

// Rearm tears down the current timer and, when enabled, arms a new one.
// It returns the new generation and whether a timer is armed.
func (s *Schedule) Rearm(enabled bool) (uint64, bool) {
	s.gen++
	s.armed = enabled
	return s.gen, s.armed
}

// Fire reports whether a tick of generation gen should trigger a refresh.
func (s *Schedule) Fire(gen uint64) bool {
	return s.armed && gen == s.gen
}

// Stop tears down the timer.
func (s *Schedule) Stop() {
	s.gen++
	s.armed = false
}

// Armed reports whether a timer is live.
func (s *Schedule) Armed() bool { return s.armed }

// Rearm re-arms the board's timer for the current area, session and
// auto-refresh flag. Call it whenever any of the three changes.
func (b *Board) Rearm(signedIn bool) (uint64, bool) {
	gen, armed := b.schedule.Rearm(b.autoRefresh && b.area != "" && signedIn)
	b.logger.Debug("refresh timer rearmed", "gen", gen, "armed", armed, "interval", b.interval)
	return gen, armed
}

// Fire reports whether a timer tick of generation gen is current.
func (b *Board) Fire(gen uint64) bool {
	return b.schedule.Fire(gen)
}

// Stop tears down the timer.
func (b *Board) Stop() {
	b.schedule.Stop()
}

// TimerArmed reports whether a refresh timer is live.
func (b *Board) TimerArmed() bool { return b.schedule.Armed() }

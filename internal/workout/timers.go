package workout

import "time"

// startTicker launches the engine's single periodic task. One ticker drives
// both timer concerns: the rest countdown decrements per tick, while elapsed
// time is never accumulated — it is re-derived from the stored start time at
// observation, so it stays monotonic under scheduling jitter.
func (e *Engine) startTicker() {
	if e.done != nil {
		return
	}
	done := make(chan struct{})
	e.done = done

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.opts.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				e.tick()
			}
		}
	}()
}

// tick advances the rest countdown by one second. The terminal transition
// fires RestTimerFinished exactly once.
func (e *Engine) tick() {
	var finished bool

	e.mu.Lock()
	if e.restRunning {
		e.restRemaining--
		if e.restRemaining <= 0 {
			e.restRemaining = 0
			e.restRunning = false
			finished = true
		}
	}
	e.mu.Unlock()

	if finished {
		e.ev.RestTimerFinished.Notify(struct{}{})
	}
}

// stopTickerLocked stops the periodic task. Caller holds e.mu.
func (e *Engine) stopTickerLocked() {
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
}

// SkipRest forces the rest countdown to zero without a finished notification.
func (e *Engine) SkipRest() {
	e.mu.Lock()
	e.restRemaining = 0
	e.restRunning = false
	e.mu.Unlock()
}

// AddRestTime extends the rest countdown by delta seconds. Valid in either
// timer state; while idle the added time has no visible effect.
func (e *Engine) AddRestTime(delta int) {
	e.mu.Lock()
	e.restRemaining += delta
	if e.restRemaining < 0 {
		e.restRemaining = 0
	}
	e.mu.Unlock()
}

// RestState reports the countdown's remaining seconds and whether it runs.
func (e *Engine) RestState() (remaining int, running bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restRemaining, e.restRunning
}

// Elapsed returns whole seconds since the session started. Derived from the
// start timestamp on every call, never incremented, so successive
// observations are non-decreasing.
func (e *Engine) Elapsed() int64 {
	e.mu.Lock()
	start := e.startTime
	e.mu.Unlock()
	if start == 0 {
		return 0
	}
	elapsed := (e.opts.Clock().UnixMilli() - start) / 1000
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

package playback

import "time"

// stopwatch accumulates reading time across pauses.
type stopwatch struct {
	now     func() time.Time
	started time.Time
	total   time.Duration
	running bool
}

func (s *stopwatch) Start() {
	if s.running {
		return
	}
	s.started = s.now()
	s.running = true
}

func (s *stopwatch) Restart() {
	s.total = 0
	s.running = false
	s.Start()
}

func (s *stopwatch) Stop() {
	if !s.running {
		return
	}
	s.total += s.now().Sub(s.started)
	s.running = false
}

func (s *stopwatch) Reset() {
	s.total = 0
	s.running = false
}

func (s *stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.total + s.now().Sub(s.started)
	}
	return s.total
}

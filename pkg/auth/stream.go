package auth

import "sync"

// Stream fans session changes out to subscribers. It fires once per
// transition: publishing the same identity twice does not notify again.
// The zero value is ready to use.
type Stream struct {
	mu      sync.Mutex
	known   bool
	current *Principal
	nextID  int
	subs    map[int]func(*Principal)
}

// Publish records p as the current session value and notifies subscribers
// if it differs from the previous value. Callbacks run outside the lock.
func (s *Stream) Publish(p *Principal) {
	s.mu.Lock()
	if s.known && Same(s.current, p) {
		// Same identity, keep the freshest token without notifying.
		s.current = p
		s.mu.Unlock()
		return
	}
	s.known = true
	s.current = p
	fns := make([]func(*Principal), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

// Subscribe registers fn and, if a value is already known, calls it
// synchronously with that value before returning. The returned function
// removes the subscription and is safe to call more than once.
func (s *Stream) Subscribe(fn func(*Principal)) func() {
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]func(*Principal))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	known, cur := s.known, s.current
	s.mu.Unlock()

	if known {
		fn(cur)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Current returns the last published value and whether one is known yet.
func (s *Stream) Current() (*Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.known
}

// Subscribers returns the number of live subscriptions.
func (s *Stream) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

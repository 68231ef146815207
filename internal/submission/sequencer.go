package submission

import "sync"

// sequencer hands out tickets in arrival order and lets holders apply their
// mutation only once every earlier ticket has been released.
type sequencer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	issued uint64
	next   uint64
	done   map[uint64]struct{}
}

func newSequencer() *sequencer {
	s := &sequencer{done: make(map[uint64]struct{})}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *sequencer) take() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.issued
	s.issued++
	return t
}

// wait blocks until every ticket before t has been released.
func (s *sequencer) wait(t uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.next != t {
		s.cond.Wait()
	}
}

// release marks t finished. It must be called exactly once per ticket,
// whether or not the holder waited.
func (s *sequencer) release(t uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[t] = struct{}{}
	for {
		if _, ok := s.done[s.next]; !ok {
			break
		}
		delete(s.done, s.next)
		s.next++
	}
	s.cond.Broadcast()
}

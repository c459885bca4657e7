package projection

import "sync"

// Selection owns the subscription of the conversation currently open.
// Switch tears the previous one down completely before starting the next,
// so an old conversation can never deliver into the new view.
type Selection struct {
	mu      sync.Mutex
	current *Handle
}

// Switch must not be called from a callback of the subscription it replaces.
func (s *Selection) Switch(start func() *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCurrent()
	s.current = start()
}

func (s *Selection) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCurrent()
}

func (s *Selection) closeCurrent() {
	if s.current == nil {
		return
	}
	s.current.Cancel()
	s.current.Wait()
	s.current = nil
}

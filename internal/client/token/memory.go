package token

import "sync"

// MemoryStore is an in-process Store used by tests and by embedders that do
// not want the credential to outlive the process.
type MemoryStore struct {
	mu  sync.Mutex
	tok string
	set bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = token
	s.set = true
	return nil
}

func (s *MemoryStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || s.tok == "" {
		return "", ErrNoToken
	}
	return s.tok, nil
}

func (s *MemoryStore) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = ""
	s.set = false
	return nil
}

package user

import "sync"

// MemoryStore keeps users in memory, safe for concurrent use.
// FindAll returns users in registration order.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]int
	users []User
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]int),
	}
}

// Add stores u; an existing UserID is replaced in place
func (s *MemoryStore) Add(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.byID[u.UserID]; ok {
		s.users[i] = u
		return
	}
	s.byID[u.UserID] = len(s.users)
	s.users = append(s.users, u)
}

// Find returns the user with id
func (s *MemoryStore) Find(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return User{}, false
	}
	return s.users[i], true
}

// FindAll returns a snapshot of all users
func (s *MemoryStore) FindAll() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]User(nil), s.users...)
}

// IsValid reports whether id exists with the given password
func (s *MemoryStore) IsValid(id, password string) bool {
	u, ok := s.Find(id)
	return ok && u.Password == password
}

// Len returns the number of stored users
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

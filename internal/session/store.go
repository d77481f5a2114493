package session

import "sync"

// Store holds one Session per active conversation, keyed by chat ID.
// It is safe for concurrent use; distinct conversations are handled on
// separate goroutines while each conversation itself is sequential.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the session for the chat, or nil if none is active.
func (st *Store) Get(chatID int64) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[chatID]
}

// Put creates or replaces the session for its chat.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ChatID] = s
}

// Delete discards the session for the chat. Deleting a chat with no
// active session is a no-op.
func (st *Store) Delete(chatID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, chatID)
}

// Len returns the number of active sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

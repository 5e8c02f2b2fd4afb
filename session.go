package main

import "sync"

const maxSessions = 100

// Session represents one arena that players can join
type Session struct {
	ID    string
	Name  string
	Arena *Arena
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates a new SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// CreateSession creates a new arena session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(name string, db *DB, analytics *Analytics) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateID(8)
	sess := &Session{
		ID:    id,
		Name:  name,
		Arena: NewArena(id, db, analytics),
	}
	sm.sessions[id] = sess
	go sess.Arena.Run()
	if analytics != nil {
		analytics.Track(EvtSessionStart, 0, id, "")
		analytics.SetActiveSessions(len(sm.sessions))
	}
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemovePlayer removes a player from a session, tearing the session down
// once it empties.
func (sm *SessionManager) RemovePlayer(sessionID, playerID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Arena.RemovePlayer(playerID)

	if sess.Arena.PlayerCount() == 0 {
		sess.Arena.Stop()
		sm.mu.Lock()
		delete(sm.sessions, sessionID)
		n := len(sm.sessions)
		sm.mu.Unlock()
		if sess.Arena.analytics != nil {
			sess.Arena.analytics.Track(EvtSessionEnd, 0, sessionID, "")
			sess.Arena.analytics.SetActiveSessions(n)
		}
	}
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Players: sess.Arena.PlayerCount(),
		})
	}
	return list
}

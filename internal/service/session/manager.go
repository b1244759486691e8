package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/daway0/pors/pkg/clients/ledger"
)

// Manager hands out one Session per username and keeps them alive between
// requests.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	client ledger.Client
	logger *zap.Logger

	// bypassClosed lists accounts exempt from the closed-for-personnel gate.
	bypassClosed map[string]bool
	// guests lists accounts whose delivery place an acting admin must not
	// touch.
	guests map[string]bool
}

// NewManager creates a session manager backed by one shared ledger client.
func NewManager(client ledger.Client, bypassAccounts, guestAccounts []string, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:     make(map[string]*Session),
		client:       client,
		logger:       logger,
		bypassClosed: toAccountSet(bypassAccounts),
		guests:       toAccountSet(guestAccounts),
	}
}

func toAccountSet(accounts []string) map[string]bool {
	set := make(map[string]bool, len(accounts))
	for _, account := range accounts {
		set[account] = true
	}
	return set
}

// Get retrieves the session of a user, creating an unopened one on first use.
func (m *Manager) Get(username string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[username]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[username]; ok {
		return s
	}
	s = New(username, m.client, m.logger)
	s.SetBypassClosed(m.bypassClosed[username])
	s.SetGuestLookup(func(account string) bool { return m.guests[account] })
	m.sessions[username] = s
	return s
}

// Clear drops a user's session.
func (m *Manager) Clear(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, username)
}

// Active returns the currently held sessions.
func (m *Manager) Active() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	active := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		active = append(active, s)
	}
	return active
}

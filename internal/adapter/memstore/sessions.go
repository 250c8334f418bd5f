package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.SessionStore = (*SessionStore)(nil)

type session struct {
	values  map[string]string
	expires time.Time
}

// A SessionStore keeps session values until ttl passes without a write.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      now,
	}
}

func (s *SessionStore) Get(
	ctx context.Context, sessionID, key string,
) (string, bool, error) {
	const op = "memstore.SessionStore.Get"

	if err := ctx.Err(); err != nil {
		return "", false, unavailable(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, sessionID)
		return "", false, nil
	}
	v, ok := sess.values[key]
	return v, ok, nil
}

func (s *SessionStore) Set(
	ctx context.Context, sessionID, key, value string,
) error {
	const op = "memstore.SessionStore.Set"

	if err := ctx.Err(); err != nil {
		return unavailable(op, err)
	}
	if sessionID == "" {
		return fmt.Errorf("%s: %w: empty session id", op, domain.ErrBackendUnavailable)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || !s.now().Before(sess.expires) {
		sess = &session{values: make(map[string]string)}
		s.sessions[sessionID] = sess
	}
	sess.values[key] = value
	sess.expires = s.now().Add(s.ttl)
	return nil
}

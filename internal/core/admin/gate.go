// Package admin implements the shared-secret gate in front of catalog
// writes. It deters casual access only; it is not an authentication
// system.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.AdminGate = (*Gate)(nil)

// SessionKey names the session-scoped flag recording an unlock.
const SessionKey = "adminAccess"

const unlockedValue = "unlocked"

type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

type Gate struct {
	secret   string
	sessions port.SessionStore
}

func NewGate(secret string, sessions port.SessionStore) Gate {
	return Gate{secret, sessions}
}

// Unlock compares secret with the configured one. On an exact match the
// session is flagged unlocked for the rest of its lifetime. Any other
// value returns [domain.ErrAdminRejected] and leaves the session as is.
func (g Gate) Unlock(ctx context.Context, sessionID, secret string) error {
	const op = "Gate.Unlock"
	log := slog.With("op", op)

	if g.secret == "" || secret != g.secret {
		log.Warn("admin secret rejected")
		return fmt.Errorf("%s: %w", op, domain.ErrAdminRejected)
	}

	if err := g.sessions.Set(ctx, sessionID, SessionKey, unlockedValue); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin session unlocked")
	return nil
}

// State reads the session flag. A session store failure reads as Locked.
func (g Gate) State(ctx context.Context, sessionID string) State {
	const op = "Gate.State"

	v, ok, err := g.sessions.Get(ctx, sessionID, SessionKey)
	if err != nil {
		slog.Error("failed to read session flag", "op", op, "err", err)
		return Locked
	}
	if ok && v == unlockedValue {
		return Unlocked
	}
	return Locked
}

func (g Gate) Unlocked(ctx context.Context, sessionID string) bool {
	return g.State(ctx, sessionID) == Unlocked
}

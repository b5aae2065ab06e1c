package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
)

// tokenBytes is the amount of randomness in a session token.
const tokenBytes = 32

// SessionStore persists sessions keyed by token hash.
type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) (*models.Session, error)
	GetSessionByTokenHash(ctx context.Context, hash string) (*models.Session, error)
	DeleteSessionByTokenHash(ctx context.Context, hash string) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// SessionManager issues and validates opaque bearer tokens.
type SessionManager struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionManager creates a SessionManager whose sessions live for ttl.
func NewSessionManager(store SessionStore, ttl time.Duration) *SessionManager {
	return &SessionManager{store: store, ttl: ttl, now: time.Now}
}

// HashToken returns the hex SHA-256 digest stored in place of the token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Create opens a new session for userID and returns the raw token.
func (m *SessionManager) Create(ctx context.Context, userID int64, meta models.ClientMeta) (*models.IssuedSession, error) {
	token, err := newToken()
	if err != nil {
		logger.Log.Errorw("failed to generate session token", "err", err)
		return nil, err
	}

	sess := &models.Session{
		UserID:    userID,
		TokenHash: HashToken(token),
		ExpiresAt: m.now().Add(m.ttl),
	}
	if meta.IP != "" {
		sess.IPAddress = &meta.IP
	}
	if meta.UserAgent != "" {
		sess.UserAgent = &meta.UserAgent
	}

	created, err := m.store.CreateSession(ctx, sess)
	if err != nil {
		logger.Log.Errorw("failed to store session", "user_id", userID, "err", err)
		return nil, err
	}

	return &models.IssuedSession{Token: token, ExpiresAt: created.ExpiresAt, Session: created}, nil
}

// Validate returns the session for token. Unknown and expired tokens both
// yield ErrSessionInvalid; an expired row is deleted on the way.
func (m *SessionManager) Validate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}

	hash := HashToken(token)
	sess, err := m.store.GetSessionByTokenHash(ctx, hash)
	if err != nil {
		logger.Log.Errorw("failed to load session", "err", err)
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionInvalid
	}

	if sess.Expired(m.now()) {
		if _, err := m.store.DeleteSessionByTokenHash(ctx, hash); err != nil {
			logger.Log.Warnw("failed to delete expired session", "session_id", sess.ID, "err", err)
		}
		return nil, ErrSessionInvalid
	}
	return sess, nil
}

// Revoke deletes the session for token. Revoking an unknown token is not an error.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := m.store.DeleteSessionByTokenHash(ctx, HashToken(token)); err != nil {
		logger.Log.Errorw("failed to revoke session", "err", err)
		return err
	}
	return nil
}

// Sweep deletes every expired session and returns how many were removed.
func (m *SessionManager) Sweep(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteExpiredSessions(ctx, m.now())
	if err != nil {
		logger.Log.Errorw("failed to sweep sessions", "err", err)
		return 0, err
	}
	sessionsSwept.Add(float64(n))
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
// A non-positive interval disables it.
func (m *SessionManager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Log.Infow("session sweeper disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.Infow("session sweeper started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Log.Infow("session sweeper stopped")
			return
		case <-ticker.C:
			if n, err := m.Sweep(ctx); err == nil && n > 0 {
				logger.Log.Infow("expired sessions swept", "count", n)
			}
		}
	}
}

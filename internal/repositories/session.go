package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/finanfun/internal/models"
)

// SessionRepository stores session rows keyed by token hash.
type SessionRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewSessionRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *SessionRepository {
	return &SessionRepository{db: db, txGetter: txGetter}
}

func (r *SessionRepository) CreateSession(ctx context.Context, s *models.Session) (*models.Session, error) {
	query := `
		INSERT INTO user_sessions (user_id, token_hash, expires_at, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, user_id, token_hash, expires_at, ip_address, user_agent, created_at
	`
	args := []any{s.UserID, s.TokenHash, s.ExpiresAt, s.IPAddress, s.UserAgent}

	var created models.Session
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &created, query, args...)

	logQuery(query, args, created.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// GetSessionByTokenHash returns nil, nil for an unknown hash.
func (r *SessionRepository) GetSessionByTokenHash(ctx context.Context, hash string) (*models.Session, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, ip_address, user_agent, created_at
		FROM user_sessions
		WHERE token_hash = $1
	`

	var s models.Session
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &s, query, hash)

	logQuery(query, []any{hash}, s.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) DeleteSessionByTokenHash(ctx context.Context, hash string) (int64, error) {
	query := `DELETE FROM user_sessions WHERE token_hash = $1`
	return r.exec(ctx, query, hash)
}

// DeleteExpiredSessions removes every session with expires_at <= now.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM user_sessions WHERE expires_at <= $1`
	return r.exec(ctx, query, now)
}

func (r *SessionRepository) DeleteSessionsByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM user_sessions WHERE user_id = $1`
	_, err := r.exec(ctx, query, userID)
	return err
}

func (r *SessionRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	n := rowsAffected(res)
	logQuery(query, args, n, err)
	return n, err
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/finanfun/internal/models"
)

const userColumns = `id, uuid, email, name, password_hash, provider, provider_id, avatar_url,
	is_verified, role, created_at, updated_at, last_login`

// UserRepository stores users in PostgreSQL.
type UserRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserRepository {
	return &UserRepository{db: db, txGetter: txGetter}
}

// CreateUser inserts u and returns the stored row.
func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (uuid, email, name, password_hash, provider, provider_id, avatar_url,
			is_verified, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + userColumns
	args := []any{u.UUID, u.Email, u.Name, u.PasswordHash, u.Provider, u.ProviderID, u.AvatarURL, u.IsVerified, u.Role}

	var created models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &created, query, args...)

	// never log the password hash
	logQuery(query, []any{u.UUID, u.Email, u.Name, "***", u.Provider, u.ProviderID, u.AvatarURL, u.IsVerified, u.Role}, created.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// GetUserByID returns nil, nil when no user has the id.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetUserByEmail returns nil, nil when the email is unknown.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// GetUserByProvider finds a social account by its provider identity.
func (r *UserRepository) GetUserByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND provider_id = $2`
	return r.getOne(ctx, query, provider, providerID)
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, args...)

	logQuery(query, args, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser overwrites the mutable fields of u. It returns nil, nil if the user is gone.
func (r *UserRepository) UpdateUser(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET email = $2, name = $3, provider = $4, provider_id = $5, avatar_url = $6,
			is_verified = $7, role = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	args := []any{u.ID, u.Email, u.Name, u.Provider, u.ProviderID, u.AvatarURL, u.IsVerified, u.Role}

	var updated models.User
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &updated, query, args...)

	logQuery(query, args, updated.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &updated, nil
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_login = $2 WHERE id = $1`
	args := []any{id, at}

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	logQuery(query, args, rowsAffected(res), err)
	return err
}

// DeleteUser removes the user row and reports whether it existed.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, id)
	n := rowsAffected(res)
	logQuery(query, []any{id}, n, err)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func rowsAffected(res sql.Result) int64 {
	if res == nil {
		return 0
	}
	n, _ := res.RowsAffected()
	return n
}

package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/finanfun/internal/models"
)

// ProfileRepository stores user profiles in PostgreSQL.
type ProfileRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewProfileRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ProfileRepository {
	return &ProfileRepository{db: db, txGetter: txGetter}
}

// CreateProfile inserts the default profile of a new user.
func (r *ProfileRepository) CreateProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		INSERT INTO user_profiles (user_id, country, preferred_language, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, user_id, birth_date, phone, address, city, state, country,
			preferred_language, created_at, updated_at
	`
	args := []any{userID, models.DefaultCountry, models.DefaultLanguage}

	var profile models.Profile
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &profile, query, args...)

	logQuery(query, args, profile.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) DeleteProfile(ctx context.Context, userID int64) error {
	query := `DELETE FROM user_profiles WHERE user_id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, userID)
	logQuery(query, []any{userID}, rowsAffected(res), err)
	return err
}

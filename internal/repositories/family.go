package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/finanfun/internal/models"
)

const familyColumns = `id, parent_id, child_id, relationship, status, created_at, approved_at`

// FamilyRepository stores parent/child links.
type FamilyRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewFamilyRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *FamilyRepository {
	return &FamilyRepository{db: db, txGetter: txGetter}
}

func (r *FamilyRepository) CreateFamilyConnection(ctx context.Context, c *models.FamilyConnection) (*models.FamilyConnection, error) {
	query := `
		INSERT INTO family_connections (parent_id, child_id, relationship, status, created_at, approved_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		RETURNING ` + familyColumns
	args := []any{c.ParentID, c.ChildID, c.Relationship, c.Status, c.ApprovedAt}

	var created models.FamilyConnection
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &created, query, args...)

	logQuery(query, args, created.ID, err)

	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// GetOpenConnection returns the link between parent and child that is not inactive,
// or nil, nil.
func (r *FamilyRepository) GetOpenConnection(ctx context.Context, parentID, childID int64) (*models.FamilyConnection, error) {
	query := `
		SELECT ` + familyColumns + `
		FROM family_connections
		WHERE parent_id = $1 AND child_id = $2 AND status <> 'inactive'
		ORDER BY id DESC
		LIMIT 1
	`
	args := []any{parentID, childID}

	var c models.FamilyConnection
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &c, query, args...)

	logQuery(query, args, c.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChildren returns the active children of a parent joined with their user fields.
func (r *FamilyRepository) ListChildren(ctx context.Context, parentID int64) ([]models.FamilyMember, error) {
	query := `
		SELECT fc.id AS connection_id, u.id AS child_id, u.uuid::text AS child_uuid,
			u.name AS child_name, u.email AS child_email, u.avatar_url AS child_avatar,
			fc.relationship, fc.status, fc.approved_at
		FROM family_connections fc
		JOIN users u ON u.id = fc.child_id
		WHERE fc.parent_id = $1 AND fc.status = 'active'
		ORDER BY fc.id
	`

	members := []models.FamilyMember{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &members, query, parentID)

	logQuery(query, []any{parentID}, len(members), err)

	if err != nil {
		return nil, err
	}
	return members, nil
}

// DeactivateConnection marks open links between parent and child inactive.
// It reports whether any link changed.
func (r *FamilyRepository) DeactivateConnection(ctx context.Context, parentID, childID int64) (bool, error) {
	query := `
		UPDATE family_connections
		SET status = 'inactive'
		WHERE parent_id = $1 AND child_id = $2 AND status <> 'inactive'
	`
	args := []any{parentID, childID}

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	n := rowsAffected(res)
	logQuery(query, args, n, err)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteFamilyByUser removes every link where the user is parent or child.
func (r *FamilyRepository) DeleteFamilyByUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM family_connections WHERE parent_id = $1 OR child_id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, userID)
	logQuery(query, []any{userID}, rowsAffected(res), err)
	return err
}

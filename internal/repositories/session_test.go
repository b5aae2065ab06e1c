package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	ctx := context.Background()
	users := NewUserRepository(db, TxFromContext)
	repo := NewSessionRepository(db, TxFromContext)
	user := createTestUser(t, users, "ana@example.com")

	ip := "10.0.0.1"
	now := time.Now().UTC()

	live, err := repo.CreateSession(ctx, &models.Session{UserID: user.ID, TokenHash: "live-hash", ExpiresAt: now.Add(time.Hour), IPAddress: &ip})
	require.NoError(t, err)
	assert.Equal(t, user.ID, live.UserID)

	_, err = repo.CreateSession(ctx, &models.Session{UserID: user.ID, TokenHash: "old-hash", ExpiresAt: now.Add(-time.Hour)})
	require.NoError(t, err)

	_, err = repo.CreateSession(ctx, &models.Session{UserID: user.ID, TokenHash: "live-hash", ExpiresAt: now.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	got, err := repo.GetSessionByTokenHash(ctx, "live-hash")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ip, *got.IPAddress)

	got, err = repo.GetSessionByTokenHash(ctx, "unknown")
	assert.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteSessionByTokenHash(ctx, "live-hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteSessionByTokenHash(ctx, "live-hash")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.CreateSession(ctx, &models.Session{UserID: user.ID, TokenHash: "other", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteSessionsByUser(ctx, user.ID))
	got, err = repo.GetSessionByTokenHash(ctx, "other")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

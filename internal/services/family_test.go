package services_test

import (
	"context"
	"testing"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyService(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	parent := env.register(t, "parent@example.com")
	child := env.register(t, "child@example.com")

	link, err := env.family.LinkChild(ctx, parent.ID, "CHILD@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, models.FamilyActive, link.Status)
	assert.Equal(t, models.RelationshipParent, link.Relationship)
	assert.NotNil(t, link.ApprovedAt)

	tests := []struct {
		name         string
		email        string
		relationship string
		wantErr      error
	}{
		{name: "AlreadyLinked", email: "child@example.com", wantErr: services.ErrAlreadyLinked},
		{name: "Self", email: "parent@example.com", wantErr: services.ErrValidation},
		{name: "UnknownChild", email: "ghost@example.com", wantErr: services.ErrUserNotFound},
		{name: "BadRelationship", email: "child@example.com", relationship: "uncle", wantErr: services.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.family.LinkChild(ctx, parent.ID, tt.email, tt.relationship)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.NoError(t, env.family.UnlinkChild(ctx, parent.ID, child.ID))
	assert.ErrorIs(t, env.family.UnlinkChild(ctx, parent.ID, child.ID), services.ErrNotLinked)

	relinked, err := env.family.LinkChild(ctx, parent.ID, child.Email, models.RelationshipGuardian)
	require.NoError(t, err)
	assert.NotEqual(t, link.ID, relinked.ID)
}

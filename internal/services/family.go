package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/repositories"
)

// FamilyStore persists family links.
type FamilyStore interface {
	CreateFamilyConnection(ctx context.Context, c *models.FamilyConnection) (*models.FamilyConnection, error)
	GetOpenConnection(ctx context.Context, parentID, childID int64) (*models.FamilyConnection, error)
	DeactivateConnection(ctx context.Context, parentID, childID int64) (bool, error)
}

// EmailLookup finds users by email.
type EmailLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// FamilyService links parents to children.
type FamilyService struct {
	users  EmailLookup
	family FamilyStore
	now    func() time.Time
}

func NewFamilyService(users EmailLookup, family FamilyStore) *FamilyService {
	return &FamilyService{users: users, family: family, now: time.Now}
}

// LinkChild creates an active link from parentID to the user with childEmail.
func (s *FamilyService) LinkChild(ctx context.Context, parentID int64, childEmail, relationship string) (*models.FamilyConnection, error) {
	switch relationship {
	case "":
		relationship = models.RelationshipParent
	case models.RelationshipParent, models.RelationshipGuardian:
	default:
		return nil, fmt.Errorf("%w: relationship %q is not allowed", ErrValidation, relationship)
	}

	child, err := s.users.GetUserByEmail(ctx, NormalizeEmail(childEmail))
	if err != nil {
		logger.Log.Errorw("failed to get child", "err", err)
		return nil, err
	}
	if child == nil {
		return nil, ErrUserNotFound
	}
	if child.ID == parentID {
		return nil, fmt.Errorf("%w: cannot link yourself", ErrValidation)
	}

	existing, err := s.family.GetOpenConnection(ctx, parentID, child.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyLinked
	}

	now := s.now()
	link, err := s.family.CreateFamilyConnection(ctx, &models.FamilyConnection{
		ParentID:     parentID,
		ChildID:      child.ID,
		Relationship: relationship,
		Status:       models.FamilyActive,
		ApprovedAt:   &now,
	})
	if errors.Is(err, repositories.ErrUniqueViolation) {
		return nil, ErrAlreadyLinked
	}
	if err != nil {
		logger.Log.Errorw("failed to create family link", "parent_id", parentID, "child_id", child.ID, "err", err)
		return nil, err
	}
	return link, nil
}

// UnlinkChild deactivates the link between parentID and childID.
func (s *FamilyService) UnlinkChild(ctx context.Context, parentID, childID int64) error {
	changed, err := s.family.DeactivateConnection(ctx, parentID, childID)
	if err != nil {
		logger.Log.Errorw("failed to deactivate family link", "parent_id", parentID, "child_id", childID, "err", err)
		return err
	}
	if !changed {
		return ErrNotLinked
	}
	return nil
}

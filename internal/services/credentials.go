package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// MinBcryptCost is the lowest accepted bcrypt cost.
const MinBcryptCost = 10

// UserStore persists user records.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, userID int64) (*models.Profile, error)
	DeleteProfile(ctx context.Context, userID int64) error
}

// AccountOpener creates ledger accounts.
type AccountOpener interface {
	CreateAccount(ctx context.Context, a *models.Account) (*models.Account, error)
}

// UserDataPurger removes everything a user owns.
type UserDataPurger interface {
	DeleteSessionsByUser(ctx context.Context, userID int64) error
	DeleteTransactionsByUser(ctx context.Context, userID int64) error
	DeleteAccountsByUser(ctx context.Context, userID int64) error
	DeleteFamilyByUser(ctx context.Context, userID int64) error
}

// LedgerPoster posts entries inside the caller's transaction and publishes them after commit.
type LedgerPoster interface {
	Post(ctx context.Context, userID int64, nt models.NewTransaction) (*models.Transaction, error)
	Publish(ctx context.Context, t *models.Transaction)
}

// CredentialStore owns user identity records and password checks.
type CredentialStore struct {
	tx        Transactor
	users     UserStore
	profiles  ProfileStore
	accounts  AccountOpener
	purger    UserDataPurger
	ledger    LedgerPoster
	cost      int
	dummyHash []byte
	now       func() time.Time
}

// NewCredentialStore creates a CredentialStore. A cost below MinBcryptCost is raised to it.
func NewCredentialStore(
	tx Transactor,
	users UserStore,
	profiles ProfileStore,
	accounts AccountOpener,
	purger UserDataPurger,
	ledger LedgerPoster,
	cost int,
) *CredentialStore {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("finanfun-timing-equalizer"), cost)

	return &CredentialStore{
		tx:        tx,
		users:     users,
		profiles:  profiles,
		accounts:  accounts,
		purger:    purger,
		ledger:    ledger,
		cost:      cost,
		dummyHash: dummy,
		now:       time.Now,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user with its profile, a real and a virtual account,
// and credits the signup bonus. Everything happens in one transaction.
func (s *CredentialStore) CreateUser(ctx context.Context, nu models.NewUser) (*models.User, error) {
	email := NormalizeEmail(nu.Email)
	name := strings.TrimSpace(nu.Name)
	provider := nu.Provider
	if provider == "" {
		provider = models.ProviderEmail
	}
	role := nu.Role
	if role == "" {
		role = models.RoleUser
	}

	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email and name are required", ErrValidation)
	}
	if provider == models.ProviderEmail && nu.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "email", email, "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("user already exists", "email", email)
		return nil, ErrDuplicateEmail
	}

	user := &models.User{
		UUID:       uuid.New(),
		Email:      email,
		Name:       name,
		Provider:   provider,
		ProviderID: nu.ProviderID,
		AvatarURL:  nu.AvatarURL,
		IsVerified: nu.Verified,
		Role:       role,
	}
	if provider == models.ProviderEmail {
		hashed, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.cost)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		hash := string(hashed)
		user.PasswordHash = &hash
	}

	var (
		created *models.User
		bonus   *models.Transaction
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if created, err = s.users.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrUniqueViolation) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("create user: %w", err)
		}
		if _, err := s.profiles.CreateProfile(ctx, created.ID); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		for _, account := range models.DefaultAccounts(created.ID) {
			if _, err := s.accounts.CreateAccount(ctx, &account); err != nil {
				return fmt.Errorf("create %s account: %w", account.AccountType, err)
			}
		}
		source := models.SourceSignupBonus
		bonus, err = s.ledger.Post(ctx, created.ID, models.NewTransaction{
			Amount:      models.SignupBonus,
			Type:        models.TxReward,
			Description: "Bônus de boas-vindas",
			Source:      &source,
		})
		if err != nil {
			return fmt.Errorf("credit signup bonus: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Log.Errorw("failed to create user", "email", email, "err", err)
		return nil, err
	}

	s.ledger.Publish(ctx, bonus)
	return created, nil
}

// GetUserByEmail returns nil when no user has the email.
func (s *CredentialStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetUserByEmail(ctx, NormalizeEmail(email))
}

func (s *CredentialStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", id, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Authenticate checks an email/password pair. Unknown users, users without a
// password and wrong passwords all yield ErrInvalidCredentials after a bcrypt
// comparison, so response time does not reveal which case occurred.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}

	if user == nil || !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.touch(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *CredentialStore) touch(ctx context.Context, user *models.User) error {
	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		logger.Log.Errorw("failed to update last login", "user_id", user.ID, "err", err)
		return err
	}
	user.LastLogin = &now
	return nil
}

// UpdateUser applies a partial update.
func (s *CredentialStore) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil || patch.Empty() {
		return user, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		user.Name = name
	}
	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email", ErrValidation)
		}
		if email != user.Email {
			other, err := s.users.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, ErrDuplicateEmail
			}
		}
		user.Email = email
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = patch.AvatarURL
	}
	if patch.Verified != nil {
		user.IsVerified = *patch.Verified
	}

	updated, err := s.users.UpdateUser(ctx, user)
	if errors.Is(err, repositories.ErrUniqueViolation) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		logger.Log.Errorw("failed to update user", "user_id", id, "err", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

// DeleteUser removes the user and all of its data in one transaction.
func (s *CredentialStore) DeleteUser(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.purger.DeleteSessionsByUser(ctx, id); err != nil {
			return err
		}
		if err := s.purger.DeleteTransactionsByUser(ctx, id); err != nil {
			return err
		}
		if err := s.purger.DeleteAccountsByUser(ctx, id); err != nil {
			return err
		}
		if err := s.purger.DeleteFamilyByUser(ctx, id); err != nil {
			return err
		}
		if err := s.profiles.DeleteProfile(ctx, id); err != nil {
			return err
		}
		deleted, err := s.users.DeleteUser(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		logger.Log.Errorw("failed to delete user", "user_id", id, "err", err)
	}
	return err
}

// ResolveExternal maps a provider identity to a local user. It matches by
// provider id first, then by verified email (linking the provider to accounts
// without a password), and otherwise creates a new passwordless user.
func (s *CredentialStore) ResolveExternal(ctx context.Context, p *models.ExternalProfile) (*models.User, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("%w: provider returned no subject", ErrValidation)
	}

	user, err := s.users.GetUserByProvider(ctx, p.Provider, p.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, s.touch(ctx, user)
	}

	email := NormalizeEmail(p.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: provider returned no email", ErrValidation)
	}

	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if !p.Verified {
			return nil, ErrInvalidCredentials
		}
		if user.AvatarURL == nil && p.AvatarURL != "" {
			user.AvatarURL = &p.AvatarURL
		}
		user.IsVerified = true
		if !user.HasPassword() {
			providerID := p.ID
			user.Provider = p.Provider
			user.ProviderID = &providerID
		}
		if user, err = s.users.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		return user, s.touch(ctx, user)
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	providerID := p.ID
	nu := models.NewUser{
		Email:      email,
		Name:       name,
		Provider:   p.Provider,
		ProviderID: &providerID,
		Verified:   p.Verified,
	}
	if p.AvatarURL != "" {
		avatar := p.AvatarURL
		nu.AvatarURL = &avatar
	}

	if user, err = s.CreateUser(ctx, nu); err != nil {
		return nil, err
	}
	return user, s.touch(ctx, user)
}

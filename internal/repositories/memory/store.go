// Package memory is an in-process storage backend with the same capability set
// as the PostgreSQL repositories. It is selected with STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sbilibin2017/finanfun/internal/models"
	"github.com/sbilibin2017/finanfun/internal/repositories"
	"github.com/shopspring/decimal"
)

type state struct {
	users        map[int64]models.User
	profiles     map[int64]models.Profile // by user id
	sessions     map[string]models.Session
	accounts     map[int64]models.Account
	transactions []models.Transaction
	family       map[int64]models.FamilyConnection
	seq          int64
}

func newState() state {
	return state{
		users:    map[int64]models.User{},
		profiles: map[int64]models.Profile{},
		sessions: map[string]models.Session{},
		accounts: map[int64]models.Account{},
		family:   map[int64]models.FamilyConnection{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.family {
		c.family[k] = v
	}
	c.transactions = append([]models.Transaction(nil), s.transactions...)
	c.seq = s.seq
	return c
}

// Store keeps every table in maps guarded by one mutex.
type Store struct {
	mu  sync.Mutex
	st  state
	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

type txKey struct{}

// WithinTx runs fn while holding the store lock. Changes made by fn are
// discarded when it returns an error or panics.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if rec := recover(); rec != nil {
			s.st = snapshot
			panic(rec)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the store lock unless ctx belongs to a running transaction.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) nextID() int64 {
	s.st.seq++
	return s.st.seq
}

func uniqueErr(constraint string) error {
	return fmt.Errorf("%w: %s", repositories.ErrUniqueViolation, constraint)
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	defer s.lock(ctx)()

	for _, existing := range s.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, uniqueErr("users_email_key")
		}
		if u.ProviderID != nil && existing.ProviderID != nil &&
			existing.Provider == u.Provider && *existing.ProviderID == *u.ProviderID {
			return nil, uniqueErr("users_provider_id_idx")
		}
	}

	created := *u
	created.ID = s.nextID()
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	s.st.users[created.ID] = created
	return &created, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	defer s.lock(ctx)()

	u, ok := s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.lock(ctx)()

	for _, u := range s.st.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	defer s.lock(ctx)()

	for _, u := range s.st.users {
		if u.Provider == provider && u.ProviderID != nil && *u.ProviderID == providerID {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) (*models.User, error) {
	defer s.lock(ctx)()

	current, ok := s.st.users[u.ID]
	if !ok {
		return nil, nil
	}
	for id, other := range s.st.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return nil, uniqueErr("users_email_key")
		}
	}

	current.Email = u.Email
	current.Name = u.Name
	current.Provider = u.Provider
	current.ProviderID = u.ProviderID
	current.AvatarURL = u.AvatarURL
	current.IsVerified = u.IsVerified
	current.Role = u.Role
	current.UpdatedAt = s.now()
	s.st.users[u.ID] = current
	return &current, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	defer s.lock(ctx)()

	if u, ok := s.st.users[id]; ok {
		u.LastLogin = &at
		s.st.users[id] = u
	}
	return nil
}

// DeleteUser removes the user and, like ON DELETE CASCADE, everything it owns.
func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	defer s.lock(ctx)()

	if _, ok := s.st.users[id]; !ok {
		return false, nil
	}
	delete(s.st.users, id)
	delete(s.st.profiles, id)
	s.deleteSessions(id)
	s.deleteTransactions(id)
	s.deleteAccounts(id)
	s.deleteFamily(id)
	return true, nil
}

// Profiles

func (s *Store) CreateProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	defer s.lock(ctx)()

	if _, ok := s.st.profiles[userID]; ok {
		return nil, uniqueErr("user_profiles_user_id_key")
	}
	now := s.now()
	p := models.Profile{
		ID:                s.nextID(),
		UserID:            userID,
		Country:           models.DefaultCountry,
		PreferredLanguage: models.DefaultLanguage,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.st.profiles[userID] = p
	return &p, nil
}

func (s *Store) DeleteProfile(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()

	delete(s.st.profiles, userID)
	return nil
}

// Sessions

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) (*models.Session, error) {
	defer s.lock(ctx)()

	if _, ok := s.st.sessions[sess.TokenHash]; ok {
		return nil, uniqueErr("user_sessions_token_hash_key")
	}
	created := *sess
	created.ID = s.nextID()
	created.CreatedAt = s.now()
	s.st.sessions[created.TokenHash] = created
	return &created, nil
}

func (s *Store) GetSessionByTokenHash(ctx context.Context, hash string) (*models.Session, error) {
	defer s.lock(ctx)()

	sess, ok := s.st.sessions[hash]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *Store) DeleteSessionByTokenHash(ctx context.Context, hash string) (int64, error) {
	defer s.lock(ctx)()

	if _, ok := s.st.sessions[hash]; !ok {
		return 0, nil
	}
	delete(s.st.sessions, hash)
	return 1, nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	defer s.lock(ctx)()

	var n int64
	for hash, sess := range s.st.sessions {
		if sess.Expired(now) {
			delete(s.st.sessions, hash)
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteSessionsByUser(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()

	s.deleteSessions(userID)
	return nil
}

func (s *Store) deleteSessions(userID int64) {
	for hash, sess := range s.st.sessions {
		if sess.UserID == userID {
			delete(s.st.sessions, hash)
		}
	}
}

// Accounts

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) (*models.Account, error) {
	defer s.lock(ctx)()

	for _, existing := range s.st.accounts {
		if existing.UserID == a.UserID && existing.AccountType == a.AccountType {
			return nil, uniqueErr("accounts_user_id_account_type_key")
		}
	}
	created := *a
	created.ID = s.nextID()
	created.CreatedAt = s.now()
	created.UpdatedAt = created.CreatedAt
	s.st.accounts[created.ID] = created
	return &created, nil
}

func (s *Store) GetAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	defer s.lock(ctx)()

	accounts := []models.Account{}
	for _, a := range s.st.accounts {
		if a.UserID == userID && a.IsActive {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// GetAccountForUpdate behaves like GetAccounts filtered by type; the store lock
// held by WithinTx already serializes writers.
func (s *Store) GetAccountForUpdate(ctx context.Context, userID int64, accountType string) (*models.Account, error) {
	defer s.lock(ctx)()

	for _, a := range s.st.accounts {
		if a.UserID == userID && a.AccountType == accountType && a.IsActive {
			return &a, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateAccountBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	defer s.lock(ctx)()

	if a, ok := s.st.accounts[accountID]; ok {
		a.Balance = balance
		a.UpdatedAt = s.now()
		s.st.accounts[accountID] = a
	}
	return nil
}

func (s *Store) DeleteAccountsByUser(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()

	s.deleteAccounts(userID)
	return nil
}

func (s *Store) deleteAccounts(userID int64) {
	for id, a := range s.st.accounts {
		if a.UserID == userID {
			delete(s.st.accounts, id)
		}
	}
}

// Transactions

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	defer s.lock(ctx)()

	created := *t
	created.ID = s.nextID()
	created.CreatedAt = s.now()
	s.st.transactions = append(s.st.transactions, created)
	return &created, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	defer s.lock(ctx)()

	txs := []models.Transaction{}
	for i := len(s.st.transactions) - 1; i >= 0 && len(txs) < limit; i-- {
		if s.st.transactions[i].UserID == userID {
			txs = append(txs, s.st.transactions[i])
		}
	}
	return txs, nil
}

func (s *Store) DeleteTransactionsByUser(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()

	s.deleteTransactions(userID)
	return nil
}

func (s *Store) deleteTransactions(userID int64) {
	kept := s.st.transactions[:0]
	for _, t := range s.st.transactions {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	s.st.transactions = kept
}

// SumTransactions returns the sum of all amounts posted to an account.
func (s *Store) SumTransactions(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	defer s.lock(ctx)()

	sum := decimal.Zero
	for _, t := range s.st.transactions {
		if t.AccountID == accountID {
			sum = sum.Add(t.Amount)
		}
	}
	return sum, nil
}

// Family

func (s *Store) CreateFamilyConnection(ctx context.Context, c *models.FamilyConnection) (*models.FamilyConnection, error) {
	defer s.lock(ctx)()

	if s.openConnection(c.ParentID, c.ChildID) != nil && c.Status != models.FamilyInactive {
		return nil, uniqueErr("family_connections_open_pair_idx")
	}
	created := *c
	created.ID = s.nextID()
	created.CreatedAt = s.now()
	s.st.family[created.ID] = created
	return &created, nil
}

func (s *Store) GetOpenConnection(ctx context.Context, parentID, childID int64) (*models.FamilyConnection, error) {
	defer s.lock(ctx)()

	return s.openConnection(parentID, childID), nil
}

func (s *Store) openConnection(parentID, childID int64) *models.FamilyConnection {
	for _, c := range s.st.family {
		if c.ParentID == parentID && c.ChildID == childID && c.Status != models.FamilyInactive {
			return &c
		}
	}
	return nil
}

func (s *Store) ListChildren(ctx context.Context, parentID int64) ([]models.FamilyMember, error) {
	defer s.lock(ctx)()

	members := []models.FamilyMember{}
	for _, c := range s.st.family {
		if c.ParentID != parentID || c.Status != models.FamilyActive {
			continue
		}
		child, ok := s.st.users[c.ChildID]
		if !ok {
			continue
		}
		members = append(members, models.FamilyMember{
			ConnectionID: c.ID,
			ChildID:      child.ID,
			ChildUUID:    child.UUID.String(),
			ChildName:    child.Name,
			ChildEmail:   child.Email,
			ChildAvatar:  child.AvatarURL,
			Relationship: c.Relationship,
			Status:       c.Status,
			ApprovedAt:   c.ApprovedAt,
		})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ConnectionID < members[j].ConnectionID })
	return members, nil
}

func (s *Store) DeactivateConnection(ctx context.Context, parentID, childID int64) (bool, error) {
	defer s.lock(ctx)()

	changed := false
	for id, c := range s.st.family {
		if c.ParentID == parentID && c.ChildID == childID && c.Status != models.FamilyInactive {
			c.Status = models.FamilyInactive
			s.st.family[id] = c
			changed = true
		}
	}
	return changed, nil
}

func (s *Store) DeleteFamilyByUser(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()

	s.deleteFamily(userID)
	return nil
}

func (s *Store) deleteFamily(userID int64) {
	for id, c := range s.st.family {
		if c.ParentID == userID || c.ChildID == userID {
			delete(s.st.family, id)
		}
	}
}

// Counts returns the number of rows per table.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]int{
		"users":               len(s.st.users),
		"user_profiles":       len(s.st.profiles),
		"user_sessions":       len(s.st.sessions),
		"accounts":            len(s.st.accounts),
		"bitfun_transactions": len(s.st.transactions),
		"family_connections":  len(s.st.family),
	}
}

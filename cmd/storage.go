package main

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/migrations"
	"github.com/sbilibin2017/finanfun/internal/repositories"
	"github.com/sbilibin2017/finanfun/internal/repositories/memory"
	"github.com/sbilibin2017/finanfun/internal/services"
)

// Supported STORAGE_DRIVER values.
const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type transactor interface {
	services.Transactor
	pinger
}

type accountRepo interface {
	services.AccountOpener
	services.AccountStore
}

type familyRepo interface {
	services.FamilyStore
	services.FamilyReader
}

// storage is the set of repositories the services are built from.
// Both drivers provide the same behaviour.
type storage struct {
	tx           transactor
	users        services.UserStore
	profiles     services.ProfileStore
	accounts     accountRepo
	transactions services.TransactionStore
	family       familyRepo
	sessions     services.SessionStore
	purger       services.UserDataPurger
}

// pgPurger deletes a user's dependent rows across the PostgreSQL repositories.
type pgPurger struct {
	sessions     *repositories.SessionRepository
	transactions *repositories.TransactionRepository
	accounts     *repositories.AccountRepository
	family       *repositories.FamilyRepository
}

func (p pgPurger) DeleteSessionsByUser(ctx context.Context, userID int64) error {
	return p.sessions.DeleteSessionsByUser(ctx, userID)
}

func (p pgPurger) DeleteTransactionsByUser(ctx context.Context, userID int64) error {
	return p.transactions.DeleteTransactionsByUser(ctx, userID)
}

func (p pgPurger) DeleteAccountsByUser(ctx context.Context, userID int64) error {
	return p.accounts.DeleteAccountsByUser(ctx, userID)
}

func (p pgPurger) DeleteFamilyByUser(ctx context.Context, userID int64) error {
	return p.family.DeleteFamilyByUser(ctx, userID)
}

func newPostgresStorage(db *sqlx.DB) *storage {
	txGetter := repositories.TxFromContext

	sessions := repositories.NewSessionRepository(db, txGetter)
	transactions := repositories.NewTransactionRepository(db, txGetter)
	accounts := repositories.NewAccountRepository(db, txGetter)
	family := repositories.NewFamilyRepository(db, txGetter)

	return &storage{
		tx:           repositories.NewTransactor(db),
		users:        repositories.NewUserRepository(db, txGetter),
		profiles:     repositories.NewProfileRepository(db, txGetter),
		accounts:     accounts,
		transactions: transactions,
		family:       family,
		sessions:     sessions,
		purger:       pgPurger{sessions: sessions, transactions: transactions, accounts: accounts, family: family},
	}
}

func newMemoryStorage(s *memory.Store) *storage {
	return &storage{
		tx:           s,
		users:        s,
		profiles:     s,
		accounts:     s,
		transactions: s,
		family:       s,
		sessions:     s,
		purger:       s,
	}
}

// openStorage connects to the configured driver. The returned func releases it.
func openStorage(ctx context.Context, cfg *config) (*storage, func(), error) {
	log := logger.Log

	if cfg.StorageDriver == storageMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		return newMemoryStorage(memory.New()), func() {}, nil
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB, cfg.PGSSLMode)
	log.Infof("Connecting to PostgreSQL at %s:%d/%s", cfg.PGHost, cfg.PGPort, cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)
	db.SetConnMaxLifetime(cfg.PGConnMaxLifetime)

	if err := migrations.Up(db.DB); err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Info("Database migrations applied")

	return newPostgresStorage(db), func() { db.Close() }, nil
}

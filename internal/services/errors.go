package services

import (
	"context"
	"errors"
)

// Error variables
var (
	ErrValidation             = errors.New("validation failed")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserNotFound           = errors.New("user not found")
	ErrSessionInvalid         = errors.New("session invalid or expired")
	ErrInvalidAmount          = errors.New("amount must be positive with at most two decimal places")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrAccountNotFound        = errors.New("account not found")
	ErrNotLinked              = errors.New("family link not found")
	ErrAlreadyLinked          = errors.New("family link already exists")
	ErrUnknownProvider        = errors.New("unknown identity provider")
)

// Transactor runs fn inside a storage transaction; repositories called with the
// context passed to fn join it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters or the pool
	// configuration are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAmount is returned when a requested amount is zero or a computed
	// amount resolves to zero where it must not.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPoolLocked is returned when an operation requires an unlocked pool.
	ErrPoolLocked = errors.New("pool locked")

	// ErrPoolUnlocked is returned when unlock is attempted on an unlocked pool.
	ErrPoolUnlocked = errors.New("pool unlocked")

	// ErrInvalidAuthority is returned when lock/unlock is attempted by an identity
	// other than the pool authority.
	ErrInvalidAuthority = errors.New("invalid authority")

	// ErrSlippageExceeded is returned when a computed amount violates the bound
	// declared by the caller.
	ErrSlippageExceeded = errors.New("slippage exceeded")

	// ErrInsufficientBalance is returned when the caller lacks the holdings
	// required by the operation.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrPrecision is returned on arithmetic overflow, division by a zero supply
	// or an unrepresentable scaled result.
	ErrPrecision = errors.New("precision error")

	// ErrCurve is returned when the curve cannot be evaluated against the
	// current reserves.
	ErrCurve = errors.New("curve error")

	// ErrPoolNotFound is returned when no pool is registered under a key.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolExists is returned when a pool is already registered under a key.
	ErrPoolExists = errors.New("pool already exists")

	// ErrReadFailure is returned when reserves cannot be read from an
	// external source.
	ErrReadFailure = errors.New("read failure")
)

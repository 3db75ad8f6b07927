package pool

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

// State is the administrative lock state of a pool.
type State uint8

const (
	Unlocked State = iota
	Locked
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Unlocked:
		return "unlocked"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// State returns the current lock state.
func (r Record) State() State {
	if r.Locked {
		return Locked
	}
	return Unlocked
}

// EnsureUnlocked fails with ErrPoolLocked while the pool is locked.
func (r Record) EnsureUnlocked() error {
	if r.Locked {
		return errors.Wrap(apperrors.ErrPoolLocked, "pool is locked")
	}
	return nil
}

// Lock moves the pool from Unlocked to Locked on behalf of caller.
// Locking an already locked pool fails; lock is not idempotent.
func (r *Record) Lock(caller Identity) error {
	if r.Locked {
		return errors.Wrap(apperrors.ErrPoolLocked, "pool is already locked")
	}
	if !r.Authority.Permits(caller) {
		return errors.Wrapf(apperrors.ErrInvalidAuthority, "%s may not lock the pool", caller.Hex())
	}
	r.Locked = true
	return nil
}

// Unlock moves the pool from Locked to Unlocked on behalf of caller.
func (r *Record) Unlock(caller Identity) error {
	if !r.Locked {
		return errors.Wrap(apperrors.ErrPoolUnlocked, "pool is already unlocked")
	}
	if !r.Authority.Permits(caller) {
		return errors.Wrapf(apperrors.ErrInvalidAuthority, "%s may not unlock the pool", caller.Hex())
	}
	r.Locked = false
	return nil
}

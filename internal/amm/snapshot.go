package amm

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

// Holdings are the caller's balances relevant to one pool.
type Holdings struct {
	X     uint64
	Y     uint64
	Units uint64
}

// Snapshot is a fresh reading of one pool taken right before an operation.
//
// Handlers assume the snapshot stays current until their instructions are
// applied; the host must serialize all operations against the same pool.
type Snapshot struct {
	ReserveX   uint64
	ReserveY   uint64
	UnitSupply uint64
	Holdings   Holdings
}

// Reserves returns (reserveIn, reserveOut) for a swap direction.
func (s Snapshot) Reserves(xToY bool) (uint64, uint64) {
	if xToY {
		return s.ReserveX, s.ReserveY
	}
	return s.ReserveY, s.ReserveX
}

// Healthy reports an error when units exist but a reserve is empty.
func (s Snapshot) Healthy() error {
	if s.UnitSupply > 0 && (s.ReserveX == 0 || s.ReserveY == 0) {
		return errors.Wrapf(apperrors.ErrCurve, "one-sided pool: reserves %d/%d with supply %d",
			s.ReserveX, s.ReserveY, s.UnitSupply)
	}
	return nil
}

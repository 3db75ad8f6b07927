// Package amm holds the operation handlers of a constant-product pool.
//
// A handler validates its preconditions against a pool record and a reserve
// snapshot, evaluates the curve and returns the ordered writes the host has to
// apply atomically. On failure no instructions are returned. Handlers perform
// no I/O and no locking: the caller must serialize operations per pool so the
// snapshot cannot change between the read and the application of the writes.
package amm

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/curve"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/pool"
)

// DepositParams requests minting Units pool units to Owner, paying at most
// MaxX and MaxY. On the first deposit MaxX and MaxY are the exact amounts.
type DepositParams struct {
	Owner pool.Identity
	Units uint64
	MaxX  uint64
	MaxY  uint64
}

// DepositResult is a planned deposit.
type DepositResult struct {
	X            uint64
	Y            uint64
	Units        uint64
	Instructions []Instruction
}

// WithdrawParams requests burning Units of Owner's pool units for at least
// MinX and MinY.
type WithdrawParams struct {
	Owner pool.Identity
	Units uint64
	MinX  uint64
	MinY  uint64
}

// WithdrawResult is a planned withdrawal.
type WithdrawResult struct {
	X            uint64
	Y            uint64
	Units        uint64
	Instructions []Instruction
}

// SwapParams requests selling AmountIn of one asset for at least MinOut of
// the other. XToY selects asset X as the input.
type SwapParams struct {
	Owner    pool.Identity
	XToY     bool
	AmountIn uint64
	MinOut   uint64
}

// SwapResult is a planned swap.
type SwapResult struct {
	AssetIn      pool.Identity
	AssetOut     pool.Identity
	AmountIn     uint64
	AmountOut    uint64
	Instructions []Instruction
}

// Initialize creates the record of a new pool.
func Initialize(cfg pool.Config) (pool.Record, error) {
	return pool.New(cfg)
}

// Deposit plans adding liquidity.
func Deposit(rec pool.Record, snap Snapshot, p DepositParams) (DepositResult, error) {
	if err := rec.EnsureUnlocked(); err != nil {
		return DepositResult{}, err
	}
	if p.Units == 0 {
		return DepositResult{}, errors.Wrap(apperrors.ErrInvalidAmount, "units must be positive")
	}
	if snap.UnitSupply > 0 {
		if err := snap.Healthy(); err != nil {
			return DepositResult{}, err
		}
	}

	amounts, err := curve.DepositAmounts(snap.ReserveX, snap.ReserveY, snap.UnitSupply, p.Units, p.MaxX, p.MaxY)
	if err != nil {
		return DepositResult{}, errors.Wrap(err, "curve.DepositAmounts")
	}
	if amounts.X == 0 || amounts.Y == 0 {
		return DepositResult{}, errors.Wrapf(apperrors.ErrInvalidAmount,
			"deposit of %d units resolves to %d/%d", p.Units, amounts.X, amounts.Y)
	}
	if amounts.X > p.MaxX || amounts.Y > p.MaxY {
		return DepositResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"deposit needs %d/%d, max %d/%d", amounts.X, amounts.Y, p.MaxX, p.MaxY)
	}
	if amounts.X > snap.Holdings.X || amounts.Y > snap.Holdings.Y {
		return DepositResult{}, errors.Wrapf(apperrors.ErrInsufficientBalance,
			"deposit needs %d/%d, holds %d/%d", amounts.X, amounts.Y, snap.Holdings.X, snap.Holdings.Y)
	}
	if err := fits(
		[2]uint64{snap.ReserveX, amounts.X},
		[2]uint64{snap.ReserveY, amounts.Y},
		[2]uint64{snap.UnitSupply, p.Units},
		[2]uint64{snap.Holdings.Units, p.Units},
	); err != nil {
		return DepositResult{}, err
	}

	return DepositResult{
		X:     amounts.X,
		Y:     amounts.Y,
		Units: p.Units,
		Instructions: []Instruction{
			transferIn(rec.AssetX, p.Owner, amounts.X),
			transferIn(rec.AssetY, p.Owner, amounts.Y),
			mint(p.Owner, p.Units),
		},
	}, nil
}

// Withdraw plans removing liquidity.
func Withdraw(rec pool.Record, snap Snapshot, p WithdrawParams) (WithdrawResult, error) {
	if err := rec.EnsureUnlocked(); err != nil {
		return WithdrawResult{}, err
	}
	if p.Units == 0 {
		return WithdrawResult{}, errors.Wrap(apperrors.ErrInvalidAmount, "units must be positive")
	}
	if snap.Holdings.Units < p.Units {
		return WithdrawResult{}, errors.Wrapf(apperrors.ErrInsufficientBalance,
			"burn %d units, holds %d", p.Units, snap.Holdings.Units)
	}

	amounts, err := curve.WithdrawAmounts(snap.ReserveX, snap.ReserveY, snap.UnitSupply, p.Units)
	if err != nil {
		return WithdrawResult{}, errors.Wrap(err, "curve.WithdrawAmounts")
	}
	if amounts.X == 0 && amounts.Y == 0 {
		return WithdrawResult{}, errors.Wrapf(apperrors.ErrInvalidAmount, "burning %d units pays nothing", p.Units)
	}
	if amounts.X < p.MinX || amounts.Y < p.MinY {
		return WithdrawResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"withdraw pays %d/%d, min %d/%d", amounts.X, amounts.Y, p.MinX, p.MinY)
	}
	if err := fits(
		[2]uint64{snap.Holdings.X, amounts.X},
		[2]uint64{snap.Holdings.Y, amounts.Y},
	); err != nil {
		return WithdrawResult{}, err
	}

	return WithdrawResult{
		X:     amounts.X,
		Y:     amounts.Y,
		Units: p.Units,
		Instructions: []Instruction{
			transferOut(rec.AssetX, p.Owner, amounts.X),
			transferOut(rec.AssetY, p.Owner, amounts.Y),
			burn(p.Owner, p.Units),
		},
	}, nil
}

// Swap plans a trade against the pool. Pool-unit supply is never touched.
func Swap(rec pool.Record, snap Snapshot, p SwapParams) (SwapResult, error) {
	if err := rec.EnsureUnlocked(); err != nil {
		return SwapResult{}, err
	}
	if p.AmountIn == 0 {
		return SwapResult{}, errors.Wrap(apperrors.ErrInvalidAmount, "amount in must be positive")
	}

	held, heldOut := snap.Holdings.X, snap.Holdings.Y
	if !p.XToY {
		held, heldOut = heldOut, held
	}
	if held < p.AmountIn {
		return SwapResult{}, errors.Wrapf(apperrors.ErrInsufficientBalance, "sell %d, holds %d", p.AmountIn, held)
	}

	reserveIn, reserveOut := snap.Reserves(p.XToY)
	out, err := curve.SwapOutput(reserveIn, reserveOut, p.AmountIn, rec.FeeBps)
	if err != nil {
		return SwapResult{}, errors.Wrap(err, "curve.SwapOutput")
	}
	if out < p.MinOut {
		return SwapResult{}, errors.Wrapf(apperrors.ErrSlippageExceeded, "swap pays %d, min %d", out, p.MinOut)
	}
	if err := fits(
		[2]uint64{reserveIn, p.AmountIn},
		[2]uint64{heldOut, out},
	); err != nil {
		return SwapResult{}, err
	}

	assetIn, assetOut := rec.Asset(p.XToY), rec.Asset(!p.XToY)
	return SwapResult{
		AssetIn:   assetIn,
		AssetOut:  assetOut,
		AmountIn:  p.AmountIn,
		AmountOut: out,
		Instructions: []Instruction{
			transferIn(assetIn, p.Owner, p.AmountIn),
			transferOut(assetOut, p.Owner, out),
		},
	}, nil
}

// Lock locks rec on behalf of caller.
func Lock(rec *pool.Record, caller pool.Identity) error {
	return rec.Lock(caller)
}

// Unlock unlocks rec on behalf of caller.
func Unlock(rec *pool.Record, caller pool.Identity) error {
	return rec.Unlock(caller)
}

// fits checks that each balance stays representable after the increment.
func fits(sums ...[2]uint64) error {
	for _, s := range sums {
		if _, err := dexmath.Add(s[0], s[1]); err != nil {
			return err
		}
	}
	return nil
}

// Package curve implements the constant-product (x*y=k) pricing curve.
//
// Every function is pure: it reads only its arguments, so any number of
// goroutines may evaluate it concurrently against independently obtained
// reserve snapshots.
package curve

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
)

// Amounts is a pair of asset amounts consistent with a pool-unit amount.
type Amounts struct {
	X uint64
	Y uint64
}

// SwapResult describes one side of a swap.
type SwapResult struct {
	Consumed uint64
	Produced uint64
}

// DepositAmounts returns the asset amounts backing units newly minted pool units.
//
// With an empty supply the first depositor sets the price, so maxX and maxY are
// returned verbatim. Otherwise x = floor(units*reserveX/supply) and likewise
// for y.
func DepositAmounts(reserveX, reserveY, supply, units, maxX, maxY uint64) (Amounts, error) {
	if supply == 0 {
		return Amounts{X: maxX, Y: maxY}, nil
	}
	return proportional(reserveX, reserveY, supply, units)
}

// WithdrawAmounts returns the asset amounts paid out for burning units pool
// units: floor(units*reserve/supply) on each side, never more than the
// proportional share.
func WithdrawAmounts(reserveX, reserveY, supply, units uint64) (Amounts, error) {
	if supply == 0 {
		return Amounts{}, errors.Wrap(apperrors.ErrPrecision, "withdraw from empty supply")
	}
	if units > supply {
		return Amounts{}, errors.Wrapf(apperrors.ErrCurve, "burn %d exceeds supply %d", units, supply)
	}
	return proportional(reserveX, reserveY, supply, units)
}

func proportional(reserveX, reserveY, supply, units uint64) (Amounts, error) {
	x, err := dexmath.MulDiv(units, reserveX, supply)
	if err != nil {
		return Amounts{}, errors.Wrap(err, "x amount")
	}
	y, err := dexmath.MulDiv(units, reserveY, supply)
	if err != nil {
		return Amounts{}, errors.Wrap(err, "y amount")
	}
	return Amounts{X: x, Y: y}, nil
}

// SwapOutput returns the amount of the output asset produced for amountIn of
// the input asset.
//
// The fee is taken from the input: in = floor(amountIn*(10000-feeBps)/10000).
// The output follows the constant-product relation with the retained output
// reserve rounded up, which is the same as
//
//	out = floor(reserveOut*in / (reserveIn + in))
//
// so (reserveIn+amountIn)*(reserveOut-out) >= reserveIn*reserveOut always holds.
func SwapOutput(reserveIn, reserveOut, amountIn uint64, feeBps uint16) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, errors.Wrap(apperrors.ErrCurve, "zero reserve")
	}
	in, err := dexmath.ApplyBps(amountIn, feeBps)
	if err != nil {
		return 0, errors.Wrap(err, "apply fee")
	}

	out, err := dexmath.ProductOverSum(reserveOut, in, reserveIn, in)
	if err != nil {
		return 0, errors.Wrap(err, "amount out")
	}
	if out == 0 {
		return 0, errors.Wrap(apperrors.ErrInvalidAmount, "swap output is zero")
	}
	return out, nil
}

// Swap is SwapOutput returning both sides of the trade.
func Swap(reserveIn, reserveOut, amountIn uint64, feeBps uint16) (SwapResult, error) {
	out, err := SwapOutput(reserveIn, reserveOut, amountIn, feeBps)
	if err != nil {
		return SwapResult{}, err
	}
	return SwapResult{Consumed: amountIn, Produced: out}, nil
}

// SpotPrice returns the marginal price of the input asset in units of the
// output asset, scaled by dexmath.Scale.
func SpotPrice(reserveIn, reserveOut uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, errors.Wrap(apperrors.ErrCurve, "zero reserve")
	}
	return dexmath.MulDiv(reserveOut, dexmath.Scale, reserveIn)
}

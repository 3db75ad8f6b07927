package amm

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/curve"
	"github.com/fleshka4/cpamm/internal/pool"
)

// QuoteResult prices a hypothetical swap without planning any writes.
type QuoteResult struct {
	AmountIn   uint64
	AmountOut  uint64
	FeeFreeOut uint64
	// SpotPrice is the marginal price of the input asset before the trade,
	// scaled by 10^dexmath.Precision.
	SpotPrice uint64
	Locked    bool
}

// Quote prices selling amountIn in the given direction. It ignores the
// caller's holdings and the lock state, which is only reported.
func Quote(rec pool.Record, snap Snapshot, xToY bool, amountIn uint64) (QuoteResult, error) {
	if amountIn == 0 {
		return QuoteResult{}, errors.Wrap(apperrors.ErrInvalidAmount, "amount in must be positive")
	}
	reserveIn, reserveOut := snap.Reserves(xToY)

	out, err := curve.SwapOutput(reserveIn, reserveOut, amountIn, rec.FeeBps)
	if err != nil {
		return QuoteResult{}, errors.Wrap(err, "curve.SwapOutput")
	}
	feeFree, err := curve.SwapOutput(reserveIn, reserveOut, amountIn, 0)
	if err != nil {
		return QuoteResult{}, errors.Wrap(err, "curve.SwapOutput")
	}
	price, err := curve.SpotPrice(reserveIn, reserveOut)
	if err != nil {
		return QuoteResult{}, errors.Wrap(err, "curve.SpotPrice")
	}

	return QuoteResult{
		AmountIn:   amountIn,
		AmountOut:  out,
		FeeFreeOut: feeFree,
		SpotPrice:  price,
		Locked:     rec.Locked,
	}, nil
}

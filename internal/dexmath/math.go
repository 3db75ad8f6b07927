// Package dexmath implements the fixed-precision integer arithmetic shared by
// every curve formula. Products of two native-width amounts are widened to
// 256 bits before dividing; results that do not fit back into uint64 are
// rejected with apperrors.ErrPrecision instead of being wrapped or saturated.
// Division truncates toward zero.
package dexmath

import (
	"math"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

const (
	// Precision is the number of fractional decimal digits used for scaled
	// quantities. It matches the declared decimals of the pool-unit mint.
	Precision = 6

	// Scale is 10^Precision.
	Scale uint64 = 1_000_000

	// BpsDenominator is the number of basis points in one whole.
	BpsDenominator uint64 = 10_000
)

var defaultMath = newMathService()

type mathTmp struct {
	a *uint256.Int
	b *uint256.Int
	c *uint256.Int
}

type mathService struct {
	pool *sync.Pool
}

func newMathService() *mathService {
	return &mathService{
		pool: &sync.Pool{
			New: func() any {
				return &mathTmp{
					a: new(uint256.Int),
					b: new(uint256.Int),
					c: new(uint256.Int),
				}
			},
		},
	}
}

// productOverSum computes floor(x*y / (d0+d1)) in 256-bit precision.
func (m *mathService) productOverSum(x, y, d0, d1 uint64) (uint64, error) {
	t := m.pool.Get().(*mathTmp)
	defer m.pool.Put(t)

	// den := d0 + d1, cannot overflow 256 bits.
	t.c.SetUint64(d0)
	t.b.SetUint64(d1)
	t.c.Add(t.c, t.b)
	if t.c.IsZero() {
		return 0, errors.Wrap(apperrors.ErrPrecision, "division by zero")
	}

	// num := x * y, at most 128 bits.
	t.a.SetUint64(x)
	t.b.SetUint64(y)
	t.a.Mul(t.a, t.b)

	t.a.Div(t.a, t.c)
	if !t.a.IsUint64() {
		return 0, errors.Wrapf(apperrors.ErrPrecision, "%d*%d/(%d+%d) overflows uint64", x, y, d0, d1)
	}
	return t.a.Uint64(), nil
}

// MulDiv returns floor(x*y/d). The product is widened before dividing, so only
// the final quotient has to fit into uint64.
func MulDiv(x, y, d uint64) (uint64, error) {
	return defaultMath.productOverSum(x, y, d, 0)
}

// ProductOverSum returns floor(x*y/(d0+d1)). The denominator is summed in
// widened precision as well, so d0+d1 may exceed uint64.
func ProductOverSum(x, y, d0, d1 uint64) (uint64, error) {
	return defaultMath.productOverSum(x, y, d0, d1)
}

// Add returns a+b or ErrPrecision when the sum overflows uint64.
func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(apperrors.ErrPrecision, "%d+%d overflows uint64", a, b)
	}
	return a + b, nil
}

// Sub returns a-b or ErrPrecision when b > a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(apperrors.ErrPrecision, "%d-%d underflows uint64", a, b)
	}
	return a - b, nil
}

// ApplyBps returns floor(amount * (BpsDenominator-bps) / BpsDenominator), i.e.
// amount discounted by bps basis points.
func ApplyBps(amount uint64, bps uint16) (uint64, error) {
	if uint64(bps) > BpsDenominator {
		return 0, errors.Wrapf(apperrors.ErrPrecision, "fee %d bps exceeds %d", bps, BpsDenominator)
	}
	return MulDiv(amount, BpsDenominator-uint64(bps), BpsDenominator)
}

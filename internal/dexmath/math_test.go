package dexmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

func TestMulDiv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		x, y, d uint64
		want    uint64
		wantErr error
	}{
		{name: "exact", x: 500_000, y: 2_000_000, d: 1_000_000, want: 1_000_000},
		{name: "floors", x: 10, y: 10, d: 3, want: 33},
		{name: "wide product", x: math.MaxUint64, y: math.MaxUint64, d: math.MaxUint64, want: math.MaxUint64},
		{name: "zero numerator", x: 0, y: 7, d: 3, want: 0},
		{name: "zero divisor", x: 1, y: 1, d: 0, wantErr: apperrors.ErrPrecision},
		{name: "result overflows", x: math.MaxUint64, y: 2, d: 1, wantErr: apperrors.ErrPrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := MulDiv(tt.x, tt.y, tt.d)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProductOverSum(t *testing.T) {
	t.Parallel()

	got, err := ProductOverSum(1_000_000, 1_000_000, 1_000_000, 9_970)
	require.NoError(t, err)
	require.Equal(t, uint64(990_128), got)

	// Denominator above uint64 is fine when summed wide.
	got, err = ProductOverSum(math.MaxUint64, 4, math.MaxUint64, math.MaxUint64)
	require.NoError(t, err)
	require.Equal(t, uint64(2), got)

	_, err = ProductOverSum(1, 1, 0, 0)
	require.ErrorIs(t, err, apperrors.ErrPrecision)
}

func TestAddSub(t *testing.T) {
	t.Parallel()

	s, err := Add(1, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(3), s)

	_, err = Add(math.MaxUint64, 1)
	require.ErrorIs(t, err, apperrors.ErrPrecision)

	d, err := Sub(5, 5)
	require.NoError(t, err)
	require.Zero(t, d)

	_, err = Sub(4, 5)
	require.ErrorIs(t, err, apperrors.ErrPrecision)
}

func TestApplyBps(t *testing.T) {
	t.Parallel()

	got, err := ApplyBps(10_000, 30)
	require.NoError(t, err)
	require.Equal(t, uint64(9_970), got)

	got, err = ApplyBps(10_000, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(10_000), got)

	got, err = ApplyBps(10_000, 10_000)
	require.NoError(t, err)
	require.Zero(t, got)

	got, err = ApplyBps(3, 30) // 2.991 -> 2
	require.NoError(t, err)
	require.Equal(t, uint64(2), got)

	_, err = ApplyBps(1, 10_001)
	require.ErrorIs(t, err, apperrors.ErrPrecision)
}

func BenchmarkMulDiv(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := MulDiv(1_234_567_890_000, 987_654_321_000, 13_451_234_567); err != nil {
			b.Fatal(err)
		}
	}
}

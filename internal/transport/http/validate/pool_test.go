package validate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/cpamm/internal/pool"
)

const (
	assetX = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	assetY = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	owner  = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
)

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestCreatePoolRequestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		req, code, err := CreatePoolRequestValidate(post(`{"asset_x":"` + assetX + `","asset_y":"` + assetY +
			`","seed":"42","authority":"` + owner + `","fee_bps":30,"pool_bump":254,"unit_bump":253}`))
		require.NoError(t, err)
		require.Zero(t, code)
		require.Equal(t, uint64(42), req.Seed)
		require.Equal(t, uint16(30), req.FeeBps)
		require.NotNil(t, req.Authority)
		require.Equal(t, common.HexToAddress(owner), *req.Authority)
		require.Equal(t, pool.Derivation{PoolBump: 254, UnitBump: 253}, req.Derivation)
	})

	t.Run("no authority", func(t *testing.T) {
		t.Parallel()

		req, _, err := CreatePoolRequestValidate(post(`{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1"}`))
		require.NoError(t, err)
		require.Nil(t, req.Authority)
	})

	t.Run("bad authority", func(t *testing.T) {
		t.Parallel()

		_, code, err := CreatePoolRequestValidate(post(`{"asset_x":"` + assetX + `","asset_y":"` + assetY +
			`","seed":"1","authority":"admin"}`))
		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, code)
	})
}

func TestDepositRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid",
			body: `{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1","owner":"` + owner +
				`","units":"500000","max_x":"1000000","max_y":"2000000"}`,
		},
		{
			name:    "malformed json",
			body:    `{"asset_x":`,
			wantErr: true,
		},
		{
			name: "negative amount",
			body: `{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1","owner":"` + owner +
				`","units":"-5","max_x":"1","max_y":"1"}`,
			wantErr: true,
		},
		{
			name: "amount above 64 bits",
			body: `{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1","owner":"` + owner +
				`","units":"18446744073709551616","max_x":"1","max_y":"1"}`,
			wantErr: true,
		},
		{
			name:    "missing owner",
			body:    `{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1","units":"5"}`,
			wantErr: true,
		},
		{
			name:    "unknown field",
			body:    `{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1","owner":"` + owner + `","tip":"1"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, code, err := DepositRequestValidate(post(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, http.StatusBadRequest, code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, uint64(500_000), req.Units)
			require.Equal(t, uint64(1_000_000), req.MaxX)
			require.Equal(t, uint64(2_000_000), req.MaxY)
			require.Equal(t, common.HexToAddress(owner), req.Owner)
			require.Equal(t, uint64(1), req.Pool.Seed)
		})
	}
}

func TestSwapRequestValidate(t *testing.T) {
	t.Parallel()

	prefix := `{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1","owner":"` + owner + `","x_to_y":false`

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		req, _, err := SwapRequestValidate(post(prefix + `,"amount_in":"100","min_out":"90"}`))
		require.NoError(t, err)
		require.False(t, req.XToY)
		require.Equal(t, uint64(100), req.AmountIn)
		require.Equal(t, uint64(90), req.MinOut)
	})

	t.Run("min out omitted", func(t *testing.T) {
		t.Parallel()

		req, _, err := SwapRequestValidate(post(prefix + `,"amount_in":"100"}`))
		require.NoError(t, err)
		require.Zero(t, req.MinOut)
	})

	for _, minOut := range []string{"18446744073709551616", "18446744073709551617", "36893488147419103232"} {
		minOut := minOut
		t.Run("min out "+minOut, func(t *testing.T) {
			t.Parallel()

			req, code, err := SwapRequestValidate(post(prefix + `,"amount_in":"100","min_out":"` + minOut + `"}`))
			require.Error(t, err)
			require.Nil(t, req)
			require.Equal(t, http.StatusBadRequest, code)
		})
	}

	t.Run("amount in above 64 bits", func(t *testing.T) {
		t.Parallel()

		_, code, err := SwapRequestValidate(post(prefix + `,"amount_in":"18446744073709551616"}`))
		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, code)
	})
}

func TestWithdrawRequestValidate(t *testing.T) {
	t.Parallel()

	prefix := `{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1","owner":"` + owner + `","units":"10"`

	req, _, err := WithdrawRequestValidate(post(prefix + `,"min_y":"18446744073709551615"}`))
	require.NoError(t, err)
	require.Equal(t, uint64(10), req.Units)
	require.Zero(t, req.MinX)
	require.Equal(t, uint64(18446744073709551615), req.MinY)

	for _, body := range []string{
		prefix + `,"min_x":"18446744073709551616"}`,
		prefix + `,"min_y":"99999999999999999999999"}`,
		`{"asset_x":"` + assetX + `","asset_y":"` + assetY + `","seed":"1","owner":"` + owner + `","units":"18446744073709551616"}`,
	} {
		req, code, err := WithdrawRequestValidate(post(body))
		require.Error(t, err, body)
		require.Nil(t, req)
		require.Equal(t, http.StatusBadRequest, code)
	}
}

func TestCreditRequestValidate(t *testing.T) {
	t.Parallel()

	prefix := `{"owner":"` + owner + `","asset":"` + assetX + `"`

	req, _, err := CreditRequestValidate(post(prefix + `,"amount":"18446744073709551615"}`))
	require.NoError(t, err)
	require.Equal(t, uint64(18446744073709551615), req.Amount)
	require.Equal(t, common.HexToAddress(assetX), req.Asset)

	req, code, err := CreditRequestValidate(post(prefix + `,"amount":"18446744073709551616"}`))
	require.Error(t, err)
	require.Nil(t, req)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestLockRequestValidate_SeedAbove64Bits(t *testing.T) {
	t.Parallel()

	req, code, err := LockRequestValidate(post(`{"asset_x":"` + assetX + `","asset_y":"` + assetY +
		`","seed":"18446744073709551616","caller":"` + owner + `"}`))
	require.Error(t, err)
	require.Nil(t, req)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestQuoteRequestValidate(t *testing.T) {
	t.Parallel()

	base := "/quote?asset_x=" + assetX + "&asset_y=" + assetY + "&seed=1"

	req, _, err := QuoteRequestValidate(httptest.NewRequest(http.MethodGet, base+"&amount_in=10000", nil))
	require.NoError(t, err)
	require.True(t, req.XToY)
	require.Equal(t, uint64(10_000), req.AmountIn)

	req, _, err = QuoteRequestValidate(httptest.NewRequest(http.MethodGet, base+"&amount_in=5&x_to_y=false", nil))
	require.NoError(t, err)
	require.False(t, req.XToY)

	for _, url := range []string{
		base,
		base + "&amount_in=abc",
		base + "&amount_in=1&x_to_y=maybe",
		"/quote?asset_x=bad&asset_y=" + assetY + "&seed=1&amount_in=1",
		"/quote?asset_x=" + assetX + "&asset_y=" + assetY + "&seed=-1&amount_in=1",
	} {
		_, code, err := QuoteRequestValidate(httptest.NewRequest(http.MethodGet, url, nil))
		require.Error(t, err, url)
		require.Equal(t, http.StatusBadRequest, code, url)
	}
}

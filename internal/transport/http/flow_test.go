package http

import (
	"net/http"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/config"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/service"
	"github.com/fleshka4/cpamm/internal/store"
	"github.com/fleshka4/cpamm/internal/transport/http/dto"
)

func TestPoolFlow(t *testing.T) {
	t.Parallel()

	svc := service.NewPoolService(store.New(), ledger.New(), zap.NewNop())
	h := NewServer(svc, config.Config{}, zap.NewNop()).mux

	code, _ := do(t, h, http.MethodPost, "/pools", `{`+poolRef+`,"authority":"`+owner+`","fee_bps":30}`)
	require.Equal(t, http.StatusCreated, code)

	for _, asset := range []string{assetX, assetY} {
		code, _ = do(t, h, http.MethodPost, "/credit", `{"owner":"`+owner+`","asset":"`+asset+`","amount":"2000000"}`)
		require.Equal(t, http.StatusOK, code)
	}

	code, body := do(t, h, http.MethodPost, "/deposit",
		`{`+poolRef+`,"owner":"`+owner+`","units":"1000000","max_x":"1000000","max_y":"1000000"}`)
	require.Equal(t, http.StatusOK, code)

	var liq dto.LiquidityResponse
	require.NoError(t, json.Unmarshal(body, &liq))
	require.Len(t, liq.Instructions, 3)
	require.Equal(t, "mint", liq.Instructions[2].Op)
	require.Empty(t, liq.Instructions[2].From)

	code, body = do(t, h, http.MethodGet, "/quote?asset_x="+assetX+"&asset_y="+assetY+"&seed=1&amount_in=10000", "")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"amount_in":"10000","amount_out":"9871","fee_free_out":"9900","spot_price":"1000000","locked":false}`, string(body))

	code, body = do(t, h, http.MethodPost, "/swap",
		`{`+poolRef+`,"owner":"`+owner+`","x_to_y":true,"amount_in":"10000","min_out":"9871"}`)
	require.Equal(t, http.StatusOK, code)

	var sw dto.SwapResponse
	require.NoError(t, json.Unmarshal(body, &sw))
	require.Equal(t, uint64(9871), sw.AmountOut)

	code, body = do(t, h, http.MethodGet, "/pools/"+assetX+"/"+assetY+"/1", "")
	require.Equal(t, http.StatusOK, code)

	var p dto.PoolResponse
	require.NoError(t, json.Unmarshal(body, &p))
	require.Equal(t, uint64(1_010_000), p.ReserveX)
	require.Equal(t, uint64(990_129), p.ReserveY)
	require.Equal(t, uint64(1_000_000), p.UnitSupply)

	code, _ = do(t, h, http.MethodPost, "/lock", `{`+poolRef+`,"caller":"`+owner+`"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, h, http.MethodPost, "/withdraw", `{`+poolRef+`,"owner":"`+owner+`","units":"1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = do(t, h, http.MethodPost, "/deposit",
		`{`+poolRef+`,"owner":"`+owner+`","units":"0","max_x":"1","max_y":"1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, code, "lock state is checked before amounts")
}

package validate

import (
	"io"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/pool"
	svcdto "github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/transport/http/dto"
)

const maxBodyBytes = 1 << 20

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// CreatePoolRequestValidate validates POST /pools and returns dto.
func CreatePoolRequestValidate(r *http.Request) (*svcdto.CreatePoolRequest, int, error) {
	var body dto.CreatePoolRequest
	if code, err := decode(r, &body); err != nil {
		return nil, code, err
	}
	key, err := poolKey(body.PoolRef)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &svcdto.CreatePoolRequest{
		Seed:   key.Seed,
		AssetX: key.AssetX,
		AssetY: key.AssetY,
		FeeBps: body.FeeBps,
		Derivation: pool.Derivation{
			PoolBump: body.PoolBump,
			UnitBump: body.UnitBump,
		},
	}
	if body.Authority != nil {
		authority := common.HexToAddress(*body.Authority)
		req.Authority = &authority
	}
	return req, 0, nil
}

// DepositRequestValidate validates POST /deposit and returns dto.
func DepositRequestValidate(r *http.Request) (*svcdto.DepositRequest, int, error) {
	var body dto.DepositRequest
	if code, err := decode(r, &body); err != nil {
		return nil, code, err
	}
	key, err := poolKey(body.PoolRef)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &svcdto.DepositRequest{Pool: key, Owner: common.HexToAddress(body.Owner)}
	if err := parseAmounts(
		amount{"units", body.Units, &req.Units},
		amount{"max_x", body.MaxX, &req.MaxX},
		amount{"max_y", body.MaxY, &req.MaxY},
	); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// WithdrawRequestValidate validates POST /withdraw and returns dto.
func WithdrawRequestValidate(r *http.Request) (*svcdto.WithdrawRequest, int, error) {
	var body dto.WithdrawRequest
	if code, err := decode(r, &body); err != nil {
		return nil, code, err
	}
	key, err := poolKey(body.PoolRef)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &svcdto.WithdrawRequest{Pool: key, Owner: common.HexToAddress(body.Owner)}
	if err := parseAmounts(
		amount{"units", body.Units, &req.Units},
		amount{"min_x", body.MinX, &req.MinX},
		amount{"min_y", body.MinY, &req.MinY},
	); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// SwapRequestValidate validates POST /swap and returns dto.
func SwapRequestValidate(r *http.Request) (*svcdto.SwapRequest, int, error) {
	var body dto.SwapRequest
	if code, err := decode(r, &body); err != nil {
		return nil, code, err
	}
	key, err := poolKey(body.PoolRef)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &svcdto.SwapRequest{Pool: key, Owner: common.HexToAddress(body.Owner), XToY: body.XToY}
	if err := parseAmounts(
		amount{"amount_in", body.AmountIn, &req.AmountIn},
		amount{"min_out", body.MinOut, &req.MinOut},
	); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// LockRequestValidate validates POST /lock and POST /unlock and returns dto.
func LockRequestValidate(r *http.Request) (*svcdto.LockRequest, int, error) {
	var body dto.LockRequest
	if code, err := decode(r, &body); err != nil {
		return nil, code, err
	}
	key, err := poolKey(body.PoolRef)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return &svcdto.LockRequest{
		Pool:   key,
		Caller: common.HexToAddress(body.Caller),
	}, 0, nil
}

// CreditRequestValidate validates POST /credit and returns dto.
func CreditRequestValidate(r *http.Request) (*svcdto.CreditRequest, int, error) {
	var body dto.CreditRequest
	if code, err := decode(r, &body); err != nil {
		return nil, code, err
	}

	req := &svcdto.CreditRequest{
		Owner: common.HexToAddress(body.Owner),
		Asset: common.HexToAddress(body.Asset),
	}
	if err := parseAmounts(amount{"amount", body.Amount, &req.Amount}); err != nil {
		return nil, http.StatusBadRequest, err
	}
	return req, 0, nil
}

// PoolPathValidate validates the {asset_x}/{asset_y}/{seed} path of
// GET /pools and returns the pool key.
func PoolPathValidate(r *http.Request) (pool.Key, int, error) {
	return keyFrom(r.PathValue("asset_x"), r.PathValue("asset_y"), r.PathValue("seed"))
}

// QuoteRequestValidate validates GET /quote and returns dto.
func QuoteRequestValidate(r *http.Request) (*svcdto.QuoteRequest, int, error) {
	q := r.URL.Query()
	amt := q.Get("amount_in")
	if amt == "" {
		return nil, http.StatusBadRequest, errors.New("missing params")
	}

	key, code, err := keyFrom(q.Get("asset_x"), q.Get("asset_y"), q.Get("seed"))
	if err != nil {
		return nil, code, err
	}

	xToY := true
	if dir := q.Get("x_to_y"); dir != "" {
		xToY, err = strconv.ParseBool(dir)
		if err != nil {
			return nil, http.StatusBadRequest, errors.New("bad x_to_y")
		}
	}

	amountIn, err := strconv.ParseUint(amt, 10, 64)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("bad amount_in")
	}

	return &svcdto.QuoteRequest{Pool: key, XToY: xToY, AmountIn: amountIn}, 0, nil
}

func keyFrom(x, y, seed string) (pool.Key, int, error) {
	if x == "" || y == "" || seed == "" {
		return pool.Key{}, http.StatusBadRequest, errors.New("missing params")
	}
	if !common.IsHexAddress(x) || !common.IsHexAddress(y) {
		return pool.Key{}, http.StatusBadRequest, errors.New("bad address format")
	}
	s, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return pool.Key{}, http.StatusBadRequest, errors.New("bad seed")
	}
	return pool.Key{AssetX: common.HexToAddress(x), AssetY: common.HexToAddress(y), Seed: s}, 0, nil
}

func poolKey(ref dto.PoolRef) (pool.Key, error) {
	seed, err := strconv.ParseUint(ref.Seed, 10, 64)
	if err != nil {
		return pool.Key{}, errors.Errorf("bad seed %q", ref.Seed)
	}
	return pool.Key{
		AssetX: common.HexToAddress(ref.AssetX),
		AssetY: common.HexToAddress(ref.AssetY),
		Seed:   seed,
	}, nil
}

// amount is a decimal JSON string bound to its parsed destination.
type amount struct {
	name string
	raw  string
	dst  *uint64
}

// parseAmounts parses every amount, rejecting values outside uint64. An
// empty optional amount stays zero.
func parseAmounts(amounts ...amount) error {
	for _, a := range amounts {
		if a.raw == "" {
			*a.dst = 0
			continue
		}
		v, err := strconv.ParseUint(a.raw, 10, 64)
		if err != nil {
			return errors.Errorf("bad %s %q", a.name, a.raw)
		}
		*a.dst = v
	}
	return nil
}

func decode(r *http.Request, v interface{}) (int, error) {
	if r.Body == nil {
		return http.StatusBadRequest, errors.New("empty body")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return http.StatusBadRequest, errors.Wrap(err, "bad json")
	}

	if err := structValidator.Struct(v); err != nil {
		return http.StatusBadRequest, errors.Wrap(err, "bad request")
	}
	return 0, nil
}

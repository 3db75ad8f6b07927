// Package dto holds the JSON bodies of the HTTP API. Amounts travel as
// decimal strings and are range-checked when parsed.
package dto

// PoolRef addresses a pool.
type PoolRef struct {
	AssetX string `json:"asset_x" validate:"required,eth_addr"`
	AssetY string `json:"asset_y" validate:"required,eth_addr"`
	Seed   string `json:"seed" validate:"required,number"`
}

// CreatePoolRequest is the body of POST /pools.
type CreatePoolRequest struct {
	PoolRef
	Authority *string `json:"authority,omitempty" validate:"omitempty,eth_addr"`
	FeeBps    uint16  `json:"fee_bps"`
	PoolBump  uint8   `json:"pool_bump"`
	UnitBump  uint8   `json:"unit_bump"`
}

// DepositRequest is the body of POST /deposit.
type DepositRequest struct {
	PoolRef
	Owner string `json:"owner" validate:"required,eth_addr"`
	Units string `json:"units" validate:"required,number"`
	MaxX  string `json:"max_x" validate:"required,number"`
	MaxY  string `json:"max_y" validate:"required,number"`
}

// WithdrawRequest is the body of POST /withdraw.
type WithdrawRequest struct {
	PoolRef
	Owner string `json:"owner" validate:"required,eth_addr"`
	Units string `json:"units" validate:"required,number"`
	MinX  string `json:"min_x" validate:"omitempty,number"`
	MinY  string `json:"min_y" validate:"omitempty,number"`
}

// SwapRequest is the body of POST /swap.
type SwapRequest struct {
	PoolRef
	Owner    string `json:"owner" validate:"required,eth_addr"`
	XToY     bool   `json:"x_to_y"`
	AmountIn string `json:"amount_in" validate:"required,number"`
	MinOut   string `json:"min_out" validate:"omitempty,number"`
}

// LockRequest is the body of POST /lock and POST /unlock.
type LockRequest struct {
	PoolRef
	Caller string `json:"caller" validate:"required,eth_addr"`
}

// CreditRequest is the body of POST /credit.
type CreditRequest struct {
	Owner  string `json:"owner" validate:"required,eth_addr"`
	Asset  string `json:"asset" validate:"required,eth_addr"`
	Amount string `json:"amount" validate:"required,number"`
}

// PoolResponse describes a pool and its reserves.
type PoolResponse struct {
	AssetX       string  `json:"asset_x"`
	AssetY       string  `json:"asset_y"`
	Seed         uint64  `json:"seed,string"`
	Authority    *string `json:"authority"`
	FeeBps       uint16  `json:"fee_bps"`
	Locked       bool    `json:"locked"`
	PoolBump     uint8   `json:"pool_bump"`
	UnitBump     uint8   `json:"unit_bump"`
	UnitDecimals int     `json:"unit_decimals"`
	ReserveX     uint64  `json:"reserve_x,string"`
	ReserveY     uint64  `json:"reserve_y,string"`
	UnitSupply   uint64  `json:"unit_supply,string"`
}

// InstructionResponse is one applied ledger write.
type InstructionResponse struct {
	Op     string `json:"op"`
	Asset  string `json:"asset,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Amount uint64 `json:"amount,string"`
	Signer string `json:"signer"`
}

// LiquidityResponse answers deposits and withdrawals.
type LiquidityResponse struct {
	X            uint64                `json:"x,string"`
	Y            uint64                `json:"y,string"`
	Units        uint64                `json:"units,string"`
	Instructions []InstructionResponse `json:"instructions"`
}

// SwapResponse answers POST /swap.
type SwapResponse struct {
	AssetIn      string                `json:"asset_in"`
	AssetOut     string                `json:"asset_out"`
	AmountIn     uint64                `json:"amount_in,string"`
	AmountOut    uint64                `json:"amount_out,string"`
	Instructions []InstructionResponse `json:"instructions"`
}

// CreditResponse answers POST /credit.
type CreditResponse struct {
	Balance uint64 `json:"balance,string"`
}

// QuoteResponse answers GET /quote.
type QuoteResponse struct {
	AmountIn   uint64 `json:"amount_in,string"`
	AmountOut  uint64 `json:"amount_out,string"`
	FeeFreeOut uint64 `json:"fee_free_out,string"`
	SpotPrice  uint64 `json:"spot_price,string"`
	Locked     bool   `json:"locked"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

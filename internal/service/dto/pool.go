package dto

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/pool"
)

// CreatePoolRequest represents a request to initialize a pool. A nil
// Authority creates a pool that can never be locked.
type CreatePoolRequest struct {
	Seed       uint64
	Authority  *common.Address
	AssetX     common.Address
	AssetY     common.Address
	FeeBps     uint16
	Derivation pool.Derivation
}

// DepositRequest represents a request to add liquidity.
type DepositRequest struct {
	Pool  pool.Key
	Owner common.Address
	Units uint64
	MaxX  uint64
	MaxY  uint64
}

// WithdrawRequest represents a request to remove liquidity.
type WithdrawRequest struct {
	Pool  pool.Key
	Owner common.Address
	Units uint64
	MinX  uint64
	MinY  uint64
}

// SwapRequest represents a request to trade against a pool.
type SwapRequest struct {
	Pool     pool.Key
	Owner    common.Address
	XToY     bool
	AmountIn uint64
	MinOut   uint64
}

// LockRequest represents a lock or unlock request.
type LockRequest struct {
	Pool   pool.Key
	Caller common.Address
}

// CreditRequest represents a request to fund a user balance.
type CreditRequest struct {
	Owner  common.Address
	Asset  common.Address
	Amount uint64
}

// QuoteRequest represents a request to price a swap without executing it.
type QuoteRequest struct {
	Pool     pool.Key
	XToY     bool
	AmountIn uint64
}

// PoolView is a pool record with its current reserves.
type PoolView struct {
	Record   pool.Record
	Reserves amm.Snapshot
}

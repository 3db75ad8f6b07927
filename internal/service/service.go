package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/ledger"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/store"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

// Service represents interface for business logic.
type Service interface {
	CreatePool(ctx context.Context, req dto.CreatePoolRequest) (pool.Record, error)
	ListPools(ctx context.Context) ([]dto.PoolView, error)
	GetPool(ctx context.Context, key pool.Key) (dto.PoolView, error)
	Deposit(ctx context.Context, req dto.DepositRequest) (amm.DepositResult, error)
	Withdraw(ctx context.Context, req dto.WithdrawRequest) (amm.WithdrawResult, error)
	Swap(ctx context.Context, req dto.SwapRequest) (amm.SwapResult, error)
	Lock(ctx context.Context, req dto.LockRequest) (pool.Record, error)
	Unlock(ctx context.Context, req dto.LockRequest) (pool.Record, error)
	Credit(ctx context.Context, req dto.CreditRequest) (uint64, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (amm.QuoteResult, error)
}

// ReserveSource reads the reserves and unit supply of a pool.
type ReserveSource interface {
	Reserves(ctx context.Context, key pool.Key) (amm.Snapshot, error)
}

// PoolService represents struct for business logic.
type PoolService struct {
	store  *store.Store
	ledger *ledger.Ledger
	quotes ReserveSource
	logger *zap.Logger
}

// Option configures a PoolService.
type Option func(*PoolService)

// WithQuoteSource makes quotes read reserves from src instead of the ledger.
func WithQuoteSource(src ReserveSource) Option {
	return func(s *PoolService) {
		s.quotes = src
	}
}

// NewPoolService creates PoolService.
func NewPoolService(st *store.Store, l *ledger.Ledger, logger *zap.Logger, opts ...Option) *PoolService {
	s := &PoolService{
		store:  st,
		ledger: l,
		quotes: l,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

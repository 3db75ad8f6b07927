package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/service/validate"
)

// CreatePool initializes a pool and opens its vault in the ledger.
func (s *PoolService) CreatePool(ctx context.Context, req dto.CreatePoolRequest) (pool.Record, error) {
	if err := validate.CreatePoolRequestValidate(req); err != nil {
		return pool.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return pool.Record{}, errors.Wrap(err, "ctx.Err")
	}

	authority := pool.NoAuthority()
	if req.Authority != nil {
		authority = pool.AuthorityOf(*req.Authority)
	}

	rec, err := amm.Initialize(pool.Config{
		Seed:       req.Seed,
		Authority:  authority,
		AssetX:     req.AssetX,
		AssetY:     req.AssetY,
		FeeBps:     req.FeeBps,
		Derivation: req.Derivation,
	})
	if err != nil {
		return pool.Record{}, errors.Wrap(err, "amm.Initialize")
	}

	if err := s.ledger.Open(rec.Key()); err != nil {
		return pool.Record{}, errors.Wrap(err, "ledger.Open")
	}
	if err := s.store.Create(rec); err != nil {
		if cerr := s.ledger.Close(rec.Key()); cerr != nil {
			s.logger.Error("vault left open", zap.Stringer("pool", rec.Key()), zap.Error(cerr))
		}
		return pool.Record{}, errors.Wrap(err, "store.Create")
	}

	s.logger.Info("pool created",
		zap.Stringer("pool", rec.Key()),
		zap.Uint16("fee_bps", rec.FeeBps),
		zap.Stringer("authority", rec.Authority),
	)
	return rec, nil
}

// ListPools returns every pool with its ledger reserves.
func (s *PoolService) ListPools(ctx context.Context) ([]dto.PoolView, error) {
	recs := s.store.List()
	views := make([]dto.PoolView, 0, len(recs))
	for _, rec := range recs {
		snap, err := s.ledger.Reserves(ctx, rec.Key())
		if err != nil {
			return nil, errors.Wrap(err, "ledger.Reserves")
		}
		views = append(views, dto.PoolView{Record: rec, Reserves: snap})
	}
	return views, nil
}

// GetPool returns one pool with its ledger reserves.
func (s *PoolService) GetPool(ctx context.Context, key pool.Key) (dto.PoolView, error) {
	if err := validate.PoolKeyValidate(key); err != nil {
		return dto.PoolView{}, err
	}

	rec, err := s.store.Get(key)
	if err != nil {
		return dto.PoolView{}, errors.Wrap(err, "store.Get")
	}
	snap, err := s.ledger.Reserves(ctx, key)
	if err != nil {
		return dto.PoolView{}, errors.Wrap(err, "ledger.Reserves")
	}
	return dto.PoolView{Record: rec, Reserves: snap}, nil
}

// Deposit adds liquidity on behalf of req.Owner.
func (s *PoolService) Deposit(ctx context.Context, req dto.DepositRequest) (amm.DepositResult, error) {
	if err := validate.DepositRequestValidate(req); err != nil {
		return amm.DepositResult{}, err
	}

	var res amm.DepositResult
	err := s.execute(ctx, req.Pool, req.Owner, func(rec pool.Record, snap amm.Snapshot) ([]amm.Instruction, error) {
		var err error
		res, err = amm.Deposit(rec, snap, amm.DepositParams{
			Owner: req.Owner,
			Units: req.Units,
			MaxX:  req.MaxX,
			MaxY:  req.MaxY,
		})
		return res.Instructions, errors.Wrap(err, "amm.Deposit")
	})

	s.logOutcome("deposit", req.Pool, req.Owner, err,
		zap.Uint64("units", req.Units),
		zap.Uint64("x", res.X),
		zap.Uint64("y", res.Y),
	)
	if err != nil {
		return amm.DepositResult{}, err
	}
	return res, nil
}

// Withdraw removes liquidity on behalf of req.Owner.
func (s *PoolService) Withdraw(ctx context.Context, req dto.WithdrawRequest) (amm.WithdrawResult, error) {
	if err := validate.WithdrawRequestValidate(req); err != nil {
		return amm.WithdrawResult{}, err
	}

	var res amm.WithdrawResult
	err := s.execute(ctx, req.Pool, req.Owner, func(rec pool.Record, snap amm.Snapshot) ([]amm.Instruction, error) {
		var err error
		res, err = amm.Withdraw(rec, snap, amm.WithdrawParams{
			Owner: req.Owner,
			Units: req.Units,
			MinX:  req.MinX,
			MinY:  req.MinY,
		})
		return res.Instructions, errors.Wrap(err, "amm.Withdraw")
	})

	s.logOutcome("withdraw", req.Pool, req.Owner, err,
		zap.Uint64("units", req.Units),
		zap.Uint64("x", res.X),
		zap.Uint64("y", res.Y),
	)
	if err != nil {
		return amm.WithdrawResult{}, err
	}
	return res, nil
}

// Swap trades against the pool on behalf of req.Owner.
func (s *PoolService) Swap(ctx context.Context, req dto.SwapRequest) (amm.SwapResult, error) {
	if err := validate.SwapRequestValidate(req); err != nil {
		return amm.SwapResult{}, err
	}

	var res amm.SwapResult
	err := s.execute(ctx, req.Pool, req.Owner, func(rec pool.Record, snap amm.Snapshot) ([]amm.Instruction, error) {
		var err error
		res, err = amm.Swap(rec, snap, amm.SwapParams{
			Owner:    req.Owner,
			XToY:     req.XToY,
			AmountIn: req.AmountIn,
			MinOut:   req.MinOut,
		})
		return res.Instructions, errors.Wrap(err, "amm.Swap")
	})

	s.logOutcome("swap", req.Pool, req.Owner, err,
		zap.Bool("x_to_y", req.XToY),
		zap.Uint64("amount_in", req.AmountIn),
		zap.Uint64("amount_out", res.AmountOut),
	)
	if err != nil {
		return amm.SwapResult{}, err
	}
	return res, nil
}

// Lock freezes the pool. Only the pool authority may lock.
func (s *PoolService) Lock(ctx context.Context, req dto.LockRequest) (pool.Record, error) {
	return s.setLock(ctx, "lock", req, amm.Lock)
}

// Unlock unfreezes the pool. Only the pool authority may unlock.
func (s *PoolService) Unlock(ctx context.Context, req dto.LockRequest) (pool.Record, error) {
	return s.setLock(ctx, "unlock", req, amm.Unlock)
}

func (s *PoolService) setLock(ctx context.Context, op string, req dto.LockRequest,
	fn func(*pool.Record, pool.Identity) error,
) (pool.Record, error) {
	if err := validate.LockRequestValidate(req); err != nil {
		return pool.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return pool.Record{}, errors.Wrap(err, "ctx.Err")
	}

	var out pool.Record
	err := s.store.Exclusive(req.Pool, func(rec *pool.Record) error {
		if err := fn(rec, req.Caller); err != nil {
			return errors.Wrapf(err, "amm.%s", op)
		}
		out = *rec
		return nil
	})

	s.logOutcome(op, req.Pool, req.Caller, err)
	if err != nil {
		return pool.Record{}, err
	}
	return out, nil
}

// Credit funds req.Owner with req.Amount of req.Asset and returns the new
// balance.
func (s *PoolService) Credit(_ context.Context, req dto.CreditRequest) (uint64, error) {
	if err := validate.CreditRequestValidate(req); err != nil {
		return 0, err
	}

	bal, err := s.ledger.Credit(req.Owner, req.Asset, req.Amount)
	if err != nil {
		return 0, errors.Wrap(err, "ledger.Credit")
	}

	s.logger.Info("credit",
		zap.Stringer("owner", req.Owner),
		zap.Stringer("asset", req.Asset),
		zap.Uint64("amount", req.Amount),
		zap.Uint64("balance", bal),
	)
	return bal, nil
}

// Quote prices a swap against the configured reserve source.
func (s *PoolService) Quote(ctx context.Context, req dto.QuoteRequest) (amm.QuoteResult, error) {
	if err := validate.QuoteRequestValidate(req); err != nil {
		return amm.QuoteResult{}, err
	}

	rec, err := s.store.Get(req.Pool)
	if err != nil {
		return amm.QuoteResult{}, errors.Wrap(err, "store.Get")
	}
	snap, err := s.quotes.Reserves(ctx, req.Pool)
	if err != nil {
		return amm.QuoteResult{}, errors.Wrap(err, "quotes.Reserves")
	}

	res, err := amm.Quote(rec, snap, req.XToY, req.AmountIn)
	if err != nil {
		return amm.QuoteResult{}, errors.Wrap(err, "amm.Quote")
	}
	return res, nil
}

// execute runs plan under the pool's writer lock and applies the
// instructions it returns to the ledger.
func (s *PoolService) execute(ctx context.Context, key pool.Key, owner pool.Identity,
	plan func(pool.Record, amm.Snapshot) ([]amm.Instruction, error),
) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "ctx.Err")
	}

	return s.store.Exclusive(key, func(rec *pool.Record) error {
		snap, err := s.ledger.Snapshot(*rec, owner)
		if err != nil {
			return errors.Wrap(err, "ledger.Snapshot")
		}

		ins, err := plan(*rec, snap)
		if err != nil {
			return err
		}

		return errors.Wrap(s.ledger.Apply(*rec, ins), "ledger.Apply")
	})
}

func (s *PoolService) logOutcome(op string, key pool.Key, party pool.Identity, err error, fields ...zap.Field) {
	fields = append(fields, zap.Stringer("pool", key), zap.Stringer("party", party))
	if err != nil {
		s.logger.Warn(op+" failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info(op, fields...)
}

package http

import (
	"context"
	"net/http"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/pool"
	svcdto "github.com/fleshka4/cpamm/internal/service/dto"
	"github.com/fleshka4/cpamm/internal/transport/http/dto"
	"github.com/fleshka4/cpamm/internal/transport/http/validate"
)

func (s *Server) handleCreatePool(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.CreatePoolRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	rec, err := s.svc.CreatePool(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, poolResponse(svcdto.PoolView{Record: rec}))
}

func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	views, err := s.svc.ListPools(ctx)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	out := make([]dto.PoolResponse, 0, len(views))
	for _, v := range views {
		out = append(out, poolResponse(v))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	key, code, err := validate.PoolPathValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	view, err := s.svc.GetPool(ctx, key)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, poolResponse(view))
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.DepositRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	res, err := s.svc.Deposit(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.LiquidityResponse{
		X:            res.X,
		Y:            res.Y,
		Units:        res.Units,
		Instructions: instructions(res.Instructions),
	})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.WithdrawRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	res, err := s.svc.Withdraw(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.LiquidityResponse{
		X:            res.X,
		Y:            res.Y,
		Units:        res.Units,
		Instructions: instructions(res.Instructions),
	})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.SwapRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	res, err := s.svc.Swap(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.SwapResponse{
		AssetIn:      res.AssetIn.Hex(),
		AssetOut:     res.AssetOut.Hex(),
		AmountIn:     res.AmountIn,
		AmountOut:    res.AmountOut,
		Instructions: instructions(res.Instructions),
	})
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	s.handleLockState(w, r, s.svc.Lock)
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	s.handleLockState(w, r, s.svc.Unlock)
}

func (s *Server) handleLockState(w http.ResponseWriter, r *http.Request,
	fn func(context.Context, svcdto.LockRequest) (pool.Record, error),
) {
	req, code, err := validate.LockRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	rec, err := fn(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, poolResponse(svcdto.PoolView{Record: rec}))
}

func (s *Server) handleCredit(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.CreditRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	bal, err := s.svc.Credit(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.CreditResponse{Balance: bal})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteRequestValidate(r)
	if err != nil {
		s.writeError(w, code, err)
		return
	}
	ctx, cancel := s.requestContext(r)
	defer cancel()

	res, err := s.svc.Quote(ctx, *req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.QuoteResponse{
		AmountIn:   res.AmountIn,
		AmountOut:  res.AmountOut,
		FeeFreeOut: res.FeeFreeOut,
		SpotPrice:  res.SpotPrice,
		Locked:     res.Locked,
	})
}

func poolResponse(v svcdto.PoolView) dto.PoolResponse {
	rec := v.Record
	resp := dto.PoolResponse{
		AssetX:       rec.AssetX.Hex(),
		AssetY:       rec.AssetY.Hex(),
		Seed:         rec.Seed,
		FeeBps:       rec.FeeBps,
		Locked:       rec.Locked,
		PoolBump:     rec.Derivation.PoolBump,
		UnitBump:     rec.Derivation.UnitBump,
		UnitDecimals: pool.UnitDecimals,
		ReserveX:     v.Reserves.ReserveX,
		ReserveY:     v.Reserves.ReserveY,
		UnitSupply:   v.Reserves.UnitSupply,
	}
	if id, ok := rec.Authority.Get(); ok {
		hex := id.Hex()
		resp.Authority = &hex
	}
	return resp
}

func instructions(ins []amm.Instruction) []dto.InstructionResponse {
	out := make([]dto.InstructionResponse, 0, len(ins))
	for _, in := range ins {
		item := dto.InstructionResponse{
			Op:     in.Op.String(),
			Amount: in.Amount,
			Signer: in.Signer.String(),
		}
		if in.Op == amm.OpTransfer {
			item.Asset = in.Asset.Hex()
		}
		if in.Op != amm.OpMint {
			item.From = in.From.String()
		}
		if in.Op != amm.OpBurn {
			item.To = in.To.String()
		}
		out = append(out, item)
	}
	return out
}

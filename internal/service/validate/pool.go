package validate

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/pool"
	"github.com/fleshka4/cpamm/internal/service/dto"
)

var zeroAddress = common.Address{}

// CreatePoolRequestValidate validates a pool creation request.
func CreatePoolRequestValidate(req dto.CreatePoolRequest) error {
	if req.AssetX == zeroAddress || req.AssetY == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "asset address cannot be empty")
	}
	if req.Authority != nil && *req.Authority == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "authority address cannot be empty")
	}
	return nil
}

// PoolKeyValidate validates a pool reference.
func PoolKeyValidate(key pool.Key) error {
	if key.AssetX == zeroAddress || key.AssetY == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool asset address cannot be empty")
	}
	return nil
}

// DepositRequestValidate validates a deposit request.
func DepositRequestValidate(req dto.DepositRequest) error {
	return poolAndParty(req.Pool, req.Owner)
}

// WithdrawRequestValidate validates a withdraw request.
func WithdrawRequestValidate(req dto.WithdrawRequest) error {
	return poolAndParty(req.Pool, req.Owner)
}

// SwapRequestValidate validates a swap request.
func SwapRequestValidate(req dto.SwapRequest) error {
	return poolAndParty(req.Pool, req.Owner)
}

// LockRequestValidate validates a lock or unlock request.
func LockRequestValidate(req dto.LockRequest) error {
	return poolAndParty(req.Pool, req.Caller)
}

// QuoteRequestValidate validates a quote request.
func QuoteRequestValidate(req dto.QuoteRequest) error {
	return PoolKeyValidate(req.Pool)
}

// CreditRequestValidate validates a credit request.
func CreditRequestValidate(req dto.CreditRequest) error {
	if req.Owner == zeroAddress || req.Asset == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "address cannot be empty")
	}
	if req.Amount == 0 {
		return errors.Wrap(apperrors.ErrInvalidAmount, "amount cannot be zero")
	}
	return nil
}

func poolAndParty(key pool.Key, party common.Address) error {
	if err := PoolKeyValidate(key); err != nil {
		return err
	}
	if party == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "caller address cannot be empty")
	}
	return nil
}

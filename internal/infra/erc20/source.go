// Package erc20 reads pool reserves from ERC-20 token contracts.
package erc20

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/pool"
)

// Vault locates the on-chain accounts of one pool.
type Vault struct {
	Key       pool.Key
	Vault     common.Address
	UnitToken common.Address
}

// Source serves reserve snapshots of the pools it knows about.
type Source struct {
	client Client
	vaults map[pool.Key]Vault
}

// NewSource returns a Source reading through client.
func NewSource(client Client, vaults []Vault) *Source {
	m := make(map[pool.Key]Vault, len(vaults))
	for _, v := range vaults {
		m[v.Key] = v
	}
	return &Source{client: client, vaults: m}
}

// Reserves reads both vault balances and the unit supply of the pool under
// key concurrently.
func (s *Source) Reserves(ctx context.Context, key pool.Key) (amm.Snapshot, error) {
	v, ok := s.vaults[key]
	if !ok {
		return amm.Snapshot{}, errors.Wrapf(apperrors.ErrPoolNotFound, "no vault configured for %s", key)
	}

	const (
		numReads   = 3
		readX      = "reserve x"
		readY      = "reserve y"
		readSupply = "unit supply"
	)

	type readResult struct {
		value *big.Int
		err   error
		name  string
	}

	var wg sync.WaitGroup
	ch := make(chan readResult, numReads)

	read := func(name string, fn func() (*big.Int, error)) {
		defer wg.Done()

		select {
		case <-ctx.Done():
			ch <- readResult{err: errors.Wrap(ctx.Err(), "context cancelled before call"), name: name}
			return
		default:
		}

		value, err := fn()
		if err != nil {
			ch <- readResult{err: errors.Wrapf(err, "failed to read %s", name), name: name}
			return
		}
		ch <- readResult{value: value, name: name}
	}

	wg.Add(numReads)
	go read(readX, func() (*big.Int, error) { return s.client.BalanceOf(ctx, key.AssetX, v.Vault) })
	go read(readY, func() (*big.Int, error) { return s.client.BalanceOf(ctx, key.AssetY, v.Vault) })
	go read(readSupply, func() (*big.Int, error) { return s.client.TotalSupply(ctx, v.UnitToken) })

	go func() {
		wg.Wait()
		close(ch)
	}()

	var (
		snap        amm.Snapshot
		combinedErr error
		rangeErr    error
	)

	for result := range ch {
		if result.err != nil {
			combinedErr = multierr.Append(combinedErr, result.err)
			continue
		}

		value, err := toUint64(result.value, result.name)
		if err != nil {
			rangeErr = multierr.Append(rangeErr, err)
			continue
		}

		switch result.name {
		case readX:
			snap.ReserveX = value
		case readY:
			snap.ReserveY = value
		case readSupply:
			snap.UnitSupply = value
		}
	}

	if combinedErr != nil {
		return amm.Snapshot{}, errors.Wrap(apperrors.ErrReadFailure, combinedErr.Error())
	}
	if rangeErr != nil {
		return amm.Snapshot{}, rangeErr
	}

	return snap, nil
}

func toUint64(v *big.Int, name string) (uint64, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, errors.Wrapf(apperrors.ErrPrecision, "%s %s does not fit 64 bits", name, v)
	}
	return v.Uint64(), nil
}

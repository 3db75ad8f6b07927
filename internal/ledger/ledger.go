// Package ledger is an in-memory account ledger that executes the
// instruction lists produced by the amm handlers.
package ledger

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/pool"
)

type vault struct {
	x      uint64
	y      uint64
	supply uint64
}

type holding struct {
	owner pool.Identity
	asset pool.Identity
}

type position struct {
	key   pool.Key
	owner pool.Identity
}

// Ledger keeps vault reserves, pool-unit supplies and user balances.
// It is safe for concurrent use.
type Ledger struct {
	mu       sync.RWMutex
	vaults   map[pool.Key]*vault
	balances map[holding]uint64
	units    map[position]uint64
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		vaults:   make(map[pool.Key]*vault),
		balances: make(map[holding]uint64),
		units:    make(map[position]uint64),
	}
}

// Open creates the empty vault and unit mint of a pool.
func (l *Ledger) Open(key pool.Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.vaults[key]; ok {
		return errors.Wrapf(apperrors.ErrPoolExists, "vault %s", key)
	}
	l.vaults[key] = &vault{}
	return nil
}

// Close drops the vault of key if it holds nothing.
func (l *Ledger) Close(key pool.Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.vaults[key]
	if !ok {
		return errors.Wrapf(apperrors.ErrPoolNotFound, "vault %s", key)
	}
	if *v != (vault{}) {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "vault %s is not empty", key)
	}
	delete(l.vaults, key)
	return nil
}

// Credit adds amount of asset to owner's balance.
func (l *Ledger) Credit(owner, asset pool.Identity, amount uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := holding{owner: owner, asset: asset}
	next, err := dexmath.Add(l.balances[h], amount)
	if err != nil {
		return 0, errors.Wrap(err, "credit")
	}
	l.balances[h] = next
	return next, nil
}

// Balance returns owner's balance of asset.
func (l *Ledger) Balance(owner, asset pool.Identity) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[holding{owner: owner, asset: asset}]
}

// Units returns owner's pool units in the pool under key.
func (l *Ledger) Units(key pool.Key, owner pool.Identity) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.units[position{key: key, owner: owner}]
}

// Reserves returns the vault balances and unit supply of a pool.
func (l *Ledger) Reserves(_ context.Context, key pool.Key) (amm.Snapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := l.vaults[key]
	if !ok {
		return amm.Snapshot{}, errors.Wrapf(apperrors.ErrPoolNotFound, "vault %s", key)
	}
	return amm.Snapshot{ReserveX: v.x, ReserveY: v.y, UnitSupply: v.supply}, nil
}

// Snapshot reads the reserves of rec together with owner's holdings.
func (l *Ledger) Snapshot(rec pool.Record, owner pool.Identity) (amm.Snapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	key := rec.Key()
	v, ok := l.vaults[key]
	if !ok {
		return amm.Snapshot{}, errors.Wrapf(apperrors.ErrPoolNotFound, "vault %s", key)
	}
	return amm.Snapshot{
		ReserveX:   v.x,
		ReserveY:   v.y,
		UnitSupply: v.supply,
		Holdings: amm.Holdings{
			X:     l.balances[holding{owner: owner, asset: rec.AssetX}],
			Y:     l.balances[holding{owner: owner, asset: rec.AssetY}],
			Units: l.units[position{key: key, owner: owner}],
		},
	}, nil
}

// Apply executes ins against the pool of rec. Either every instruction is
// applied or, on the first failing one, none is.
func (l *Ledger) Apply(rec pool.Record, ins []amm.Instruction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := rec.Key()
	v, ok := l.vaults[key]
	if !ok {
		return errors.Wrapf(apperrors.ErrPoolNotFound, "vault %s", key)
	}

	tx := newTxn(l, rec, *v)
	for i, in := range ins {
		if err := tx.apply(in); err != nil {
			return errors.Wrapf(err, "instruction %d (%s)", i, in)
		}
	}
	tx.commit(v)
	return nil
}

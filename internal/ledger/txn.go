package ledger

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
	"github.com/fleshka4/cpamm/internal/pool"
)

// txn stages writes over a ledger. Callers hold the ledger's write lock.
type txn struct {
	l        *Ledger
	rec      pool.Record
	vault    vault
	balances map[holding]uint64
	units    map[position]uint64
}

func newTxn(l *Ledger, rec pool.Record, v vault) *txn {
	return &txn{
		l:        l,
		rec:      rec,
		vault:    v,
		balances: make(map[holding]uint64),
		units:    make(map[position]uint64),
	}
}

func (t *txn) apply(in amm.Instruction) error {
	switch in.Op {
	case amm.OpTransfer:
		if in.From.Vault == in.To.Vault {
			return errors.Wrap(apperrors.ErrInvalidArgument, "transfer must involve exactly one vault")
		}
		if _, err := t.reserve(in.Asset); err != nil {
			return err
		}
		if err := t.authorize(in.From, in.Signer); err != nil {
			return err
		}
		if err := t.debit(in.From, in.Asset, in.Amount); err != nil {
			return err
		}
		return t.credit(in.To, in.Asset, in.Amount)
	case amm.OpMint:
		if in.Signer != amm.SignerPool || in.To.Vault {
			return errors.Wrap(apperrors.ErrInvalidAuthority, "mint needs the pool signer and a user account")
		}
		supply, err := dexmath.Add(t.vault.supply, in.Amount)
		if err != nil {
			return err
		}
		p := position{key: t.rec.Key(), owner: in.To.Owner}
		held, err := dexmath.Add(t.unitsOf(p), in.Amount)
		if err != nil {
			return err
		}
		t.vault.supply, t.units[p] = supply, held
		return nil
	case amm.OpBurn:
		if in.Signer != amm.SignerUser || in.From.Vault {
			return errors.Wrap(apperrors.ErrInvalidAuthority, "burn needs the holder's signature")
		}
		p := position{key: t.rec.Key(), owner: in.From.Owner}
		held := t.unitsOf(p)
		if held < in.Amount {
			return errors.Wrapf(apperrors.ErrInsufficientBalance, "burn %d units, holds %d", in.Amount, held)
		}
		supply, err := dexmath.Sub(t.vault.supply, in.Amount)
		if err != nil {
			return err
		}
		t.vault.supply, t.units[p] = supply, held-in.Amount
		return nil
	default:
		return errors.Wrapf(apperrors.ErrInvalidArgument, "unknown op %d", in.Op)
	}
}

func (t *txn) authorize(from amm.Account, s amm.Signer) error {
	want := amm.SignerUser
	if from.Vault {
		want = amm.SignerPool
	}
	if s != want {
		return errors.Wrapf(apperrors.ErrInvalidAuthority, "debit of %s is not signed by its owner", from)
	}
	return nil
}

func (t *txn) debit(acc amm.Account, asset pool.Identity, amount uint64) error {
	if acc.Vault {
		r, err := t.reserve(asset)
		if err != nil {
			return err
		}
		if *r < amount {
			return errors.Wrapf(apperrors.ErrInsufficientBalance, "vault holds %d, debit %d", *r, amount)
		}
		*r -= amount
		return nil
	}

	h := holding{owner: acc.Owner, asset: asset}
	bal := t.balanceOf(h)
	if bal < amount {
		return errors.Wrapf(apperrors.ErrInsufficientBalance, "%s holds %d, debit %d", acc, bal, amount)
	}
	t.balances[h] = bal - amount
	return nil
}

func (t *txn) credit(acc amm.Account, asset pool.Identity, amount uint64) error {
	if acc.Vault {
		r, err := t.reserve(asset)
		if err != nil {
			return err
		}
		next, err := dexmath.Add(*r, amount)
		if err != nil {
			return err
		}
		*r = next
		return nil
	}

	h := holding{owner: acc.Owner, asset: asset}
	next, err := dexmath.Add(t.balanceOf(h), amount)
	if err != nil {
		return err
	}
	t.balances[h] = next
	return nil
}

func (t *txn) reserve(asset pool.Identity) (*uint64, error) {
	switch asset {
	case t.rec.AssetX:
		return &t.vault.x, nil
	case t.rec.AssetY:
		return &t.vault.y, nil
	default:
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "asset %s is not traded by pool %s", asset.Hex(), t.rec.Key())
	}
}

func (t *txn) balanceOf(h holding) uint64 {
	if v, ok := t.balances[h]; ok {
		return v
	}
	return t.l.balances[h]
}

func (t *txn) unitsOf(p position) uint64 {
	if v, ok := t.units[p]; ok {
		return v
	}
	return t.l.units[p]
}

func (t *txn) commit(v *vault) {
	*v = t.vault
	for h, bal := range t.balances {
		t.l.balances[h] = bal
	}
	for p, u := range t.units {
		t.l.units[p] = u
	}
}

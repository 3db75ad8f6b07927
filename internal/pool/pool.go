// Package pool describes a single two-asset trading pool: its immutable
// configuration, its administrative authority and its lock state.
package pool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/dexmath"
)

// Identity identifies an asset or a party.
type Identity = common.Address

const (
	// MaxFeeBps is the largest accepted trading fee.
	MaxFeeBps = uint16(dexmath.BpsDenominator)

	// UnitDecimals is the declared precision of the pool-unit mint.
	UnitDecimals = dexmath.Precision
)

// Key addresses one pool in a keyed store. Several pools may share an asset
// pair as long as their seeds differ.
type Key struct {
	AssetX Identity
	AssetY Identity
	Seed   uint64
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%d", k.AssetX.Hex(), k.AssetY.Hex(), k.Seed)
}

// Derivation is metadata used by the host to recompute the pool's accounts.
// It is carried through untouched and never interpreted here.
type Derivation struct {
	PoolBump uint8
	UnitBump uint8
}

// Record is the durable description of one pool.
type Record struct {
	Seed       uint64
	Authority  Authority
	AssetX     Identity
	AssetY     Identity
	FeeBps     uint16
	Locked     bool
	Derivation Derivation
}

// Config holds the parameters fixed at pool creation.
type Config struct {
	Seed       uint64
	Authority  Authority
	AssetX     Identity
	AssetY     Identity
	FeeBps     uint16
	Derivation Derivation
}

// New validates cfg and returns an unlocked pool record.
func New(cfg Config) (Record, error) {
	r := Record{
		Seed:       cfg.Seed,
		Authority:  cfg.Authority,
		AssetX:     cfg.AssetX,
		AssetY:     cfg.AssetY,
		FeeBps:     cfg.FeeBps,
		Derivation: cfg.Derivation,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if r.AssetX == (Identity{}) || r.AssetY == (Identity{}) {
		return errors.Wrap(apperrors.ErrInvalidArgument, "asset id cannot be empty")
	}
	if r.AssetX == r.AssetY {
		return errors.Wrap(apperrors.ErrInvalidArgument, "assets x and y must differ")
	}
	if r.FeeBps > MaxFeeBps {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "fee %d bps exceeds %d", r.FeeBps, MaxFeeBps)
	}
	return nil
}

// Key returns the store key of the pool.
func (r Record) Key() Key {
	return Key{AssetX: r.AssetX, AssetY: r.AssetY, Seed: r.Seed}
}

// Asset returns the asset id on the requested side.
func (r Record) Asset(x bool) Identity {
	if x {
		return r.AssetX
	}
	return r.AssetY
}

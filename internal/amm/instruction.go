package amm

import (
	"fmt"

	"github.com/fleshka4/cpamm/internal/pool"
)

// Op is the kind of ledger write an Instruction requests.
type Op uint8

const (
	OpTransfer Op = iota + 1
	OpMint
	OpBurn
)

// String implements fmt.Stringer.
func (o Op) String() string {
	switch o {
	case OpTransfer:
		return "transfer"
	case OpMint:
		return "mint"
	case OpBurn:
		return "burn"
	default:
		return "unknown"
	}
}

// Signer tells the executor whose authorization a write needs.
type Signer uint8

const (
	// SignerUser is the end user initiating the operation.
	SignerUser Signer = iota + 1
	// SignerPool is the pool's own custody and issuance authority.
	SignerPool
)

// String implements fmt.Stringer.
func (s Signer) String() string {
	switch s {
	case SignerUser:
		return "user"
	case SignerPool:
		return "pool"
	default:
		return "unknown"
	}
}

// Account is an endpoint of a write: either a user or the pool's vault. The
// vault is resolved by the executor from the pool it is operating on.
type Account struct {
	Owner pool.Identity
	Vault bool
}

// Vault is the custodial account of the pool being operated on.
var Vault = Account{Vault: true}

// User returns the account of id.
func User(id pool.Identity) Account {
	return Account{Owner: id}
}

// String implements fmt.Stringer.
func (a Account) String() string {
	if a.Vault {
		return "vault"
	}
	return a.Owner.Hex()
}

// Instruction is one write the host must perform. A handler's instructions
// are applied together or not at all.
//
// Transfers move Amount of Asset from From to To. Mints credit To with pool
// units and burns debit From; Asset is unused for both.
type Instruction struct {
	Op     Op
	Asset  pool.Identity
	From   Account
	To     Account
	Amount uint64
	Signer Signer
}

// String implements fmt.Stringer.
func (i Instruction) String() string {
	switch i.Op {
	case OpMint:
		return fmt.Sprintf("mint %d units to %s", i.Amount, i.To)
	case OpBurn:
		return fmt.Sprintf("burn %d units from %s", i.Amount, i.From)
	default:
		return fmt.Sprintf("transfer %d %s from %s to %s", i.Amount, i.Asset.Hex(), i.From, i.To)
	}
}

func transferIn(asset, owner pool.Identity, amount uint64) Instruction {
	return Instruction{Op: OpTransfer, Asset: asset, From: User(owner), To: Vault, Amount: amount, Signer: SignerUser}
}

func transferOut(asset, owner pool.Identity, amount uint64) Instruction {
	return Instruction{Op: OpTransfer, Asset: asset, From: Vault, To: User(owner), Amount: amount, Signer: SignerPool}
}

func mint(owner pool.Identity, amount uint64) Instruction {
	return Instruction{Op: OpMint, To: User(owner), Amount: amount, Signer: SignerPool}
}

func burn(owner pool.Identity, amount uint64) Instruction {
	return Instruction{Op: OpBurn, From: User(owner), Amount: amount, Signer: SignerUser}
}

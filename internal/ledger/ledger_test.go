package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/cpamm/internal/amm"
	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/pool"
)

var (
	assetX = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	assetY = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	other  = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	alice  = common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
)

func openPool(t *testing.T, l *Ledger) pool.Record {
	t.Helper()

	rec, err := amm.Initialize(pool.Config{Seed: 1, AssetX: assetX, AssetY: assetY, FeeBps: 30})
	require.NoError(t, err)
	require.NoError(t, l.Open(rec.Key()))
	return rec
}

func fund(t *testing.T, l *Ledger, owner common.Address, x, y uint64) {
	t.Helper()

	_, err := l.Credit(owner, assetX, x)
	require.NoError(t, err)
	_, err = l.Credit(owner, assetY, y)
	require.NoError(t, err)
}

func TestLedger_Open(t *testing.T) {
	t.Parallel()

	l := New()
	rec := openPool(t, l)
	require.ErrorIs(t, l.Open(rec.Key()), apperrors.ErrPoolExists)

	snap, err := l.Reserves(context.Background(), rec.Key())
	require.NoError(t, err)
	require.Equal(t, amm.Snapshot{}, snap)

	_, err = l.Reserves(context.Background(), pool.Key{AssetX: assetX, AssetY: assetY, Seed: 99})
	require.ErrorIs(t, err, apperrors.ErrPoolNotFound)
}

func TestLedger_Close(t *testing.T) {
	t.Parallel()

	l := New()
	rec := openPool(t, l)
	require.NoError(t, l.Close(rec.Key()))
	require.ErrorIs(t, l.Close(rec.Key()), apperrors.ErrPoolNotFound)
	require.NoError(t, l.Open(rec.Key()))

	fund(t, l, alice, 5, 0)
	require.NoError(t, l.Apply(rec, []amm.Instruction{
		{Op: amm.OpTransfer, Asset: assetX, From: amm.User(alice), To: amm.Vault, Amount: 5, Signer: amm.SignerUser},
	}))
	require.ErrorIs(t, l.Close(rec.Key()), apperrors.ErrInvalidArgument)

	snap, err := l.Reserves(context.Background(), rec.Key())
	require.NoError(t, err)
	require.Equal(t, uint64(5), snap.ReserveX)
}

func TestLedger_Credit(t *testing.T) {
	t.Parallel()

	l := New()
	bal, err := l.Credit(alice, assetX, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(10), bal)

	_, err = l.Credit(alice, assetX, ^uint64(0))
	require.ErrorIs(t, err, apperrors.ErrPrecision)
	require.Equal(t, uint64(10), l.Balance(alice, assetX))
}

func TestLedger_DepositSwapWithdraw(t *testing.T) {
	t.Parallel()

	l := New()
	rec := openPool(t, l)
	fund(t, l, alice, 2_000_000, 2_000_000)

	snap, err := l.Snapshot(rec, alice)
	require.NoError(t, err)
	dep, err := amm.Deposit(rec, snap, amm.DepositParams{Owner: alice, Units: 1_000_000, MaxX: 1_000_000, MaxY: 1_000_000})
	require.NoError(t, err)
	require.NoError(t, l.Apply(rec, dep.Instructions))

	snap, err = l.Snapshot(rec, alice)
	require.NoError(t, err)
	require.Equal(t, amm.Snapshot{
		ReserveX:   1_000_000,
		ReserveY:   1_000_000,
		UnitSupply: 1_000_000,
		Holdings:   amm.Holdings{X: 1_000_000, Y: 1_000_000, Units: 1_000_000},
	}, snap)

	sw, err := amm.Swap(rec, snap, amm.SwapParams{Owner: alice, XToY: true, AmountIn: 10_000})
	require.NoError(t, err)
	require.NoError(t, l.Apply(rec, sw.Instructions))

	snap, err = l.Snapshot(rec, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1_010_000), snap.ReserveX)
	require.Equal(t, uint64(1_000_000-9871), snap.ReserveY)
	require.Equal(t, uint64(1_000_000), snap.UnitSupply)

	wd, err := amm.Withdraw(rec, snap, amm.WithdrawParams{Owner: alice, Units: 1_000_000})
	require.NoError(t, err)
	require.NoError(t, l.Apply(rec, wd.Instructions))

	snap, err = l.Snapshot(rec, alice)
	require.NoError(t, err)
	require.Equal(t, amm.Snapshot{Holdings: amm.Holdings{X: 2_000_000, Y: 2_000_000}}, snap)
}

func TestLedger_ApplyIsAtomic(t *testing.T) {
	t.Parallel()

	l := New()
	rec := openPool(t, l)
	fund(t, l, alice, 100, 5)

	ins := []amm.Instruction{
		{Op: amm.OpTransfer, Asset: assetX, From: amm.User(alice), To: amm.Vault, Amount: 100, Signer: amm.SignerUser},
		{Op: amm.OpTransfer, Asset: assetY, From: amm.User(alice), To: amm.Vault, Amount: 100, Signer: amm.SignerUser},
		{Op: amm.OpMint, To: amm.User(alice), Amount: 100, Signer: amm.SignerPool},
	}
	require.ErrorIs(t, l.Apply(rec, ins), apperrors.ErrInsufficientBalance)

	snap, err := l.Snapshot(rec, alice)
	require.NoError(t, err)
	require.Equal(t, amm.Snapshot{Holdings: amm.Holdings{X: 100, Y: 5}}, snap)
}

func TestLedger_ApplyRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   amm.Instruction
		err  error
	}{
		{
			name: "vault debit signed by user",
			in:   amm.Instruction{Op: amm.OpTransfer, Asset: assetX, From: amm.Vault, To: amm.User(alice), Amount: 1, Signer: amm.SignerUser},
			err:  apperrors.ErrInvalidAuthority,
		},
		{
			name: "user debit signed by pool",
			in:   amm.Instruction{Op: amm.OpTransfer, Asset: assetX, From: amm.User(alice), To: amm.Vault, Amount: 1, Signer: amm.SignerPool},
			err:  apperrors.ErrInvalidAuthority,
		},
		{
			name: "user to user",
			in:   amm.Instruction{Op: amm.OpTransfer, Asset: assetX, From: amm.User(alice), To: amm.User(alice), Amount: 1, Signer: amm.SignerUser},
			err:  apperrors.ErrInvalidArgument,
		},
		{
			name: "foreign asset",
			in:   amm.Instruction{Op: amm.OpTransfer, Asset: other, From: amm.User(alice), To: amm.Vault, Amount: 1, Signer: amm.SignerUser},
			err:  apperrors.ErrInvalidArgument,
		},
		{
			name: "foreign asset out of vault",
			in:   amm.Instruction{Op: amm.OpTransfer, Asset: other, From: amm.Vault, To: amm.User(alice), Amount: 1, Signer: amm.SignerPool},
			err:  apperrors.ErrInvalidArgument,
		},
		{
			name: "mint signed by user",
			in:   amm.Instruction{Op: amm.OpMint, To: amm.User(alice), Amount: 1, Signer: amm.SignerUser},
			err:  apperrors.ErrInvalidAuthority,
		},
		{
			name: "burn without units",
			in:   amm.Instruction{Op: amm.OpBurn, From: amm.User(alice), Amount: 1, Signer: amm.SignerUser},
			err:  apperrors.ErrInsufficientBalance,
		},
		{
			name: "vault overdraft",
			in:   amm.Instruction{Op: amm.OpTransfer, Asset: assetY, From: amm.Vault, To: amm.User(alice), Amount: 1, Signer: amm.SignerPool},
			err:  apperrors.ErrInsufficientBalance,
		},
		{
			name: "unknown op",
			in:   amm.Instruction{Op: 42},
			err:  apperrors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := New()
			rec := openPool(t, l)
			fund(t, l, alice, 10, 10)
			require.ErrorIs(t, l.Apply(rec, []amm.Instruction{tt.in}), tt.err)
		})
	}
}

func TestLedger_ConcurrentCredit(t *testing.T) {
	t.Parallel()

	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Credit(alice, assetX, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(192), l.Balance(alice, assetX))
}

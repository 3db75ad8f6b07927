package erc20

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

//go:generate mockgen -source=client.go -destination=mock/client.go -package=mock

const tokenABIJSON = `[
	{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"totalSupply","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// Client reads ERC-20 token state.
type Client interface {
	// BalanceOf returns the balance of holder in token.
	BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error)
	// TotalSupply returns the outstanding supply of token.
	TotalSupply(ctx context.Context, token common.Address) (*big.Int, error)
}

// EthCaller represents interface for calling contracts.
type EthCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type ethClientImpl struct {
	caller   EthCaller
	tokenABI abi.ABI

	callTimeout time.Duration
}

// NewClient creates a new token Client backed by an Ethereum RPC connection.
func NewClient(rpcURL string, callTimeout time.Duration) (Client, error) {
	caller, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.Dial")
	}

	return newClientWithCaller(caller, callTimeout)
}

func newClientWithCaller(caller EthCaller, callTimeout time.Duration) (Client, error) {
	tokenABI, err := abi.JSON(strings.NewReader(tokenABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "abi.JSON")
	}

	return &ethClientImpl{
		caller:   caller,
		tokenABI: tokenABI,

		callTimeout: callTimeout,
	}, nil
}

func (c *ethClientImpl) call(ctx context.Context, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.tokenABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrap(err, "c.tokenABI.Pack")
	}

	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	res, err := c.caller.CallContract(
		ctx,
		ethereum.CallMsg{
			To:   &to,
			Data: data,
		},
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "c.caller.CallContract")
	}

	out, err := c.tokenABI.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrap(err, "c.tokenABI.Unpack")
	}

	return out, nil
}

func (c *ethClientImpl) callUint(ctx context.Context, to common.Address, method string, args ...interface{}) (*big.Int, error) {
	out, err := c.call(ctx, to, method, args...)
	if err != nil {
		return nil, errors.Wrap(err, "c.call")
	}
	if len(out) == 0 {
		return nil, errors.Errorf("empty output from %s call", method)
	}

	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("failed to cast %s result to *big.Int", method)
	}

	return v, nil
}

// BalanceOf returns the balance of holder in token.
func (c *ethClientImpl) BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	return c.callUint(ctx, token, "balanceOf", holder)
}

// TotalSupply returns the outstanding supply of token.
func (c *ethClientImpl) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	return c.callUint(ctx, token, "totalSupply")
}

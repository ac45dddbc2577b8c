package network

import (
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/go-errors/errors"
)

// ErrInvalidToken is returned when an API token is empty or does not start
// with a known network prefix.
var ErrInvalidToken = errors.New("invalid api token")

// Network selects the bitcoin chain a wallet operates on.
type Network int

const (
	Regtest Network = iota
	Testnet
	Signet
	Mainnet
)

func (n Network) String() string {
	switch n {
	case Regtest:
		return "regtest"
	case Testnet:
		return "testnet"
	case Signet:
		return "signet"
	case Mainnet:
		return "mainnet"
	default:
		return "unknown"
	}
}

// Params returns the chain parameters used to encode and validate invoices
// and addresses on this network.
func (n Network) Params() *chaincfg.Params {
	switch n {
	case Regtest:
		return &chaincfg.RegressionNetParams
	case Testnet:
		return &chaincfg.TestNet3Params
	case Signet:
		return &chaincfg.SigNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// FromToken derives the network from the first character of an API token.
func FromToken(token string) (Network, error) {
	if len(token) == 0 {
		return 0, ErrInvalidToken
	}

	switch token[0] {
	case 'R':
		return Regtest, nil
	case 'T':
		return Testnet, nil
	case 'S':
		return Signet, nil
	case 'M':
		return Mainnet, nil
	default:
		return 0, ErrInvalidToken
	}
}

package network

import (
	"github.com/go-errors/errors"
)

// ErrNotSupported is returned for networks without hosted services.
var ErrNotSupported = errors.New("network not supported")

const (
	signetEsploraURL = "https://staging.e.r.cequals.xyz"
	signetRgsURL     = "https://staging.r.r.cequals.xyz"
	signetLspNodeID  = "0371d6fd7d75de2d0372d03ea00e8bacdacb50c27d0eaea0a76a0622eff1f5ef2b"
	signetLspAddress = "44.219.111.31:39735"

	mainnetEsploraURL = "https://e.r.cequals.xyz"
	mainnetRgsURL     = "https://r.r.cequals.xyz"
	mainnetLspNodeID  = "027100442c3b79f606f80f322d98d499eefcb060599efc5d4ecb00209c2cb54190"
	mainnetLspAddress = "3.226.165.222:9735"
)

// Services is the static endpoint configuration of a network.
type Services struct {
	EsploraURL string
	RgsURL     string

	// LspNodeID is the hex encoded public key of the liquidity provider
	// that opens just-in-time channels.
	LspNodeID  string
	LspAddress string
}

// ServicesFor returns the hosted services of a network.
func ServicesFor(n Network) (*Services, error) {
	switch n {
	case Signet:
		return &Services{
			EsploraURL: signetEsploraURL,
			RgsURL:     signetRgsURL,
			LspNodeID:  signetLspNodeID,
			LspAddress: signetLspAddress,
		}, nil
	case Mainnet:
		return &Services{
			EsploraURL: mainnetEsploraURL,
			RgsURL:     mainnetRgsURL,
			LspNodeID:  mainnetLspNodeID,
			LspAddress: mainnetLspAddress,
		}, nil
	default:
		return nil, ErrNotSupported
	}
}

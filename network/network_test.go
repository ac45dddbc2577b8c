package network

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromToken(t *testing.T) {
	tests := []struct {
		token   string
		network Network
		err     error
	}{
		{token: "", err: ErrInvalidToken},
		{token: "Rsometoken", network: Regtest},
		{token: "Tsometoken", network: Testnet},
		{token: "Ssometoken", network: Signet},
		{token: "Msometoken", network: Mainnet},
		{token: "Gsometoken", err: ErrInvalidToken},
		{token: "msometoken", err: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			n, err := FromToken(tt.token)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.network, n)
		})
	}
}

func TestParams(t *testing.T) {
	assert.Equal(t, chaincfg.SigNetParams.Name, Signet.Params().Name)
	assert.Equal(t, chaincfg.MainNetParams.Name, Mainnet.Params().Name)
	assert.Equal(t, chaincfg.RegressionNetParams.Name, Regtest.Params().Name)
	assert.Equal(t, chaincfg.TestNet3Params.Name, Testnet.Params().Name)
}

func TestServicesFor(t *testing.T) {
	signet, err := ServicesFor(Signet)
	require.NoError(t, err)
	assert.Equal(t, signetLspNodeID, signet.LspNodeID)
	assert.Equal(t, "44.219.111.31:39735", signet.LspAddress)

	mainnet, err := ServicesFor(Mainnet)
	require.NoError(t, err)
	assert.Equal(t, mainnetEsploraURL, mainnet.EsploraURL)

	for _, n := range []Network{Regtest, Testnet} {
		_, err := ServicesFor(n)
		assert.ErrorIs(t, err, ErrNotSupported, n.String())
	}
}

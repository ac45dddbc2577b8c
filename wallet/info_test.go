package wallet

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/the-lightning-land/payd/node"
	"go.uber.org/mock/gomock"
)

func TestBalance(t *testing.T) {
	w, n := newTestWallet(t, &node.MockNodeConfig{})

	n.SetOnchainBalance(80_000, 70_000)
	n.SetChannels(
		&node.Channel{ChannelID: 1, IsUsable: true, OutboundCapacityMsat: 10_000_999, InboundCapacityMsat: 2_000_000},
		&node.Channel{ChannelID: 2, OutboundCapacityMsat: 5_000_000, InboundCapacityMsat: 1_500},
	)

	b, err := w.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(80_000), b.TotalOnchainSats)
	assert.Equal(t, uint64(70_000), b.SpendableOnchainSats)
	assert.Equal(t, uint64(15_000), b.OutboundCapacitySats)
	assert.Equal(t, uint64(2_001), b.InboundCapacitySats)
}

func TestStatus(t *testing.T) {
	w, n := newTestWallet(t, &node.MockNodeConfig{})
	ctx := context.Background()

	s, err := w.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, n.NodeID(), s.NodeID)
	assert.False(t, s.Connected)
	assert.False(t, s.UsableChannels)
	assert.NotNil(t, s.LatestWalletSync)

	n.SetPeers(
		&node.Peer{NodeID: "03somebodyelse", IsConnected: true},
		&node.Peer{NodeID: w.services.LspNodeID, IsConnected: true},
	)
	n.SetChannels(&node.Channel{ChannelID: 1, IsUsable: true})

	s, err = w.Status(ctx)
	require.NoError(t, err)
	assert.True(t, s.Connected)
	assert.True(t, s.UsableChannels)
}

func TestStatusNodeError(t *testing.T) {
	w, n := newGomockWallet(t)

	n.EXPECT().Status(gomock.Any()).Return(nil, errors.New("locked"))
	n.EXPECT().ListPeers(gomock.Any()).Return(nil, nil).AnyTimes()
	n.EXPECT().ListChannels(gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := w.Status(context.Background())
	assert.ErrorIs(t, err, ErrNodeError)
}

func TestListPayments(t *testing.T) {
	w, _ := newTestWallet(t, &node.MockNodeConfig{AutoSettle: true})
	ctx := context.Background()

	invoice := newPayeeInvoice(t, 2_000)
	_, err := w.Send(ctx, invoice.PaymentRequest)
	require.NoError(t, err)

	_, err = w.Receive(ctx, 3_000, "incoming")
	require.NoError(t, err)

	payments, err := w.ListPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	p, err := w.Payment(ctx, invoice.PaymentHash)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, node.Outbound, p.Direction)
	assert.Equal(t, node.PaymentSucceeded, p.Status)

}

func TestSendOnchain(t *testing.T) {
	w, n := newTestWallet(t, &node.MockNodeConfig{})
	ctx := context.Background()

	n.SetOnchainBalance(100_000, 100_000)

	signet, err := btcutil.NewAddressWitnessPubKeyHash(make([]byte, 20), &chaincfg.SigNetParams)
	require.NoError(t, err)

	mainnet, err := btcutil.NewAddressWitnessPubKeyHash(make([]byte, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)

	txid, err := w.SendOnchain(ctx, signet.EncodeAddress(), 25_000)
	require.NoError(t, err)
	assert.Len(t, txid, 64)

	_, err = w.SendOnchain(ctx, mainnet.EncodeAddress(), 25_000)
	assert.ErrorIs(t, err, ErrInvalidBitcoinAddress)

	_, err = w.SendOnchain(ctx, "not an address", 25_000)
	assert.ErrorIs(t, err, ErrInvalidBitcoinAddress)

	_, err = w.SendOnchain(ctx, signet.EncodeAddress(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = w.SendOnchain(ctx, signet.EncodeAddress(), 1_000_000)
	assert.ErrorIs(t, err, ErrNodeError)
}

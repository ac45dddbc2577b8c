package node

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMockNode(t *testing.T) *MockNode {
	t.Helper()

	n, err := NewMockNode(&MockNodeConfig{Params: &chaincfg.SigNetParams})
	require.NoError(t, err)
	require.NoError(t, n.Start())

	t.Cleanup(func() {
		_ = n.Stop()
	})

	return n
}

func TestMockNodeInvoiceDecodes(t *testing.T) {
	n := newTestMockNode(t)
	ctx := context.Background()

	invoice, err := n.CreateInvoice(ctx, 100_000_000, "coffee", time.Hour)
	require.NoError(t, err)
	assert.False(t, invoice.Jit)

	decoded, err := zpay32.Decode(invoice.PaymentRequest, &chaincfg.SigNetParams)
	require.NoError(t, err)
	require.NotNil(t, decoded.PaymentHash)
	assert.Equal(t, invoice.PaymentHash[:], decoded.PaymentHash[:])
	assert.Equal(t, lnwire.MilliSatoshi(100_000_000), *decoded.MilliSat)
	assert.Equal(t, "coffee", *decoded.Description)

	payment, err := n.Payment(ctx, invoice.PaymentHash)
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, Inbound, payment.Direction)
	assert.Equal(t, PaymentPending, payment.Status)
}

func TestMockNodeJitInvoiceHasRouteHint(t *testing.T) {
	n := newTestMockNode(t)

	invoice, err := n.CreateJitInvoice(context.Background(), 1_000_000, "jit", time.Hour, nil)
	require.NoError(t, err)
	assert.True(t, invoice.Jit)

	decoded, err := zpay32.Decode(invoice.PaymentRequest, &chaincfg.SigNetParams)
	require.NoError(t, err)
	require.Len(t, decoded.RouteHints, 1)
	assert.Equal(t, n.LspNodeID(), hex.EncodeToString(decoded.RouteHints[0][0].NodeID.SerializeCompressed()))
}

func TestMockNodeSendAndSettle(t *testing.T) {
	n := newTestMockNode(t)
	ctx := context.Background()

	invoice, err := n.CreateInvoice(ctx, 5_000, "settle", time.Hour)
	require.NoError(t, err)

	hash, err := n.SendPayment(ctx, invoice.PaymentRequest)
	require.NoError(t, err)
	assert.Equal(t, invoice.PaymentHash, hash)
	assert.Equal(t, hash, <-n.Submitted())

	require.NoError(t, n.Settle(hash, 12))

	event, err := n.NextEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSuccessful, event.Kind)
	assert.Equal(t, lnwire.MilliSatoshi(12), event.FeePaidMsat)
	require.NoError(t, n.EventHandled(event))
	assert.Equal(t, 0, n.Events().Len())

	payment, err := n.Payment(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, PaymentSucceeded, payment.Status)
}

func TestMockNodeSendRejectsGarbage(t *testing.T) {
	n := newTestMockNode(t)

	_, err := n.SendPayment(context.Background(), "lnbc1garbage")
	assert.Error(t, err)
}

func TestMockNodeSendOnchain(t *testing.T) {
	n := newTestMockNode(t)
	ctx := context.Background()

	n.SetOnchainBalance(50_000, 40_000)

	addr, err := btcutil.NewAddressWitnessPubKeyHash(make([]byte, 20), &chaincfg.SigNetParams)
	require.NoError(t, err)

	txid, err := n.SendOnchain(ctx, addr.EncodeAddress(), 30_000)
	require.NoError(t, err)
	assert.Len(t, txid, 64)

	_, err = n.SendOnchain(ctx, addr.EncodeAddress(), 30_000)
	assert.Error(t, err)

	balances, err := n.ListBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), balances.SpendableOnchainSats)

	mainnet, err := btcutil.NewAddressWitnessPubKeyHash(make([]byte, 20), &chaincfg.MainNetParams)
	require.NoError(t, err)

	_, err = n.SendOnchain(ctx, mainnet.EncodeAddress(), 1_000)
	assert.Error(t, err)
}

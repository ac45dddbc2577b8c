package wallet

import (
	"context"
	"testing"

	"github.com/go-errors/errors"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/the-lightning-land/payd/node"
	"go.uber.org/mock/gomock"
)

func TestReceiveChoosesInvoiceKind(t *testing.T) {
	tests := []struct {
		name    string
		inbound []lnwire.MilliSatoshi
		jit     bool
	}{
		{name: "no channels", jit: true},
		{name: "too little inbound", inbound: []lnwire.MilliSatoshi{50_000}, jit: true},
		{name: "exactly the amount", inbound: []lnwire.MilliSatoshi{60_000_000, 40_000_000}, jit: true},
		{name: "one msat more", inbound: []lnwire.MilliSatoshi{100_000_001}, jit: false},
		{name: "summed over channels", inbound: []lnwire.MilliSatoshi{60_000_000, 60_000_000}, jit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, n := newTestWallet(t, &node.MockNodeConfig{})

			var channels []*node.Channel
			for i, inbound := range tt.inbound {
				channels = append(channels, &node.Channel{
					ChannelID:           uint64(i + 1),
					IsUsable:            true,
					InboundCapacityMsat: inbound,
				})
			}
			n.SetChannels(channels...)

			invoice, err := w.Receive(context.Background(), 100_000, "socks")
			require.NoError(t, err)
			assert.Equal(t, tt.jit, invoice.Jit)
			assert.Equal(t, lnwire.MilliSatoshi(100_000_000), invoice.AmountMsat)
			assert.Equal(t, "socks", invoice.Description)
		})
	}
}

func TestReceiveCallsNode(t *testing.T) {
	w, n := newGomockWallet(t)

	n.EXPECT().ListChannels(gomock.Any()).Return([]*node.Channel{
		{InboundCapacityMsat: 5_000_000},
	}, nil).Times(2)

	n.EXPECT().
		CreateInvoice(gomock.Any(), lnwire.MilliSatoshi(4_000_000), "small", invoiceExpiry).
		Return(&node.Invoice{PaymentRequest: "lntbs1small"}, nil)

	n.EXPECT().
		CreateJitInvoice(gomock.Any(), lnwire.MilliSatoshi(5_000_000), "large", invoiceExpiry, nil).
		Return(&node.Invoice{PaymentRequest: "lntbs1large", Jit: true}, nil)

	invoice, err := w.Receive(context.Background(), 4_000, "small")
	require.NoError(t, err)
	assert.Equal(t, "lntbs1small", invoice.PaymentRequest)

	invoice, err = w.Receive(context.Background(), 5_000, "large")
	require.NoError(t, err)
	assert.True(t, invoice.Jit)
}

func TestReceiveNodeErrors(t *testing.T) {
	w, n := newGomockWallet(t)

	n.EXPECT().ListChannels(gomock.Any()).Return(nil, errors.New("not synced"))

	_, err := w.Receive(context.Background(), 1_000, "")
	assert.ErrorIs(t, err, ErrNodeError)

	n.EXPECT().ListChannels(gomock.Any()).Return(nil, nil)
	n.EXPECT().
		CreateJitInvoice(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("lsp unreachable"))

	_, err = w.Receive(context.Background(), 1_000, "")
	assert.ErrorIs(t, err, ErrNodeError)
	assert.Contains(t, err.Error(), "lsp unreachable")
}

func TestReceiveRejectsInvalidAmount(t *testing.T) {
	w, _ := newGomockWallet(t)

	_, err := w.Receive(context.Background(), 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = w.Receive(context.Background(), ^uint64(0), "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

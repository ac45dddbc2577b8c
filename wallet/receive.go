package wallet

import (
	"context"
	"math"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/the-lightning-land/payd/node"
)

const invoiceExpiry = 3600 * time.Second

// Receive issues an invoice over amountSats. A plain invoice is issued when
// the inbound capacity of all channels exceeds the amount, otherwise the
// invoice asks the liquidity provider for a just-in-time channel.
func (w *Wallet) Receive(ctx context.Context, amountSats uint64, description string) (*node.Invoice, error) {
	if amountSats == 0 || amountSats > math.MaxUint64/1000 {
		return nil, ErrInvalidAmount
	}

	amount := lnwire.NewMSatFromSatoshis(btcutil.Amount(amountSats))

	channels, err := w.node.ListChannels(ctx)
	if err != nil {
		return nil, wrapError(CodeNodeError, err)
	}

	var inbound lnwire.MilliSatoshi
	for _, ch := range channels {
		inbound += ch.InboundCapacityMsat
	}

	var invoice *node.Invoice

	if inbound > amount {
		w.log.Debugf("Inbound capacity of %v covers %v, issuing invoice", inbound, amount)
		invoice, err = w.node.CreateInvoice(ctx, amount, description, invoiceExpiry)
	} else {
		w.log.Debugf("Inbound capacity of %v does not cover %v, issuing jit invoice", inbound, amount)
		invoice, err = w.node.CreateJitInvoice(ctx, amount, description, invoiceExpiry, nil)
	}
	if err != nil {
		return nil, wrapError(CodeNodeError, err)
	}

	w.metrics.InvoiceIssued(invoice.Jit)

	return invoice, nil
}

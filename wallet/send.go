package wallet

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/the-lightning-land/payd/node"
)

// Send pays a BOLT11 invoice and blocks until the node reports the outcome.
// It returns the routing fee paid.
//
// The payment is registered before it is handed to the node, so an outcome
// reported while the submission is still returning is not lost. When ctx is
// done first the send stops waiting, unless the outcome was already taken
// for delivery, in which case that outcome is returned.
func (w *Wallet) Send(ctx context.Context, invoice string) (lnwire.MilliSatoshi, error) {
	hash, err := w.paymentHash(invoice)
	if err != nil {
		return 0, err
	}

	result := make(chan outcome, 1)
	if err := w.pending.register(hash, result); err != nil {
		return 0, err
	}

	w.log.Infof("Sending payment %v", hash)

	start := time.Now()

	submitted, err := w.node.SendPayment(ctx, invoice)
	if err != nil {
		w.pending.take(hash)
		w.metrics.ObserveSend(CodeNodeError.String(), start)
		return 0, wrapError(CodeNodeError, err)
	}

	if submitted != hash {
		w.log.Warnf("Node submitted payment %v for invoice with hash %v", submitted, hash)
	}

	var o outcome

	select {
	case o = <-result:
	case <-ctx.Done():
		if _, ok := w.pending.take(hash); ok {
			w.log.Infof("Stopped waiting for payment %v: %v", hash, ctx.Err())
			w.metrics.ObserveSend("abandoned", start)
			return 0, ctx.Err()
		}

		o = <-result
	}

	if o.err != nil {
		code, _ := CodeOf(o.err)
		w.log.Infof("Payment %v failed: %v", hash, o.err)
		w.metrics.ObserveSend(code.String(), start)
		return 0, o.err
	}

	w.log.Infof("Payment %v succeeded with fee %v", hash, o.fee)
	w.metrics.ObserveSend("succeeded", start)

	return o.fee, nil
}

// paymentHash decodes a BOLT11 invoice for the wallet's network and returns
// its payment hash.
func (w *Wallet) paymentHash(invoice string) (lntypes.Hash, error) {
	decoded, err := zpay32.Decode(invoice, w.params)
	if err != nil {
		return lntypes.Hash{}, wrapError(CodeInvalidBolt11Invoice, err)
	}

	if decoded.PaymentHash == nil {
		return lntypes.Hash{}, ErrInvalidBolt11Invoice
	}

	return lntypes.Hash(*decoded.PaymentHash), nil
}

// InvoicePaid reports whether the node recorded a successful payment for the
// invoice.
func (w *Wallet) InvoicePaid(ctx context.Context, invoice string) (bool, error) {
	hash, err := w.paymentHash(invoice)
	if err != nil {
		return false, err
	}

	payment, err := w.node.Payment(ctx, hash)
	if err != nil {
		return false, wrapError(CodeNodeError, err)
	}

	return payment != nil && payment.Status == node.PaymentSucceeded, nil
}

package wallet

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
)

// SendOnchain sends amountSats to a bitcoin address of the wallet's network
// and returns the transaction id.
func (w *Wallet) SendOnchain(ctx context.Context, address string, amountSats uint64) (string, error) {
	addr, err := btcutil.DecodeAddress(address, w.params)
	if err != nil {
		return "", wrapError(CodeInvalidBitcoinAddress, err)
	}

	if !addr.IsForNet(w.params) {
		return "", ErrInvalidBitcoinAddress
	}

	if amountSats == 0 || amountSats > uint64(btcutil.MaxSatoshi) {
		return "", ErrInvalidAmount
	}

	txid, err := w.node.SendOnchain(ctx, address, btcutil.Amount(amountSats))
	if err != nil {
		return "", wrapError(CodeNodeError, err)
	}

	w.log.Infof("Sent %v to %v in %v", btcutil.Amount(amountSats), address, txid)

	return txid, nil
}

package wallet

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/the-lightning-land/payd/node"
)

const eventBackoff = 1 * time.Second

// handleEvents is the single consumer of the node's event stream. It runs
// until the wallet shuts down.
func (w *Wallet) handleEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		event, err := w.node.NextEvent(ctx)
		if err != nil {
			select {
			case <-w.quit:
				return
			default:
			}

			w.log.Errorf("Could not get next node event: %v", err)

			select {
			case <-w.quit:
				return
			case <-time.After(eventBackoff):
			}

			continue
		}

		w.handleEvent(event)
	}
}

// handleEvent routes terminal payment events to the waiting send and always
// acknowledges the event afterwards.
func (w *Wallet) handleEvent(event *node.Event) {
	defer func() {
		if err := w.node.EventHandled(event); err != nil {
			w.log.Errorf("Could not acknowledge %v event: %v", event.Kind, err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			w.log.Errorf("Recovered while handling %v event: %v", event.Kind, r)
		}
	}()

	w.log.Debugf("Handling %v event for %v", event.Kind, event.PaymentHash)
	w.metrics.EventHandled(event.Kind.String())

	switch event.Kind {
	case node.EventPaymentSuccessful:
		w.resolve(event.PaymentHash, outcome{fee: event.FeePaidMsat})
	case node.EventPaymentFailed:
		w.resolve(event.PaymentHash, outcome{err: failureError(event.Reason)})
	}

	w.notifyClients(event)
}

func (w *Wallet) resolve(hash lntypes.Hash, o outcome) {
	result, ok := w.pending.take(hash)
	if !ok {
		w.metrics.EventOrphaned()
		w.log.Warnf("No pending payment for %v", hash)
		return
	}

	if !deliver(result, o) {
		w.log.Warnf("Could not deliver outcome of payment %v", hash)
	}
}

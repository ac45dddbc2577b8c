package wallet

import (
	"sync"

	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/the-lightning-land/payd/metrics"
)

// outcome is the terminal result of a send.
type outcome struct {
	fee lnwire.MilliSatoshi
	err error
}

// pendingPayments correlates in-flight sends with the outcomes reported by
// the node. Each entry holds the result channel of exactly one waiting send
// and is removed by take, which is the only removal path.
type pendingPayments struct {
	mu      sync.Mutex
	entries map[lntypes.Hash]chan outcome
	closed  bool
	metrics *metrics.Metrics
}

func newPendingPayments(m *metrics.Metrics) *pendingPayments {
	return &pendingPayments{
		entries: make(map[lntypes.Hash]chan outcome),
		metrics: m,
	}
}

func (p *pendingPayments) register(hash lntypes.Hash, result chan outcome) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrShuttingDown
	}

	if _, ok := p.entries[hash]; ok {
		return ErrPaymentInFlight
	}

	p.entries[hash] = result
	p.metrics.PaymentRegistered()

	return nil
}

func (p *pendingPayments) take(hash lntypes.Hash) (chan outcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result, ok := p.entries[hash]
	if !ok {
		return nil, false
	}

	delete(p.entries, hash)
	p.metrics.PaymentResolved()

	return result, true
}

// takeAll removes every entry and refuses further registrations.
func (p *pendingPayments) takeAll() []chan outcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true

	results := make([]chan outcome, 0, len(p.entries))
	for hash, result := range p.entries {
		results = append(results, result)
		delete(p.entries, hash)
		p.metrics.PaymentResolved()
	}

	return results
}

func (p *pendingPayments) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.entries)
}

// deliver hands o to a result channel without blocking. It fails only if
// the channel already holds an outcome.
func deliver(result chan outcome, o outcome) bool {
	select {
	case result <- o:
		return true
	default:
		return false
	}
}

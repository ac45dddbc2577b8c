package node

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/go-errors/errors"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
)

const (
	mockJitChannelID = 0x10000100000001
	mockBlockHeight  = 100
)

// check MockNode compliance to its interface during compile time
var _ Node = (*MockNode)(nil)

type MockNodeConfig struct {
	Params *chaincfg.Params

	// LspNodeID is the hex encoded key used in the route hint of
	// just-in-time invoices. A random key is used when empty.
	LspNodeID string

	// AutoSettle reports every sent payment as successful right away.
	AutoSettle bool

	Logger Logger
}

// MockNode is an in-memory Node. It signs real BOLT11 invoices and reports
// payment outcomes only when told to, unless AutoSettle is set.
type MockNode struct {
	params     *chaincfg.Params
	key        *btcec.PrivateKey
	lspKey     *btcec.PublicKey
	lspNodeID  string
	autoSettle bool
	logger     Logger

	events    *MemoryQueue
	submitted chan lntypes.Hash

	mu        sync.Mutex
	started   bool
	sendErr   error
	payments  map[lntypes.Hash]*Payment
	preimages map[lntypes.Hash]lntypes.Preimage
	channels  []*Channel
	peers     []*Peer
	balances  Balances
}

func NewMockNode(config *MockNodeConfig) (*MockNode, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Errorf("Could not generate node key: %v", err)
	}

	params := config.Params
	if params == nil {
		params = &chaincfg.SigNetParams
	}

	var lspKey *btcec.PublicKey
	if config.LspNodeID != "" {
		raw, err := hex.DecodeString(config.LspNodeID)
		if err != nil {
			return nil, errors.Errorf("Could not decode lsp node id: %v", err)
		}

		lspKey, err = btcec.ParsePubKey(raw)
		if err != nil {
			return nil, errors.Errorf("Could not parse lsp node id: %v", err)
		}
	} else {
		lsp, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, errors.Errorf("Could not generate lsp key: %v", err)
		}

		lspKey = lsp.PubKey()
	}

	n := &MockNode{
		params:     params,
		key:        key,
		lspKey:     lspKey,
		lspNodeID:  hex.EncodeToString(lspKey.SerializeCompressed()),
		autoSettle: config.AutoSettle,
		logger:     config.Logger,
		events:     NewMemoryQueue(),
		submitted:  make(chan lntypes.Hash, 16),
		payments:   make(map[lntypes.Hash]*Payment),
		preimages:  make(map[lntypes.Hash]lntypes.Preimage),
	}

	if n.logger == nil {
		n.logger = noopLogger{}
	}

	return n, nil
}

func (n *MockNode) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.started = true
	n.logger.Infof("Started mock node %v", n.NodeID())

	return nil
}

func (n *MockNode) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.started = false

	return nil
}

func (n *MockNode) NodeID() string {
	return hex.EncodeToString(n.key.PubKey().SerializeCompressed())
}

// LspNodeID is the node id used in route hints of just-in-time invoices.
func (n *MockNode) LspNodeID() string {
	return n.lspNodeID
}

// Events exposes the queue backing NextEvent.
func (n *MockNode) Events() *MemoryQueue {
	return n.events
}

// Submitted receives the hash of every payment handed to SendPayment.
func (n *MockNode) Submitted() <-chan lntypes.Hash {
	return n.submitted
}

// SetSendError makes SendPayment fail with err. A nil err restores normal
// behaviour.
func (n *MockNode) SetSendError(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sendErr = err
}

func (n *MockNode) SetChannels(channels ...*Channel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.channels = channels
}

func (n *MockNode) SetPeers(peers ...*Peer) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.peers = peers
}

// SetOnchainBalance sets the total and spendable on-chain balance.
func (n *MockNode) SetOnchainBalance(total, spendable btcutil.Amount) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.balances.TotalOnchainSats = uint64(total)
	n.balances.SpendableOnchainSats = uint64(spendable)
}

func (n *MockNode) CreateInvoice(ctx context.Context, amount lnwire.MilliSatoshi, description string, expiry time.Duration) (*Invoice, error) {
	return n.createInvoice(amount, description, expiry, false)
}

func (n *MockNode) CreateJitInvoice(ctx context.Context, amount lnwire.MilliSatoshi, description string, expiry time.Duration, maxLspFee *lnwire.MilliSatoshi) (*Invoice, error) {
	return n.createInvoice(amount, description, expiry, true)
}

func (n *MockNode) createInvoice(amount lnwire.MilliSatoshi, description string, expiry time.Duration, jit bool) (*Invoice, error) {
	var preimage lntypes.Preimage
	if _, err := rand.Read(preimage[:]); err != nil {
		return nil, errors.Errorf("Could not generate preimage: %v", err)
	}

	var paymentAddr [32]byte
	if _, err := rand.Read(paymentAddr[:]); err != nil {
		return nil, errors.Errorf("Could not generate payment address: %v", err)
	}

	hash := preimage.Hash()

	opts := []func(*zpay32.Invoice){
		zpay32.Description(description),
		zpay32.Expiry(expiry),
		zpay32.PaymentAddr(paymentAddr),
		zpay32.Features(invoiceFeatures()),
	}

	if amount > 0 {
		opts = append(opts, zpay32.Amount(amount))
	}

	if jit {
		opts = append(opts, zpay32.RouteHint([]zpay32.HopHint{{
			NodeID:                    n.lspKey,
			ChannelID:                 mockJitChannelID,
			FeeBaseMSat:               1000,
			FeeProportionalMillionths: 1,
			CLTVExpiryDelta:           144,
		}}))
	}

	paymentRequest, err := n.signInvoice(hash, time.Now(), opts...)
	if err != nil {
		return nil, err
	}

	kind := KindBolt11
	if jit {
		kind = KindBolt11Jit
	}

	n.mu.Lock()
	n.preimages[hash] = preimage
	n.payments[hash] = &Payment{
		ID:         hash,
		Kind:       kind,
		AmountMsat: amount,
		Direction:  Inbound,
		Status:     PaymentPending,
		LastUpdate: time.Now(),
	}
	n.mu.Unlock()

	return &Invoice{
		PaymentRequest: paymentRequest,
		PaymentHash:    hash,
		AmountMsat:     amount,
		Description:    description,
		Expiry:         expiry,
		Jit:            jit,
	}, nil
}

func invoiceFeatures() *lnwire.FeatureVector {
	return lnwire.NewFeatureVector(
		lnwire.NewRawFeatureVector(
			lnwire.TLVOnionPayloadRequired,
			lnwire.PaymentAddrRequired,
		),
		lnwire.Features,
	)
}

// SignInvoice encodes a BOLT11 invoice for hash signed by this node. It is
// used to fabricate payment requests of other nodes in tests.
func (n *MockNode) SignInvoice(hash lntypes.Hash, amount lnwire.MilliSatoshi, description string) (string, error) {
	return n.signInvoice(hash, time.Now(),
		zpay32.Amount(amount),
		zpay32.Description(description),
		zpay32.Features(invoiceFeatures()),
	)
}

// Preimage returns the preimage of an invoice created by this node.
func (n *MockNode) Preimage(hash lntypes.Hash) (lntypes.Preimage, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	preimage, ok := n.preimages[hash]
	return preimage, ok
}

func (n *MockNode) signInvoice(hash lntypes.Hash, timestamp time.Time, opts ...func(*zpay32.Invoice)) (string, error) {
	invoice, err := zpay32.NewInvoice(n.params, hash, timestamp, opts...)
	if err != nil {
		return "", errors.Errorf("Could not create invoice: %v", err)
	}

	paymentRequest, err := invoice.Encode(zpay32.MessageSigner{
		SignCompact: func(msg []byte) ([]byte, error) {
			return ecdsa.SignCompact(n.key, chainhash.HashB(msg), true)
		},
	})
	if err != nil {
		return "", errors.Errorf("Could not encode invoice: %v", err)
	}

	return paymentRequest, nil
}

func (n *MockNode) SendPayment(ctx context.Context, paymentRequest string) (lntypes.Hash, error) {
	invoice, err := zpay32.Decode(paymentRequest, n.params)
	if err != nil {
		return lntypes.Hash{}, errors.Errorf("Could not decode invoice: %v", err)
	}

	if invoice.PaymentHash == nil {
		return lntypes.Hash{}, errors.New("invoice has no payment hash")
	}

	hash := lntypes.Hash(*invoice.PaymentHash)

	var amount lnwire.MilliSatoshi
	if invoice.MilliSat != nil {
		amount = *invoice.MilliSat
	}

	n.mu.Lock()
	if n.sendErr != nil {
		err := n.sendErr
		n.mu.Unlock()
		return lntypes.Hash{}, err
	}

	if p, ok := n.payments[hash]; ok && p.Direction == Outbound && p.Status != PaymentFailed {
		n.mu.Unlock()
		return lntypes.Hash{}, errors.Errorf("payment %v already sent", hash)
	}

	n.payments[hash] = &Payment{
		ID:         hash,
		Kind:       KindBolt11,
		AmountMsat: amount,
		Direction:  Outbound,
		Status:     PaymentPending,
		LastUpdate: time.Now(),
	}
	n.mu.Unlock()

	select {
	case n.submitted <- hash:
	default:
	}

	if n.autoSettle {
		if err := n.Settle(hash, 0); err != nil {
			return lntypes.Hash{}, err
		}
	}

	return hash, nil
}

// Settle reports the outgoing payment as successful.
func (n *MockNode) Settle(hash lntypes.Hash, fee lnwire.MilliSatoshi) error {
	return n.PushEvent(&Event{
		Kind:        EventPaymentSuccessful,
		PaymentHash: hash,
		FeePaidMsat: fee,
	})
}

// Fail reports the outgoing payment as failed.
func (n *MockNode) Fail(hash lntypes.Hash, reason FailureReason) error {
	return n.PushEvent(&Event{
		Kind:        EventPaymentFailed,
		PaymentHash: hash,
		Reason:      reason,
	})
}

// MarkReceived reports an incoming payment to an invoice of this node.
func (n *MockNode) MarkReceived(hash lntypes.Hash, amount lnwire.MilliSatoshi) error {
	return n.PushEvent(&Event{
		Kind:        EventPaymentReceived,
		PaymentHash: hash,
		AmountMsat:  amount,
	})
}

// PushEvent updates the payment records the event refers to and queues it.
func (n *MockNode) PushEvent(event *Event) error {
	n.mu.Lock()
	if p, ok := n.payments[event.PaymentHash]; ok {
		switch event.Kind {
		case EventPaymentSuccessful:
			p.Status = PaymentSucceeded
			p.FeePaidMsat = event.FeePaidMsat
		case EventPaymentFailed:
			p.Status = PaymentFailed
		case EventPaymentReceived:
			p.Status = PaymentSucceeded
			p.AmountMsat = event.AmountMsat
		}
		p.LastUpdate = time.Now()
	}
	n.mu.Unlock()

	return n.events.Push(event)
}

func (n *MockNode) SendOnchain(ctx context.Context, address string, amount btcutil.Amount) (string, error) {
	addr, err := btcutil.DecodeAddress(address, n.params)
	if err != nil {
		return "", errors.Errorf("Could not decode address: %v", err)
	}

	if !addr.IsForNet(n.params) {
		return "", errors.Errorf("address %v is not for %v", address, n.params.Name)
	}

	var txid chainhash.Hash
	if _, err := rand.Read(txid[:]); err != nil {
		return "", errors.Errorf("Could not generate txid: %v", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if uint64(amount) > n.balances.SpendableOnchainSats {
		return "", errors.Errorf("insufficient funds: %v available", btcutil.Amount(n.balances.SpendableOnchainSats))
	}

	n.balances.SpendableOnchainSats -= uint64(amount)
	n.balances.TotalOnchainSats -= uint64(amount)

	n.payments[lntypes.Hash(txid)] = &Payment{
		ID:         lntypes.Hash(txid),
		Kind:       KindOnchain,
		AmountMsat: lnwire.NewMSatFromSatoshis(amount),
		Direction:  Outbound,
		Status:     PaymentPending,
		LastUpdate: time.Now(),
	}

	return txid.String(), nil
}

func (n *MockNode) Payment(ctx context.Context, id lntypes.Hash) (*Payment, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	p, ok := n.payments[id]
	if !ok {
		return nil, nil
	}

	payment := *p
	return &payment, nil
}

func (n *MockNode) ListPayments(ctx context.Context) ([]*Payment, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	payments := make([]*Payment, 0, len(n.payments))
	for _, p := range n.payments {
		payment := *p
		payments = append(payments, &payment)
	}

	sort.Slice(payments, func(i, j int) bool {
		return payments[i].LastUpdate.Before(payments[j].LastUpdate)
	})

	return payments, nil
}

func (n *MockNode) ListChannels(ctx context.Context) ([]*Channel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels := make([]*Channel, 0, len(n.channels))
	for _, ch := range n.channels {
		channel := *ch
		channels = append(channels, &channel)
	}

	return channels, nil
}

func (n *MockNode) ListBalances(ctx context.Context) (*Balances, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	balances := n.balances
	for _, ch := range n.channels {
		balances.TotalLightningSats += uint64(ch.OutboundCapacityMsat.ToSatoshis())
	}

	return &balances, nil
}

func (n *MockNode) ListPeers(ctx context.Context) ([]*Peer, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	peers := make([]*Peer, 0, len(n.peers))
	for _, p := range n.peers {
		peer := *p
		peers = append(peers, &peer)
	}

	return peers, nil
}

func (n *MockNode) Status(ctx context.Context) (*Status, error) {
	now := time.Now()

	return &Status{
		BestBlockHeight:         mockBlockHeight,
		BestBlockHash:           n.params.GenesisHash.String(),
		LatestWalletSync:        &now,
		LatestOnchainWalletSync: &now,
	}, nil
}

func (n *MockNode) NextEvent(ctx context.Context) (*Event, error) {
	return n.events.Next(ctx)
}

func (n *MockNode) EventHandled(event *Event) error {
	return n.events.Ack(event.Seq)
}

package node

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
)

//go:generate mockgen -source=node.go -destination=mocks/mocks.go -package=mocks Node

// Invoice is a BOLT11 payment request issued by a node.
type Invoice struct {
	PaymentRequest string
	PaymentHash    lntypes.Hash
	AmountMsat     lnwire.MilliSatoshi
	Description    string
	Expiry         time.Duration

	// Jit is set when the invoice asks the liquidity provider to open a
	// channel at payment time.
	Jit bool
}

func (i *Invoice) String() string {
	return i.PaymentRequest
}

// Channel is a view of one payment channel and its spendable capacities.
type Channel struct {
	ChannelID            uint64
	CounterpartyNodeID   string
	IsUsable             bool
	OutboundCapacityMsat lnwire.MilliSatoshi
	InboundCapacityMsat  lnwire.MilliSatoshi
}

// Balances are the on-chain and lightning balances reported by a node.
type Balances struct {
	TotalOnchainSats               uint64
	SpendableOnchainSats           uint64
	TotalAnchorChannelsReserveSats uint64
	TotalLightningSats             uint64
}

// Status describes the sync state of a node.
type Status struct {
	BestBlockHeight uint32
	BestBlockHash   string

	LatestWalletSync         *time.Time
	LatestOnchainWalletSync  *time.Time
	LatestFeeRateCacheUpdate *time.Time
	LatestRgsSnapshot        *time.Time
}

// Peer is a lightning peer known to a node.
type Peer struct {
	NodeID      string
	Address     string
	IsConnected bool
}

type PaymentDirection int

const (
	Inbound PaymentDirection = iota
	Outbound
)

func (d PaymentDirection) String() string {
	if d == Inbound {
		return "inbound"
	}

	return "outbound"
}

type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentSucceeded
	PaymentFailed
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "pending"
	case PaymentSucceeded:
		return "succeeded"
	case PaymentFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type PaymentKind int

const (
	KindBolt11 PaymentKind = iota
	KindBolt11Jit
	KindOnchain
)

func (k PaymentKind) String() string {
	switch k {
	case KindBolt11:
		return "bolt11"
	case KindBolt11Jit:
		return "bolt11_jit"
	case KindOnchain:
		return "onchain"
	default:
		return "unknown"
	}
}

// Payment is a record of a sent or received payment. Lightning payments are
// identified by their payment hash.
type Payment struct {
	ID          lntypes.Hash
	Kind        PaymentKind
	AmountMsat  lnwire.MilliSatoshi
	FeePaidMsat lnwire.MilliSatoshi
	Direction   PaymentDirection
	Status      PaymentStatus
	LastUpdate  time.Time
}

// FailureReason is the reason a node gave up on an outgoing payment.
type FailureReason int

const (
	FailureUnexpected FailureReason = iota
	FailureRecipientRejected
	FailureSenderAbandoned
	FailureRetriesExhausted
	FailurePaymentExpired
	FailureRouteNotFound
)

func (r FailureReason) String() string {
	switch r {
	case FailureRecipientRejected:
		return "recipient_rejected"
	case FailureSenderAbandoned:
		return "sender_abandoned"
	case FailureRetriesExhausted:
		return "retries_exhausted"
	case FailurePaymentExpired:
		return "payment_expired"
	case FailureRouteNotFound:
		return "route_not_found"
	default:
		return "unexpected"
	}
}

type EventKind int

const (
	EventPaymentSuccessful EventKind = iota + 1
	EventPaymentFailed
	EventPaymentReceived
	EventChannelReady
	EventChannelClosed
)

func (k EventKind) String() string {
	switch k {
	case EventPaymentSuccessful:
		return "payment_successful"
	case EventPaymentFailed:
		return "payment_failed"
	case EventPaymentReceived:
		return "payment_received"
	case EventChannelReady:
		return "channel_ready"
	case EventChannelClosed:
		return "channel_closed"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by a node. Events are delivered until
// they are acknowledged with EventHandled.
type Event struct {
	// Seq is assigned by the event queue and identifies the event when it
	// is acknowledged.
	Seq  uint64    `json:"seq"`
	Kind EventKind `json:"kind"`

	PaymentHash lntypes.Hash        `json:"payment_hash"`
	FeePaidMsat lnwire.MilliSatoshi `json:"fee_paid_msat,omitempty"`
	AmountMsat  lnwire.MilliSatoshi `json:"amount_msat,omitempty"`
	Reason      FailureReason       `json:"reason,omitempty"`

	ChannelID          uint64 `json:"channel_id,omitempty"`
	CounterpartyNodeID string `json:"counterparty_node_id,omitempty"`
}

// Node is a lightning node that issues invoices, submits payments and
// reports their outcome asynchronously through its event stream.
type Node interface {
	Start() error
	Stop() error
	NodeID() string

	CreateInvoice(ctx context.Context, amount lnwire.MilliSatoshi, description string, expiry time.Duration) (*Invoice, error)

	// CreateJitInvoice issues an invoice that lets the liquidity provider
	// open a channel at payment time. maxLspFee optionally caps the fee the
	// provider may skim for the channel.
	CreateJitInvoice(ctx context.Context, amount lnwire.MilliSatoshi, description string, expiry time.Duration, maxLspFee *lnwire.MilliSatoshi) (*Invoice, error)

	// SendPayment hands a payment request to the node. It returns once the
	// payment is in flight; the outcome is reported as an event.
	SendPayment(ctx context.Context, paymentRequest string) (lntypes.Hash, error)

	SendOnchain(ctx context.Context, address string, amount btcutil.Amount) (string, error)

	// Payment returns the record of a payment, or nil if it is unknown.
	Payment(ctx context.Context, id lntypes.Hash) (*Payment, error)

	ListPayments(ctx context.Context) ([]*Payment, error)
	ListChannels(ctx context.Context) ([]*Channel, error)
	ListBalances(ctx context.Context) (*Balances, error)
	ListPeers(ctx context.Context) ([]*Peer, error)
	Status(ctx context.Context) (*Status, error)

	// NextEvent blocks until an event is available. The same event is
	// returned until it is acknowledged.
	NextEvent(ctx context.Context) (*Event, error)
	EventHandled(event *Event) error
}

package node

import (
	"bytes"
	"context"
	"crypto/x509"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/go-errors/errors"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/lnrpc/routerrpc"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/macaroons"
	"golang.org/x/net/proxy"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/status"
	"gopkg.in/macaroon.v2"
)

const (
	// maxListedInvoices caps the invoices fetched when listing payments.
	maxListedInvoices = 1000

	defaultStreamBackoff = 1 * time.Second
	infoTimeout   = 30 * time.Second
)

var (
	beginCertificateBlock = []byte("-----BEGIN CERTIFICATE-----\n")
	endCertificateBlock   = []byte("\n-----END CERTIFICATE-----")
)

// check LndNode compliance to its interface during compile time
var _ Node = (*LndNode)(nil)

type LndNodeConfig struct {
	Uri           string
	CertBytes     []byte
	MacaroonBytes []byte

	// SocksProxy is an optional host:port of a SOCKS5 proxy, used to
	// reach nodes behind Tor.
	SocksProxy string

	LspNodeID  string
	LspAddress string

	PaymentTimeout time.Duration
	FeeLimitSat    int64

	// Events stores node notifications until they are acknowledged. A
	// MemoryQueue is used when nil.
	Events EventQueue
	Logger Logger
}

// LndNode is a Node backed by a remote lnd instance reachable over gRPC.
type LndNode struct {
	uri            string
	tlsCredentials credentials.TransportCredentials
	macaroon       *macaroon.Macaroon
	socksProxy     string
	lspNodeID      string
	lspAddress     string
	paymentTimeout time.Duration
	feeLimitSat    int64
	events         EventQueue
	logger         Logger

	// backoff is the pause before a lost stream is opened again.
	backoff time.Duration

	conn   *grpc.ClientConn
	client lnrpc.LightningClient
	router routerrpc.RouterClient
	nodeID string

	// settleIndex is only touched by the invoice subscription goroutine.
	settleIndex uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLndNode(config *LndNodeConfig) (*LndNode, error) {
	certBytes := config.CertBytes
	if !bytes.Contains(certBytes, []byte("BEGIN CERTIFICATE")) {
		certBytes = append(append([]byte{}, beginCertificateBlock...), certBytes...)
		certBytes = append(certBytes, endCertificateBlock...)
	}

	cert := x509.NewCertPool()
	if ok := cert.AppendCertsFromPEM(certBytes); !ok {
		return nil, errors.New("could not parse tls cert")
	}

	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(config.MacaroonBytes); err != nil {
		return nil, errors.Errorf("could not parse macaroon: %v", err)
	}

	n := &LndNode{
		uri:            config.Uri,
		tlsCredentials: credentials.NewClientTLSFromCert(cert, ""),
		macaroon:       mac,
		socksProxy:     config.SocksProxy,
		lspNodeID:      config.LspNodeID,
		lspAddress:     config.LspAddress,
		paymentTimeout: config.PaymentTimeout,
		feeLimitSat:    config.FeeLimitSat,
		events:         config.Events,
		logger:         config.Logger,
		backoff:        defaultStreamBackoff,
	}

	if n.events == nil {
		n.events = NewMemoryQueue()
	}

	if n.logger == nil {
		n.logger = noopLogger{}
	}

	if n.paymentTimeout == 0 {
		n.paymentTimeout = 60 * time.Second
	}

	return n, nil
}

func (r *LndNode) Start() error {
	macCredential, err := macaroons.NewMacaroonCredential(r.macaroon)
	if err != nil {
		return errors.Errorf("Could not create macaroon credential: %v", err)
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(r.tlsCredentials),
		grpc.WithPerRPCCredentials(macCredential),
	}

	if r.socksProxy != "" {
		dialer, err := proxy.SOCKS5("tcp", r.socksProxy, nil, proxy.Direct)
		if err != nil {
			return errors.Errorf("Could not create socks dialer: %v", err)
		}

		opts = append(opts, grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
			if d, ok := dialer.(proxy.ContextDialer); ok {
				return d.DialContext(ctx, "tcp", addr)
			}

			return dialer.Dial("tcp", addr)
		}))
	}

	r.conn, err = grpc.Dial(r.uri, opts...)
	if err != nil {
		return errors.Errorf("Could not connect to lightning node: %v", err)
	}

	r.client = lnrpc.NewLightningClient(r.conn)
	r.router = routerrpc.NewRouterClient(r.conn)

	ctx, cancel := context.WithTimeout(context.Background(), infoTimeout)
	defer cancel()

	info, err := r.client.GetInfo(ctx, &lnrpc.GetInfoRequest{})
	if err != nil {
		_ = r.conn.Close()
		return errors.Errorf("Could not get node info: %v", err)
	}

	r.nodeID = info.IdentityPubkey
	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.logger.Infof("Connected to lnd node %v at %v", r.nodeID, r.uri)

	r.wg.Add(2)
	go r.runStream("invoices", r.subscribeInvoices)
	go r.runStream("channel events", r.subscribeChannelEvents)

	return nil
}

func (r *LndNode) Stop() error {
	if r.cancel != nil {
		r.cancel()
	}

	r.wg.Wait()

	if r.conn == nil {
		return nil
	}

	err := r.conn.Close()
	if err != nil {
		return errors.Errorf("Could not close connection: %v", err)
	}

	return nil
}

func (r *LndNode) NodeID() string {
	return r.nodeID
}

// runStream keeps a subscription alive until the node is stopped.
func (r *LndNode) runStream(name string, subscribe func(ctx context.Context) error) {
	defer r.wg.Done()

	for {
		err := subscribe(r.ctx)

		if r.ctx.Err() != nil {
			r.logger.Debugf("Stopped %v subscription", name)
			return
		}

		r.logger.Errorf("Lost %v subscription, reconnecting: %v", name, err)

		select {
		case <-r.ctx.Done():
			return
		case <-time.After(r.backoff):
		}
	}
}

func (r *LndNode) subscribeInvoices(ctx context.Context) error {
	stream, err := r.client.SubscribeInvoices(ctx, &lnrpc.InvoiceSubscription{
		SettleIndex: r.settleIndex,
	})
	if err != nil {
		return err
	}

	for {
		invoice, err := stream.Recv()
		if err != nil {
			return err
		}

		if invoice.State != lnrpc.Invoice_SETTLED || invoice.SettleIndex <= r.settleIndex {
			continue
		}

		r.settleIndex = invoice.SettleIndex

		hash, err := lntypes.MakeHash(invoice.RHash)
		if err != nil {
			r.logger.Warnf("Skipping settled invoice with invalid hash: %v", err)
			continue
		}

		r.push(&Event{
			Kind:        EventPaymentReceived,
			PaymentHash: hash,
			AmountMsat:  lnwire.MilliSatoshi(invoice.AmtPaidMsat),
		})
	}
}

func (r *LndNode) subscribeChannelEvents(ctx context.Context) error {
	stream, err := r.client.SubscribeChannelEvents(ctx, &lnrpc.ChannelEventSubscription{})
	if err != nil {
		return err
	}

	for {
		update, err := stream.Recv()
		if err != nil {
			return err
		}

		switch update.Type {
		case lnrpc.ChannelEventUpdate_OPEN_CHANNEL:
			channel := update.GetOpenChannel()
			r.push(&Event{
				Kind:               EventChannelReady,
				ChannelID:          channel.GetChanId(),
				CounterpartyNodeID: channel.GetRemotePubkey(),
			})
		case lnrpc.ChannelEventUpdate_CLOSED_CHANNEL:
			summary := update.GetClosedChannel()
			r.push(&Event{
				Kind:               EventChannelClosed,
				ChannelID:          summary.GetChanId(),
				CounterpartyNodeID: summary.GetRemotePubkey(),
			})
		}
	}
}

func (r *LndNode) push(event *Event) {
	if err := r.events.Push(event); err != nil {
		r.logger.Errorf("Could not queue %v event: %v", event.Kind, err)
	}
}

func (r *LndNode) CreateInvoice(ctx context.Context, amount lnwire.MilliSatoshi, description string, expiry time.Duration) (*Invoice, error) {
	return r.addInvoice(ctx, amount, description, expiry, false)
}

// CreateJitInvoice connects to the liquidity provider and issues a private
// invoice, leaving the channel negotiation to the provider.
func (r *LndNode) CreateJitInvoice(ctx context.Context, amount lnwire.MilliSatoshi, description string, expiry time.Duration, maxLspFee *lnwire.MilliSatoshi) (*Invoice, error) {
	if err := r.connectLsp(ctx); err != nil {
		return nil, err
	}

	if maxLspFee != nil {
		r.logger.Debugf("Ignoring max lsp fee of %v, lnd leaves fees to the provider", *maxLspFee)
	}

	return r.addInvoice(ctx, amount, description, expiry, true)
}

func (r *LndNode) connectLsp(ctx context.Context) error {
	if r.lspNodeID == "" {
		return errors.New("no liquidity provider configured")
	}

	_, err := r.client.ConnectPeer(ctx, &lnrpc.ConnectPeerRequest{
		Addr: &lnrpc.LightningAddress{
			Pubkey: r.lspNodeID,
			Host:   r.lspAddress,
		},
		Perm: true,
	})
	if err != nil && !strings.Contains(err.Error(), "already connected") {
		return errors.Errorf("Could not connect to liquidity provider: %v", err)
	}

	return nil
}

func (r *LndNode) addInvoice(ctx context.Context, amount lnwire.MilliSatoshi, description string, expiry time.Duration, jit bool) (*Invoice, error) {
	res, err := r.client.AddInvoice(ctx, &lnrpc.Invoice{
		Memo:      description,
		ValueMsat: int64(amount),
		Expiry:    int64(expiry.Seconds()),
		Private:   jit,
	})
	if err != nil {
		return nil, errors.Errorf("Could not add invoice: %v", err)
	}

	hash, err := lntypes.MakeHash(res.RHash)
	if err != nil {
		return nil, errors.Errorf("Invalid payment hash in invoice: %v", err)
	}

	return &Invoice{
		PaymentRequest: res.PaymentRequest,
		PaymentHash:    hash,
		AmountMsat:     amount,
		Description:    description,
		Expiry:         expiry,
		Jit:            jit,
	}, nil
}

// SendPayment starts the payment and returns after lnd reported its first
// update. The remaining updates are followed in the background until the
// payment settles or fails.
func (r *LndNode) SendPayment(ctx context.Context, paymentRequest string) (lntypes.Hash, error) {
	streamCtx, cancel := context.WithCancel(r.ctx)

	stream, err := r.router.SendPaymentV2(streamCtx, &routerrpc.SendPaymentRequest{
		PaymentRequest: paymentRequest,
		TimeoutSeconds: int32(r.paymentTimeout.Seconds()),
		FeeLimitSat:    r.feeLimitSat,
	})
	if err != nil {
		cancel()
		return lntypes.Hash{}, errors.Errorf("Could not send payment: %v", err)
	}

	first, err := stream.Recv()
	if err != nil {
		cancel()
		return lntypes.Hash{}, errors.Errorf("Could not send payment: %v", err)
	}

	hash, err := lntypes.MakeHashFromStr(first.PaymentHash)
	if err != nil {
		cancel()
		return lntypes.Hash{}, errors.Errorf("Invalid payment hash: %v", err)
	}

	r.wg.Add(1)
	go r.trackPayment(streamCtx, cancel, hash, stream, first)

	return hash, nil
}

// trackPayment follows a payment until it settles or fails. A lost stream is
// replaced through TrackPaymentV2, retried until lnd accepts it again.
func (r *LndNode) trackPayment(ctx context.Context, cancel context.CancelFunc, hash lntypes.Hash, stream routerrpc.Router_SendPaymentV2Client, update *lnrpc.Payment) {
	defer r.wg.Done()
	defer cancel()

	for {
		if update != nil {
			if event := paymentEvent(update); event != nil {
				r.push(event)
				return
			}
		}

		if stream != nil {
			var err error
			update, err = stream.Recv()
			if err == nil {
				continue
			}

			if ctx.Err() != nil {
				return
			}

			r.logger.Warnf("Lost payment stream of %v, tracking again: %v", hash, err)
			stream = nil
			update = nil
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.backoff):
		}

		tracked, err := r.router.TrackPaymentV2(ctx, &routerrpc.TrackPaymentRequest{
			PaymentHash: hash[:],
		})
		if err != nil {
			r.logger.Errorf("Could not track payment %v: %v", hash, err)
			continue
		}

		stream = tracked
	}
}

func paymentEvent(p *lnrpc.Payment) *Event {
	hash, err := lntypes.MakeHashFromStr(p.PaymentHash)
	if err != nil {
		return nil
	}

	switch p.Status {
	case lnrpc.Payment_SUCCEEDED:
		return &Event{
			Kind:        EventPaymentSuccessful,
			PaymentHash: hash,
			FeePaidMsat: lnwire.MilliSatoshi(p.FeeMsat),
			AmountMsat:  lnwire.MilliSatoshi(p.ValueMsat),
		}
	case lnrpc.Payment_FAILED:
		return &Event{
			Kind:        EventPaymentFailed,
			PaymentHash: hash,
			Reason:      failureReason(p.FailureReason),
		}
	default:
		return nil
	}
}

func failureReason(reason lnrpc.PaymentFailureReason) FailureReason {
	switch reason {
	case lnrpc.PaymentFailureReason_FAILURE_REASON_TIMEOUT:
		return FailurePaymentExpired
	case lnrpc.PaymentFailureReason_FAILURE_REASON_NO_ROUTE,
		lnrpc.PaymentFailureReason_FAILURE_REASON_INSUFFICIENT_BALANCE:
		return FailureRouteNotFound
	case lnrpc.PaymentFailureReason_FAILURE_REASON_INCORRECT_PAYMENT_DETAILS:
		return FailureRecipientRejected
	default:
		return FailureUnexpected
	}
}

func (r *LndNode) SendOnchain(ctx context.Context, address string, amount btcutil.Amount) (string, error) {
	res, err := r.client.SendCoins(ctx, &lnrpc.SendCoinsRequest{
		Addr:   address,
		Amount: int64(amount),
	})
	if err != nil {
		return "", errors.Errorf("Could not send coins: %v", err)
	}

	return res.Txid, nil
}

func (r *LndNode) Payment(ctx context.Context, id lntypes.Hash) (*Payment, error) {
	invoice, err := r.client.LookupInvoice(ctx, &lnrpc.PaymentHash{RHash: id[:]})
	if err == nil {
		return invoicePayment(invoice), nil
	}

	if status.Code(err) != codes.NotFound && !strings.Contains(err.Error(), "unable to locate invoice") {
		return nil, errors.Errorf("Could not look up invoice: %v", err)
	}

	res, err := r.client.ListPayments(ctx, &lnrpc.ListPaymentsRequest{
		IncludeIncomplete: true,
	})
	if err != nil {
		return nil, errors.Errorf("Could not list payments: %v", err)
	}

	for _, p := range res.Payments {
		if p.PaymentHash == id.String() {
			return outgoingPayment(p), nil
		}
	}

	return nil, nil
}

func (r *LndNode) ListPayments(ctx context.Context) ([]*Payment, error) {
	res, err := r.client.ListPayments(ctx, &lnrpc.ListPaymentsRequest{
		IncludeIncomplete: true,
	})
	if err != nil {
		return nil, errors.Errorf("Could not list payments: %v", err)
	}

	invoices, err := r.client.ListInvoices(ctx, &lnrpc.ListInvoiceRequest{
		NumMaxInvoices: maxListedInvoices,
	})
	if err != nil {
		return nil, errors.Errorf("Could not list invoices: %v", err)
	}

	payments := make([]*Payment, 0, len(res.Payments)+len(invoices.Invoices))

	for _, p := range res.Payments {
		if payment := outgoingPayment(p); payment != nil {
			payments = append(payments, payment)
		}
	}

	for _, invoice := range invoices.Invoices {
		if payment := invoicePayment(invoice); payment != nil {
			payments = append(payments, payment)
		}
	}

	return payments, nil
}

func outgoingPayment(p *lnrpc.Payment) *Payment {
	hash, err := lntypes.MakeHashFromStr(p.PaymentHash)
	if err != nil {
		return nil
	}

	payment := &Payment{
		ID:          hash,
		Kind:        KindBolt11,
		AmountMsat:  lnwire.MilliSatoshi(p.ValueMsat),
		FeePaidMsat: lnwire.MilliSatoshi(p.FeeMsat),
		Direction:   Outbound,
		Status:      PaymentPending,
		LastUpdate:  time.Unix(0, p.CreationTimeNs),
	}

	switch p.Status {
	case lnrpc.Payment_SUCCEEDED:
		payment.Status = PaymentSucceeded
	case lnrpc.Payment_FAILED:
		payment.Status = PaymentFailed
	}

	return payment
}

func invoicePayment(invoice *lnrpc.Invoice) *Payment {
	hash, err := lntypes.MakeHash(invoice.RHash)
	if err != nil {
		return nil
	}

	payment := &Payment{
		ID:         hash,
		Kind:       KindBolt11,
		AmountMsat: lnwire.MilliSatoshi(invoice.ValueMsat),
		Direction:  Inbound,
		Status:     PaymentPending,
		LastUpdate: time.Unix(invoice.CreationDate, 0),
	}

	if invoice.Private {
		payment.Kind = KindBolt11Jit
	}

	switch invoice.State {
	case lnrpc.Invoice_SETTLED:
		payment.Status = PaymentSucceeded
		payment.AmountMsat = lnwire.MilliSatoshi(invoice.AmtPaidMsat)
		payment.LastUpdate = time.Unix(invoice.SettleDate, 0)
	case lnrpc.Invoice_CANCELED:
		payment.Status = PaymentFailed
	}

	return payment
}

func (r *LndNode) ListChannels(ctx context.Context) ([]*Channel, error) {
	res, err := r.client.ListChannels(ctx, &lnrpc.ListChannelsRequest{})
	if err != nil {
		return nil, errors.Errorf("Could not list channels: %v", err)
	}

	channels := make([]*Channel, 0, len(res.Channels))
	for _, ch := range res.Channels {
		outbound := spendable(ch.LocalBalance, ch.GetLocalConstraints().GetChanReserveSat())
		inbound := spendable(ch.RemoteBalance, ch.GetRemoteConstraints().GetChanReserveSat())

		channels = append(channels, &Channel{
			ChannelID:            ch.ChanId,
			CounterpartyNodeID:   ch.RemotePubkey,
			IsUsable:             ch.Active,
			OutboundCapacityMsat: lnwire.NewMSatFromSatoshis(outbound),
			InboundCapacityMsat:  lnwire.NewMSatFromSatoshis(inbound),
		})
	}

	return channels, nil
}

// spendable is the balance above the channel reserve, never negative.
func spendable(balance int64, reserve uint64) btcutil.Amount {
	if balance <= 0 || uint64(balance) <= reserve {
		return 0
	}

	return btcutil.Amount(uint64(balance) - reserve)
}

func (r *LndNode) ListBalances(ctx context.Context) (*Balances, error) {
	wallet, err := r.client.WalletBalance(ctx, &lnrpc.WalletBalanceRequest{})
	if err != nil {
		return nil, errors.Errorf("Could not get wallet balance: %v", err)
	}

	channels, err := r.client.ChannelBalance(ctx, &lnrpc.ChannelBalanceRequest{})
	if err != nil {
		return nil, errors.Errorf("Could not get channel balance: %v", err)
	}

	reserve := uint64(wallet.ReservedBalanceAnchorChan)

	return &Balances{
		TotalOnchainSats:               uint64(wallet.TotalBalance),
		SpendableOnchainSats:           uint64(spendable(wallet.ConfirmedBalance, reserve)),
		TotalAnchorChannelsReserveSats: reserve,
		TotalLightningSats:             channels.GetLocalBalance().GetSat(),
	}, nil
}

func (r *LndNode) ListPeers(ctx context.Context) ([]*Peer, error) {
	res, err := r.client.ListPeers(ctx, &lnrpc.ListPeersRequest{})
	if err != nil {
		return nil, errors.Errorf("Could not list peers: %v", err)
	}

	// lnd only lists peers it is connected to
	peers := make([]*Peer, 0, len(res.Peers))
	for _, p := range res.Peers {
		peers = append(peers, &Peer{
			NodeID:      p.PubKey,
			Address:     p.Address,
			IsConnected: true,
		})
	}

	return peers, nil
}

func (r *LndNode) Status(ctx context.Context) (*Status, error) {
	info, err := r.client.GetInfo(ctx, &lnrpc.GetInfoRequest{})
	if err != nil {
		return nil, errors.Errorf("Could not get node info: %v", err)
	}

	s := &Status{
		BestBlockHeight: info.BlockHeight,
		BestBlockHash:   info.BlockHash,
	}

	if info.SyncedToChain {
		synced := time.Unix(info.BestHeaderTimestamp, 0)
		s.LatestWalletSync = &synced
		s.LatestOnchainWalletSync = &synced
	}

	return s, nil
}

func (r *LndNode) NextEvent(ctx context.Context) (*Event, error) {
	return r.events.Next(ctx)
}

func (r *LndNode) EventHandled(event *Event) error {
	return r.events.Ack(event.Seq)
}

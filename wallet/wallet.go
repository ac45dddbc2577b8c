package wallet

import (
	"context"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/the-lightning-land/payd/metrics"
	"github.com/the-lightning-land/payd/network"
	"github.com/the-lightning-land/payd/node"
)

// NodeBuilder creates the node the wallet drives for the resolved network.
type NodeBuilder func(net network.Network, services *network.Services) (node.Node, error)

type Config struct {
	Token     string
	BuildNode NodeBuilder
	Logger    Logger
	Metrics   *metrics.Metrics
}

// Wallet offers synchronous payments on top of a node that reports payment
// outcomes asynchronously.
type Wallet struct {
	network  network.Network
	params   *chaincfg.Params
	services *network.Services
	node     node.Node
	log      Logger
	metrics  *metrics.Metrics

	pending *pendingPayments

	clients      map[uint32]*EventClient
	clientMtx    sync.Mutex
	nextClientID uint32

	quit         chan struct{}
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// New resolves the network from the token, builds and starts the node and
// starts dispatching its events.
func New(config *Config) (*Wallet, error) {
	log := config.Logger
	if log == nil {
		log = noopLogger{}
	}

	net, err := network.FromToken(config.Token)
	if err != nil {
		return nil, wrapError(CodeInvalidAPIToken, err)
	}

	services, err := network.ServicesFor(net)
	if err != nil {
		return nil, wrapError(CodeNetworkNotSupported, err)
	}

	log.Infof("Building node for %v", net)

	n, err := config.BuildNode(net, services)
	if err != nil {
		return nil, wrapError(CodeFailedToBuildNode, err)
	}

	if err := n.Start(); err != nil {
		return nil, wrapError(CodeNodeError, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Wallet{
		network:  net,
		params:   net.Params(),
		services: services,
		node:     n,
		log:      log,
		metrics:  config.Metrics,
		pending:  newPendingPayments(config.Metrics),
		clients:  make(map[uint32]*EventClient),
		quit:     make(chan struct{}),
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.handleEvents(ctx)

	log.Infof("Started wallet with node %v", n.NodeID())

	return w, nil
}

func (w *Wallet) Network() network.Network {
	return w.network
}

func (w *Wallet) NodeID() string {
	return w.node.NodeID()
}

// Shutdown stops the event loop, fails all sends that are still waiting and
// stops the node. It is safe to call more than once.
func (w *Wallet) Shutdown() {
	w.shutdownOnce.Do(func() {
		w.log.Infof("Shutting down wallet")

		close(w.quit)
		w.cancel()
		w.wg.Wait()

		for _, result := range w.pending.takeAll() {
			deliver(result, outcome{err: ErrShuttingDown})
		}

		w.cancelClients()

		if err := w.node.Stop(); err != nil {
			w.log.Warnf("Could not properly stop node: %v", err)
		}
	})
}

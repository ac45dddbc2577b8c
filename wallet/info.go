package wallet

import (
	"context"
	"time"

	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/the-lightning-land/payd/node"
	"golang.org/x/sync/errgroup"
)

type Balance struct {
	TotalOnchainSats               uint64
	SpendableOnchainSats           uint64
	TotalAnchorChannelsReserveSats uint64
	TotalLightningSats             uint64

	// OutboundCapacitySats and InboundCapacitySats sum up the channel
	// capacities, rounded down to whole satoshis.
	OutboundCapacitySats uint64
	InboundCapacitySats  uint64
}

type Status struct {
	NodeID string

	// Connected is set while the liquidity provider is a connected peer.
	Connected      bool
	UsableChannels bool

	BestBlockHeight uint32
	BestBlockHash   string

	LatestWalletSync         *time.Time
	LatestOnchainWalletSync  *time.Time
	LatestFeeRateCacheUpdate *time.Time
	LatestRgsSnapshot        *time.Time
}

func (w *Wallet) ListPayments(ctx context.Context) ([]*node.Payment, error) {
	payments, err := w.node.ListPayments(ctx)
	if err != nil {
		return nil, wrapError(CodeNodeError, err)
	}

	return payments, nil
}

// Payment returns the node's record of a payment, or nil if it is unknown.
func (w *Wallet) Payment(ctx context.Context, hash lntypes.Hash) (*node.Payment, error) {
	payment, err := w.node.Payment(ctx, hash)
	if err != nil {
		return nil, wrapError(CodeNodeError, err)
	}

	return payment, nil
}

func (w *Wallet) Balance(ctx context.Context) (*Balance, error) {
	var (
		balances *node.Balances
		channels []*node.Channel
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		balances, err = w.node.ListBalances(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		channels, err = w.node.ListChannels(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, wrapError(CodeNodeError, err)
	}

	b := &Balance{
		TotalOnchainSats:               balances.TotalOnchainSats,
		SpendableOnchainSats:           balances.SpendableOnchainSats,
		TotalAnchorChannelsReserveSats: balances.TotalAnchorChannelsReserveSats,
		TotalLightningSats:             balances.TotalLightningSats,
	}

	for _, ch := range channels {
		b.OutboundCapacitySats += uint64(ch.OutboundCapacityMsat / 1000)
		b.InboundCapacitySats += uint64(ch.InboundCapacityMsat / 1000)
	}

	return b, nil
}

func (w *Wallet) Status(ctx context.Context) (*Status, error) {
	var (
		status   *node.Status
		peers    []*node.Peer
		channels []*node.Channel
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		status, err = w.node.Status(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		peers, err = w.node.ListPeers(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		channels, err = w.node.ListChannels(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, wrapError(CodeNodeError, err)
	}

	s := &Status{
		NodeID:                   w.node.NodeID(),
		BestBlockHeight:          status.BestBlockHeight,
		BestBlockHash:            status.BestBlockHash,
		LatestWalletSync:         status.LatestWalletSync,
		LatestOnchainWalletSync:  status.LatestOnchainWalletSync,
		LatestFeeRateCacheUpdate: status.LatestFeeRateCacheUpdate,
		LatestRgsSnapshot:        status.LatestRgsSnapshot,
	}

	for _, p := range peers {
		if p.NodeID == w.services.LspNodeID && p.IsConnected {
			s.Connected = true
		}
	}

	for _, ch := range channels {
		if ch.IsUsable {
			s.UsableChannels = true
		}
	}

	return s, nil
}

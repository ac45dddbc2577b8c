package api

import (
	"net/http"
	"time"
)

type getStatusResponse struct {
	NodeId                   string     `json:"node_id"`
	Connected                bool       `json:"connected"`
	UsableChannels           bool       `json:"usable_channels"`
	BestBlockHeight          uint32     `json:"best_block_height"`
	BestBlockHash            string     `json:"best_block_hash"`
	LatestWalletSync         *time.Time `json:"latest_wallet_sync,omitempty"`
	LatestOnchainWalletSync  *time.Time `json:"latest_onchain_wallet_sync,omitempty"`
	LatestFeeRateCacheUpdate *time.Time `json:"latest_fee_rate_cache_update,omitempty"`
	LatestRgsSnapshot        *time.Time `json:"latest_rgs_snapshot,omitempty"`
}

func (a *Api) handleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.wallet.Status(r.Context())
		if err != nil {
			a.walletError(w, err)
			return
		}

		a.jsonResponse(w, &getStatusResponse{
			NodeId:                   s.NodeID,
			Connected:                s.Connected,
			UsableChannels:           s.UsableChannels,
			BestBlockHeight:          s.BestBlockHeight,
			BestBlockHash:            s.BestBlockHash,
			LatestWalletSync:         s.LatestWalletSync,
			LatestOnchainWalletSync:  s.LatestOnchainWalletSync,
			LatestFeeRateCacheUpdate: s.LatestFeeRateCacheUpdate,
			LatestRgsSnapshot:        s.LatestRgsSnapshot,
		}, http.StatusOK)
	}
}

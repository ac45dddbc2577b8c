package api

import (
	"math/big"
	"net/http"

	"github.com/shopspring/decimal"
)

type getBalanceResponse struct {
	TotalOnchainSats               uint64          `json:"total_onchain_sats"`
	SpendableOnchainSats           uint64          `json:"spendable_onchain_sats"`
	TotalAnchorChannelsReserveSats uint64          `json:"total_anchor_channels_reserve_sats"`
	TotalLightningSats             uint64          `json:"total_lightning_sats"`
	OutboundCapacitySats           uint64          `json:"outbound_capacity_sats"`
	InboundCapacitySats            uint64          `json:"inbound_capacity_sats"`
	TotalBtc                       decimal.Decimal `json:"total_btc"`
}

// btc converts satoshis to bitcoin without losing precision.
func btc(sats uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(sats), -8)
}

func (a *Api) handleGetBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := a.wallet.Balance(r.Context())
		if err != nil {
			a.walletError(w, err)
			return
		}

		a.jsonResponse(w, &getBalanceResponse{
			TotalOnchainSats:               b.TotalOnchainSats,
			SpendableOnchainSats:           b.SpendableOnchainSats,
			TotalAnchorChannelsReserveSats: b.TotalAnchorChannelsReserveSats,
			TotalLightningSats:             b.TotalLightningSats,
			OutboundCapacitySats:           b.OutboundCapacitySats,
			InboundCapacitySats:            b.InboundCapacitySats,
			TotalBtc:                       btc(b.TotalOnchainSats).Add(btc(b.TotalLightningSats)),
		}, http.StatusOK)
	}
}

package api

import (
	"net/http"
)

type postOnchainRequest struct {
	Address    string `json:"address"`
	AmountSats uint64 `json:"amount_sats"`
}

type postOnchainResponse struct {
	Txid string `json:"txid"`
}

func (a *Api) handlePostOnchain() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := postOnchainRequest{}
		err := decodeRequest(r, &req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		txid, err := a.wallet.SendOnchain(r.Context(), req.Address, req.AmountSats)
		if err != nil {
			a.walletError(w, err)
			return
		}

		a.jsonResponse(w, &postOnchainResponse{Txid: txid}, http.StatusOK)
	}
}

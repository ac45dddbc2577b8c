package api

import (
	"net/http"
)

type postInvoiceRequest struct {
	AmountSats  uint64 `json:"amount_sats"`
	Description string `json:"description"`
}

type invoiceResponse struct {
	Invoice     string `json:"invoice"`
	PaymentHash string `json:"payment_hash"`
	AmountMsat  uint64 `json:"amount_msat"`
	Jit         bool   `json:"jit"`
}

type getInvoicePaidResponse struct {
	Paid bool `json:"paid"`
}

func (a *Api) handlePostInvoice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := postInvoiceRequest{}
		err := decodeRequest(r, &req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		invoice, err := a.wallet.Receive(r.Context(), req.AmountSats, req.Description)
		if err != nil {
			a.walletError(w, err)
			return
		}

		a.jsonResponse(w, &invoiceResponse{
			Invoice:     invoice.PaymentRequest,
			PaymentHash: invoice.PaymentHash.String(),
			AmountMsat:  uint64(invoice.AmountMsat),
			Jit:         invoice.Jit,
		}, http.StatusCreated)
	}
}

func (a *Api) handleGetInvoicePaid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paid, err := a.wallet.InvoicePaid(r.Context(), r.URL.Query().Get("invoice"))
		if err != nil {
			a.walletError(w, err)
			return
		}

		a.jsonResponse(w, &getInvoicePaidResponse{Paid: paid}, http.StatusOK)
	}
}

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/the-lightning-land/payd/node"
	"github.com/the-lightning-land/payd/wallet"
)

type postPaymentRequest struct {
	Invoice string `json:"invoice"`
}

type postPaymentResponse struct {
	FeePaidMsat uint64 `json:"fee_paid_msat"`
}

type paymentResponse struct {
	Id          string    `json:"id"`
	Kind        string    `json:"kind"`
	Direction   string    `json:"direction"`
	Status      string    `json:"status"`
	AmountMsat  uint64    `json:"amount_msat"`
	FeePaidMsat uint64    `json:"fee_paid_msat"`
	LastUpdate  time.Time `json:"last_update"`
}

func newPaymentResponse(p *node.Payment) *paymentResponse {
	return &paymentResponse{
		Id:          p.ID.String(),
		Kind:        p.Kind.String(),
		Direction:   p.Direction.String(),
		Status:      p.Status.String(),
		AmountMsat:  uint64(p.AmountMsat),
		FeePaidMsat: uint64(p.FeePaidMsat),
		LastUpdate:  p.LastUpdate,
	}
}

func (a *Api) handlePostPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := postPaymentRequest{}
		err := decodeRequest(r, &req)
		if err != nil {
			a.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		fee, err := a.wallet.Send(r.Context(), req.Invoice)
		if err != nil {
			a.walletError(w, err)
			return
		}

		a.jsonResponse(w, &postPaymentResponse{
			FeePaidMsat: uint64(fee),
		}, http.StatusOK)
	}
}

func (a *Api) handleGetPayments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payments, err := a.wallet.ListPayments(r.Context())
		if err != nil {
			a.walletError(w, err)
			return
		}

		res := make([]*paymentResponse, 0, len(payments))
		for _, p := range payments {
			res = append(res, newPaymentResponse(p))
		}

		a.jsonResponse(w, res, http.StatusOK)
	}
}

func (a *Api) handleGetPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash, err := wallet.ParsePaymentHash(mux.Vars(r)["hash"])
		if err != nil {
			a.walletError(w, err)
			return
		}

		payment, err := a.wallet.Payment(r.Context(), hash)
		if err != nil {
			a.walletError(w, err)
			return
		}

		if payment == nil {
			a.jsonError(w, "No payment with hash "+hash.String(), http.StatusNotFound)
			return
		}

		a.jsonResponse(w, newPaymentResponse(payment), http.StatusOK)
	}
}

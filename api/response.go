package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/payd/wallet"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (a *Api) jsonResponse(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		a.log.Errorf("Could not respond with JSON: %v", err)
	}
}

func (a *Api) jsonError(w http.ResponseWriter, msg string, code int) {
	a.jsonResponse(w, &errorResponse{Error: msg}, code)
}

// walletError responds with the status matching the code of a wallet error.
func (a *Api) walletError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		a.log.Debugf("Request ended before the wallet answered: %v", err)
		a.jsonError(w, err.Error(), http.StatusGatewayTimeout)
		return
	}

	code, ok := wallet.CodeOf(err)
	if !ok {
		a.log.Errorf("Unexpected error: %v", err)
		a.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	a.jsonResponse(w, &errorResponse{
		Error: err.Error(),
		Code:  code.String(),
	}, statusOf(code))
}

func statusOf(code wallet.ErrorCode) int {
	switch code {
	case wallet.CodeInvalidAPIToken,
		wallet.CodeNetworkNotSupported,
		wallet.CodeInvalidBolt11Invoice,
		wallet.CodeInvalidBitcoinAddress,
		wallet.CodeInvalidOfferID,
		wallet.CodeInvalidPaymentID,
		wallet.CodeInvalidPaymentHash,
		wallet.CodeInvalidPaymentPreimage,
		wallet.CodeInvalidPaymentSecret,
		wallet.CodeInvalidAmount:
		return http.StatusBadRequest
	case wallet.CodePaymentInFlight:
		return http.StatusConflict
	case wallet.CodeRecipientRejected,
		wallet.CodeRetriesExhausted,
		wallet.CodePaymentExpired,
		wallet.CodeRouteNotFound,
		wallet.CodeUnexpected:
		return http.StatusPaymentRequired
	case wallet.CodeShuttingDown:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func decodeRequest(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

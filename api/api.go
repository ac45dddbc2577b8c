package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/the-lightning-land/payd/node"
	"github.com/the-lightning-land/payd/wallet"
)

// Wallet is the part of *wallet.Wallet served by the api.
type Wallet interface {
	Send(ctx context.Context, invoice string) (lnwire.MilliSatoshi, error)
	Receive(ctx context.Context, amountSats uint64, description string) (*node.Invoice, error)
	InvoicePaid(ctx context.Context, invoice string) (bool, error)
	SendOnchain(ctx context.Context, address string, amountSats uint64) (string, error)
	ListPayments(ctx context.Context) ([]*node.Payment, error)
	Payment(ctx context.Context, hash lntypes.Hash) (*node.Payment, error)
	Balance(ctx context.Context) (*wallet.Balance, error)
	Status(ctx context.Context) (*wallet.Status, error)
	SubscribeEvents() *wallet.EventClient
}

// check Wallet compliance to its interface during compile time
var _ Wallet = (*wallet.Wallet)(nil)

type Config struct {
	Wallet Wallet
	Log    Logger

	// Gatherer is served at /metrics when set.
	Gatherer prometheus.Gatherer
}

type Api struct {
	wallet Wallet
	router *mux.Router
	server *http.Server
	log    Logger
}

func New(config *Config) *Api {
	api := &Api{
		wallet: config.Wallet,
		router: mux.NewRouter(),
	}

	if config.Log != nil {
		api.log = config.Log
	} else {
		api.log = noopLogger{}
	}

	api.router.Use(api.loggingMiddleware)

	v1 := api.router.PathPrefix("/api/v1").Subrouter()

	v1.Handle("/payments", api.handlePostPayment()).Methods(http.MethodPost)
	v1.Handle("/payments", api.handleGetPayments()).Methods(http.MethodGet)
	v1.Handle("/payments/{hash}", api.handleGetPayment()).Methods(http.MethodGet)

	v1.Handle("/invoices", api.handlePostInvoice()).Methods(http.MethodPost)
	v1.Handle("/invoices/paid", api.handleGetInvoicePaid()).Methods(http.MethodGet)

	v1.Handle("/onchain", api.handlePostOnchain()).Methods(http.MethodPost)

	v1.Handle("/balance", api.handleGetBalance()).Methods(http.MethodGet)
	v1.Handle("/status", api.handleGetStatus()).Methods(http.MethodGet)
	v1.Handle("/events", api.handleGetEvents()).Methods(http.MethodGet)

	if config.Gatherer != nil {
		api.router.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}

	api.server = &http.Server{
		Handler:           api.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return api
}

func (a *Api) Handler() http.Handler {
	return a.router
}

func (a *Api) Serve(l net.Listener) error {
	err := a.server.Serve(l)
	if err != nil && err != http.ErrServerClosed {
		return errors.Errorf("Unable to serve api: %v", err)
	}

	return nil
}

// Shutdown stops all listeners and waits for running requests until ctx is
// done.
func (a *Api) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func (a *Api) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		next.ServeHTTP(w, r)

		a.log.Debugf("%v %v %v took %v", id, r.Method, r.URL.Path, time.Since(start))
	})
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/the-lightning-land/payd/metrics"
	"github.com/the-lightning-land/payd/network"
	"github.com/the-lightning-land/payd/node"
	"github.com/the-lightning-land/payd/wallet"
)

type testServer struct {
	*httptest.Server
	api  *Api
	node *node.MockNode
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	n, err := node.NewMockNode(&node.MockNodeConfig{Params: &chaincfg.SigNetParams})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()

	w, err := wallet.New(&wallet.Config{
		Token: "Stoken",
		BuildNode: func(network.Network, *network.Services) (node.Node, error) {
			return n, nil
		},
		Metrics: metrics.New(reg),
	})
	require.NoError(t, err)

	api := New(&Config{Wallet: w, Gatherer: reg})
	srv := httptest.NewServer(api.Handler())

	t.Cleanup(func() {
		srv.Close()
		w.Shutdown()
	})

	return &testServer{Server: srv, api: api, node: n}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, s.URL+path, &payload)
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}

	return res
}

func newPayeeInvoice(t *testing.T) *node.Invoice {
	t.Helper()

	payee, err := node.NewMockNode(&node.MockNodeConfig{Params: &chaincfg.SigNetParams})
	require.NoError(t, err)

	invoice, err := payee.CreateInvoice(context.Background(), 10_000, "payee", time.Hour)
	require.NoError(t, err)

	return invoice
}

func TestPostPayment(t *testing.T) {
	s := newTestServer(t)

	go func() {
		hash := <-s.node.Submitted()
		assert.NoError(t, s.node.Settle(hash, 1500))
	}()

	res := postPaymentResponse{}
	r := s.do(t, http.MethodPost, "/api/v1/payments", &postPaymentRequest{
		Invoice: newPayeeInvoice(t).PaymentRequest,
	}, &res)

	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
	assert.Equal(t, uint64(1500), res.FeePaidMsat)
}

func TestPostPaymentErrors(t *testing.T) {
	s := newTestServer(t)

	res := errorResponse{}
	r := s.do(t, http.MethodPost, "/api/v1/payments", &postPaymentRequest{Invoice: "nope"}, &res)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Equal(t, "invalid_bolt11_invoice", res.Code)

	go func() {
		hash := <-s.node.Submitted()
		assert.NoError(t, s.node.Fail(hash, node.FailureRouteNotFound))
	}()

	res = errorResponse{}
	r = s.do(t, http.MethodPost, "/api/v1/payments", &postPaymentRequest{
		Invoice: newPayeeInvoice(t).PaymentRequest,
	}, &res)
	assert.Equal(t, http.StatusPaymentRequired, r.StatusCode)
	assert.Equal(t, "route_not_found", res.Code)
}

func TestInvoices(t *testing.T) {
	s := newTestServer(t)

	invoice := invoiceResponse{}
	r := s.do(t, http.MethodPost, "/api/v1/invoices", &postInvoiceRequest{
		AmountSats:  100_000,
		Description: "socks",
	}, &invoice)
	require.Equal(t, http.StatusCreated, r.StatusCode)
	assert.True(t, invoice.Jit)
	assert.Equal(t, uint64(100_000_000), invoice.AmountMsat)

	paid := getInvoicePaidResponse{}
	s.do(t, http.MethodGet, "/api/v1/invoices/paid?invoice="+url.QueryEscape(invoice.Invoice), nil, &paid)
	assert.False(t, paid.Paid)

	hash, err := wallet.ParsePaymentHash(invoice.PaymentHash)
	require.NoError(t, err)
	require.NoError(t, s.node.MarkReceived(hash, 100_000_000))

	s.do(t, http.MethodGet, "/api/v1/invoices/paid?invoice="+url.QueryEscape(invoice.Invoice), nil, &paid)
	assert.True(t, paid.Paid)

	payment := paymentResponse{}
	r = s.do(t, http.MethodGet, "/api/v1/payments/"+invoice.PaymentHash, nil, &payment)
	require.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "inbound", payment.Direction)
	assert.Equal(t, "bolt11_jit", payment.Kind)

	var payments []*paymentResponse
	s.do(t, http.MethodGet, "/api/v1/payments", nil, &payments)
	assert.Len(t, payments, 1)

	r = s.do(t, http.MethodGet, "/api/v1/payments/"+strings.Repeat("00", 32), nil, nil)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)

	r = s.do(t, http.MethodGet, "/api/v1/payments/xyz", nil, nil)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)

	res := errorResponse{}
	r = s.do(t, http.MethodPost, "/api/v1/invoices", &postInvoiceRequest{}, &res)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Equal(t, "invalid_amount", res.Code)
}

func TestOnchain(t *testing.T) {
	s := newTestServer(t)

	res := errorResponse{}
	r := s.do(t, http.MethodPost, "/api/v1/onchain", &postOnchainRequest{
		Address:    "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
		AmountSats: 1_000,
	}, &res)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Equal(t, "invalid_bitcoin_address", res.Code)
}

func TestBalanceAndStatus(t *testing.T) {
	s := newTestServer(t)

	s.node.SetOnchainBalance(150_000_000, 150_000_000)
	s.node.SetChannels(&node.Channel{
		ChannelID:            1,
		IsUsable:             true,
		OutboundCapacityMsat: 50_000_000_000,
		InboundCapacityMsat:  1_000_000,
	})

	balance := getBalanceResponse{}
	r := s.do(t, http.MethodGet, "/api/v1/balance", nil, &balance)
	require.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, uint64(50_000_000), balance.OutboundCapacitySats)
	assert.Equal(t, uint64(1_000), balance.InboundCapacitySats)
	assert.Equal(t, "2", balance.TotalBtc.String())

	status := getStatusResponse{}
	r = s.do(t, http.MethodGet, "/api/v1/status", nil, &status)
	require.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, s.node.NodeID(), status.NodeId)
	assert.True(t, status.UsableChannels)
	assert.False(t, status.Connected)
}

func TestEventsWebsocket(t *testing.T) {
	s := newTestServer(t)

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http")+"/api/v1/events", nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, s.node.PushEvent(&node.Event{
		Kind:      node.EventChannelReady,
		ChannelID: 77,
	}))

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))

	msg := eventMessage{}
	require.NoError(t, c.ReadJSON(&msg))
	assert.Equal(t, "channel_ready", msg.Kind)
	assert.Equal(t, uint64(77), msg.ChannelId)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)

	r := s.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, r.StatusCode)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusOf(wallet.CodePaymentInFlight))
	assert.Equal(t, http.StatusBadGateway, statusOf(wallet.CodeNodeError))
	assert.Equal(t, http.StatusPaymentRequired, statusOf(wallet.CodeUnexpected))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(wallet.CodeShuttingDown))
}

func TestWalletErrorOnContextEnd(t *testing.T) {
	a := New(&Config{})

	for _, err := range []error{
		context.Canceled,
		context.DeadlineExceeded,
		fmt.Errorf("send: %w", context.Canceled),
	} {
		rec := httptest.NewRecorder()
		a.walletError(rec, err)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)

		res := errorResponse{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.Empty(t, res.Code)
	}

	rec := httptest.NewRecorder()
	a.walletError(rec, wallet.ErrShuttingDown)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPostPaymentClientGone(t *testing.T) {
	s := newTestServer(t)

	body, err := json.Marshal(&postPaymentRequest{Invoice: newPayeeInvoice(t).PaymentRequest})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", bytes.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()

	go func() {
		<-s.node.Submitted()
		cancel()
	}()

	s.api.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

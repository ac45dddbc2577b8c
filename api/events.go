package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/the-lightning-land/payd/node"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

type eventMessage struct {
	Kind               string `json:"kind"`
	PaymentHash        string `json:"payment_hash,omitempty"`
	FeePaidMsat        uint64 `json:"fee_paid_msat,omitempty"`
	AmountMsat         uint64 `json:"amount_msat,omitempty"`
	Reason             string `json:"reason,omitempty"`
	ChannelId          uint64 `json:"channel_id,omitempty"`
	CounterpartyNodeId string `json:"counterparty_node_id,omitempty"`
}

func newEventMessage(e *node.Event) *eventMessage {
	msg := &eventMessage{
		Kind:               e.Kind.String(),
		FeePaidMsat:        uint64(e.FeePaidMsat),
		AmountMsat:         uint64(e.AmountMsat),
		ChannelId:          e.ChannelID,
		CounterpartyNodeId: e.CounterpartyNodeID,
	}

	switch e.Kind {
	case node.EventPaymentSuccessful, node.EventPaymentReceived:
		msg.PaymentHash = e.PaymentHash.String()
	case node.EventPaymentFailed:
		msg.PaymentHash = e.PaymentHash.String()
		msg.Reason = e.Reason.String()
	}

	return msg
}

// handleGetEvents streams every node event to a websocket client.
func (a *Api) handleGetEvents() http.HandlerFunc {
	upgrader := &websocket.Upgrader{}

	return func(w http.ResponseWriter, r *http.Request) {
		// subscribe before the handshake completes so no event is missed
		// by a client that starts acting right after connecting
		client := a.wallet.SubscribeEvents()
		defer client.Cancel()

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			a.log.Errorf("Could not upgrade connection: %v", err)
			return
		}

		closed := make(chan struct{})

		// read pump
		go func() {
			defer close(closed)

			c.SetReadLimit(512)
			_ = c.SetReadDeadline(time.Now().Add(pongWait))
			c.SetPongHandler(func(string) error {
				return c.SetReadDeadline(time.Now().Add(pongWait))
			})

			for {
				_, _, err := c.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						a.log.Errorf("Unexpected websocket closure: %v", err)
					}
					return
				}
			}
		}()

		// write pump
		defer c.Close()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case event := <-client.Events:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteJSON(newEventMessage(event)); err != nil {
					return
				}
			case <-client.Done():
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			case <-closed:
				return
			case <-ticker.C:
				_ = c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

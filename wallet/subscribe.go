package wallet

import (
	"sync"

	"github.com/the-lightning-land/payd/node"
)

const clientBuffer = 32

// EventClient receives every node event after the wallet handled it. Events
// are dropped for clients that do not keep up.
type EventClient struct {
	Events     chan *node.Event
	Id         uint32
	cancelChan chan struct{}
	cancelOnce sync.Once
	wallet     *Wallet
}

func (w *Wallet) SubscribeEvents() *EventClient {
	client := &EventClient{
		Events:     make(chan *node.Event, clientBuffer),
		cancelChan: make(chan struct{}),
		wallet:     w,
	}

	w.clientMtx.Lock()
	client.Id = w.nextClientID
	w.nextClientID++
	w.clients[client.Id] = client
	w.clientMtx.Unlock()

	return client
}

// Done is closed when the client is cancelled or the wallet shuts down.
func (c *EventClient) Done() <-chan struct{} {
	return c.cancelChan
}

func (c *EventClient) Cancel() {
	c.wallet.clientMtx.Lock()
	delete(c.wallet.clients, c.Id)
	c.wallet.clientMtx.Unlock()

	c.cancelOnce.Do(func() {
		close(c.cancelChan)
	})
}

func (w *Wallet) notifyClients(event *node.Event) {
	w.clientMtx.Lock()
	defer w.clientMtx.Unlock()

	for _, client := range w.clients {
		select {
		case client.Events <- event:
		default:
			w.log.Warnf("Dropping %v event for slow client %v", event.Kind, client.Id)
		}
	}
}

func (w *Wallet) cancelClients() {
	w.clientMtx.Lock()
	clients := make([]*EventClient, 0, len(w.clients))
	for _, client := range w.clients {
		clients = append(clients, client)
	}
	w.clientMtx.Unlock()

	for _, client := range clients {
		client.Cancel()
	}
}

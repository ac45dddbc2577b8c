package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/the-lightning-land/payd/network"
	"github.com/the-lightning-land/payd/node"
	"github.com/the-lightning-land/payd/node/mocks"
	"go.uber.org/mock/gomock"
)

// panicLogger panics on debug output, which the dispatch loop writes for
// every event it handles.
type panicLogger struct {
	noopLogger
}

func (panicLogger) Debugf(format string, args ...interface{}) {
	panic("debug output")
}

func idle(ctx context.Context) (*node.Event, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDispatchRetriesAfterStreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNode(ctrl)

	event := &node.Event{Seq: 1, Kind: node.EventPaymentSuccessful, PaymentHash: lntypes.Hash{9}}
	handled := make(chan struct{})

	n.EXPECT().Start().Return(nil)
	n.EXPECT().Stop().Return(nil)
	n.EXPECT().NodeID().Return("02abcdef").AnyTimes()

	gomock.InOrder(
		n.EXPECT().NextEvent(gomock.Any()).Return(nil, errors.New("stream reset")),
		n.EXPECT().NextEvent(gomock.Any()).Return(event, nil),
		n.EXPECT().NextEvent(gomock.Any()).DoAndReturn(idle).AnyTimes(),
	)

	n.EXPECT().EventHandled(event).DoAndReturn(func(*node.Event) error {
		close(handled)
		return nil
	})

	w, err := New(&Config{
		Token: testToken,
		BuildNode: func(network.Network, *network.Services) (node.Node, error) {
			return n, nil
		},
	})
	require.NoError(t, err)
	defer w.Shutdown()

	select {
	case <-handled:
	case <-time.After(3 * time.Second):
		t.Fatal("event after stream error was not handled")
	}
}

func TestDispatchRecoversAndAcknowledges(t *testing.T) {
	n, err := node.NewMockNode(&node.MockNodeConfig{})
	require.NoError(t, err)

	w, err := New(&Config{
		Token:  testToken,
		Logger: panicLogger{},
		BuildNode: func(network.Network, *network.Services) (node.Node, error) {
			return n, nil
		},
	})
	require.NoError(t, err)
	defer w.Shutdown()

	require.NoError(t, n.PushEvent(&node.Event{Kind: node.EventChannelReady}))
	require.NoError(t, n.PushEvent(&node.Event{Kind: node.EventChannelClosed}))

	require.Eventually(t, func() bool {
		return n.Events().Len() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDispatchDropsOrphanedOutcomes(t *testing.T) {
	w, n := newTestWallet(t, &node.MockNodeConfig{})

	require.NoError(t, n.Settle(lntypes.Hash{7}, 100))
	require.NoError(t, n.Fail(lntypes.Hash{8}, node.FailureRouteNotFound))

	requireQueueDrained(t, n)
	assert.Equal(t, 0, w.pending.len())
}

func TestSubscribeEvents(t *testing.T) {
	w, n := newTestWallet(t, &node.MockNodeConfig{})

	client := w.SubscribeEvents()
	other := w.SubscribeEvents()
	assert.NotEqual(t, client.Id, other.Id)
	other.Cancel()

	require.NoError(t, n.PushEvent(&node.Event{Kind: node.EventChannelReady, ChannelID: 42}))

	select {
	case event := <-client.Events:
		assert.Equal(t, node.EventChannelReady, event.Kind)
		assert.Equal(t, uint64(42), event.ChannelID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not fanned out")
	}

	select {
	case <-other.Events:
		t.Fatal("cancelled client received an event")
	default:
	}

	w.Shutdown()

	select {
	case <-client.Done():
	case <-time.After(time.Second):
		t.Fatal("client was not cancelled on shutdown")
	}
}

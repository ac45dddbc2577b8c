package paydb

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/payd/node"
	"go.etcd.io/bbolt"
)

// check EventQueue compliance to its interface during compile time
var _ node.EventQueue = (*EventQueue)(nil)

// EventQueue keeps node events on disk until they are acknowledged, so
// outcomes that were not handled before a restart are handed out again.
type EventQueue struct {
	db     *DB
	signal chan struct{}
	log    Logger
}

func (db *DB) EventQueue(logger Logger) *EventQueue {
	q := &EventQueue{
		db:     db,
		signal: make(chan struct{}, 1),
		log:    logger,
	}

	if q.log == nil {
		q.log = noopLogger{}
	}

	return q
}

func (q *EventQueue) Push(event *node.Event) error {
	err := q.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(eventsBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		event.Seq = seq

		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		return b.Put(itob(seq), payload)
	})
	if err != nil {
		return errors.Errorf("Could not store event: %v", err)
	}

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return nil
}

func (q *EventQueue) Next(ctx context.Context) (*node.Event, error) {
	for {
		event, err := q.head()
		if err != nil {
			return nil, err
		}

		if event != nil {
			return event, nil
		}

		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// head returns the oldest event. Records that cannot be decoded are moved to
// the rejected bucket so the events behind them are still delivered.
func (q *EventQueue) head() (*node.Event, error) {
	for {
		var (
			event     *node.Event
			bad       []byte
			decodeErr error
		)

		err := q.db.View(func(tx *bbolt.Tx) error {
			k, v := tx.Bucket(eventsBucket).Cursor().First()
			if k == nil {
				return nil
			}

			e := &node.Event{}
			if err := json.Unmarshal(v, e); err != nil {
				bad = append([]byte{}, k...)
				decodeErr = err
				return nil
			}

			e.Seq = btoi(k)
			event = e

			return nil
		})
		if err != nil {
			return nil, errors.Errorf("Could not read events: %v", err)
		}

		if bad == nil {
			return event, nil
		}

		q.log.Errorf("Rejecting undecodable event %v: %v", btoi(bad), decodeErr)

		if err := q.reject(bad); err != nil {
			return nil, errors.Errorf("Could not reject event %v: %v", btoi(bad), err)
		}
	}
}

func (q *EventQueue) reject(key []byte) error {
	return q.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(eventsBucket)

		v := b.Get(key)
		if v == nil {
			return nil
		}

		err := tx.Bucket(rejectedEventsBucket).Put(key, append([]byte{}, v...))
		if err != nil {
			return err
		}

		return b.Delete(key)
	})
}

func (q *EventQueue) Ack(seq uint64) error {
	return q.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(eventsBucket)

		k, _ := b.Cursor().First()
		if k == nil || btoi(k) != seq {
			return node.ErrUnknownEvent
		}

		return b.Delete(k)
	})
}

// Len returns the number of unacknowledged events.
func (q *EventQueue) Len() (int, error) {
	n := 0

	err := q.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(eventsBucket).Stats().KeyN
		return nil
	})

	return n, err
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

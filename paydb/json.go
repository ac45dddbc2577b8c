package paydb

import (
	"bytes"
	"encoding/json"

	"github.com/go-errors/errors"
	"go.etcd.io/bbolt"
)

func (db *DB) setJSON(bucket []byte, key []byte, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}

		return b.Put(key, payload)
	})
}

// getJSON decodes the value stored at key into v and reports whether a value
// was found.
func (db *DB) getJSON(bucket []byte, key []byte, v interface{}) (bool, error) {
	found := false

	err := db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}

		payload := b.Get(key)
		if payload == nil || bytes.Equal(payload, []byte("null")) {
			return nil
		}

		if err := json.Unmarshal(payload, v); err != nil {
			return errors.Errorf("Could not unmarshal data: %v", err)
		}

		found = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

package paydb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-errors/errors"
	"go.etcd.io/bbolt"
)

const (
	dbFilePermission = 0600
	dbFileName       = "payd.db"
)

var (
	settingsBucket = []byte("settings")
	eventsBucket   = []byte("events")

	// rejectedEventsBucket keeps stored events that could not be decoded.
	rejectedEventsBucket = []byte("rejected_events")
)

// DB is the persistent store of the daemon.
type DB struct {
	*bbolt.DB
}

// Open opens or creates the database inside dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Errorf("Could not create data dir: %v", err)
	}

	path := filepath.Join(dir, dbFileName)

	bdb, err := bbolt.Open(path, dbFilePermission, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Errorf("Could not open database %v: %v", path, err)
	}

	err = bdb.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{settingsBucket, eventsBucket, rejectedEventsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, errors.Errorf("Could not create buckets: %v", err)
	}

	return &DB{DB: bdb}, nil
}

package paydb

import (
	"github.com/go-errors/errors"
)

var onionPrivateKeyKey = []byte("onionPrivateKey")

// GetOnionPrivateKey returns the stored key of the onion service, or nil if
// none was stored yet.
func (db *DB) GetOnionPrivateKey() ([]byte, error) {
	var key []byte

	found, err := db.getJSON(settingsBucket, onionPrivateKeyKey, &key)
	if err != nil {
		return nil, errors.Errorf("Could not get onion private key: %v", err)
	}

	if !found {
		return nil, nil
	}

	return key, nil
}

func (db *DB) SetOnionPrivateKey(key []byte) error {
	if err := db.setJSON(settingsBucket, onionPrivateKeyKey, key); err != nil {
		return errors.Errorf("Could not set onion private key: %v", err)
	}

	return nil
}

package onion

import (
	"crypto/rand"

	"github.com/cretz/bine/torutil"
	"github.com/cretz/bine/torutil/ed25519"
	"github.com/go-errors/errors"
)

// GeneratePrivateKey creates the key of a v3 onion service.
func GeneratePrivateKey() (ed25519.PrivateKey, error) {
	keyPair, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Errorf("Could not generate onion key: %v", err)
	}

	return keyPair.PrivateKey(), nil
}

// ParsePrivateKey checks a stored v3 onion service key.
func ParsePrivateKey(b []byte) (ed25519.PrivateKey, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("onion key must be %d bytes, got %d", ed25519.PrivateKeySize, len(b))
	}

	return ed25519.PrivateKey(b), nil
}

// ServiceID returns the onion address of the key without the .onion suffix.
func ServiceID(key ed25519.PrivateKey) string {
	return torutil.OnionServiceIDFromV3PublicKey(key.PublicKey())
}

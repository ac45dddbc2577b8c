package wallet

import (
	"encoding/hex"

	"github.com/go-errors/errors"
	"github.com/lightningnetwork/lnd/lntypes"
)

func ParsePaymentHash(s string) (lntypes.Hash, error) {
	hash, err := lntypes.MakeHashFromStr(s)
	if err != nil {
		return lntypes.Hash{}, wrapError(CodeInvalidPaymentHash, err)
	}

	return hash, nil
}

func ParsePaymentPreimage(s string) (lntypes.Preimage, error) {
	preimage, err := lntypes.MakePreimageFromStr(s)
	if err != nil {
		return lntypes.Preimage{}, wrapError(CodeInvalidPaymentPreimage, err)
	}

	return preimage, nil
}

func ParsePaymentSecret(s string) ([32]byte, error) {
	return parseID(s, CodeInvalidPaymentSecret)
}

func ParsePaymentID(s string) ([32]byte, error) {
	return parseID(s, CodeInvalidPaymentID)
}

func ParseOfferID(s string) ([32]byte, error) {
	return parseID(s, CodeInvalidOfferID)
}

// parseID decodes a 32 byte identifier from 64 hex characters.
func parseID(s string, code ErrorCode) ([32]byte, error) {
	var id [32]byte

	if len(s) != hex.EncodedLen(len(id)) {
		return id, wrapError(code, errors.Errorf("expected %d hex characters, got %d", hex.EncodedLen(len(id)), len(s)))
	}

	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, wrapError(code, err)
	}

	return id, nil
}

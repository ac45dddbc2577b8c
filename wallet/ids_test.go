package wallet

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/the-lightning-land/payd/node"
)

func TestParsePaymentHash(t *testing.T) {
	s := strings.Repeat("ab", 32)

	hash, err := ParsePaymentHash(s)
	require.NoError(t, err)
	assert.Equal(t, s, hash.String())

	_, err = ParsePaymentHash("abc")
	assert.ErrorIs(t, err, ErrInvalidPaymentHash)
}

func TestParsePaymentPreimage(t *testing.T) {
	preimage, err := ParsePaymentPreimage(strings.Repeat("01", 32))
	require.NoError(t, err)
	assert.Equal(t, byte(1), preimage[31])

	_, err = ParsePaymentPreimage(strings.Repeat("zz", 32))
	assert.ErrorIs(t, err, ErrInvalidPaymentPreimage)
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) ([32]byte, error)
		err   error
	}{
		{name: "secret", parse: ParsePaymentSecret, err: ErrInvalidPaymentSecret},
		{name: "payment id", parse: ParsePaymentID, err: ErrInvalidPaymentID},
		{name: "offer id", parse: ParseOfferID, err: ErrInvalidOfferID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := tt.parse(strings.Repeat("ff", 32))
			require.NoError(t, err)
			assert.Equal(t, byte(0xff), id[0])

			_, err = tt.parse(strings.Repeat("ff", 31))
			assert.ErrorIs(t, err, tt.err)

			_, err = tt.parse(strings.Repeat("gg", 32))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPreimageMatchesIssuedHash(t *testing.T) {
	w, n := newTestWallet(t, &node.MockNodeConfig{})

	invoice, err := w.Receive(context.Background(), 500, "preimage")
	require.NoError(t, err)

	preimage, ok := n.Preimage(invoice.PaymentHash)
	require.True(t, ok)

	parsed, err := ParsePaymentPreimage(preimage.String())
	require.NoError(t, err)
	assert.True(t, parsed.Matches(invoice.PaymentHash))
}

package wallet

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/the-lightning-land/payd/node"
)

type ErrorCode int

const (
	CodeInvalidAPIToken ErrorCode = iota + 1
	CodeNetworkNotSupported
	CodeInvalidBolt11Invoice
	CodeInvalidBitcoinAddress
	CodeInvalidOfferID
	CodeInvalidPaymentID
	CodeInvalidPaymentHash
	CodeInvalidPaymentPreimage
	CodeInvalidPaymentSecret
	CodeInvalidAmount
	CodeFailedToBuildNode
	CodeNodeError
	CodeRecipientRejected
	CodeRetriesExhausted
	CodePaymentExpired
	CodeRouteNotFound
	CodeUnexpected
	CodePaymentInFlight
	CodeShuttingDown
)

var codeNames = map[ErrorCode]string{
	CodeInvalidAPIToken:        "invalid_api_token",
	CodeNetworkNotSupported:    "network_not_supported",
	CodeInvalidBolt11Invoice:   "invalid_bolt11_invoice",
	CodeInvalidBitcoinAddress:  "invalid_bitcoin_address",
	CodeInvalidOfferID:         "invalid_offer_id",
	CodeInvalidPaymentID:       "invalid_payment_id",
	CodeInvalidPaymentHash:     "invalid_payment_hash",
	CodeInvalidPaymentPreimage: "invalid_payment_preimage",
	CodeInvalidPaymentSecret:   "invalid_payment_secret",
	CodeInvalidAmount:          "invalid_amount",
	CodeFailedToBuildNode:      "failed_to_build_node",
	CodeNodeError:              "node_error",
	CodeRecipientRejected:      "recipient_rejected",
	CodeRetriesExhausted:       "retries_exhausted",
	CodePaymentExpired:         "payment_expired",
	CodeRouteNotFound:          "route_not_found",
	CodeUnexpected:             "unexpected",
	CodePaymentInFlight:        "payment_in_flight",
	CodeShuttingDown:           "shutting_down",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("code_%d", int(c))
}

// Error is the error type returned by all wallet operations. Two errors are
// considered equal by errors.Is when their codes match.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}

	return fmt.Sprintf("%v: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidAPIToken        = &Error{Code: CodeInvalidAPIToken}
	ErrNetworkNotSupported    = &Error{Code: CodeNetworkNotSupported}
	ErrInvalidBolt11Invoice   = &Error{Code: CodeInvalidBolt11Invoice}
	ErrInvalidBitcoinAddress  = &Error{Code: CodeInvalidBitcoinAddress}
	ErrInvalidOfferID         = &Error{Code: CodeInvalidOfferID}
	ErrInvalidPaymentID       = &Error{Code: CodeInvalidPaymentID}
	ErrInvalidPaymentHash     = &Error{Code: CodeInvalidPaymentHash}
	ErrInvalidPaymentPreimage = &Error{Code: CodeInvalidPaymentPreimage}
	ErrInvalidPaymentSecret   = &Error{Code: CodeInvalidPaymentSecret}
	ErrInvalidAmount          = &Error{Code: CodeInvalidAmount}
	ErrFailedToBuildNode      = &Error{Code: CodeFailedToBuildNode}
	ErrNodeError              = &Error{Code: CodeNodeError}
	ErrRecipientRejected      = &Error{Code: CodeRecipientRejected}
	ErrRetriesExhausted       = &Error{Code: CodeRetriesExhausted}
	ErrPaymentExpired         = &Error{Code: CodePaymentExpired}
	ErrRouteNotFound          = &Error{Code: CodeRouteNotFound}
	ErrUnexpected             = &Error{Code: CodeUnexpected}
	ErrPaymentInFlight        = &Error{Code: CodePaymentInFlight}
	ErrShuttingDown           = &Error{Code: CodeShuttingDown}
)

func wrapError(code ErrorCode, err error) error {
	return &Error{Code: code, Err: err}
}

// CodeOf returns the code of the wallet error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}

	return 0, false
}

// failureError maps the reason a node gave up on a payment to the error
// returned by Send. A sender abandoning a payment is reported as unexpected.
func failureError(reason node.FailureReason) error {
	switch reason {
	case node.FailureRecipientRejected:
		return ErrRecipientRejected
	case node.FailureRetriesExhausted:
		return ErrRetriesExhausted
	case node.FailurePaymentExpired:
		return ErrPaymentExpired
	case node.FailureRouteNotFound:
		return ErrRouteNotFound
	default:
		return ErrUnexpected
	}
}

package types

import "errors"

// WalletLinkError is the error type returned by every package in the module.
type WalletLinkError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Err     error       `json:"-"`
}

func (e *WalletLinkError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *WalletLinkError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrMalformedInput      = "MALFORMED_INPUT"
	ErrValidationFailed    = "VALIDATION_FAILED"
	ErrMissingNetworkID    = "MISSING_NETWORK_ID"
	ErrNetworkNotFound     = "NETWORK_NOT_FOUND"
	ErrRecipientResolution = "RECIPIENT_RESOLUTION_FAILED"
	ErrCyclicProtocolTable = "CYCLIC_PROTOCOL_TABLE"
	ErrAlreadyInitialized  = "ALREADY_INITIALIZED"
	ErrConfigError         = "CONFIG_ERROR"
	ErrSubmissionFailed    = "SUBMISSION_FAILED"
)

// IsCode reports whether err, or anything it wraps, is a WalletLinkError
// with the given code.
func IsCode(err error, code string) bool {
	var wle *WalletLinkError
	if errors.As(err, &wle) {
		return wle.Code == code
	}
	return false
}

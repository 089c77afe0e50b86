package ivxv

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameters = errors.New("invalid ElGamal parameters")
	ErrMessageTooLong    = errors.New("message does not fit into a group element")
	ErrBadPadding        = errors.New("invalid plaintext padding")
	ErrNotEncoding       = errors.New("value is not a message encoding")
	ErrCiphertextFormat  = errors.New("malformed ciphertext")
	ErrKeyParse          = errors.New("malformed public key")
	ErrBallotBoxFormat   = errors.New("malformed ballot box")
)

// KeyParseError is returned when a public key file cannot be parsed.
type KeyParseError struct {
	Reason string
	Err    error
}

func (e *KeyParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key: %s: %v", e.Reason, e.Err)
	}
	return "key: " + e.Reason
}

func (e *KeyParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrKeyParse}
	}
	return []error{ErrKeyParse, e.Err}
}

// BallotBoxFormatError is returned for structurally invalid ballot boxes and
// for ballots that are not valid ciphertexts. Path locates the offending
// record when known.
type BallotBoxFormatError struct {
	Path string
	Err  error
}

func (e *BallotBoxFormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("ballotbox: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("ballotbox: %v", e.Err)
}

func (e *BallotBoxFormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBallotBoxFormat}
	}
	return []error{ErrBallotBoxFormat, e.Err}
}

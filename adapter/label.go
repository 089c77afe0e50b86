package adapter

import (
	"errors"
	"math/big"
	"unicode/utf8"

	"github.com/takakv/msc-mixadapter/ivxv"
)

var errInvalidUTF8 = errors.New("invalid UTF-8")

// EncodeLabel encodes text as an element of the storage-side group.
func EncodeLabel(params *ivxv.ElGamalParameters, text string) (*big.Int, error) {
	return encodeLabel(params, Election, "", text)
}

// DecodeLabel recovers the text encoded in e.
func DecodeLabel(params *ivxv.ElGamalParameters, e *big.Int) (string, error) {
	return decodeLabel(params, Election, "", e)
}

func encodeLabel(params *ivxv.ElGamalParameters, slot Slot, path, text string) (*big.Int, error) {
	if !utf8.ValidString(text) {
		return nil, &MalformedLabelError{Slot: slot, Path: path, Err: errInvalidUTF8}
	}
	if capacity := params.MaxMessageLen(); len(text) > capacity {
		return nil, &LabelTooLongError{Slot: slot, Path: path, Len: len(text), Capacity: capacity}
	}
	e, err := params.EncodeMessage([]byte(text))
	if err != nil {
		return nil, &MalformedLabelError{Slot: slot, Path: path, Err: err}
	}
	return e, nil
}

func decodeLabel(params *ivxv.ElGamalParameters, slot Slot, path string, e *big.Int) (string, error) {
	b, err := params.DecodeMessage(e)
	if err != nil {
		return "", &MalformedLabelError{Slot: slot, Path: path, Err: err}
	}
	if !utf8.Valid(b) {
		return "", &MalformedLabelError{Slot: slot, Path: path, Err: errInvalidUTF8}
	}
	return string(b), nil
}
